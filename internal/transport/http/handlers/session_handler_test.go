package handlers

import "testing"

func TestDeclaredType(t *testing.T) {
	tests := []struct {
		contentType string
		name        string
		want        string
	}{
		{"image/png", "x.bin", "image/png"},
		{"image/jpeg; charset=binary", "x.jpg", "image/jpeg"},
		{"application/octet-stream", "song.MP3", "audio/mpeg"},
		{"", "photo.png", "image/png"},
		{"", "clip.flac", "audio/flac"},
		{"text/plain", "notes.png", "text/plain"},
	}

	for _, tt := range tests {
		if got := declaredType(tt.contentType, tt.name); got != tt.want {
			t.Fatalf("declaredType(%q, %q) = %q, want %q", tt.contentType, tt.name, got, tt.want)
		}
	}
}
