package reqmeta_test

import (
	"context"
	"testing"

	"github.com/Stefan-Allen/fileconverter/pkg/reqmeta"
)

func TestContextRoundTrip(t *testing.T) {
	method := "POST"
	rm := reqmeta.NewRequestMetadata("req-1", reqmeta.WithHTTPMetadata(reqmeta.HTTPMetadata{Method: &method}))

	ctx := reqmeta.NewContext(context.Background(), rm)

	got, ok := reqmeta.FromContext(ctx)
	if !ok {
		t.Fatalf("expected metadata in context")
	}
	if got.RequestID != "req-1" || got.Method == nil || *got.Method != "POST" {
		t.Fatalf("unexpected metadata %+v", got)
	}
	if reqmeta.Logger(ctx) == nil {
		t.Fatalf("expected logger")
	}
}

func TestFromContext_Missing(t *testing.T) {
	if _, ok := reqmeta.FromContext(context.Background()); ok {
		t.Fatalf("expected no metadata")
	}
}
