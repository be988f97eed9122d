// Package filename derives download names for conversion results.
package filename

import (
	"fmt"
	"strings"
)

const ellipsis = "..."

// BaseName strips the last ".ext" from name. A name without a dot, or whose
// base would be empty (".bashrc"), is returned whole.
func BaseName(name string) string {
	i := strings.LastIndex(name, ".")
	if i <= 0 {
		return name
	}
	return name[:i]
}

func extension(name string) string {
	i := strings.LastIndex(name, ".")
	if i == -1 {
		return ""
	}
	return name[i:]
}

// DeriveName builds "{base}_{width}x{height}.{format}".
func DeriveName(name string, width, height int, format string) string {
	return fmt.Sprintf("%s_%dx%d.%s", BaseName(name), width, height, format)
}

// DeriveAudioName builds "{base}.{format}". Audio output carries no dimensions.
func DeriveAudioName(name, format string) string {
	return fmt.Sprintf("%s.%s", BaseName(name), format)
}

// Truncate shortens name for display, keeping its extension and marking the
// cut with "...". It never changes the name a result is downloaded under.
func Truncate(name string, maxLength int) string {
	runes := []rune(name)
	if len(runes) <= maxLength {
		return name
	}

	ext := []rune(extension(name))
	base := runes[:len(runes)-len(ext)]

	keep := maxLength - len(ext) - len(ellipsis)
	if keep < 0 {
		keep = 0
	}
	if keep > len(base) {
		keep = len(base)
	}

	return string(base[:keep]) + ellipsis + string(ext)
}
