package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Buffer aggregates output lines in traversal order. No sorting or
// deduplication is ever applied.
type Buffer struct {
	sb strings.Builder
}

// Header marks a subject boundary.
func (b *Buffer) Header(name string) {
	fmt.Fprintf(&b.sb, "\n\n=== Subject: %s ===\n\n", name)
}

// Line emits one label/url pair.
func (b *Buffer) Line(label, url string) {
	fmt.Fprintf(&b.sb, "%s: %s\n", label, url)
}

func (b *Buffer) Empty() bool {
	return b.sb.Len() == 0
}

func (b *Buffer) String() string {
	return b.sb.String()
}

// WriteFile persists the buffer verbatim as UTF-8 text under dir,
// overwriting any prior file of the same name. Callers are expected to
// check Empty first and report ErrNoContent instead of writing.
func WriteFile(dir, name string, buf *Buffer) (string, error) {
	path := filepath.Join(dir, name)
	err := os.WriteFile(path, []byte(buf.String()), 0644)
	if err != nil {
		return "", fmt.Errorf("write output file: %w", err)
	}
	return path, nil
}
