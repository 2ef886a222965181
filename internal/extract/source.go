package extract

import (
	"io"
	"os"
	"path/filepath"
)

// Source is one CSV export file presented as a seekable stream plus a
// display label. The label is resolved once at construction and used for
// transaction labeling; it never changes afterwards.
//
// A Source is shared by every traversal an extractor makes (detection,
// row counting, fingerprinting, extraction), each of which rewinds it to
// the start before reading. Traversals must therefore not be interleaved
// from multiple goroutines; one extractor instance per stream, used
// sequentially.
type Source struct {
	r     io.ReadSeeker
	label string
}

// NewSource wraps an already-open seekable stream. If label is empty and
// the stream reports its own name (as *os.File does), that name is used;
// otherwise the label stays empty and callers get unlabeled transactions.
func NewSource(r io.ReadSeeker, label string) *Source {
	if label == "" {
		if named, ok := r.(interface{ Name() string }); ok {
			label = named.Name()
		}
	}
	return &Source{r: r, label: label}
}

// OpenPath opens the file at path for reading. The source label is the
// file's base name.
func OpenPath(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Source{r: f, label: filepath.Base(path)}, nil
}

// Label returns the display name of this source.
func (s *Source) Label() string { return s.label }

// Read implements io.Reader so a Source can feed a csv.Reader directly.
func (s *Source) Read(p []byte) (int, error) { return s.r.Read(p) }

// Rewind seeks back to the start of the stream. Each parsing pass calls
// this before reading; seek failures are infrastructure errors and are
// returned unmodified.
func (s *Source) Rewind() error {
	_, err := s.r.Seek(0, io.SeekStart)
	return err
}

// Close closes the underlying stream when it is closable (a Source built
// from OpenPath always is). Closing a plain in-memory stream is a no-op.
func (s *Source) Close() error {
	if c, ok := s.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
