package codegen

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zip"
)

// archiveTime is stamped on every zip entry so identical packages produce
// identical archives.
var archiveTime = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// Entry is one named file of a package.
type Entry struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// Package is the ordered set of files making up a generated server.
type Package struct {
	// Name is the slug used for the archive and the Go module path.
	Name    string  `json:"name"`
	Target  string  `json:"target"`
	Entries []Entry `json:"entries"`
}

// Entry returns the entry with the given filename.
func (p *Package) Entry(filename string) (Entry, bool) {
	for _, e := range p.Entries {
		if e.Filename == filename {
			return e, true
		}
	}
	return Entry{}, false
}

// ArchiveName is the suggested file name for the zip archive.
func (p *Package) ArchiveName() string {
	return p.Name + ".zip"
}

// WriteZip writes the entries as a deflated zip archive. The output is
// byte-identical for identical packages.
func (p *Package) WriteZip(w io.Writer) error {
	zw := zip.NewWriter(w)
	for _, e := range p.Entries {
		hdr := &zip.FileHeader{
			Name:     e.Filename,
			Method:   zip.Deflate,
			Modified: archiveTime,
		}
		hdr.SetMode(0o644)
		f, err := zw.CreateHeader(hdr)
		if err != nil {
			return fmt.Errorf("failed to add %s to archive: %w", e.Filename, err)
		}
		if _, err := io.WriteString(f, e.Content); err != nil {
			return fmt.Errorf("failed to write %s to archive: %w", e.Filename, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish archive: %w", err)
	}
	return nil
}

// Zip returns the archive bytes.
func (p *Package) Zip() ([]byte, error) {
	var buf bytes.Buffer
	if err := p.WriteZip(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteDir writes every entry into dir, creating it if needed.
func (p *Package) WriteDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	for _, e := range p.Entries {
		path := filepath.Join(dir, e.Filename)
		if err := os.WriteFile(path, []byte(e.Content), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	return nil
}
