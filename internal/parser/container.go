package parser

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
)

const documentPart = "word/document.xml"

// withTempCopy spools r to an ephemeral file and hands it to fn. The
// file is removed on every return path.
func withTempCopy(r io.Reader, fn func(f *os.File, size int64) error) error {
	tmp, err := os.CreateTemp("", "docoutline-*.docx")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)
	defer tmp.Close()

	size, err := io.Copy(tmp, r)
	if err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("seek temp file: %w", err)
	}
	return fn(tmp, size)
}

// openDocumentPart locates the main document stream inside the container.
func openDocumentPart(zr *zip.Reader) (io.ReadCloser, error) {
	for _, f := range zr.File {
		if f.Name == documentPart {
			rc, err := f.Open()
			if err != nil {
				return nil, fmt.Errorf("open %s: %w", documentPart, err)
			}
			return rc, nil
		}
	}
	return nil, ErrDocumentPartMissing
}

// scanContainer opens the zip at f and scans its main document part.
func scanContainer(f io.ReaderAt, size int64) (*scanResult, error) {
	zr, err := zip.NewReader(f, size)
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	rc, err := openDocumentPart(zr)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return scanDocument(rc)
}
