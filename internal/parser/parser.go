package parser

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docoutline/internal/outline"
)

var (
	// ErrUnsupportedFormat is returned for files that are not .docx containers.
	ErrUnsupportedFormat = errors.New("unsupported file extension")
	// ErrDocumentPartMissing is returned when the container has no main document part.
	ErrDocumentPartMissing = errors.New("word/document.xml not found in archive")
)

// Mode selects how heading paragraphs are recognised.
type Mode string

const (
	// ModeNumeric reads numeric style codes on paragraphs inside structured
	// document tags. The tens digit of the code is the heading level.
	ModeNumeric Mode = "numeric"
	// ModeNamed reads the built-in Heading1..Heading3 paragraph styles.
	ModeNamed Mode = "named"
)

// ParseMode validates a configured mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(s)) {
	case ModeNumeric:
		return ModeNumeric, nil
	case ModeNamed:
		return ModeNamed, nil
	default:
		return "", fmt.Errorf("unknown style mode: %q", s)
	}
}

// Extraction is what a parser pulls out of one document.
type Extraction struct {
	Headings  []outline.Heading
	OtherText string
}

// Parser converts raw document bytes into heading records and a plain text dump.
type Parser interface {
	Parse(r io.Reader, filename string) (*Extraction, error)
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, mode Mode) (Parser, error) {
	if !IsSupportedExtension(filename) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(filename))
	}
	switch mode {
	case ModeNamed:
		return &NamedParser{}, nil
	case ModeNumeric, "":
		return &SDTParser{}, nil
	default:
		return nil, fmt.Errorf("unknown style mode: %q", mode)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".docx")
}
