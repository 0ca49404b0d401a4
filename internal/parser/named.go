package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/fumiama/go-docx"
)

// NamedParser handles .docx files that mark headings with the built-in
// "Heading1".."Heading3" paragraph styles on top-level body paragraphs.
type NamedParser struct{}

// Parse extracts the heading records and the text dump of one document.
func (p *NamedParser) Parse(r io.Reader, filename string) (*Extraction, error) {
	var ext *Extraction
	err := withTempCopy(r, func(f *os.File, size int64) error {
		doc, err := docx.Parse(f, size)
		if err != nil {
			return fmt.Errorf("parse docx: %w", err)
		}

		var headings []outline.Heading
		for _, item := range doc.Document.Body.Items {
			para, ok := item.(*docx.Paragraph)
			if !ok {
				continue
			}
			level := namedHeadingLevel(paragraphStyle(para))
			if level == 0 {
				continue
			}
			headings = append(headings, headingFor(level, para))
		}

		// go-docx does not expose structured document tags, so the text
		// dump comes from the raw scan.
		res, err := scanContainer(f, size)
		if err != nil {
			return err
		}
		ext = &Extraction{Headings: headings, OtherText: res.otherText()}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	return ext, nil
}

func paragraphStyle(para *docx.Paragraph) string {
	if para.Properties == nil || para.Properties.Style == nil {
		return ""
	}
	return para.Properties.Style.Val
}

// namedHeadingLevel accepts "Heading1" and "heading 1" spellings for levels 1-3.
func namedHeadingLevel(style string) int {
	s := strings.ToLower(strings.ReplaceAll(style, " ", ""))
	if !strings.HasPrefix(s, "heading") {
		return 0
	}
	rest := s[len("heading"):]
	if len(rest) != 1 || rest[0] < '1' || rest[0] > '0'+outline.MaxDepth {
		return 0
	}
	return int(rest[0] - '0')
}

// headingFor takes the first text of the first run carrying one. An empty
// text element gives a blank heading.
func headingFor(level int, para *docx.Paragraph) outline.Heading {
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				if t.Text == "" {
					return outline.NewBlankHeading(level)
				}
				return outline.NewHeading(level, t.Text)
			}
		}
	}
	return outline.Heading{Level: level}
}
