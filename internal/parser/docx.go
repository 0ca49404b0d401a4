package parser

import (
	"fmt"
	"io"
	"os"
)

// SDTParser handles .docx files whose headings are paragraphs with numeric
// style codes nested in structured document tags (w:sdt/w:sdtContent).
type SDTParser struct{}

// Parse extracts the heading records and the text dump of one document.
func (p *SDTParser) Parse(r io.Reader, filename string) (*Extraction, error) {
	var ext *Extraction
	err := withTempCopy(r, func(f *os.File, size int64) error {
		res, err := scanContainer(f, size)
		if err != nil {
			return err
		}
		ext = &Extraction{
			Headings:  res.headings(),
			OtherText: res.otherText(),
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	return ext, nil
}
