package parser

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dgallion1/docoutline/internal/outline"
)

// wordNS is the WordprocessingML main namespace.
const wordNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// paragraph is one w:p element as seen by the scanner.
type paragraph struct {
	style      string
	hasStyle   bool
	hasRun     bool    // a w:t was seen in the paragraph subtree
	text       *string // first w:t's characters; nil when it had none
	structured bool    // inside a w:sdtContent region
	inBody     bool
}

type scanResult struct {
	paragraphs []*paragraph
}

// scanDocument walks document.xml once and records every paragraph in
// document order.
func scanDocument(r io.Reader) (*scanResult, error) {
	dec := xml.NewDecoder(r)

	var (
		res        scanResult
		elements   []string     // open w: element names
		open       []*paragraph // open paragraphs, innermost last
		sdtContent int
		body       int
		inText     bool
		textBuf    strings.Builder
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", documentPart, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := ""
			if t.Name.Space == wordNS {
				name = t.Name.Local
			}
			switch name {
			case "body":
				body++
			case "sdtContent":
				sdtContent++
			case "p":
				p := &paragraph{structured: sdtContent > 0, inBody: body > 0}
				res.paragraphs = append(res.paragraphs, p)
				open = append(open, p)
			case "pStyle":
				// Only the paragraph's own properties count.
				n := len(elements)
				if n >= 2 && elements[n-1] == "pPr" && elements[n-2] == "p" && len(open) > 0 {
					p := open[len(open)-1]
					if !p.hasStyle {
						p.style = attrValue(t, "val")
						p.hasStyle = true
					}
				}
			case "t":
				inText = true
				textBuf.Reset()
			}
			elements = append(elements, name)

		case xml.CharData:
			if inText {
				textBuf.Write(t)
			}

		case xml.EndElement:
			if len(elements) > 0 {
				elements = elements[:len(elements)-1]
			}
			if t.Name.Space != wordNS {
				continue
			}
			switch t.Name.Local {
			case "body":
				body--
			case "sdtContent":
				sdtContent--
			case "p":
				if len(open) > 0 {
					open = open[:len(open)-1]
				}
			case "t":
				if !inText {
					continue
				}
				inText = false
				text := textBuf.String()
				for _, p := range open {
					if p.hasRun {
						continue
					}
					p.hasRun = true
					if text != "" {
						s := text
						p.text = &s
					}
				}
			}
		}
	}

	return &res, nil
}

func attrValue(se xml.StartElement, local string) string {
	for _, a := range se.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// numericLevel maps a numeric style code to a heading level: the code's tens
// digit, when it is 1, 2 or 3. Anything else returns 0.
func numericLevel(style string) int {
	if style == "" {
		return 0
	}
	for i := 0; i < len(style); i++ {
		if style[i] < '0' || style[i] > '9' {
			return 0
		}
	}
	n, err := strconv.Atoi(style)
	if err != nil {
		return 0
	}
	level := n / 10
	if level < 1 || level > outline.MaxDepth {
		return 0
	}
	return level
}

// headings returns the heading records of structured paragraphs.
func (s *scanResult) headings() []outline.Heading {
	var out []outline.Heading
	for _, p := range s.paragraphs {
		if !p.structured || !p.hasStyle {
			continue
		}
		level := numericLevel(p.style)
		if level == 0 {
			continue
		}
		out = append(out, outline.Heading{Level: level, Text: p.text, Blank: p.hasRun && p.text == nil})
	}
	return out
}

// otherText joins the first text run of every body paragraph, one per line.
func (s *scanResult) otherText() string {
	var sb strings.Builder
	for _, p := range s.paragraphs {
		if !p.inBody || !p.hasRun {
			continue
		}
		if p.text != nil {
			sb.WriteString(*p.text)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
