package pipeline

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// docxWithHeadings builds a .docx whose structured region holds one paragraph
// per (style, text) pair.
func docxWithHeadings(t *testing.T, pairs ...[2]string) []byte {
	t.Helper()
	var body bytes.Buffer
	body.WriteString(`<w:sdt><w:sdtContent>`)
	for _, p := range pairs {
		body.WriteString(`<w:p><w:pPr><w:pStyle w:val="` + p[0] + `"/></w:pPr><w:r><w:t>` + p[1] + `</w:t></w:r></w:p>`)
	}
	body.WriteString(`</w:sdtContent></w:sdt>`)

	doc := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body.String() + `</w:body></w:document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	fw, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write([]byte(doc)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func writeFile(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		t.Fatal(err)
	}
}
