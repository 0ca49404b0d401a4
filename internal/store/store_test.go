package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgallion1/docoutline/internal/doctree"
	"gopkg.in/yaml.v3"
)

func strPtr(s string) *string { return &s }

func sampleRecord() doctree.Record {
	return doctree.Record{
		PotentiallyDamage: true,
		TableOfContent: []doctree.Entry{
			{Num: "1", Text: strPtr("Введение"), SubElements: []doctree.Entry{
				{Num: "1.1", Text: strPtr("A & B")},
			}},
			{Num: "2", Text: nil},
		},
		OtherText: "Введение\nA & B\n",
	}
}

func TestWriter_PathFor(t *testing.T) {
	w := NewWriter("/out", FormatJSON)
	if got := w.PathFor("/in/report.docx"); got != filepath.Join("/out", "report.json") {
		t.Errorf("expected /out/report.json, got %s", got)
	}
	w = NewWriter("/out", FormatYAML)
	if got := w.PathFor("My.Report.DOCX"); got != filepath.Join("/out", "My.Report.yaml") {
		t.Errorf("expected /out/My.Report.yaml, got %s", got)
	}
}

func TestWriter_WriteJSON(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out_json")
	w := NewWriter(dir, FormatJSON)

	path, err := w.Write(context.Background(), "report.docx", sampleRecord())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if !strings.Contains(text, "Введение") {
		t.Error("expected non-ASCII text to be written unescaped")
	}
	if !strings.Contains(text, `"A & B"`) {
		t.Error("expected HTML characters to be written unescaped")
	}
	if !strings.Contains(text, "\n    \"potentially_damage\": true") {
		t.Errorf("expected four-space indentation, got:\n%s", text)
	}

	var got doctree.Record
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.TableOfContent[1].Text != nil {
		t.Errorf("expected null text to round-trip as nil")
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("expected only the output file in %s, got %d entries", dir, len(entries))
	}
}

func TestWriter_WriteYAML(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, FormatYAML)

	path, err := w.Write(context.Background(), "report.docx", sampleRecord())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Ext(path) != ".yaml" {
		t.Errorf("expected .yaml extension, got %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got doctree.Record
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if !got.PotentiallyDamage || len(got.TableOfContent) != 2 {
		t.Errorf("unexpected decoded record: %+v", got)
	}
	if got.TableOfContent[0].SubElements[0].Num != "1.1" {
		t.Errorf("expected nested 1.1, got %+v", got.TableOfContent[0].SubElements)
	}
}

func TestWriter_RejectsInvalidRecord(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, FormatJSON)

	bad := doctree.Record{TableOfContent: []doctree.Entry{{Num: "1.2.3.4", Text: strPtr("too deep")}}}
	if _, err := w.Write(context.Background(), "bad.docx", bad); err == nil {
		t.Fatal("expected validation error")
	}
	if _, err := os.Stat(w.PathFor("bad.docx")); !os.IsNotExist(err) {
		t.Error("expected no output file for invalid record")
	}
}

func TestValidate_EmptyAndNilTable(t *testing.T) {
	if err := Validate(doctree.Record{TableOfContent: []doctree.Entry{}}); err != nil {
		t.Errorf("expected empty table to validate, got %v", err)
	}
	if err := Validate(doctree.Record{}); err != nil {
		t.Errorf("expected nil table to validate, got %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"JSON", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"yml", FormatYAML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
