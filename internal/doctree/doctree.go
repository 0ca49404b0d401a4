package doctree

// Record is the persisted result for one source document.
type Record struct {
	PotentiallyDamage bool    `json:"potentially_damage" yaml:"potentially_damage"`
	TableOfContent    []Entry `json:"table_of_content" yaml:"table_of_content"`
	OtherText         string  `json:"other_text" yaml:"other_text"`
}

// Entry is a serialized outline node.
type Entry struct {
	Num         string  `json:"num" yaml:"num"`
	Text        *string `json:"text" yaml:"text"`                                     // null when the heading text run was empty
	SubElements []Entry `json:"sub_elements,omitempty" yaml:"sub_elements,omitempty"` // omitted for leaves
}

// Headings counts every entry in the table of contents.
func (r Record) Headings() int {
	var count func(entries []Entry) int
	count = func(entries []Entry) int {
		n := 0
		for _, e := range entries {
			n += 1 + count(e.SubElements)
		}
		return n
	}
	return count(r.TableOfContent)
}
