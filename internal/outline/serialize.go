package outline

import "github.com/dgallion1/docoutline/internal/doctree"

// Serialize converts the forest into plain entries. A nil forest yields nil.
func Serialize(f Forest) []doctree.Entry {
	if f == nil {
		return nil
	}
	return serializeNodes(f)
}

func serializeNodes(nodes []*Node) []doctree.Entry {
	entries := make([]doctree.Entry, 0, len(nodes))
	for _, n := range nodes {
		e := doctree.Entry{Num: n.Num}
		if n.Text != nil {
			text := *n.Text
			e.Text = &text
		}
		if len(n.Children) > 0 {
			e.SubElements = serializeNodes(n.Children)
		}
		entries = append(entries, e)
	}
	return entries
}

// NewRecord assembles the persisted record for one document.
func NewRecord(f Forest, damaged bool, otherText string) doctree.Record {
	return doctree.Record{
		PotentiallyDamage: damaged,
		TableOfContent:    Serialize(f),
		OtherText:         otherText,
	}
}
