// Package outline builds a three-level numbered outline from an ordered
// stream of heading records.
//
// Headings are appended relative to the most recently created branch only:
// a level-1 heading opens a new top-level node, a level-2 heading attaches to
// the last top-level node and a level-3 heading attaches to that node's last
// child. When the expected parent does not exist yet the heading is placed one
// (or two) levels higher and the outline is marked as potentially damaged.
package outline

import "strconv"

// MaxDepth is the deepest level an outline node can sit at.
const MaxDepth = 3

// Heading is one styled paragraph: its tier (1-3) and its first text run.
// A nil Text with Blank unset means the paragraph carried no text run at all
// and the heading is skipped. Blank marks a text run with no characters; it
// still produces a node, whose Text is nil.
type Heading struct {
	Level int
	Text  *string
	Blank bool
}

// NewHeading returns a Heading with the given level and text.
func NewHeading(level int, text string) Heading {
	return Heading{Level: level, Text: &text}
}

// NewBlankHeading returns a Heading whose text run is empty.
func NewBlankHeading(level int) Heading {
	return Heading{Level: level, Blank: true}
}

// nodeText is the text a node built from h carries.
func (h Heading) nodeText() *string {
	if h.Blank {
		return nil
	}
	return h.Text
}

// Node is an outline entry. Num is derived from the node's position when it
// is appended and never changes afterwards.
type Node struct {
	Num      string
	Text     *string
	Children []*Node
}

// Forest is the ordered list of top-level nodes.
type Forest []*Node

// Builder grows a Forest one heading at a time. The zero value is ready to use.
type Builder struct {
	forest  Forest
	damaged bool
}

// Add places a single heading. Headings without a text run and levels
// outside 1..MaxDepth are ignored.
func (b *Builder) Add(h Heading) {
	if h.Text == nil && !h.Blank {
		return
	}
	text := h.nodeText()
	switch h.Level {
	case 1:
		b.appendTop(text)
	case 2:
		if len(b.forest) == 0 {
			b.appendTop(text)
			b.damaged = true
			return
		}
		b.appendChild(text)
	case 3:
		if len(b.forest) == 0 {
			b.appendTop(text)
			b.damaged = true
			return
		}
		if len(b.lastTop().Children) == 0 {
			b.appendChild(text)
			b.damaged = true
			return
		}
		b.appendGrandchild(text)
	}
}

// Forest returns the nodes built so far. It is never nil, so an empty pass
// still serializes as an empty list.
func (b *Builder) Forest() Forest {
	if b.forest == nil {
		return Forest{}
	}
	return b.forest
}

// Damaged reports whether any heading arrived deeper than the outline could
// hold it. Once set it stays set.
func (b *Builder) Damaged() bool {
	return b.damaged
}

func (b *Builder) lastTop() *Node {
	return b.forest[len(b.forest)-1]
}

func (b *Builder) appendTop(text *string) {
	b.forest = append(b.forest, &Node{
		Num:  strconv.Itoa(len(b.forest) + 1),
		Text: text,
	})
}

func (b *Builder) appendChild(text *string) {
	top := b.lastTop()
	top.Children = append(top.Children, &Node{
		Num:  strconv.Itoa(len(b.forest)) + "." + strconv.Itoa(len(top.Children)+1),
		Text: text,
	})
}

// appendGrandchild numbers the middle component by the count of the top
// node's children, not by the last child's own Num.
func (b *Builder) appendGrandchild(text *string) {
	top := b.lastTop()
	child := top.Children[len(top.Children)-1]
	child.Children = append(child.Children, &Node{
		Num: strconv.Itoa(len(b.forest)) + "." +
			strconv.Itoa(len(top.Children)) + "." +
			strconv.Itoa(len(child.Children)+1),
		Text: text,
	})
}

// Structure runs a single pass over headings and returns the outline together
// with the damage flag.
func Structure(headings []Heading) (Forest, bool) {
	var b Builder
	for _, h := range headings {
		b.Add(h)
	}
	return b.Forest(), b.Damaged()
}

// Count returns the total number of nodes at every depth.
func (f Forest) Count() int {
	n := 0
	f.Walk(func(*Node, int) { n++ })
	return n
}

// Walk visits every node depth-first in document order. depth starts at 1.
func (f Forest) Walk(fn func(n *Node, depth int)) {
	var walk func(nodes []*Node, depth int)
	walk = func(nodes []*Node, depth int) {
		for _, n := range nodes {
			fn(n, depth)
			walk(n.Children, depth+1)
		}
	}
	walk(f, 1)
}
