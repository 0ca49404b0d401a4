package outline

import (
	"strconv"
	"testing"
)

func h(level int, text string) Heading { return NewHeading(level, text) }

func TestStructure_NestedHeadings(t *testing.T) {
	forest, damaged := Structure([]Heading{h(1, "Intro"), h(2, "Background"), h(3, "Detail")})
	if damaged {
		t.Error("expected no damage for well-nested input")
	}
	if len(forest) != 1 {
		t.Fatalf("expected 1 top-level node, got %d", len(forest))
	}
	top := forest[0]
	if top.Num != "1" || *top.Text != "Intro" {
		t.Errorf("expected 1/Intro, got %s/%s", top.Num, *top.Text)
	}
	if len(top.Children) != 1 {
		t.Fatalf("expected 1 child, got %d", len(top.Children))
	}
	child := top.Children[0]
	if child.Num != "1.1" || *child.Text != "Background" {
		t.Errorf("expected 1.1/Background, got %s/%s", child.Num, *child.Text)
	}
	if len(child.Children) != 1 {
		t.Fatalf("expected 1 grandchild, got %d", len(child.Children))
	}
	leaf := child.Children[0]
	if leaf.Num != "1.1.1" || *leaf.Text != "Detail" {
		t.Errorf("expected 1.1.1/Detail, got %s/%s", leaf.Num, *leaf.Text)
	}
	if len(leaf.Children) != 0 {
		t.Errorf("expected leaf to have no children, got %d", len(leaf.Children))
	}
}

func TestStructure_OrphanSubheadingIsPromoted(t *testing.T) {
	forest, damaged := Structure([]Heading{h(2, "Orphan")})
	if !damaged {
		t.Error("expected damage flag for level-2 heading without parent")
	}
	if len(forest) != 1 || forest[0].Num != "1" || *forest[0].Text != "Orphan" {
		t.Fatalf("expected single top-level node 1/Orphan, got %+v", forest)
	}
}

func TestStructure_OrphanLeafOnEmptyForest(t *testing.T) {
	forest, damaged := Structure([]Heading{h(3, "Leaf"), h(1, "Next")})
	if !damaged {
		t.Error("expected damage flag")
	}
	if len(forest) != 2 {
		t.Fatalf("expected 2 top-level nodes, got %d", len(forest))
	}
	if forest[0].Num != "1" || forest[1].Num != "2" {
		t.Errorf("expected nums 1,2, got %s,%s", forest[0].Num, forest[1].Num)
	}
}

func TestStructure_LeafWithoutSubheadingIsPromotedOneLevel(t *testing.T) {
	forest, damaged := Structure([]Heading{h(1, "A"), h(3, "Leaf")})
	if !damaged {
		t.Error("expected damage flag")
	}
	if len(forest) != 1 || len(forest[0].Children) != 1 {
		t.Fatalf("expected one top node with one child, got %+v", forest)
	}
	child := forest[0].Children[0]
	if child.Num != "1.1" || *child.Text != "Leaf" {
		t.Errorf("expected 1.1/Leaf, got %s/%s", child.Num, *child.Text)
	}
}

func TestStructure_DamageIsSticky(t *testing.T) {
	_, damaged := Structure([]Heading{h(2, "Orphan"), h(1, "A"), h(2, "B"), h(3, "C")})
	if !damaged {
		t.Error("expected damage flag to survive well-formed headings that follow")
	}
}

func TestStructure_SkipsHeadingsWithoutText(t *testing.T) {
	forest, damaged := Structure([]Heading{{Level: 2}, {Level: 3}, {Level: 1}})
	if damaged {
		t.Error("expected no damage when every heading lacks text")
	}
	if len(forest) != 0 {
		t.Fatalf("expected empty forest, got %d nodes", len(forest))
	}
	if forest == nil {
		t.Error("expected non-nil empty forest")
	}
}

func TestStructure_IgnoresUnknownLevels(t *testing.T) {
	forest, damaged := Structure([]Heading{h(9, "ignored-code"), h(0, "zero"), h(1, "Only")})
	if damaged {
		t.Error("expected no damage")
	}
	if len(forest) != 1 || forest[0].Num != "1" || *forest[0].Text != "Only" {
		t.Fatalf("expected single node 1/Only, got %+v", forest)
	}
}

func TestStructure_BlankTextRunMakesNullNode(t *testing.T) {
	forest, damaged := Structure([]Heading{NewBlankHeading(1), NewBlankHeading(2), h(3, "Leaf")})
	if damaged {
		t.Error("expected no damage")
	}
	if len(forest) != 1 || len(forest[0].Children) != 1 || len(forest[0].Children[0].Children) != 1 {
		t.Fatalf("expected a 1 / 1.1 / 1.1.1 chain, got %+v", forest)
	}
	if forest[0].Text != nil || forest[0].Children[0].Text != nil {
		t.Errorf("expected nil text on blank headings, got %v / %v", forest[0].Text, forest[0].Children[0].Text)
	}
	if got := forest[0].Children[0].Children[0].Num; got != "1.1.1" {
		t.Errorf("expected 1.1.1, got %s", got)
	}
}

func TestStructure_EmptyStringTextIsKept(t *testing.T) {
	forest, _ := Structure([]Heading{h(1, "")})
	if len(forest) != 1 {
		t.Fatalf("expected 1 node for empty text, got %d", len(forest))
	}
	if forest[0].Text == nil || *forest[0].Text != "" {
		t.Errorf("expected present empty text, got %v", forest[0].Text)
	}
}

func TestStructure_Numbering(t *testing.T) {
	forest, damaged := Structure([]Heading{
		h(1, "A"),
		h(2, "A.a"),
		h(3, "A.a.i"),
		h(3, "A.a.ii"),
		h(2, "A.b"),
		h(3, "A.b.i"),
		h(1, "B"),
		h(2, "B.a"),
		h(1, "C"),
	})
	if damaged {
		t.Error("expected no damage")
	}

	got := map[string]string{}
	forest.Walk(func(n *Node, depth int) {
		got[*n.Text] = n.Num
	})
	want := map[string]string{
		"A": "1", "A.a": "1.1", "A.a.i": "1.1.1", "A.a.ii": "1.1.2",
		"A.b": "1.2", "A.b.i": "1.2.1",
		"B": "2", "B.a": "2.1",
		"C": "3",
	}
	for text, num := range want {
		if got[text] != num {
			t.Errorf("%s: expected num %q, got %q", text, num, got[text])
		}
	}
	if forest.Count() != len(want) {
		t.Errorf("expected %d nodes, got %d", len(want), forest.Count())
	}
}

func TestStructure_TopLevelCount(t *testing.T) {
	// Level-1 headings plus headings promoted by the empty-forest rule.
	input := []Heading{h(3, "x"), h(2, "y"), h(1, "a"), h(2, "b"), h(3, "c"), h(1, "d"), h(3, "e")}
	forest, damaged := Structure(input)
	if !damaged {
		t.Error("expected damage flag")
	}
	if len(forest) != 3 {
		t.Fatalf("expected 3 top-level nodes, got %d", len(forest))
	}
	for i, n := range forest {
		if n.Num != strconv.Itoa(i+1) {
			t.Errorf("top[%d]: expected num %d, got %s", i, i+1, n.Num)
		}
	}
	// "x" opened the forest, so "y" attaches under it.
	if len(forest[0].Children) != 1 || forest[0].Children[0].Num != "1.1" {
		t.Errorf("expected y under x as 1.1, got %+v", forest[0].Children)
	}
	// "e" arrives under "d" which has no children yet.
	if len(forest[2].Children) != 1 || forest[2].Children[0].Num != "3.1" {
		t.Errorf("expected e promoted to 3.1, got %+v", forest[2].Children)
	}
}

func TestBuilder_Incremental(t *testing.T) {
	var b Builder
	if b.Damaged() {
		t.Fatal("expected zero builder to be undamaged")
	}
	if len(b.Forest()) != 0 {
		t.Fatal("expected empty forest")
	}
	b.Add(h(1, "A"))
	b.Add(h(2, "B"))
	if b.Damaged() {
		t.Error("expected no damage yet")
	}
	b.Add(h(1, "C"))
	b.Add(h(3, "D"))
	if !b.Damaged() {
		t.Error("expected damage after leaf under childless top node")
	}
	if got := b.Forest()[1].Children[0].Num; got != "2.1" {
		t.Errorf("expected 2.1, got %s", got)
	}
}
