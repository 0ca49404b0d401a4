package outline

import (
	"encoding/json"
	"testing"
)

func TestSerialize_NestedJSON(t *testing.T) {
	forest, damaged := Structure([]Heading{h(1, "Intro"), h(2, "Background"), h(3, "Detail")})
	data, err := json.Marshal(NewRecord(forest, damaged, "Intro\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"potentially_damage":false,"table_of_content":[{"num":"1","text":"Intro","sub_elements":[{"num":"1.1","text":"Background","sub_elements":[{"num":"1.1.1","text":"Detail"}]}]}],"other_text":"Intro\n"}`
	if string(data) != want {
		t.Errorf("expected\n%s\ngot\n%s", want, data)
	}
}

func TestSerialize_AbsentTextIsNull(t *testing.T) {
	entries := Serialize(Forest{{Num: "1"}})
	data, err := json.Marshal(entries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `[{"num":"1","text":null}]` {
		t.Errorf("unexpected json: %s", data)
	}
}

func TestNewRecord_BlankHeadingIsNull(t *testing.T) {
	forest, damaged := Structure([]Heading{NewBlankHeading(1)})
	data, err := json.Marshal(NewRecord(forest, damaged, "").TableOfContent)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `[{"num":"1","text":null}]` {
		t.Errorf("unexpected json: %s", data)
	}
}

func TestSerialize_NilForest(t *testing.T) {
	if entries := Serialize(nil); entries != nil {
		t.Errorf("expected nil, got %v", entries)
	}
	entries := Serialize(Forest{})
	if entries == nil || len(entries) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", entries)
	}
}

func TestSerialize_Idempotent(t *testing.T) {
	forest, _ := Structure([]Heading{h(1, "A"), h(2, "B"), h(3, "C"), h(1, "D")})
	first, err := json.Marshal(Serialize(forest))
	if err != nil {
		t.Fatal(err)
	}
	second, err := json.Marshal(Serialize(forest))
	if err != nil {
		t.Fatal(err)
	}
	if string(first) != string(second) {
		t.Errorf("expected identical output, got\n%s\n%s", first, second)
	}
}

func TestSerialize_DoesNotAliasText(t *testing.T) {
	forest, _ := Structure([]Heading{h(1, "A")})
	entries := Serialize(forest)
	*entries[0].Text = "changed"
	if *forest[0].Text != "A" {
		t.Errorf("expected forest text untouched, got %q", *forest[0].Text)
	}
}

func TestRecord_Headings(t *testing.T) {
	forest, damaged := Structure([]Heading{h(1, "A"), h(2, "B"), h(3, "C"), h(1, "D")})
	rec := NewRecord(forest, damaged, "")
	if rec.Headings() != 4 {
		t.Errorf("expected 4 headings, got %d", rec.Headings())
	}
}
