package grading

import (
	"reflect"
	"testing"
)

func TestResolveKind(t *testing.T) {
	cases := []struct {
		typ        string
		hasOptions bool
		want       Kind
	}{
		{"mcq", false, KindMCQ},
		{"choose", true, KindMCQ},
		{"dialogue_reply", true, KindMCQ},
		{"tf", false, KindTF},
		{"true_false", false, KindTF},
		{"fill", false, KindFill},
		{"fill", true, KindFill},
		{"fill_blank", false, KindFill},
		{"fill_blank", true, KindMCQ},
		{"translate_ro_en", false, KindBuild},
		{"translate_en_ro", false, KindBuild},
		{"word_order", false, KindBuild},
		{"Build", false, KindBuild},
		{"matching", false, KindUnresolved},
		{"", false, KindUnresolved},
	}
	for _, tc := range cases {
		if got := ResolveKind(tc.typ, tc.hasOptions); got != tc.want {
			t.Fatalf("ResolveKind(%q, %v) = %q, want %q", tc.typ, tc.hasOptions, got, tc.want)
		}
	}
}

func TestParseItemMCQFromCorrectText(t *testing.T) {
	it := ParseItem(map[string]any{
		"type":    "fill_blank",
		"options": []any{"There", "It", "This"},
		"correct": "It",
	})
	if it.Kind != KindMCQ {
		t.Fatalf("expected mcq, got %q", it.Kind)
	}
	idx, ok := it.ExpectedIndex()
	if !ok || idx != 1 {
		t.Fatalf("expected index 1, got %d ok=%v", idx, ok)
	}
}

func TestParseItemMCQUnresolvable(t *testing.T) {
	cases := map[string]map[string]any{
		"correct not in options": {"type": "choose", "options": []any{"in", "on"}, "correct": "at"},
		"correct differs by case": {"type": "choose", "options": []any{"in", "on"}, "correct": "On"},
		"no key":                  {"type": "mcq", "options": []any{"in", "on"}},
		"fractional index":        {"type": "mcq", "options": []any{"in", "on"}, "correct_index": 0.5, "correct": "in"},
	}
	for name, raw := range cases {
		it := ParseItem(raw)
		if it.Resolvable() {
			t.Fatalf("%s: expected unresolvable item", name)
		}
		if _, ok := it.ExpectedIndex(); ok {
			t.Fatalf("%s: expected no index", name)
		}
	}
}

func TestParseItemMCQExplicitIndex(t *testing.T) {
	it := ParseItem(map[string]any{"type": "mcq", "options": []any{"a", "b"}, "correct_index": "1"})
	if idx, ok := it.ExpectedIndex(); !ok || idx != 1 {
		t.Fatalf("expected index 1, got %d ok=%v", idx, ok)
	}
	it = ParseItem(map[string]any{"type": "mcq", "options": []any{"a", "b"}, "correct_index": float64(0), "correct": "b"})
	if idx, ok := it.ExpectedIndex(); !ok || idx != 0 {
		t.Fatalf("explicit index must win over correct text, got %d ok=%v", idx, ok)
	}
}

func TestParseItemTFFieldPrecedence(t *testing.T) {
	it := ParseItem(map[string]any{"type": "true_false", "correct_bool": false, "correct": true})
	if v, ok := it.ExpectedBool(); !ok || v {
		t.Fatalf("expected false from correct_bool, got %v ok=%v", v, ok)
	}
	it = ParseItem(map[string]any{"type": "tf", "answer_bool": true})
	if v, ok := it.ExpectedBool(); !ok || !v {
		t.Fatalf("expected true from answer_bool, got %v ok=%v", v, ok)
	}
	it = ParseItem(map[string]any{"type": "tf", "correct": "yes"})
	if it.Resolvable() {
		t.Fatalf("non-boolean key must be unresolvable")
	}
}

func TestParseItemFillAcceptedSet(t *testing.T) {
	it := ParseItem(map[string]any{
		"type":    "fill",
		"answer":  "There are two chairs in the kitchen.",
		"answers": []any{"there are two chairs in the kitchen", 3},
		"accept":  []any{"There are 2 chairs in the kitchen."},
	})
	want := []string{"there are two chairs in the kitchen", "there are 2 chairs in the kitchen"}
	if got := it.ExpectedSet(); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected accepted set: %#v", got)
	}
}

func TestParseItemBuildAcceptedSet(t *testing.T) {
	it := ParseItem(map[string]any{
		"type":            "translate_en_ro",
		"prompt_en":       "There is a lamp on the table.",
		"answer_ro":       "Este o lampă pe masă.",
		"solution":        "Este o lampa pe masa",
		"accept":          []any{"Pe masă este o lampă."},
		"answer_variants": []any{""},
		"tokens":          []any{"Este", "o", "lampă"},
	})
	if it.Kind != KindBuild {
		t.Fatalf("expected build, got %q", it.Kind)
	}
	want := []string{"este o lampa pe masa", "pe masa este o lampa"}
	if got := it.ExpectedSet(); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected accepted set: %#v", got)
	}
	if it.Prompt != "There is a lamp on the table." {
		t.Fatalf("unexpected prompt %q", it.Prompt)
	}
	if len(it.Expected) != 2 || it.Expected[0] != "Este o lampă pe masă." {
		t.Fatalf("unexpected raw expected: %#v", it.Expected)
	}
	if !reflect.DeepEqual(it.Tokens, []string{"Este", "o", "lampă"}) {
		t.Fatalf("unexpected tokens: %#v", it.Tokens)
	}
}

func TestExpectedSetReturnsCopy(t *testing.T) {
	it := ParseItem(map[string]any{"type": "fill", "answer": "ok"})
	set := it.ExpectedSet()
	set[0] = "changed"
	if it.ExpectedSet()[0] != "ok" {
		t.Fatalf("ExpectedSet must not expose internal state")
	}
}

func TestParseContent(t *testing.T) {
	raw := []byte(`{
		"title": "Rooms",
		"spaced_review_tags": ["room"],
		"quiz": {"items": [
			{"type": "choose", "options": ["in", "on"], "correct": "on"},
			{"type": "matching"},
			"not an object",
			{"type": "fill", "answer": "ok"}
		]}
	}`)
	items, err := ParseContent(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(items))
	}
	kinds := []Kind{items[0].Kind, items[1].Kind, items[2].Kind, items[3].Kind}
	want := []Kind{KindMCQ, KindUnresolved, KindUnresolved, KindFill}
	if !reflect.DeepEqual(kinds, want) {
		t.Fatalf("unexpected kinds: %v", kinds)
	}
}

func TestParseContentEdgeCases(t *testing.T) {
	items, err := ParseContent([]byte(`{"title": "no quiz"}`))
	if err != nil || len(items) != 0 {
		t.Fatalf("expected no items, got %d err=%v", len(items), err)
	}
	items, err = ParseContent(nil)
	if err != nil || len(items) != 0 {
		t.Fatalf("expected no items for empty content, got %d err=%v", len(items), err)
	}
	if _, err := ParseContent([]byte(`{broken`)); err == nil {
		t.Fatalf("expected decode error")
	}
}
