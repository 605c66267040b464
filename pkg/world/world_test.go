package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"
)

const testWorldYAML = `
name: two_rooms
start: r0
tokens: [t1, t2]
categories:
  - name: item
    terminal: true
priority: [item]
regions:
  - name: r0
    doors:
      - {to: r1, requires: [t1]}
    locations:
      - name: l0
        category: item
        vanilla: e0
  - name: r1
    locations:
      - name: l1
        category: item
        vanilla: e1
entities:
  - name: e0
    category: item
    grants:
      - token: t1
  - name: e1
    category: item
    grants:
      - token: t2
`

func decodeDoc(t *testing.T, src string) *Document {
	t.Helper()
	var doc Document
	if err := yaml.Unmarshal([]byte(src), &doc); err != nil {
		t.Fatalf("Failed to decode document: %v", err)
	}
	return &doc
}

func TestCompile(t *testing.T) {
	doc := decodeDoc(t, testWorldYAML)
	w, err := doc.Compile()
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	if len(w.Regions) != 2 {
		t.Errorf("Expected 2 regions, got %d", len(w.Regions))
	}
	if len(w.Locations) != 2 {
		t.Errorf("Expected 2 locations, got %d", len(w.Locations))
	}
	if len(w.Entities) != 2 {
		t.Errorf("Expected 2 entities, got %d", len(w.Entities))
	}
	if w.Tokens.Count() != 2 {
		t.Errorf("Expected 2 tokens, got %d", w.Tokens.Count())
	}
	if w.Start != 0 {
		t.Errorf("Expected start region 0, got %d", w.Start)
	}

	// Door requirement resolved to the right token
	t1, ok := w.Tokens.Lookup("t1")
	if !ok {
		t.Fatal("Token t1 not registered")
	}
	door := w.Region(0).Doors[0]
	if !door.Requires.Contains(t1) {
		t.Error("Door from r0 should require t1")
	}

	// Vanilla assignment binds each location to its declared occupant
	vanilla := w.VanillaAssignment()
	assert.Equal(t, EntityID(0), vanilla[LocationID(0)])
	assert.Equal(t, EntityID(1), vanilla[LocationID(1)])
}

func TestCompileRefErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(doc *Document)
	}{
		{
			name: "unknown token in door",
			mutate: func(doc *Document) {
				doc.Regions[0].Doors[0].Requires = []string{"no_such_token"}
			},
		},
		{
			name: "unknown vanilla entity",
			mutate: func(doc *Document) {
				doc.Regions[0].Locations[0].Vanilla = "no_such_entity"
			},
		},
		{
			name: "unknown door destination",
			mutate: func(doc *Document) {
				doc.Regions[0].Doors[0].To = "no_such_region"
			},
		},
		{
			name: "unknown start region",
			mutate: func(doc *Document) {
				doc.Start = "no_such_region"
			},
		},
		{
			name: "category missing from priority",
			mutate: func(doc *Document) {
				doc.Entities[0].Category = "npc"
				doc.Categories = append(doc.Categories, CategoryDoc{Name: "npc", Terminal: true})
			},
		},
		{
			name: "duplicate token",
			mutate: func(doc *Document) {
				doc.Tokens = append(doc.Tokens, "t1")
			},
		},
		{
			name: "non-terminal category without fallback",
			mutate: func(doc *Document) {
				doc.Categories = append(doc.Categories, CategoryDoc{Name: "weapon"})
				doc.Priority = append([]string{"weapon"}, doc.Priority...)
			},
		},
		{
			name: "fallback destination before source in priority",
			mutate: func(doc *Document) {
				doc.Categories = append(doc.Categories, CategoryDoc{Name: "weapon"})
				doc.Priority = append(doc.Priority, "weapon")
				doc.Fallbacks = append(doc.Fallbacks, FallbackRule{From: "weapon", To: "item"})
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := decodeDoc(t, testWorldYAML)
			tc.mutate(doc)
			_, err := doc.Compile()
			if err == nil {
				t.Fatal("Expected compile error, got nil")
			}
			var refErr *RefError
			assert.ErrorAs(t, err, &refErr)
		})
	}
}

func TestTokenSet(t *testing.T) {
	s := NewTokenSet(Token(3), Token(1))
	if !s.Contains(Token(1)) || !s.Contains(Token(3)) {
		t.Error("Set should contain its members")
	}
	if s.Contains(Token(2)) {
		t.Error("Set should not contain 2")
	}

	other := NewTokenSet(Token(1))
	if !s.ContainsAll(other) {
		t.Error("Superset check failed")
	}
	if other.ContainsAll(s) {
		t.Error("Subset should not contain superset")
	}

	s.Merge(NewTokenSet(Token(2)))
	assert.Equal(t, []Token{1, 2, 3}, s.Sorted())
}

func TestFallbackRouting(t *testing.T) {
	rules := []FallbackRule{
		{From: "weapon", To: "gear"},
		{From: "gear", To: "item"},
		{From: "key_item", To: "physical_item", Intangible: "item"},
	}

	dest, ok := FallbackFor(rules, "weapon", true)
	if !ok || dest != "gear" {
		t.Errorf("Expected weapon -> gear, got %q (%v)", dest, ok)
	}

	// Intangible locations route around the physical bucket
	dest, _ = FallbackFor(rules, "key_item", false)
	assert.Equal(t, Category("item"), dest)
	dest, _ = FallbackFor(rules, "key_item", true)
	assert.Equal(t, Category("physical_item"), dest)

	if _, ok := FallbackFor(rules, "item", true); ok {
		t.Error("Terminal category should have no fallback")
	}
}

func TestCompatible(t *testing.T) {
	rules := []FallbackRule{
		{From: "weapon", To: "gear"},
		{From: "armor", To: "gear"},
		{From: "gear", To: "item"},
	}

	assert.True(t, Compatible(rules, "weapon", "weapon", true))
	assert.True(t, Compatible(rules, "weapon", "gear", true))
	assert.True(t, Compatible(rules, "armor", "weapon", true), "shared gear ancestor")
	assert.True(t, Compatible(rules, "item", "weapon", true), "shared item ancestor")
	assert.False(t, Compatible(rules, "weapon", "npc", true))
}
