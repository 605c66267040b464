package world

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Document is the YAML shape of a world file. It is authored by hand, so
// every cross-reference is by name; Compile resolves names to dense IDs and
// rejects anything dangling.
type Document struct {
	Name       string         `yaml:"name"`
	Start      string         `yaml:"start"`
	Tokens     []string       `yaml:"tokens"`
	Categories []CategoryDoc  `yaml:"categories"`
	Priority   []string       `yaml:"priority"`
	Fallbacks  []FallbackRule `yaml:"fallbacks"`
	Regions    []RegionDoc    `yaml:"regions"`
	Entities   []EntityDoc    `yaml:"entities"`
}

type CategoryDoc struct {
	Name     string `yaml:"name"`
	Terminal bool   `yaml:"terminal,omitempty"`
}

type RegionDoc struct {
	Name      string        `yaml:"name"`
	Doors     []DoorDoc     `yaml:"doors,omitempty"`
	Locations []LocationDoc `yaml:"locations,omitempty"`
}

type DoorDoc struct {
	To       string   `yaml:"to"`
	Requires []string `yaml:"requires,omitempty"`
}

type LocationDoc struct {
	Name     string   `yaml:"name"`
	Category string   `yaml:"category"`
	Vanilla  string   `yaml:"vanilla"`
	Requires []string `yaml:"requires,omitempty"`
	Hidden   bool     `yaml:"hidden,omitempty"`
	// Physical defaults to true; hand-authored files only mark the exceptions.
	Intangible bool `yaml:"intangible,omitempty"`
}

type EntityDoc struct {
	Name        string    `yaml:"name"`
	Category    string    `yaml:"category"`
	Description string    `yaml:"description,omitempty"`
	Grants      []RuleDoc `yaml:"grants,omitempty"`
}

type RuleDoc struct {
	Token    string   `yaml:"token"`
	Requires []string `yaml:"requires,omitempty"`
}

// RefError reports a dangling or duplicate name in a world document.
type RefError struct {
	Kind   string // "token", "region", "entity", "category", "location"
	Name   string
	Reason string
}

func (e *RefError) Error() string {
	return fmt.Sprintf("world: %s %q %s", e.Kind, e.Name, e.Reason)
}

// LoadFile reads and decodes a world document from disk.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read world file: %w", err)
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal world file %s: %w", path, err)
	}
	return &doc, nil
}

// Compile resolves a document into an immutable World. All names must
// resolve; every non-terminal category in the priority order must have a
// fallback rule so no bucket can strand a leftover silently.
func (doc *Document) Compile() (*World, error) {
	tokens, err := NewTokenRegistry(doc.Tokens)
	if err != nil {
		return nil, err
	}

	w := &World{
		Name:      doc.Name,
		Tokens:    tokens,
		Fallbacks: doc.Fallbacks,
		Terminal:  make(map[Category]bool),
	}

	catKnown := make(map[Category]bool, len(doc.Categories))
	for _, c := range doc.Categories {
		cat := Category(c.Name)
		if catKnown[cat] {
			return nil, &RefError{Kind: "category", Name: c.Name, Reason: "declared twice"}
		}
		catKnown[cat] = true
		if c.Terminal {
			w.Terminal[cat] = true
		}
	}
	for _, p := range doc.Priority {
		cat := Category(p)
		if !catKnown[cat] {
			return nil, &RefError{Kind: "category", Name: p, Reason: "in priority order but not declared"}
		}
		w.Priority = append(w.Priority, cat)
	}
	for _, r := range doc.Fallbacks {
		for _, cat := range []Category{r.From, r.To} {
			if !catKnown[cat] {
				return nil, &RefError{Kind: "category", Name: string(cat), Reason: "in fallback rule but not declared"}
			}
		}
		if r.Intangible != "" && !catKnown[r.Intangible] {
			return nil, &RefError{Kind: "category", Name: string(r.Intangible), Reason: "in fallback rule but not declared"}
		}
	}
	for _, cat := range w.Priority {
		if w.Terminal[cat] {
			continue
		}
		if _, ok := FallbackFor(doc.Fallbacks, cat, true); !ok {
			return nil, &RefError{Kind: "category", Name: string(cat), Reason: "is non-terminal but has no fallback rule"}
		}
	}

	// Promotion only works forward: a leftover folded into a bucket that was
	// already processed would be silently lost, so every fallback destination
	// must sit later in the priority order than its source.
	rank := make(map[Category]int, len(w.Priority))
	for i, cat := range w.Priority {
		rank[cat] = i
	}
	for _, r := range doc.Fallbacks {
		from, ok := rank[r.From]
		if !ok {
			return nil, &RefError{Kind: "category", Name: string(r.From), Reason: "in fallback rule but not in priority order"}
		}
		for _, dest := range []Category{r.To, r.Intangible} {
			if dest == "" {
				continue
			}
			to, ok := rank[dest]
			if !ok {
				return nil, &RefError{Kind: "category", Name: string(dest), Reason: "in fallback rule but not in priority order"}
			}
			if to <= from {
				return nil, &RefError{Kind: "category", Name: string(dest), Reason: fmt.Sprintf("must come after %q in priority order", r.From)}
			}
		}
	}

	// Entities first; locations refer to them by vanilla name.
	entIndex := make(map[string]EntityID, len(doc.Entities))
	for _, e := range doc.Entities {
		if _, dup := entIndex[e.Name]; dup {
			return nil, &RefError{Kind: "entity", Name: e.Name, Reason: "declared twice"}
		}
		if _, ok := rank[Category(e.Category)]; !ok {
			return nil, &RefError{Kind: "category", Name: e.Category, Reason: fmt.Sprintf("not in priority order (entity %q)", e.Name)}
		}
		ent := Entity{
			ID:          EntityID(len(w.Entities)),
			Name:        e.Name,
			Description: e.Description,
			Category:    Category(e.Category),
		}
		for _, r := range e.Grants {
			rule := Rule{Requires: NewTokenSet()}
			t, ok := tokens.Lookup(r.Token)
			if !ok {
				return nil, &RefError{Kind: "token", Name: r.Token, Reason: fmt.Sprintf("unknown (granted by entity %q)", e.Name)}
			}
			rule.Grants = t
			if rule.Requires, err = resolveTokens(tokens, r.Requires, "entity "+e.Name); err != nil {
				return nil, err
			}
			ent.Rules = append(ent.Rules, rule)
		}
		entIndex[e.Name] = ent.ID
		w.Entities = append(w.Entities, ent)
	}

	regIndex := make(map[string]RegionID, len(doc.Regions))
	for _, r := range doc.Regions {
		if _, dup := regIndex[r.Name]; dup {
			return nil, &RefError{Kind: "region", Name: r.Name, Reason: "declared twice"}
		}
		regIndex[r.Name] = RegionID(len(regIndex))
	}

	locNames := make(map[string]bool)
	for _, r := range doc.Regions {
		region := Region{ID: regIndex[r.Name], Name: r.Name}
		for _, l := range r.Locations {
			if locNames[l.Name] {
				return nil, &RefError{Kind: "location", Name: l.Name, Reason: "declared twice"}
			}
			locNames[l.Name] = true
			if _, ok := rank[Category(l.Category)]; !ok {
				return nil, &RefError{Kind: "category", Name: l.Category, Reason: fmt.Sprintf("not in priority order (location %q)", l.Name)}
			}
			vanilla, ok := entIndex[l.Vanilla]
			if !ok {
				return nil, &RefError{Kind: "entity", Name: l.Vanilla, Reason: fmt.Sprintf("unknown (vanilla of location %q)", l.Name)}
			}
			requires, err := resolveTokens(tokens, l.Requires, "location "+l.Name)
			if err != nil {
				return nil, err
			}
			loc := Location{
				ID:       LocationID(len(w.Locations)),
				Name:     l.Name,
				Region:   region.ID,
				Category: Category(l.Category),
				Requires: requires,
				Hidden:   l.Hidden,
				Physical: !l.Intangible,
				Vanilla:  vanilla,
			}
			region.Locations = append(region.Locations, loc.ID)
			w.Locations = append(w.Locations, loc)
		}
		for _, d := range r.Doors {
			to, ok := regIndex[d.To]
			if !ok {
				return nil, &RefError{Kind: "region", Name: d.To, Reason: fmt.Sprintf("unknown (door from %q)", r.Name)}
			}
			requires, err := resolveTokens(tokens, d.Requires, "door from "+r.Name)
			if err != nil {
				return nil, err
			}
			region.Doors = append(region.Doors, Door{To: to, Requires: requires})
		}
		w.Regions = append(w.Regions, region)
	}

	start, ok := regIndex[doc.Start]
	if !ok {
		return nil, &RefError{Kind: "region", Name: doc.Start, Reason: "unknown (start)"}
	}
	w.Start = start

	return w, nil
}

func resolveTokens(reg *TokenRegistry, names []string, where string) (TokenSet, error) {
	set := NewTokenSet()
	for _, n := range names {
		t, ok := reg.Lookup(n)
		if !ok {
			return nil, &RefError{Kind: "token", Name: n, Reason: fmt.Sprintf("unknown (required by %s)", where)}
		}
		set.Add(t)
	}
	return set, nil
}
