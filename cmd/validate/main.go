// Command validate lints a world file: strict decoding, reference checks,
// token coverage and the bucket cardinality audit that generation depends on.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jwebster45206/seed-engine/pkg/world"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <world.yaml>\n", os.Args[0])
		os.Exit(1)
	}

	filename := os.Args[1]
	validator := &WorldValidator{}

	if err := validator.validateFile(filename); err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("World file is valid!")
}

type WorldValidator struct {
	errors []string
}

func (v *WorldValidator) errorf(format string, args ...interface{}) {
	v.errors = append(v.errors, fmt.Sprintf("  - "+format, args...))
}

func (v *WorldValidator) validateFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	baseName := filepath.Base(filename)
	if !strings.HasSuffix(baseName, ".yaml") {
		return fmt.Errorf("world file must have .yaml extension: %s", baseName)
	}

	nameWithoutExt := strings.TrimSuffix(baseName, ".yaml")
	if !isValidWorldFilename(nameWithoutExt) {
		return fmt.Errorf("world filename %q must be lowercase snake_case (e.g. dragon_isle.yaml)", baseName)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	// Strict decode so typos in keys surface instead of silently dropping.
	var doc world.Document
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("file %s failed strict YAML decoding: %w", filename, err)
	}

	w, err := doc.Compile()
	if err != nil {
		return fmt.Errorf("file %s failed to compile: %w", filename, err)
	}

	v.errors = nil
	v.validateTokenCoverage(w)
	v.validateBucketCardinality(w)

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}

	return nil
}

// validateTokenCoverage checks that every token in the universe is granted by
// an entity that actually sits in the pool. A token nobody grants makes every
// seed unwinnable.
func (v *WorldValidator) validateTokenCoverage(w *world.World) {
	placed := make(map[world.EntityID]bool, len(w.Entities))
	for i := range w.Locations {
		placed[w.Locations[i].Vanilla] = true
	}

	granted := world.NewTokenSet()
	for i := range w.Entities {
		ent := &w.Entities[i]
		if !placed[ent.ID] {
			v.errorf("entity %q is not the vanilla occupant of any location, so it never enters the pool", ent.Name)
			continue
		}
		for _, rule := range ent.Rules {
			granted.Add(rule.Grants)
		}
	}

	for _, t := range w.Tokens.Universe().Sorted() {
		if !granted.Contains(t) {
			v.errorf("token %q is granted by no placed entity; every seed would be rejected", w.Tokens.Name(t))
		}
	}
}

// validateBucketCardinality collapses every location and every pool entity to
// its terminal bucket and requires the two sides to match. An imbalance here
// is exactly the condition the fill engine treats as fatal.
func (v *WorldValidator) validateBucketCardinality(w *world.World) {
	locCounts := make(map[world.Category]int)
	entCounts := make(map[world.Category]int)

	for i := range w.Locations {
		loc := &w.Locations[i]
		term, ok := terminalFor(w, loc.Category, loc.Physical)
		if !ok {
			v.errorf("location %q category %q does not reach a terminal bucket", loc.Name, loc.Category)
			continue
		}
		locCounts[term]++

		ent := w.Entity(loc.Vanilla)
		term, ok = terminalFor(w, ent.Category, true)
		if !ok {
			v.errorf("entity %q category %q does not reach a terminal bucket", ent.Name, ent.Category)
			continue
		}
		entCounts[term]++
	}

	for _, cat := range w.Priority {
		if !w.Terminal[cat] {
			continue
		}
		if locCounts[cat] != entCounts[cat] {
			v.errorf("terminal bucket %q is imbalanced: %d locations vs %d entities", cat, locCounts[cat], entCounts[cat])
		}
	}

	// When a bucket's fallback routes physical and intangible locations to
	// different destinations, which location is left over depends on the
	// shuffle. That is only safe when the bucket cannot have location
	// leftovers at all.
	perBucketLocs := make(map[world.Category][]bool) // physical attribute per location
	perBucketEnts := make(map[world.Category]int)
	for i := range w.Locations {
		loc := &w.Locations[i]
		perBucketLocs[loc.Category] = append(perBucketLocs[loc.Category], loc.Physical)
		ent := w.Entity(loc.Vanilla)
		perBucketEnts[ent.Category]++
	}
	for _, rule := range w.Fallbacks {
		if rule.Intangible == "" || rule.Intangible == rule.To {
			continue
		}
		locs := perBucketLocs[rule.From]
		if len(locs) <= perBucketEnts[rule.From] {
			continue
		}
		mixed := false
		for _, physical := range locs[1:] {
			if physical != locs[0] {
				mixed = true
				break
			}
		}
		if mixed {
			v.errorf("bucket %q mixes physical and intangible locations and can leave leftovers; promotion routing would vary by shuffle", rule.From)
		}
	}
}

func terminalFor(w *world.World, cat world.Category, physical bool) (world.Category, bool) {
	seen := map[world.Category]bool{}
	for !w.Terminal[cat] {
		if seen[cat] {
			return "", false
		}
		seen[cat] = true
		next, ok := world.FallbackFor(w.Fallbacks, cat, physical)
		if !ok {
			return "", false
		}
		cat = next
	}
	return cat, true
}

func isValidWorldFilename(name string) bool {
	matched, _ := regexp.MatchString(`^[a-z][a-z0-9_]*$`, name)
	return matched
}
