// Package spoiler renders accepted placements as human-readable logs.
package spoiler

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jwebster45206/seed-engine/pkg/randomizer"
	"github.com/jwebster45206/seed-engine/pkg/world"
)

var titler = cases.Title(language.English)

// DisplayName turns a snake_case document name into something printable.
func DisplayName(name string) string {
	return titler.String(strings.ReplaceAll(name, "_", " "))
}

// Render produces the full spoiler: the placement list followed by the
// sphere-by-sphere progression log.
func Render(w *world.World, res *randomizer.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s - seed %d (%d attempt", DisplayName(w.Name), res.Seed, res.Attempts)
	if res.Attempts != 1 {
		b.WriteString("s")
	}
	b.WriteString(")\n\nPlacements:\n")

	for i := range w.Locations {
		loc := &w.Locations[i]
		ent := w.Entity(res.Assignment[loc.ID])
		fmt.Fprintf(&b, "  %s (%s): %s\n",
			DisplayName(loc.Name),
			DisplayName(w.Region(loc.Region).Name),
			DisplayName(ent.Name))
	}

	b.WriteString("\nProgression:\n")
	for i, sphere := range res.Spheres {
		fmt.Fprintf(&b, "  Sphere %d:\n", i)
		for _, gain := range sphere {
			fmt.Fprintf(&b, "    %s: %s\n",
				DisplayName(w.Location(gain.Location).Name),
				DisplayName(w.Tokens.Name(gain.Token)))
		}
	}

	return b.String()
}
