// Package fill performs the category-constrained random assignment of
// entities to locations. One call produces one complete candidate placement;
// the generator decides whether to keep it.
package fill

import (
	"fmt"
	"math/rand"

	"github.com/jwebster45206/seed-engine/pkg/world"
)

// ImbalanceError reports leftovers at a terminal bucket. This is a data
// defect in the world file, not a bad roll: bucket cardinalities are fixed by
// the graph, so retrying cannot help.
type ImbalanceError struct {
	Category  world.Category
	Locations int
	Entities  int
}

func (e *ImbalanceError) Error() string {
	return fmt.Sprintf("fill: bucket %q is imbalanced: %d locations vs %d entities left unmatched",
		e.Category, e.Locations, e.Entities)
}

// bucket holds the two sides of one category's pool. Locations carry their
// physical attribute along so promotion can route them.
type bucket struct {
	locs []world.LocationID
	ents []world.EntityID
}

// Fill assigns every entity in the vanilla pool to a location of a compatible
// category and returns the resulting placement table. Both sides of each
// bucket are shuffled with rng, so draw order is deterministic for a given
// source; buckets are processed in the world's declared priority order and
// leftovers promote along the fallback rules.
func Fill(w *world.World, rng *rand.Rand) (world.Assignment, error) {
	buckets := make(map[world.Category]*bucket, len(w.Priority))
	for _, cat := range w.Priority {
		buckets[cat] = &bucket{}
	}

	// Pool membership comes from the arena in construction order, so the
	// shuffle below is the only source of variation between attempts.
	for i := range w.Locations {
		loc := &w.Locations[i]
		buckets[loc.Category].locs = append(buckets[loc.Category].locs, loc.ID)
		ent := w.Entity(loc.Vanilla)
		buckets[ent.Category].ents = append(buckets[ent.Category].ents, ent.ID)
	}

	assign := make(world.Assignment, len(w.Locations))
	for _, cat := range w.Priority {
		b := buckets[cat]
		rng.Shuffle(len(b.locs), func(i, j int) { b.locs[i], b.locs[j] = b.locs[j], b.locs[i] })
		rng.Shuffle(len(b.ents), func(i, j int) { b.ents[i], b.ents[j] = b.ents[j], b.ents[i] })

		n := len(b.locs)
		if len(b.ents) < n {
			n = len(b.ents)
		}
		for i := 0; i < n; i++ {
			assign[b.locs[i]] = b.ents[i]
		}

		leftLocs := b.locs[n:]
		leftEnts := b.ents[n:]
		if len(leftLocs) == 0 && len(leftEnts) == 0 {
			continue
		}
		if w.Terminal[cat] {
			return nil, &ImbalanceError{Category: cat, Locations: len(leftLocs), Entities: len(leftEnts)}
		}
		for _, id := range leftLocs {
			dest, ok := world.FallbackFor(w.Fallbacks, cat, w.Location(id).Physical)
			if !ok {
				return nil, &ImbalanceError{Category: cat, Locations: len(leftLocs), Entities: len(leftEnts)}
			}
			buckets[dest].locs = append(buckets[dest].locs, id)
		}
		for _, id := range leftEnts {
			dest, ok := world.FallbackFor(w.Fallbacks, cat, true)
			if !ok {
				return nil, &ImbalanceError{Category: cat, Locations: len(leftLocs), Entities: len(leftEnts)}
			}
			buckets[dest].ents = append(buckets[dest].ents, id)
		}
	}

	return assign, nil
}
