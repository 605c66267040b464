// Package logic implements the progression solver: door-gated reachability
// and the sphere-search fixpoint that decides what a given placement lets the
// player obtain.
package logic

import "github.com/jwebster45206/seed-engine/pkg/world"

// RegionSet marks which regions are reachable.
type RegionSet map[world.RegionID]bool

// Reachable walks the world graph breadth-first from the start region,
// crossing only doors whose requirements are covered by inv. It is total:
// with an empty inventory it still returns the start region and anything
// behind unconditional doors.
func Reachable(w *world.World, inv world.TokenSet) RegionSet {
	seen := RegionSet{w.Start: true}
	queue := []world.RegionID{w.Start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, door := range w.Region(cur).Doors {
			if seen[door.To] {
				continue
			}
			if !inv.ContainsAll(door.Requires) {
				continue
			}
			seen[door.To] = true
			queue = append(queue, door.To)
		}
	}
	return seen
}
