package logic

import "github.com/jwebster45206/seed-engine/pkg/world"

// Gain records one token pickup: which location's occupant yielded it.
type Gain struct {
	Location world.LocationID
	Token    world.Token
}

// Sphere is one round of the fixpoint: every token obtainable simultaneously
// given the inventory at the start of the round. Ordering follows ascending
// location ID then rule order, so logs are stable for a fixed world and
// placement.
type Sphere []Gain

// SphereSearch runs the reachability fixpoint from an empty inventory over
// the given placement. Each round recomputes the reachable regions, scans
// every usable location in them and collects tokens whose prerequisites are
// already covered; the round's gains merge into the inventory and the search
// repeats until a round yields nothing.
//
// Inventory growth is monotonic and the token universe is finite, so the
// search terminates in at most |tokens| rounds. The final inventory is what
// the placement lets the player obtain; the caller compares it against the
// universe to judge winnability.
func SphereSearch(w *world.World, assign world.Assignment) ([]Sphere, world.TokenSet) {
	inv := world.NewTokenSet()
	var spheres []Sphere

	for {
		regions := Reachable(w, inv)
		var round Sphere
		gained := world.NewTokenSet()

		for i := range w.Locations {
			loc := &w.Locations[i]
			if !regions[loc.Region] {
				continue
			}
			if !inv.ContainsAll(loc.Requires) {
				continue
			}
			ent := w.Entity(assign[loc.ID])
			for _, rule := range ent.Rules {
				if inv.Contains(rule.Grants) || gained.Contains(rule.Grants) {
					continue
				}
				// Prerequisites are checked against the inventory as of the
				// start of the round, not against this round's gains.
				if !inv.ContainsAll(rule.Requires) {
					continue
				}
				round = append(round, Gain{Location: loc.ID, Token: rule.Grants})
				gained.Add(rule.Grants)
			}
		}

		if len(round) == 0 {
			return spheres, inv
		}
		spheres = append(spheres, round)
		inv.Merge(gained)
	}
}
