// Package randomizer drives the generate-and-verify loop: fill a candidate
// placement, sphere-search it from an empty inventory, accept it once the
// whole token universe is obtainable.
package randomizer

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/jwebster45206/seed-engine/pkg/fill"
	"github.com/jwebster45206/seed-engine/pkg/logic"
	"github.com/jwebster45206/seed-engine/pkg/world"
)

// DefaultMaxAttempts bounds the retry loop when the caller does not
// configure one. Typical worlds accept well under a hundred attempts; the
// cap exists so degenerate world data fails loudly instead of spinning.
const DefaultMaxAttempts = 1000

// ExhaustedError is returned when no winnable placement was found within the
// attempt cap. Unlike a bucket imbalance it does not prove the world is
// broken, only that this seed ran out of attempts.
type ExhaustedError struct {
	Seed     uint32
	Attempts int
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("randomizer: no winnable placement for seed %d after %d attempts", e.Seed, e.Attempts)
}

// Result is an accepted placement with its progression log.
type Result struct {
	Seed       uint32
	Attempts   int
	Assignment world.Assignment
	Spheres    []logic.Sphere
}

// Generator produces winnable placements for one compiled world.
type Generator struct {
	world       *world.World
	maxAttempts int
	log         *slog.Logger
}

func NewGenerator(w *world.World, maxAttempts int, log *slog.Logger) *Generator {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if log == nil {
		log = slog.Default()
	}
	return &Generator{
		world:       w,
		maxAttempts: maxAttempts,
		log:         log,
	}
}

// Generate runs fill/verify attempts until one placement is winnable. The
// RNG is seeded once and consumed strictly sequentially across attempts, so
// a seed replays to the identical result, sphere log and attempt count.
//
// A *fill.ImbalanceError aborts immediately: retrying cannot change bucket
// cardinalities. Running out of attempts returns *ExhaustedError.
func (g *Generator) Generate(seed uint32) (*Result, error) {
	rng := rand.New(rand.NewSource(int64(seed)))
	universe := g.world.Tokens.Universe()

	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		assign, err := fill.Fill(g.world, rng)
		if err != nil {
			return nil, fmt.Errorf("attempt %d: %w", attempt, err)
		}

		spheres, inv := logic.SphereSearch(g.world, assign)
		if inv.ContainsAll(universe) {
			g.log.Debug("Placement accepted",
				"world", g.world.Name,
				"seed", seed,
				"attempt", attempt,
				"spheres", len(spheres))
			return &Result{
				Seed:       seed,
				Attempts:   attempt,
				Assignment: assign,
				Spheres:    spheres,
			}, nil
		}

		g.log.Debug("Placement rejected",
			"world", g.world.Name,
			"seed", seed,
			"attempt", attempt,
			"obtained", inv.Len(),
			"universe", universe.Len())
	}

	return nil, &ExhaustedError{Seed: seed, Attempts: g.maxAttempts}
}
