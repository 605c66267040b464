package randomizer_test

import (
	"errors"
	"log/slog"
	"os"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"

	"github.com/jwebster45206/seed-engine/pkg/fill"
	"github.com/jwebster45206/seed-engine/pkg/logic"
	"github.com/jwebster45206/seed-engine/pkg/randomizer"
	"github.com/jwebster45206/seed-engine/pkg/world"
)

// chainYAML has a forced progression order but enough free slots that random
// placement finds a winnable layout quickly.
const chainYAML = `
name: chain
start: r0
tokens: [t1, t2, t3]
categories:
  - name: item
    terminal: true
priority: [item]
regions:
  - name: r0
    doors:
      - {to: r1, requires: [t1]}
    locations:
      - {name: l0, category: item, vanilla: key1}
      - {name: l1, category: item, vanilla: junk1}
      - {name: l2, category: item, vanilla: junk2}
  - name: r1
    doors:
      - {to: r2, requires: [t2]}
    locations:
      - {name: l3, category: item, vanilla: key2}
      - {name: l4, category: item, vanilla: junk3}
  - name: r2
    locations:
      - {name: l5, category: item, vanilla: key3}
entities:
  - name: key1
    category: item
    grants:
      - token: t1
  - name: key2
    category: item
    grants:
      - token: t2
  - name: key3
    category: item
    grants:
      - token: t3
  - name: junk1
    category: item
  - name: junk2
    category: item
  - name: junk3
    category: item
`

// deadEndYAML can never be won: the only source of t1 sits behind the only
// t1-gated door, and there is nowhere else to place it.
const deadEndYAML = `
name: dead_end
start: r0
tokens: [t1]
categories:
  - name: item
    terminal: true
priority: [item]
regions:
  - name: r0
    doors:
      - {to: r1, requires: [t1]}
  - name: r1
    locations:
      - {name: l0, category: item, vanilla: key1}
entities:
  - name: key1
    category: item
    grants:
      - token: t1
`

func compileWorld(t *testing.T, src string) *world.World {
	t.Helper()
	var doc world.Document
	if err := yaml.Unmarshal([]byte(src), &doc); err != nil {
		t.Fatalf("Failed to decode document: %v", err)
	}
	w, err := doc.Compile()
	if err != nil {
		t.Fatalf("Failed to compile world: %v", err)
	}
	return w
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError, // Reduce noise in tests
	}))
}

func TestGenerateAcceptsWinnablePlacement(t *testing.T) {
	w := compileWorld(t, chainYAML)
	gen := randomizer.NewGenerator(w, 0, testLogger())

	res, err := gen.Generate(12345)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if res.Attempts < 1 {
		t.Errorf("Expected at least one attempt, got %d", res.Attempts)
	}
	if len(res.Assignment) != len(w.Locations) {
		t.Errorf("Expected complete assignment, got %d of %d", len(res.Assignment), len(w.Locations))
	}

	// The accepted placement replays to a full inventory.
	spheres, inv := logic.SphereSearch(w, res.Assignment)
	assert.True(t, inv.ContainsAll(w.Tokens.Universe()))
	assert.Equal(t, len(res.Spheres), len(spheres))
}

func TestGenerateDeterministic(t *testing.T) {
	w := compileWorld(t, chainYAML)

	first, err := randomizer.NewGenerator(w, 0, testLogger()).Generate(99)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	second, err := randomizer.NewGenerator(w, 0, testLogger()).Generate(99)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	assert.Equal(t, first.Attempts, second.Attempts)
	if !reflect.DeepEqual(first.Assignment, second.Assignment) {
		t.Error("Same seed must produce the same assignment")
	}
	if !reflect.DeepEqual(first.Spheres, second.Spheres) {
		t.Error("Same seed must produce the same sphere log")
	}
}

func TestGenerateExhaustsUnwinnableWorld(t *testing.T) {
	w := compileWorld(t, deadEndYAML)
	gen := randomizer.NewGenerator(w, 25, testLogger())

	_, err := gen.Generate(7)
	if err == nil {
		t.Fatal("Expected exhaustion error, got nil")
	}

	var exhausted *randomizer.ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("Expected *ExhaustedError, got %T: %v", err, err)
	}
	assert.Equal(t, 25, exhausted.Attempts)
	assert.Equal(t, uint32(7), exhausted.Seed)
}

func TestGenerateAbortsOnImbalance(t *testing.T) {
	// One npc slot, zero npc entities: fatal on the first attempt, no
	// retries.
	w := compileWorld(t, `
name: broken
start: r0
tokens: [t1]
categories:
  - name: npc
    terminal: true
  - name: item
    terminal: true
priority: [npc, item]
regions:
  - name: r0
    locations:
      - {name: n1, category: npc, vanilla: rock}
      - {name: i1, category: item, vanilla: key1}
entities:
  - name: rock
    category: item
  - name: key1
    category: item
    grants:
      - token: t1
`)

	gen := randomizer.NewGenerator(w, 50, testLogger())
	_, err := gen.Generate(1)

	var imbalance *fill.ImbalanceError
	if !errors.As(err, &imbalance) {
		t.Fatalf("Expected *ImbalanceError, got %T: %v", err, err)
	}
	assert.Equal(t, world.Category("npc"), imbalance.Category)
}
