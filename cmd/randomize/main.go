// Command randomize generates one winnable placement offline, without the
// API or Redis: load a world file, run the generator, print the spoiler.
package main

import (
	crand "crypto/rand"
	"encoding/binary"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jwebster45206/seed-engine/pkg/fill"
	"github.com/jwebster45206/seed-engine/pkg/randomizer"
	"github.com/jwebster45206/seed-engine/pkg/seed"
	"github.com/jwebster45206/seed-engine/pkg/spoiler"
	"github.com/jwebster45206/seed-engine/pkg/world"
)

func main() {
	var (
		dataDir    = flag.String("data", "./data", "data directory containing worlds/")
		worldFile  = flag.String("world", "", "world file name, e.g. dragon_isle.yaml")
		seedValue  = flag.Uint("seed", 0, "RNG seed (random when omitted)")
		attempts   = flag.Int("attempts", randomizer.DefaultMaxAttempts, "attempt cap before giving up")
		jsonOutput = flag.Bool("json", false, "emit the result as JSON instead of the spoiler text")
		verbose    = flag.Bool("v", false, "log every rejected attempt")
	)
	flag.Parse()

	if *worldFile == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -world <file.yaml> [-seed N] [-attempts N] [-json]\n", os.Args[0])
		os.Exit(1)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	doc, err := world.LoadFile(filepath.Join(*dataDir, "worlds", *worldFile))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load world: %v\n", err)
		os.Exit(1)
	}
	w, err := doc.Compile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to compile world: %v\n", err)
		os.Exit(1)
	}

	sv := uint32(*seedValue)
	if !flagWasSet("seed") {
		sv = randomSeed()
	}

	gen := randomizer.NewGenerator(w, *attempts, log)
	res, err := gen.Generate(sv)
	if err != nil {
		var exhausted *randomizer.ExhaustedError
		var imbalance *fill.ImbalanceError
		switch {
		case errors.As(err, &exhausted):
			fmt.Fprintf(os.Stderr, "Gave up after %d attempts; try another seed or raise -attempts\n", exhausted.Attempts)
		case errors.As(err, &imbalance):
			fmt.Fprintf(os.Stderr, "World data is broken: %v\n", imbalance)
		default:
			fmt.Fprintf(os.Stderr, "Generation failed: %v\n", err)
		}
		os.Exit(1)
	}

	if *jsonOutput {
		ss := seed.New(*worldFile, sv)
		ss.ApplyResult(w, res)
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(ss); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode result: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Print(spoiler.Render(w, res))
}

func flagWasSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func randomSeed() uint32 {
	var buf [4]byte
	if _, err := crand.Read(buf[:]); err != nil {
		return 0
	}
	return binary.BigEndian.Uint32(buf[:])
}
