package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jwebster45206/seed-engine/internal/services/events"
	"github.com/jwebster45206/seed-engine/internal/storage"
	"github.com/jwebster45206/seed-engine/pkg/fill"
	queuePkg "github.com/jwebster45206/seed-engine/pkg/queue"
	"github.com/jwebster45206/seed-engine/pkg/randomizer"
	"github.com/jwebster45206/seed-engine/pkg/seed"
	"github.com/jwebster45206/seed-engine/pkg/spoiler"
)

// Processor runs one generation request end to end: load the world, generate
// a winnable placement, persist the outcome and broadcast it.
type Processor struct {
	storage     storage.Storage
	broadcaster events.Publisher
	log         *slog.Logger
	maxAttempts int
}

func NewProcessor(storage storage.Storage, broadcaster events.Publisher, maxAttempts int, log *slog.Logger) *Processor {
	return &Processor{
		storage:     storage,
		broadcaster: broadcaster,
		log:         log,
		maxAttempts: maxAttempts,
	}
}

func (p *Processor) Process(ctx context.Context, req *queuePkg.Request) error {
	ss, err := p.storage.LoadSeedState(ctx, req.SeedStateID)
	if err != nil {
		return fmt.Errorf("failed to load seed state: %w", err)
	}
	if ss == nil {
		// The record expired or was deleted; nothing to report against.
		p.log.Warn("Seed state missing for queued request", "seed_id", req.SeedStateID)
		return nil
	}

	ss.Status = seed.StatusRunning
	if err := p.storage.SaveSeedState(ctx, ss.ID, ss); err != nil {
		return fmt.Errorf("failed to mark seed state running: %w", err)
	}
	p.publish(ctx, ss, events.EventTypeSeedRunning, nil)

	w, err := p.storage.GetWorld(ctx, ss.WorldFile)
	if err != nil {
		return p.fail(ctx, ss, fmt.Errorf("failed to load world: %w", err))
	}

	gen := randomizer.NewGenerator(w, p.maxAttempts, p.log)
	res, err := gen.Generate(ss.Seed)
	if err != nil {
		var imbalance *fill.ImbalanceError
		if errors.As(err, &imbalance) {
			// Bad world data, not a bad roll. Worth operator attention.
			p.log.Error("World data has imbalanced buckets",
				"world", ss.WorldFile,
				"category", imbalance.Category,
				"locations", imbalance.Locations,
				"entities", imbalance.Entities)
		}
		return p.fail(ctx, ss, err)
	}

	ss.ApplyResult(w, res)
	ss.Spoiler = spoiler.Render(w, res)
	if err := p.storage.SaveSeedState(ctx, ss.ID, ss); err != nil {
		return fmt.Errorf("failed to save completed seed state: %w", err)
	}
	p.publish(ctx, ss, events.EventTypeSeedCompleted, map[string]interface{}{
		"attempts": res.Attempts,
		"spheres":  len(res.Spheres),
	})

	p.log.Info("Seed generation completed",
		"seed_id", ss.ID,
		"world", ss.WorldFile,
		"seed", ss.Seed,
		"attempts", res.Attempts)
	return nil
}

// fail records the failure on the seed state. The processing error itself is
// not returned: the job is finished, just unsuccessfully.
func (p *Processor) fail(ctx context.Context, ss *seed.SeedState, cause error) error {
	ss.Fail(cause.Error())
	if err := p.storage.SaveSeedState(ctx, ss.ID, ss); err != nil {
		return fmt.Errorf("failed to save failed seed state: %w", err)
	}
	p.publish(ctx, ss, events.EventTypeSeedFailed, map[string]interface{}{
		"error": cause.Error(),
	})
	p.log.Warn("Seed generation failed", "seed_id", ss.ID, "world", ss.WorldFile, "error", cause)
	return nil
}

func (p *Processor) publish(ctx context.Context, ss *seed.SeedState, eventType events.EventType, data map[string]interface{}) {
	if p.broadcaster == nil {
		return
	}
	if err := p.broadcaster.Publish(ctx, ss.ID, events.Event{Type: eventType, Data: data}); err != nil {
		p.log.Warn("Failed to publish event", "error", err, "type", eventType, "seed_id", ss.ID)
	}
}
