// Package netbots is the embeddable facade over the training core:
// configure a run, execute it, and capture the elite and statistics
// before the process ends. Nothing is persisted anywhere.
package netbots

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"netbots/internal/config"
	"netbots/internal/evo"
	"netbots/internal/model"
	"netbots/internal/nn"
	"netbots/internal/stats"
	"netbots/internal/world"
)

// EliteRecord is the portable form of the best agent ever observed.
type EliteRecord struct {
	AgentID string
	Score   int
	Genome  model.Genome
}

// TrainResult carries everything a consumer may want from a finished
// run. The elite genome can be fed back through Replay.
type TrainResult struct {
	RunID           string
	Trace           []model.GenerationRecord
	Summary         stats.Summary
	Elite           *EliteRecord
	FinalPopulation []model.AgentSnapshot
}

type trainOptions struct {
	runID    string
	progress evo.Progress
	observer world.Observer
	archive  stats.Archive
}

// Option adjusts a training run without touching its parameters.
type Option func(*trainOptions)

// WithRunID overrides the generated run identifier.
func WithRunID(runID string) Option {
	return func(o *trainOptions) { o.runID = runID }
}

// WithProgress registers a per-generation statistics callback.
func WithProgress(progress evo.Progress) Option {
	return func(o *trainOptions) { o.progress = progress }
}

// WithObserver registers a per-tick observer on every generation's
// world.
func WithObserver(observer world.Observer) Option {
	return func(o *trainOptions) { o.observer = observer }
}

// WithArchive stores the finished run's record in the archive.
func WithArchive(archive stats.Archive) Option {
	return func(o *trainOptions) { o.archive = archive }
}

// Train validates the configuration, runs the full generational loop,
// and returns the captured results.
func Train(ctx context.Context, cfg config.Config, opts ...Option) (TrainResult, error) {
	options := trainOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	if options.runID == "" {
		options.runID = uuid.NewString()
	}

	trainerCfg, err := cfg.TrainerConfig()
	if err != nil {
		return TrainResult{}, err
	}
	trainer, err := evo.New(trainerCfg)
	if err != nil {
		return TrainResult{}, err
	}
	if options.progress != nil {
		trainer.OnGeneration(options.progress)
	}
	if options.observer != nil {
		trainer.Subscribe(options.observer)
	}

	if err := trainer.Train(ctx); err != nil {
		return TrainResult{}, err
	}

	trace := trainer.Trace()
	summary, err := stats.Summarize(trace)
	if err != nil {
		return TrainResult{}, err
	}

	result := TrainResult{
		RunID:           options.runID,
		Trace:           trace,
		Summary:         summary,
		FinalPopulation: trainer.PopulationSnapshots(),
	}
	if elite := trainer.Elite(); elite != nil {
		result.Elite = &EliteRecord{
			AgentID: elite.AgentID,
			Score:   elite.Score,
			Genome:  elite.Network.Encode(),
		}
	}

	if options.archive != nil {
		record := stats.RunRecord{
			RunID: result.RunID,
			Trace: trace,
		}
		if result.Elite != nil {
			record.EliteScore = result.Elite.Score
			record.EliteGenome = result.Elite.Genome.Clone()
		}
		if err := options.archive.SaveRun(ctx, record); err != nil {
			return TrainResult{}, fmt.Errorf("archive run %s: %w", result.RunID, err)
		}
	}
	return result, nil
}

// ReplayRequest re-runs a trained genome in a fresh world, exercising
// only snapshots and observer hooks. It stands in for the original
// system's rendering window without any graphics.
type ReplayRequest struct {
	Config config.Config
	Genome model.Genome
	Ticks  int
	Seed   int64
}

// ReplayResult reports how the replayed controller fared.
type ReplayResult struct {
	Captures int
	Agents   []model.AgentSnapshot
}

// Replay builds a single-agent world around the genome and ticks it.
func Replay(ctx context.Context, req ReplayRequest, observers ...world.Observer) (ReplayResult, error) {
	if err := req.Config.Validate(); err != nil {
		return ReplayResult{}, err
	}
	if req.Ticks < 1 {
		return ReplayResult{}, fmt.Errorf("%w: replay ticks must be >= 1, got %d", model.ErrConfiguration, req.Ticks)
	}

	rng := rand.New(rand.NewSource(req.Seed))
	hiddenAct, err := nn.ParseActivation(req.Config.Network.HiddenActivation)
	if err != nil {
		return ReplayResult{}, err
	}
	outputAct, err := nn.ParseActivation(req.Config.Network.OutputActivation)
	if err != nil {
		return ReplayResult{}, err
	}
	net, err := nn.New(req.Config.Network.Inputs, req.Config.Network.Outputs, req.Config.Network.HiddenLayers, hiddenAct, outputAct, rng)
	if err != nil {
		return ReplayResult{}, err
	}
	if err := net.Decode(req.Genome); err != nil {
		return ReplayResult{}, err
	}

	ids := world.NewIDAllocator("replay")
	x, y := world.SpawnPosition(rng, req.Config.World.Width, req.Config.World.Height)
	agent := &world.Agent{ID: ids.Next(), X: x, Y: y, Net: net}

	w, err := world.New(world.Config{
		Width:          req.Config.World.Width,
		Height:         req.Config.World.Height,
		ResourceSupply: req.Config.World.ResourceSupply,
		CaptureRadius:  req.Config.World.CaptureRadius,
	}, []*world.Agent{agent}, ids, rng)
	if err != nil {
		return ReplayResult{}, err
	}
	for _, observer := range observers {
		w.Subscribe(observer)
	}

	for tick := 0; tick < req.Ticks; tick++ {
		if err := ctx.Err(); err != nil {
			return ReplayResult{}, err
		}
		if err := w.Tick(); err != nil {
			return ReplayResult{}, err
		}
	}
	return ReplayResult{Captures: agent.Score, Agents: w.AgentSnapshots()}, nil
}
