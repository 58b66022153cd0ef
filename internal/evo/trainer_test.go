package evo

import (
	"context"
	"errors"
	"testing"

	"netbots/internal/model"
	"netbots/internal/nn"
	"netbots/internal/world"
)

func testTrainerConfig() Config {
	return Config{
		World: world.Config{
			Width:          800,
			Height:         600,
			ResourceSupply: 10,
			CaptureRadius:  7,
		},
		PopulationSize:     6,
		Generations:        3,
		TicksPerGeneration: 40,
		Inputs:             4,
		Outputs:            2,
		HiddenLayers:       []int{6},
		HiddenActivation:   nn.LeakyReLU6,
		OutputActivation:   nn.Tanh,
		MutationRate:       0.05,
		Seed:               1234,
	}
}

func TestNewValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"zero population", func(c *Config) { c.PopulationSize = 0 }, model.ErrEmptyPopulation},
		{"zero generations", func(c *Config) { c.Generations = 0 }, model.ErrConfiguration},
		{"zero ticks", func(c *Config) { c.TicksPerGeneration = 0 }, model.ErrConfiguration},
		{"negative mutation rate", func(c *Config) { c.MutationRate = -0.1 }, model.ErrConfiguration},
		{"mutation rate above one", func(c *Config) { c.MutationRate = 1.1 }, model.ErrConfiguration},
		{"zero capture radius", func(c *Config) { c.World.CaptureRadius = 0 }, model.ErrConfiguration},
		{"bad activation inputs", func(c *Config) { c.Inputs = 0 }, model.ErrConfiguration},
		{"wrong controller shape", func(c *Config) { c.Outputs = 3 }, model.ErrConfiguration},
		{"one-weight genome", func(c *Config) { c.Inputs = 1; c.Outputs = 1; c.HiddenLayers = []int{0} }, model.ErrConfiguration},
	}
	for _, tc := range cases {
		cfg := testTrainerConfig()
		tc.mutate(&cfg)
		if _, err := New(cfg); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got: %v", tc.name, tc.want, err)
		}
	}
}

func TestTrainKeepsPopulationSizeConstant(t *testing.T) {
	cfg := testTrainerConfig()
	trainer, err := New(cfg)
	if err != nil {
		t.Fatalf("new trainer: %v", err)
	}

	sizes := []int{len(trainer.Population())}
	trainer.OnGeneration(func(model.GenerationRecord) {
		sizes = append(sizes, len(trainer.Population()))
	})
	if err := trainer.Train(context.Background()); err != nil {
		t.Fatalf("train: %v", err)
	}
	sizes = append(sizes, len(trainer.Population()))

	for i, size := range sizes {
		if size != cfg.PopulationSize {
			t.Fatalf("checkpoint %d: population size %d, want %d", i, size, cfg.PopulationSize)
		}
	}
}

func TestTrainEndToEndProperties(t *testing.T) {
	cfg := testTrainerConfig()
	cfg.PopulationSize = 4
	cfg.World.ResourceSupply = 1
	cfg.TicksPerGeneration = 50
	cfg.Generations = 2
	cfg.Seed = 99

	trainer, err := New(cfg)
	if err != nil {
		t.Fatalf("new trainer: %v", err)
	}

	maxObserved := 0
	trainer.OnGeneration(func(record model.GenerationRecord) {
		for _, snapshot := range trainer.PopulationSnapshots() {
			if snapshot.Score < 0 || snapshot.Score > cfg.TicksPerGeneration {
				t.Fatalf("score out of range: %d", snapshot.Score)
			}
			if snapshot.Score > maxObserved {
				maxObserved = snapshot.Score
			}
		}
		if record.HighScore != maxObserved {
			t.Fatalf("high score %d does not match max observed %d", record.HighScore, maxObserved)
		}
	})
	if err := trainer.Train(context.Background()); err != nil {
		t.Fatalf("train: %v", err)
	}

	if maxObserved > 0 {
		elite := trainer.Elite()
		if elite == nil {
			t.Fatal("expected elite record after scoring run")
		}
		if elite.Score != maxObserved {
			t.Fatalf("elite score %d, want max observed %d", elite.Score, maxObserved)
		}
	}
	if got := trainer.HighScore(); got != maxObserved {
		t.Fatalf("high score: got=%d want=%d", got, maxObserved)
	}
}

func TestTrainDeterministicUnderSeed(t *testing.T) {
	run := func() ([]model.GenerationRecord, []model.AgentSnapshot) {
		trainer, err := New(testTrainerConfig())
		if err != nil {
			t.Fatalf("new trainer: %v", err)
		}
		if err := trainer.Train(context.Background()); err != nil {
			t.Fatalf("train: %v", err)
		}
		return trainer.Trace(), trainer.PopulationSnapshots()
	}

	traceA, finalA := run()
	traceB, finalB := run()

	if len(traceA) != len(traceB) {
		t.Fatalf("trace lengths differ: %d vs %d", len(traceA), len(traceB))
	}
	for i := range traceA {
		if traceA[i] != traceB[i] {
			t.Fatalf("generation %d records differ: %+v vs %+v", i, traceA[i], traceB[i])
		}
	}
	for i := range finalA {
		if finalA[i] != finalB[i] {
			t.Fatalf("final agent %d differs: %+v vs %+v", i, finalA[i], finalB[i])
		}
	}
}

func TestEliteIsIndependentClone(t *testing.T) {
	cfg := testTrainerConfig()
	cfg.World.CaptureRadius = 500 // guarantee captures
	cfg.Generations = 1
	trainer, err := New(cfg)
	if err != nil {
		t.Fatalf("new trainer: %v", err)
	}
	if err := trainer.Train(context.Background()); err != nil {
		t.Fatalf("train: %v", err)
	}

	elite := trainer.Elite()
	if elite == nil {
		t.Fatal("expected an elite with a generous capture radius")
	}
	genome := elite.Network.Encode()

	// The population that produced the elite is gone; mutating the
	// returned copy must not affect the trainer's record.
	zeroed := make(model.Genome, len(genome))
	if err := elite.Network.Decode(zeroed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	again := trainer.Elite()
	reread := again.Network.Encode()
	for i := range genome {
		if reread[i] != genome[i] {
			t.Fatalf("elite record mutated through returned copy at gene %d", i)
		}
	}
}

func TestTraceRecordsCumulativeMutations(t *testing.T) {
	cfg := testTrainerConfig()
	cfg.MutationRate = 1.0
	trainer, err := New(cfg)
	if err != nil {
		t.Fatalf("new trainer: %v", err)
	}
	if err := trainer.Train(context.Background()); err != nil {
		t.Fatalf("train: %v", err)
	}

	trace := trainer.Trace()
	if len(trace) != cfg.Generations {
		t.Fatalf("trace length: got=%d want=%d", len(trace), cfg.Generations)
	}
	for i, record := range trace {
		if record.Generation != i+1 {
			t.Fatalf("record %d generation: got=%d want=%d", i, record.Generation, i+1)
		}
		// Rate 1.0 mutates every offspring bred before this record...
		if record.Mutations != i*cfg.PopulationSize {
			t.Fatalf("record %d mutations: got=%d want=%d", i, record.Mutations, i*cfg.PopulationSize)
		}
	}
	if got := trainer.Mutations(); got != cfg.Generations*cfg.PopulationSize {
		t.Fatalf("final mutation count: got=%d want=%d", got, cfg.Generations*cfg.PopulationSize)
	}
}

func TestTrainHonorsContextCancellation(t *testing.T) {
	trainer, err := New(testTrainerConfig())
	if err != nil {
		t.Fatalf("new trainer: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := trainer.Train(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got: %v", err)
	}
}

func TestSingleAgentPopulationBreeds(t *testing.T) {
	cfg := testTrainerConfig()
	cfg.PopulationSize = 1
	cfg.Generations = 2
	trainer, err := New(cfg)
	if err != nil {
		t.Fatalf("new trainer: %v", err)
	}
	if err := trainer.Train(context.Background()); err != nil {
		t.Fatalf("train with duplicate parents: %v", err)
	}
	if len(trainer.Population()) != 1 {
		t.Fatalf("population size: got=%d want=1", len(trainer.Population()))
	}
}
