package evo

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"netbots/internal/model"
	"netbots/internal/nn"
	"netbots/internal/world"
)

// Config fixes every training parameter up front. Validation happens
// once in New; after that a run executes to completion without further
// runtime errors.
type Config struct {
	World              world.Config
	PopulationSize     int
	Generations        int
	TicksPerGeneration int

	Inputs           int
	Outputs          int
	HiddenLayers     []int
	HiddenActivation nn.Activation
	OutputActivation nn.Activation

	// MutationRate is the per-offspring probability of mutating exactly
	// one gene. Must be in [0, 1].
	MutationRate float64
	Seed         int64
}

func (c Config) validate() error {
	if c.PopulationSize < 1 {
		return fmt.Errorf("%w: population size must be >= 1, got %d", model.ErrEmptyPopulation, c.PopulationSize)
	}
	if c.Generations < 1 {
		return fmt.Errorf("%w: generation count must be >= 1, got %d", model.ErrConfiguration, c.Generations)
	}
	if c.TicksPerGeneration < 1 {
		return fmt.Errorf("%w: ticks per generation must be >= 1, got %d", model.ErrConfiguration, c.TicksPerGeneration)
	}
	if c.MutationRate < 0 || c.MutationRate > 1 {
		return fmt.Errorf("%w: mutation rate must be in [0, 1], got %g", model.ErrConfiguration, c.MutationRate)
	}
	return nil
}

// Elite is an independent deep copy of the best agent ever observed:
// its own network clone plus the score it reached. It never aliases a
// live population, which is discarded wholesale every generation.
type Elite struct {
	AgentID string
	Score   int
	Network *nn.Network
}

// Progress receives the statistics of each finished generation.
type Progress func(model.GenerationRecord)

// Trainer owns the active population and breeds a fresh generation
// after every simulation window. Single-threaded by design: the world
// owns the population during ticking, the trainer during breeding.
type Trainer struct {
	cfg Config
	rng *rand.Rand

	agentIDs    *world.IDAllocator
	resourceIDs *world.IDAllocator

	population []*world.Agent
	highScore  int
	elite      *Elite
	mutations  int
	trace      []model.GenerationRecord

	observers []world.Observer
	progress  Progress
}

// New validates the configuration and constructs the founding
// population with randomly initialized controllers.
func New(cfg Config) (*Trainer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	t := &Trainer{
		cfg:         cfg,
		rng:         rand.New(rand.NewSource(cfg.Seed)),
		agentIDs:    world.NewIDAllocator("agent"),
		resourceIDs: world.NewIDAllocator("resource"),
	}

	t.population = make([]*world.Agent, 0, cfg.PopulationSize)
	for i := 0; i < cfg.PopulationSize; i++ {
		agent, err := t.newAgent()
		if err != nil {
			return nil, err
		}
		t.population = append(t.population, agent)
	}

	// Breeding needs a crossover index in [1, len-1], so the genome
	// must carry at least two weights.
	if count := t.population[0].Net.WeightCount(); count < 2 {
		return nil, fmt.Errorf("%w: topology yields a %d-weight genome, need >= 2 for crossover", model.ErrConfiguration, count)
	}
	// The world validates the controller shape; surface that before
	// any generation runs rather than on the first tick.
	if _, err := t.newWorld(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Trainer) newAgent() (*world.Agent, error) {
	net, err := nn.New(t.cfg.Inputs, t.cfg.Outputs, t.cfg.HiddenLayers, t.cfg.HiddenActivation, t.cfg.OutputActivation, t.rng)
	if err != nil {
		return nil, err
	}
	x, y := world.SpawnPosition(t.rng, t.cfg.World.Width, t.cfg.World.Height)
	return &world.Agent{ID: t.agentIDs.Next(), X: x, Y: y, Net: net}, nil
}

func (t *Trainer) newWorld() (*world.World, error) {
	// Simulation state starts clean each generation: networks persist,
	// scores and targets do not.
	for _, agent := range t.population {
		agent.Score = 0
		agent.TargetID = ""
		agent.DX, agent.DY = 0, 0
	}
	w, err := world.New(t.cfg.World, t.population, t.resourceIDs, t.rng)
	if err != nil {
		return nil, err
	}
	for _, observer := range t.observers {
		w.Subscribe(observer)
	}
	return w, nil
}

// Subscribe forwards tick notifications from every generation's world
// to the observer.
func (t *Trainer) Subscribe(observer world.Observer) {
	if observer != nil {
		t.observers = append(t.observers, observer)
	}
}

// OnGeneration registers a callback invoked after each generation's
// statistics are recorded.
func (t *Trainer) OnGeneration(progress Progress) {
	t.progress = progress
}

// Train runs the full generational loop: simulate, score, select,
// breed, replace. The context is checked between generations; training
// carries no other cancellation points.
func (t *Trainer) Train(ctx context.Context) error {
	for generation := 0; generation < t.cfg.Generations; generation++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		w, err := t.newWorld()
		if err != nil {
			return err
		}
		for tick := 0; tick < t.cfg.TicksPerGeneration; tick++ {
			if err := w.Tick(); err != nil {
				return err
			}
		}

		record := t.recordGeneration(generation + 1)
		if t.progress != nil {
			t.progress(record)
		}

		next, err := t.breed()
		if err != nil {
			return err
		}
		t.population = next
	}
	return nil
}

// recordGeneration aggregates scores, refreshes the elite on a
// strictly higher score, and appends the statistics record.
func (t *Trainer) recordGeneration(generation int) model.GenerationRecord {
	total := 0
	for _, agent := range t.population {
		total += agent.Score
		if agent.Score > t.highScore {
			t.highScore = agent.Score
			t.elite = &Elite{
				AgentID: agent.ID,
				Score:   agent.Score,
				Network: agent.Net.Clone(),
			}
		}
	}
	record := model.GenerationRecord{
		Generation:   generation,
		AverageScore: math.Round(float64(total)/float64(len(t.population))*100) / 100,
		HighScore:    t.highScore,
		Mutations:    t.mutations,
	}
	t.trace = append(t.trace, record)
	return record
}

// breed produces the next generation at constant population size.
func (t *Trainer) breed() ([]*world.Agent, error) {
	pool := newRoulettePool(t.population)
	next := make([]*world.Agent, 0, t.cfg.PopulationSize)
	for i := 0; i < t.cfg.PopulationSize; i++ {
		parentA := pool.pick(t.rng)
		parentB := pool.pickDistinct(t.rng, parentA, t.cfg.PopulationSize)

		child := crossover(t.population[parentA].Net.Encode(), t.population[parentB].Net.Encode(), t.rng)
		if mutate(child, t.cfg.MutationRate, t.rng) {
			t.mutations++
		}

		offspring, err := t.newAgent()
		if err != nil {
			return nil, err
		}
		if err := offspring.Net.Decode(child); err != nil {
			return nil, err
		}
		next = append(next, offspring)
	}
	return next, nil
}

// Population returns the live agents of the current generation. The
// caller must treat them as read-only while a run is in progress.
func (t *Trainer) Population() []*world.Agent {
	return append([]*world.Agent(nil), t.population...)
}

// PopulationSnapshots returns read-only copies for reporting.
func (t *Trainer) PopulationSnapshots() []model.AgentSnapshot {
	out := make([]model.AgentSnapshot, 0, len(t.population))
	for _, agent := range t.population {
		out = append(out, agent.Snapshot())
	}
	return out
}

// Elite returns an independent copy of the best agent record observed
// so far, or nil before any generation finishes.
func (t *Trainer) Elite() *Elite {
	if t.elite == nil {
		return nil
	}
	return &Elite{
		AgentID: t.elite.AgentID,
		Score:   t.elite.Score,
		Network: t.elite.Network.Clone(),
	}
}

// Trace returns the per-generation statistics records in order.
func (t *Trainer) Trace() []model.GenerationRecord {
	return append([]model.GenerationRecord(nil), t.trace...)
}

// Mutations returns the cumulative mutation count.
func (t *Trainer) Mutations() int {
	return t.mutations
}

// HighScore returns the best single-generation score observed so far.
func (t *Trainer) HighScore() int {
	return t.highScore
}
