package world

import (
	"fmt"
	"math"
	"math/rand"

	"netbots/internal/model"
)

// networkInputs and networkOutputs fix the controller contract: the
// normalized direction to the target plus the agent's normalized
// position go in, a movement delta comes out.
const (
	networkInputs  = 4
	networkOutputs = 2
)

// Observer receives synchronous read-only notifications during a tick.
// Implementations must not block for long and must never reach back
// into the world.
type Observer interface {
	AgentMoved(model.AgentSnapshot)
	ResourceReplaced(model.ResourceSnapshot)
}

// Config describes the simulation arena.
//
// CaptureRadius must be strictly positive: capture fires strictly
// below it, so a positive radius guarantees the nearest-target
// distance used for input normalization is never zero. This is a
// configuration invariant, not a per-tick guard.
type Config struct {
	Width          float64
	Height         float64
	ResourceSupply int
	CaptureRadius  float64
}

func (c Config) validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: world dimensions must be positive, got %gx%g", model.ErrConfiguration, c.Width, c.Height)
	}
	if c.ResourceSupply < 1 {
		return fmt.Errorf("%w: resource supply must be >= 1, got %d", model.ErrConfiguration, c.ResourceSupply)
	}
	if c.CaptureRadius <= 0 {
		return fmt.Errorf("%w: capture radius must be > 0, got %g", model.ErrConfiguration, c.CaptureRadius)
	}
	return nil
}

// World owns one generation's population and the active resource set,
// and advances them one tick at a time. Exactly one actor drives a
// World; it is not safe for concurrent use.
type World struct {
	cfg Config

	// agents iterates in insertion order so runs are reproducible
	// under a seed. byID serves lookups only.
	agents []*Agent
	byID   map[string]*Agent

	resources map[string]*Resource
	// order lists resource ids in insertion order; replacements append
	// at the end, so the first-minimum tie-break is stable within a
	// tick and reproducible across runs.
	order []string

	ids       *IDAllocator
	rng       *rand.Rand
	observers []Observer
}

// New validates the configuration, adopts the agent population, and
// spawns the configured resource supply. Fresh resource ids come from
// the provided allocator.
func New(cfg Config, agents []*Agent, ids *IDAllocator, rng *rand.Rand) (*World, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if len(agents) == 0 {
		return nil, fmt.Errorf("%w: world requires at least one agent", model.ErrEmptyPopulation)
	}
	if ids == nil {
		return nil, fmt.Errorf("%w: id allocator is required", model.ErrConfiguration)
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: random source is required", model.ErrConfiguration)
	}

	w := &World{
		cfg:       cfg,
		agents:    make([]*Agent, 0, len(agents)),
		byID:      make(map[string]*Agent, len(agents)),
		resources: make(map[string]*Resource, cfg.ResourceSupply),
		order:     make([]string, 0, cfg.ResourceSupply),
		ids:       ids,
		rng:       rng,
	}
	for i, agent := range agents {
		if agent == nil || agent.Net == nil {
			return nil, fmt.Errorf("%w: agent %d has no network", model.ErrConfiguration, i)
		}
		if agent.Net.Inputs() != networkInputs || agent.Net.Outputs() != networkOutputs {
			return nil, fmt.Errorf("%w: agent %s network must be %dx%d, got %dx%d",
				model.ErrConfiguration, agent.ID, networkInputs, networkOutputs, agent.Net.Inputs(), agent.Net.Outputs())
		}
		if _, exists := w.byID[agent.ID]; exists {
			return nil, fmt.Errorf("%w: duplicate agent id: %s", model.ErrConfiguration, agent.ID)
		}
		w.agents = append(w.agents, agent)
		w.byID[agent.ID] = agent
	}
	for i := 0; i < cfg.ResourceSupply; i++ {
		w.spawnResource()
	}
	return w, nil
}

// Subscribe registers an observer for tick notifications.
func (w *World) Subscribe(observer Observer) {
	if observer != nil {
		w.observers = append(w.observers, observer)
	}
}

// Tick advances the simulation one step. For each agent in stable
// order: find the nearest resource (first minimum wins ties), capture
// it when strictly closer than the capture radius, otherwise move by
// the controller's output. Captured resources are replaced immediately,
// so the active supply is constant at every tick boundary.
func (w *World) Tick() error {
	for _, agent := range w.agents {
		targetID, dist := w.nearest(agent)
		agent.TargetID = targetID

		if dist < w.cfg.CaptureRadius {
			agent.Score++
			w.replaceResource(targetID)
			continue
		}

		target := w.resources[targetID]
		inputs := []float64{
			(agent.X - target.X) / dist,
			(agent.Y - target.Y) / dist,
			agent.X / w.cfg.Width,
			agent.Y / w.cfg.Height,
		}
		out, err := agent.Net.Evaluate(inputs)
		if err != nil {
			return fmt.Errorf("agent %s: %w", agent.ID, err)
		}
		agent.DX, agent.DY = out[0], out[1]
		// Movement is applied unconditionally; agents may leave the
		// arena and find their way back.
		agent.X += agent.DX
		agent.Y += agent.DY
		for _, observer := range w.observers {
			observer.AgentMoved(agent.Snapshot())
		}
	}
	return nil
}

// nearest scans the active resources in stable order and returns the
// first one achieving the minimum distance.
func (w *World) nearest(agent *Agent) (string, float64) {
	bestID := ""
	bestDist := math.Inf(1)
	for _, id := range w.order {
		resource := w.resources[id]
		dist := distance(agent.X, agent.Y, resource.X, resource.Y)
		if dist < bestDist {
			bestDist = dist
			bestID = id
		}
	}
	return bestID, bestDist
}

// replaceResource removes a captured resource and spawns a fresh one
// with a new id at a random position, keeping the supply constant.
func (w *World) replaceResource(id string) {
	replacement := w.spawnResource()
	delete(w.resources, id)
	for i, existing := range w.order {
		if existing == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	for _, observer := range w.observers {
		observer.ResourceReplaced(replacement.Snapshot())
	}
}

func (w *World) spawnResource() *Resource {
	x, y := SpawnPosition(w.rng, w.cfg.Width, w.cfg.Height)
	resource := &Resource{ID: w.ids.Next(), X: x, Y: y}
	w.resources[resource.ID] = resource
	w.order = append(w.order, resource.ID)
	return resource
}

// Agents returns the population in stable iteration order. Callers
// breeding the next generation take exclusive ownership back from the
// world once ticking is done.
func (w *World) Agents() []*Agent {
	return append([]*Agent(nil), w.agents...)
}

// Agent looks an agent up by id.
func (w *World) Agent(id string) (*Agent, bool) {
	agent, ok := w.byID[id]
	return agent, ok
}

// AgentSnapshots returns read-only copies for reporting collaborators.
func (w *World) AgentSnapshots() []model.AgentSnapshot {
	out := make([]model.AgentSnapshot, 0, len(w.agents))
	for _, agent := range w.agents {
		out = append(out, agent.Snapshot())
	}
	return out
}

// ResourceSnapshots returns the active resources in stable order.
func (w *World) ResourceSnapshots() []model.ResourceSnapshot {
	out := make([]model.ResourceSnapshot, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.resources[id].Snapshot())
	}
	return out
}

func distance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}
