package world

import (
	"math/rand"

	"netbots/internal/model"
	"netbots/internal/nn"
)

// Agent is a point entity steered by its neural controller. Score is
// the number of resources captured during the current generation.
type Agent struct {
	ID   string
	X, Y float64
	// DX, DY hold the last movement delta produced by the controller.
	DX, DY float64
	Score  int
	// TargetID names the nearest resource found on the last tick, or
	// is empty before the first tick.
	TargetID string
	Net      *nn.Network
}

func (a *Agent) Snapshot() model.AgentSnapshot {
	return model.AgentSnapshot{
		ID:       a.ID,
		X:        a.X,
		Y:        a.Y,
		DX:       a.DX,
		DY:       a.DY,
		Score:    a.Score,
		TargetID: a.TargetID,
	}
}

// Resource is a point target collected by agents.
type Resource struct {
	ID   string
	X, Y float64
}

func (r *Resource) Snapshot() model.ResourceSnapshot {
	return model.ResourceSnapshot{ID: r.ID, X: r.X, Y: r.Y}
}

// spawnMargin insets starting positions from the world edge so new
// entities do not appear half outside the visible area.
const spawnMargin = 100.0

// SpawnPosition draws a uniformly random in-bounds position. Positions
// are inset by spawnMargin on each side when the dimension allows it.
func SpawnPosition(rng *rand.Rand, width, height float64) (float64, float64) {
	return spawnCoordinate(rng, width), spawnCoordinate(rng, height)
}

func spawnCoordinate(rng *rand.Rand, extent float64) float64 {
	lo, hi := spawnMargin, extent-spawnMargin
	if hi <= lo {
		lo, hi = 0, extent
	}
	return lo + rng.Float64()*(hi-lo)
}
