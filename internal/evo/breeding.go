package evo

import (
	"math/rand"

	"netbots/internal/model"
	"netbots/internal/world"
)

// roulettePool is a score-weighted selection wheel over population
// indexes. Each agent contributes score+1 entries, so a zero scorer
// still holds exactly one slot and keeps a nonzero selection chance.
type roulettePool struct {
	entries []int
}

func newRoulettePool(population []*world.Agent) roulettePool {
	pool := roulettePool{}
	for i, agent := range population {
		for n := 0; n < agent.Score+1; n++ {
			pool.entries = append(pool.entries, i)
		}
	}
	return pool
}

func (p roulettePool) pick(rng *rand.Rand) int {
	return p.entries[rng.Intn(len(p.entries))]
}

// pickDistinct draws a second parent, resampling while it equals the
// first for up to maxRetries attempts. A low-diversity pool can
// exhaust the retries, in which case the duplicate is accepted and the
// child is bred from one parent's genome crossed with itself.
func (p roulettePool) pickDistinct(rng *rand.Rand, first, maxRetries int) int {
	second := p.pick(rng)
	for retry := 0; second == first && retry < maxRetries; retry++ {
		second = p.pick(rng)
	}
	return second
}

// crossover splits both genomes at an index drawn uniformly from
// [1, len-1] and joins the prefix of one parent with the suffix of the
// other; a fair coin decides which parent leads. Both parents share a
// topology, so the lengths always match.
func crossover(parentA, parentB model.Genome, rng *rand.Rand) model.Genome {
	index := 1 + rng.Intn(len(parentA)-1)
	child := make(model.Genome, 0, len(parentA))
	if rng.Intn(2) == 1 {
		child = append(child, parentA[:index]...)
		child = append(child, parentB[index:]...)
	} else {
		child = append(child, parentB[:index]...)
		child = append(child, parentA[index:]...)
	}
	return child
}

// mutate overwrites one uniformly chosen gene with a fresh uniform
// value in [-1, 1) with probability rate. It reports whether a
// mutation happened; at most one gene changes per call.
func mutate(genome model.Genome, rate float64, rng *rand.Rand) bool {
	if rng.Float64() >= rate {
		return false
	}
	genome[rng.Intn(len(genome))] = rng.Float64()*2 - 1
	return true
}
