package model

// Genome is the flat serialized form of a network's trainable weights.
// Traversal order is fixed: hidden layers in order, each layer's neurons
// in order, each neuron's weights in order, then the output layer the
// same way.
type Genome []float64

func (g Genome) Clone() Genome {
	if g == nil {
		return nil
	}
	out := make(Genome, len(g))
	copy(out, g)
	return out
}

// AgentSnapshot is a read-only view of an agent handed to reporting and
// rendering collaborators. Mutating it never affects simulation state.
type AgentSnapshot struct {
	ID       string  `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	DX       float64 `json:"dx"`
	DY       float64 `json:"dy"`
	Score    int     `json:"score"`
	TargetID string  `json:"target_id,omitempty"`
}

// ResourceSnapshot is a read-only view of a resource.
type ResourceSnapshot struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// GenerationRecord captures the statistics of one finished generation.
// Mutations is the cumulative count across the whole run so far.
type GenerationRecord struct {
	Generation   int     `json:"generation"`
	AverageScore float64 `json:"average_score"`
	HighScore    int     `json:"high_score"`
	Mutations    int     `json:"mutations"`
}
