package nn

import (
	"fmt"
	"math/rand"

	"netbots/internal/model"
)

// Network is a fully connected feedforward network with a fixed
// topology. Each neuron is a weight row of length inputs+1; the last
// weight is the bias weight and is always multiplied by a constant -1
// input. Topology is immutable after construction; weights change only
// through Decode or the random initialization performed by New.
type Network struct {
	inputs  int
	outputs int
	sizes   []int

	hiddenAct Activation
	outputAct Activation

	// hidden[l][n] and output[n] are the stored weight rows. Decode
	// overwrites them index for index; no method ever replaces the row
	// slices themselves.
	hidden [][][]float64
	output [][]float64
}

// New builds a network with randomly initialized weights drawn
// uniformly from [-1, 1) using the provided source. A zero-sized hidden
// layer is legal: it contributes no neurons, and the following layer
// sees zero inputs (bias only), matching the topology-building rule the
// rest of the system depends on.
func New(inputs, outputs int, hiddenSizes []int, hiddenAct, outputAct Activation, rng *rand.Rand) (*Network, error) {
	if rng == nil {
		return nil, fmt.Errorf("%w: random source is required", model.ErrConfiguration)
	}
	if inputs < 1 {
		return nil, fmt.Errorf("%w: input count must be >= 1, got %d", model.ErrConfiguration, inputs)
	}
	if outputs < 1 {
		return nil, fmt.Errorf("%w: output count must be >= 1, got %d", model.ErrConfiguration, outputs)
	}
	for i, size := range hiddenSizes {
		if size < 0 {
			return nil, fmt.Errorf("%w: hidden layer %d size must be >= 0, got %d", model.ErrConfiguration, i, size)
		}
	}

	n := &Network{
		inputs:    inputs,
		outputs:   outputs,
		sizes:     append([]int(nil), hiddenSizes...),
		hiddenAct: hiddenAct,
		outputAct: outputAct,
	}

	in := inputs
	n.hidden = make([][][]float64, 0, len(hiddenSizes))
	for _, size := range hiddenSizes {
		layer := make([][]float64, 0, size)
		for i := 0; i < size; i++ {
			layer = append(layer, randomWeights(in+1, rng))
		}
		n.hidden = append(n.hidden, layer)
		in = size
	}
	n.output = make([][]float64, 0, outputs)
	for i := 0; i < outputs; i++ {
		n.output = append(n.output, randomWeights(in+1, rng))
	}
	return n, nil
}

func randomWeights(count int, rng *rand.Rand) []float64 {
	weights := make([]float64, count)
	for i := range weights {
		weights[i] = rng.Float64()*2 - 1
	}
	return weights
}

func (n *Network) Inputs() int  { return n.inputs }
func (n *Network) Outputs() int { return n.outputs }

// HiddenSizes returns a copy of the ordered hidden layer sizes.
func (n *Network) HiddenSizes() []int {
	return append([]int(nil), n.sizes...)
}

func (n *Network) HiddenActivation() Activation { return n.hiddenAct }
func (n *Network) OutputActivation() Activation { return n.outputAct }

// Evaluate runs the forward pass. It is pure and deterministic: the
// same weights and inputs always produce the same outputs.
func (n *Network) Evaluate(inputs []float64) ([]float64, error) {
	if len(inputs) != n.inputs {
		return nil, fmt.Errorf("%w: evaluate expects %d inputs, got %d", model.ErrGenomeLength, n.inputs, len(inputs))
	}

	signal := inputs
	for _, layer := range n.hidden {
		next := make([]float64, 0, len(layer))
		for _, neuron := range layer {
			next = append(next, fire(neuron, signal, n.hiddenAct))
		}
		signal = next
	}

	out := make([]float64, 0, len(n.output))
	for _, neuron := range n.output {
		out = append(out, fire(neuron, signal, n.outputAct))
	}
	return out, nil
}

// fire computes the weighted sum of inputs plus the bias weight applied
// to a constant -1 input, then applies the activation.
func fire(neuron, inputs []float64, act Activation) float64 {
	sum := 0.0
	last := len(neuron) - 1
	for i := 0; i < last; i++ {
		sum += neuron[i] * inputs[i]
	}
	sum += neuron[last] * -1
	return act.Apply(sum)
}

// WeightCount returns the genome length for this topology.
func (n *Network) WeightCount() int {
	count := 0
	for _, layer := range n.hidden {
		for _, neuron := range layer {
			count += len(neuron)
		}
	}
	for _, neuron := range n.output {
		count += len(neuron)
	}
	return count
}

// Encode serializes all weights into a flat genome: hidden layers in
// order, then the output layer, each neuron's weights in order.
func (n *Network) Encode() model.Genome {
	genome := make(model.Genome, 0, n.WeightCount())
	for _, layer := range n.hidden {
		for _, neuron := range layer {
			genome = append(genome, neuron...)
		}
	}
	for _, neuron := range n.output {
		genome = append(genome, neuron...)
	}
	return genome
}

// Decode overwrites every stored weight in place from the genome, in
// the same order Encode emits them. The copy targets the stored rows
// directly; replacing a loop-local alias instead would leave the
// network unchanged and silently break crossover.
func (n *Network) Decode(genome model.Genome) error {
	if len(genome) != n.WeightCount() {
		return fmt.Errorf("%w: decode expects %d weights, got %d", model.ErrGenomeLength, n.WeightCount(), len(genome))
	}

	offset := 0
	for _, layer := range n.hidden {
		for _, neuron := range layer {
			offset += copy(neuron, genome[offset:offset+len(neuron)])
		}
	}
	for _, neuron := range n.output {
		offset += copy(neuron, genome[offset:offset+len(neuron)])
	}
	return nil
}

// Clone returns an independent deep copy sharing no weight storage with
// the receiver.
func (n *Network) Clone() *Network {
	out := &Network{
		inputs:    n.inputs,
		outputs:   n.outputs,
		sizes:     append([]int(nil), n.sizes...),
		hiddenAct: n.hiddenAct,
		outputAct: n.outputAct,
	}
	out.hidden = make([][][]float64, 0, len(n.hidden))
	for _, layer := range n.hidden {
		copied := make([][]float64, 0, len(layer))
		for _, neuron := range layer {
			copied = append(copied, append([]float64(nil), neuron...))
		}
		out.hidden = append(out.hidden, copied)
	}
	out.output = make([][]float64, 0, len(n.output))
	for _, neuron := range n.output {
		out.output = append(out.output, append([]float64(nil), neuron...))
	}
	return out
}
