package nn

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"netbots/internal/model"
)

func newTestNetwork(t *testing.T, inputs, outputs int, hidden []int, seed int64) *Network {
	t.Helper()
	n, err := New(inputs, outputs, hidden, LeakyReLU6, Tanh, rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatalf("new network: %v", err)
	}
	return n
}

func TestNewValidation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	cases := []struct {
		name    string
		inputs  int
		outputs int
		hidden  []int
	}{
		{"zero inputs", 0, 2, []int{6}},
		{"zero outputs", 4, 0, []int{6}},
		{"negative hidden size", 4, 2, []int{6, -1}},
	}
	for _, tc := range cases {
		if _, err := New(tc.inputs, tc.outputs, tc.hidden, LeakyReLU6, Tanh, rng); !errors.Is(err, model.ErrConfiguration) {
			t.Fatalf("%s: expected ErrConfiguration, got: %v", tc.name, err)
		}
	}
	if _, err := New(4, 2, []int{6}, LeakyReLU6, Tanh, nil); !errors.Is(err, model.ErrConfiguration) {
		t.Fatalf("nil rng: expected ErrConfiguration, got: %v", err)
	}
}

func TestWeightCount(t *testing.T) {
	// 4 inputs -> 6 hidden -> 2 outputs:
	// hidden 6*(4+1)=30, output 2*(6+1)=14.
	n := newTestNetwork(t, 4, 2, []int{6}, 1)
	if got := n.WeightCount(); got != 44 {
		t.Fatalf("weight count: got=%d want=44", got)
	}
	if got := len(n.Encode()); got != 44 {
		t.Fatalf("encoded length: got=%d want=44", got)
	}
}

func TestZeroSizedHiddenLayerTopology(t *testing.T) {
	// A zero-sized layer contributes no neurons and the next layer sees
	// zero inputs, so its neurons carry only the bias weight.
	n := newTestNetwork(t, 4, 2, []int{0}, 1)
	if got := n.WeightCount(); got != 2 {
		t.Fatalf("weight count: got=%d want=2", got)
	}
	out, err := n.Evaluate([]float64{0.1, 0.2, 0.3, 0.4})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("output length: got=%d want=2", len(out))
	}
}

func TestEvaluateInputLengthMismatch(t *testing.T) {
	n := newTestNetwork(t, 4, 2, []int{6}, 1)
	if _, err := n.Evaluate([]float64{1, 2, 3}); !errors.Is(err, model.ErrGenomeLength) {
		t.Fatalf("expected ErrGenomeLength, got: %v", err)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	n := newTestNetwork(t, 4, 2, []int{6, 3}, 7)
	in := []float64{0.5, -0.5, 0.25, 0.75}
	first, err := n.Evaluate(in)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := n.Evaluate(in)
		if err != nil {
			t.Fatalf("repeat evaluate: %v", err)
		}
		for j := range first {
			if first[j] != again[j] {
				t.Fatalf("non-deterministic output at %d: %v vs %v", j, first[j], again[j])
			}
		}
	}
}

func TestKnownForwardPass(t *testing.T) {
	// Single input, single output, no hidden layers. The output neuron
	// computes tanh(w0*x - bias).
	n := newTestNetwork(t, 1, 1, nil, 1)
	if err := n.Decode(model.Genome{0.5, 0.25}); err != nil {
		t.Fatalf("decode: %v", err)
	}
	out, err := n.Evaluate([]float64{1})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	want := 2/(1+math.Exp(-2*(0.5-0.25))) - 1
	if math.Abs(out[0]-want) > 1e-12 {
		t.Fatalf("forward pass: got=%v want=%v", out[0], want)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	source := newTestNetwork(t, 4, 2, []int{6, 0, 3}, 11)
	target := newTestNetwork(t, 4, 2, []int{6, 0, 3}, 99)

	genome := source.Encode()
	if err := target.Decode(genome); err != nil {
		t.Fatalf("decode: %v", err)
	}

	in := []float64{0.1, -0.9, 0.4, 0.6}
	wantOut, err := source.Evaluate(in)
	if err != nil {
		t.Fatalf("source evaluate: %v", err)
	}
	gotOut, err := target.Evaluate(in)
	if err != nil {
		t.Fatalf("target evaluate: %v", err)
	}
	for i := range wantOut {
		if math.Abs(wantOut[i]-gotOut[i]) > 1e-12 {
			t.Fatalf("round trip output %d: got=%v want=%v", i, gotOut[i], wantOut[i])
		}
	}
}

func TestDecodeMutatesStoredWeights(t *testing.T) {
	n := newTestNetwork(t, 2, 1, []int{2}, 3)
	genome := make(model.Genome, n.WeightCount())
	for i := range genome {
		genome[i] = float64(i) / 10
	}
	if err := n.Decode(genome); err != nil {
		t.Fatalf("decode: %v", err)
	}
	encoded := n.Encode()
	for i := range genome {
		if encoded[i] != genome[i] {
			t.Fatalf("stored weight %d not overwritten: got=%v want=%v", i, encoded[i], genome[i])
		}
	}
}

func TestDecodeLengthMismatch(t *testing.T) {
	n := newTestNetwork(t, 4, 2, []int{6}, 1)
	if err := n.Decode(make(model.Genome, 3)); !errors.Is(err, model.ErrGenomeLength) {
		t.Fatalf("expected ErrGenomeLength, got: %v", err)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	n := newTestNetwork(t, 4, 2, []int{6}, 5)
	clone := n.Clone()

	original := n.Encode()
	mutated := original.Clone()
	mutated[0] = 42
	if err := n.Decode(mutated); err != nil {
		t.Fatalf("decode: %v", err)
	}

	cloneGenome := clone.Encode()
	if cloneGenome[0] != original[0] {
		t.Fatalf("clone shares storage with original: got=%v want=%v", cloneGenome[0], original[0])
	}
	if got := n.Encode()[0]; got != 42 {
		t.Fatalf("original did not take decode: got=%v want=42", got)
	}
}

func TestWeightsInitializedInRange(t *testing.T) {
	n := newTestNetwork(t, 4, 2, []int{8, 8}, 13)
	for i, w := range n.Encode() {
		if w < -1 || w > 1 {
			t.Fatalf("weight %d out of [-1, 1]: %v", i, w)
		}
	}
}
