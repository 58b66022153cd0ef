package nn

import (
	"fmt"
	"math"

	"netbots/internal/model"
)

// Activation is the closed set of scalar activation functions available
// to hidden and output layers. The set is fixed at compile time;
// configuration selects a member by name via ParseActivation.
type Activation int

const (
	Logistic Activation = iota
	Tanh
	ReLU
	LeakyReLU
	ReLU6
	LeakyReLU6
)

var activationNames = map[Activation]string{
	Logistic:   "logistic",
	Tanh:       "tanh",
	ReLU:       "relu",
	LeakyReLU:  "leakyrelu",
	ReLU6:      "relu6",
	LeakyReLU6: "leakyrelu6",
}

// ParseActivation resolves a configured activation name. Unknown names
// are a configuration error.
func ParseActivation(name string) (Activation, error) {
	for activation, known := range activationNames {
		if known == name {
			return activation, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown activation: %s", model.ErrConfiguration, name)
}

func (a Activation) String() string {
	name, ok := activationNames[a]
	if !ok {
		return fmt.Sprintf("activation(%d)", int(a))
	}
	return name
}

// Apply evaluates the activation at x. The receiver is always one of
// the declared constants; any other value is a programming error.
func (a Activation) Apply(x float64) float64 {
	switch a {
	case Logistic:
		return 1 / (1 + math.Exp(-x))
	case Tanh:
		return 2/(1+math.Exp(-2*x)) - 1
	case ReLU:
		if x > 0 {
			return x
		}
		return 0
	case LeakyReLU:
		if x > 0 {
			return x
		}
		return 0.001 * x
	case ReLU6:
		if x >= 6 {
			return 6
		}
		return ReLU.Apply(x)
	case LeakyReLU6:
		if x >= 6 {
			return 6
		}
		return LeakyReLU.Apply(x)
	default:
		panic(fmt.Sprintf("nn: invalid activation %d", int(a)))
	}
}

// ActivationNames lists the selectable names in declaration order.
func ActivationNames() []string {
	out := make([]string, 0, len(activationNames))
	for a := Logistic; a <= LeakyReLU6; a++ {
		out = append(out, activationNames[a])
	}
	return out
}
