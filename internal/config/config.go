// Package config loads and validates training configuration.
package config

import (
	"fmt"

	"gopkg.in/ini.v1"

	"netbots/internal/evo"
	"netbots/internal/model"
	"netbots/internal/nn"
	"netbots/internal/world"
)

// Config enumerates every training parameter. All values are required
// at startup; Validate rejects a bad set before any generation runs.
type Config struct {
	World     WorldConfig     `ini:"world"`
	Network   NetworkConfig   `ini:"network"`
	Evolution EvolutionConfig `ini:"evolution"`
}

type WorldConfig struct {
	Width          float64 `ini:"width"`
	Height         float64 `ini:"height"`
	ResourceSupply int     `ini:"resource_supply"`
	CaptureRadius  float64 `ini:"capture_radius"`
}

type NetworkConfig struct {
	Inputs           int    `ini:"inputs"`
	Outputs          int    `ini:"outputs"`
	HiddenLayers     []int  `ini:"hidden_layers" delim:","`
	HiddenActivation string `ini:"hidden_activation"`
	OutputActivation string `ini:"output_activation"`
}

type EvolutionConfig struct {
	Population         int     `ini:"population"`
	Generations        int     `ini:"generations"`
	TicksPerGeneration int     `ini:"ticks_per_generation"`
	MutationRate       float64 `ini:"mutation_rate"`
	Seed               int64   `ini:"seed"`
}

// Default mirrors the reference parameter profile: an 800x600 arena,
// 30 bots chasing 10 food pickups for 30 generations of 1500 ticks,
// with a capture radius of 7 (bot half-size 4 plus pickup half-size 3).
func Default() Config {
	return Config{
		World: WorldConfig{
			Width:          800,
			Height:         600,
			ResourceSupply: 10,
			CaptureRadius:  7,
		},
		Network: NetworkConfig{
			Inputs:           4,
			Outputs:          2,
			HiddenLayers:     []int{6},
			HiddenActivation: "leakyrelu6",
			OutputActivation: "tanh",
		},
		Evolution: EvolutionConfig{
			Population:         30,
			Generations:        30,
			TicksPerGeneration: 1500,
			MutationRate:       0.05,
			Seed:               1,
		},
	}
}

// Load reads an ini file over the defaults, so a file only needs the
// keys it wants to change.
func Load(path string) (Config, error) {
	cfg := Default()
	file, err := ini.Load(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := file.MapTo(&cfg); err != nil {
		return Config{}, fmt.Errorf("map config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every parameter and reports the first violation.
func (c Config) Validate() error {
	if c.World.Width <= 0 || c.World.Height <= 0 {
		return fmt.Errorf("%w: world dimensions must be positive, got %gx%g", model.ErrConfiguration, c.World.Width, c.World.Height)
	}
	if c.World.ResourceSupply < 1 {
		return fmt.Errorf("%w: resource supply must be >= 1, got %d", model.ErrConfiguration, c.World.ResourceSupply)
	}
	if c.World.CaptureRadius <= 0 {
		return fmt.Errorf("%w: capture radius must be > 0, got %g", model.ErrConfiguration, c.World.CaptureRadius)
	}
	if c.Network.Inputs < 1 {
		return fmt.Errorf("%w: network inputs must be >= 1, got %d", model.ErrConfiguration, c.Network.Inputs)
	}
	if c.Network.Outputs < 1 {
		return fmt.Errorf("%w: network outputs must be >= 1, got %d", model.ErrConfiguration, c.Network.Outputs)
	}
	for i, size := range c.Network.HiddenLayers {
		if size < 0 {
			return fmt.Errorf("%w: hidden layer %d size must be >= 0, got %d", model.ErrConfiguration, i, size)
		}
	}
	if _, err := nn.ParseActivation(c.Network.HiddenActivation); err != nil {
		return err
	}
	if _, err := nn.ParseActivation(c.Network.OutputActivation); err != nil {
		return err
	}
	if c.Evolution.Population < 1 {
		return fmt.Errorf("%w: population must be >= 1", model.ErrEmptyPopulation)
	}
	if c.Evolution.Generations < 1 {
		return fmt.Errorf("%w: generations must be >= 1, got %d", model.ErrConfiguration, c.Evolution.Generations)
	}
	if c.Evolution.TicksPerGeneration < 1 {
		return fmt.Errorf("%w: ticks per generation must be >= 1, got %d", model.ErrConfiguration, c.Evolution.TicksPerGeneration)
	}
	if c.Evolution.MutationRate < 0 || c.Evolution.MutationRate > 1 {
		return fmt.Errorf("%w: mutation rate must be in [0, 1], got %g", model.ErrConfiguration, c.Evolution.MutationRate)
	}
	return nil
}

// TrainerConfig maps the validated configuration onto the trainer's
// parameter set.
func (c Config) TrainerConfig() (evo.Config, error) {
	if err := c.Validate(); err != nil {
		return evo.Config{}, err
	}
	hiddenAct, err := nn.ParseActivation(c.Network.HiddenActivation)
	if err != nil {
		return evo.Config{}, err
	}
	outputAct, err := nn.ParseActivation(c.Network.OutputActivation)
	if err != nil {
		return evo.Config{}, err
	}
	return evo.Config{
		World: world.Config{
			Width:          c.World.Width,
			Height:         c.World.Height,
			ResourceSupply: c.World.ResourceSupply,
			CaptureRadius:  c.World.CaptureRadius,
		},
		PopulationSize:     c.Evolution.Population,
		Generations:        c.Evolution.Generations,
		TicksPerGeneration: c.Evolution.TicksPerGeneration,
		Inputs:             c.Network.Inputs,
		Outputs:            c.Network.Outputs,
		HiddenLayers:       append([]int(nil), c.Network.HiddenLayers...),
		HiddenActivation:   hiddenAct,
		OutputActivation:   outputAct,
		MutationRate:       c.Evolution.MutationRate,
		Seed:               c.Evolution.Seed,
	}, nil
}
