package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gosuri/uitable"

	"netbots/internal/config"
	"netbots/internal/model"
	"netbots/internal/nn"
)

// overrides carries the train subcommand's flag values; zero (or -1
// for the mutation rate) means "keep the configured value".
type overrides struct {
	pop          int
	gens         int
	ticks        int
	supply       int
	mutationRate float64
	seed         int64
	hidden       string
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func applyOverrides(cfg *config.Config, o overrides) error {
	if o.pop > 0 {
		cfg.Evolution.Population = o.pop
	}
	if o.gens > 0 {
		cfg.Evolution.Generations = o.gens
	}
	if o.ticks > 0 {
		cfg.Evolution.TicksPerGeneration = o.ticks
	}
	if o.supply > 0 {
		cfg.World.ResourceSupply = o.supply
	}
	if o.mutationRate >= 0 {
		cfg.Evolution.MutationRate = o.mutationRate
	}
	if o.seed != 0 {
		cfg.Evolution.Seed = o.seed
	}
	if o.hidden != "" {
		sizes, err := parseHiddenSizes(o.hidden)
		if err != nil {
			return err
		}
		cfg.Network.HiddenLayers = sizes
	}
	return cfg.Validate()
}

func parseHiddenSizes(list string) ([]int, error) {
	parts := strings.Split(list, ",")
	sizes := make([]int, 0, len(parts))
	for _, part := range parts {
		size, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid hidden layer size %q: %w", part, err)
		}
		sizes = append(sizes, size)
	}
	return sizes, nil
}

func parseGenome(list string) (model.Genome, error) {
	parts := strings.Split(list, ",")
	genome := make(model.Genome, 0, len(parts))
	for _, part := range parts {
		weight, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid genome weight %q: %w", part, err)
		}
		genome = append(genome, weight)
	}
	return genome, nil
}

func renderActivations() string {
	table := uitable.New()
	table.AddRow("Name", "Role")
	for _, name := range nn.ActivationNames() {
		table.AddRow(name, "hidden or output layer")
	}
	return table.String()
}

func renderDefaults(cfg config.Config) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[world]\n")
	fmt.Fprintf(&b, "width = %g\n", cfg.World.Width)
	fmt.Fprintf(&b, "height = %g\n", cfg.World.Height)
	fmt.Fprintf(&b, "resource_supply = %d\n", cfg.World.ResourceSupply)
	fmt.Fprintf(&b, "capture_radius = %g\n\n", cfg.World.CaptureRadius)
	fmt.Fprintf(&b, "[network]\n")
	fmt.Fprintf(&b, "inputs = %d\n", cfg.Network.Inputs)
	fmt.Fprintf(&b, "outputs = %d\n", cfg.Network.Outputs)
	fmt.Fprintf(&b, "hidden_layers = %s\n", joinSizes(cfg.Network.HiddenLayers))
	fmt.Fprintf(&b, "hidden_activation = %s\n", cfg.Network.HiddenActivation)
	fmt.Fprintf(&b, "output_activation = %s\n\n", cfg.Network.OutputActivation)
	fmt.Fprintf(&b, "[evolution]\n")
	fmt.Fprintf(&b, "population = %d\n", cfg.Evolution.Population)
	fmt.Fprintf(&b, "generations = %d\n", cfg.Evolution.Generations)
	fmt.Fprintf(&b, "ticks_per_generation = %d\n", cfg.Evolution.TicksPerGeneration)
	fmt.Fprintf(&b, "mutation_rate = %g\n", cfg.Evolution.MutationRate)
	fmt.Fprintf(&b, "seed = %d\n", cfg.Evolution.Seed)
	return b.String()
}

func joinSizes(sizes []int) string {
	parts := make([]string, 0, len(sizes))
	for _, size := range sizes {
		parts = append(parts, strconv.Itoa(size))
	}
	return strings.Join(parts, ",")
}
