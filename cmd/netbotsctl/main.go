// Command netbotsctl trains neural controllers that steer point agents
// toward moving resources, and reports the outcome on the console.
// Training results are ephemeral: whatever the run produced is printed
// before the process exits.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"netbots/internal/config"
	"netbots/internal/model"
	"netbots/internal/stats"
	"netbots/pkg/netbots"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "train":
		return runTrain(ctx, args[1:])
	case "replay":
		return runReplay(ctx, args[1:])
	case "activations":
		return runActivations(args[1:])
	case "defaults":
		return runDefaults(args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func runTrain(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	configPath := fs.String("config", "", "ini configuration file (defaults apply when empty)")
	runID := fs.String("run-id", "", "run identifier (generated when empty)")
	pop := fs.Int("pop", 0, "population size override")
	gens := fs.Int("gens", 0, "generation count override")
	ticks := fs.Int("ticks", 0, "ticks per generation override")
	supply := fs.Int("supply", 0, "resource supply override")
	mutationRate := fs.Float64("mutation-rate", -1, "mutation rate override")
	seed := fs.Int64("seed", 0, "random seed override (0 keeps the configured seed)")
	hidden := fs.String("hidden", "", "comma-separated hidden layer sizes override")
	replayTicks := fs.Int("replay-ticks", 0, "replay the elite for N ticks after training")
	quiet := fs.Bool("quiet", false, "suppress per-generation progress output")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if err := applyOverrides(&cfg, overrides{
		pop:          *pop,
		gens:         *gens,
		ticks:        *ticks,
		supply:       *supply,
		mutationRate: *mutationRate,
		seed:         *seed,
		hidden:       *hidden,
	}); err != nil {
		return err
	}

	options := []netbots.Option{}
	if *runID != "" {
		options = append(options, netbots.WithRunID(*runID))
	}
	if !*quiet {
		total := cfg.Evolution.Generations
		options = append(options, netbots.WithProgress(func(record model.GenerationRecord) {
			fmt.Printf("\rGeneration: %d/%d, Mutations: %d, Avg. Score: %.2f, High Score: %d          ",
				record.Generation, total, record.Mutations, record.AverageScore, record.HighScore)
		}))
	}

	fmt.Println("Training some bots...")
	result, err := netbots.Train(ctx, cfg, options...)
	if err != nil {
		return err
	}
	if !*quiet {
		fmt.Println()
	}

	fmt.Printf("run %s finished\n\n", result.RunID)
	fmt.Println(stats.RenderTrace(result.Trace))
	fmt.Println()
	fmt.Println(stats.RenderSummary(result.Summary))
	if result.Elite != nil {
		fmt.Printf("\nelite %s captured %d resources (genome length %d)\n",
			result.Elite.AgentID, result.Elite.Score, len(result.Elite.Genome))
	} else {
		fmt.Println("\nno agent scored; no elite recorded")
	}

	if *replayTicks > 0 {
		if result.Elite == nil {
			return fmt.Errorf("cannot replay: no elite recorded")
		}
		replay, err := netbots.Replay(ctx, netbots.ReplayRequest{
			Config: cfg,
			Genome: result.Elite.Genome,
			Ticks:  *replayTicks,
			Seed:   cfg.Evolution.Seed + 1,
		})
		if err != nil {
			return err
		}
		fmt.Printf("replay: %d captures over %d ticks\n", replay.Captures, *replayTicks)
	}
	return nil
}

func runReplay(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("replay", flag.ContinueOnError)
	configPath := fs.String("config", "", "ini configuration file (defaults apply when empty)")
	genomeList := fs.String("genome", "", "comma-separated genome weights (required)")
	ticks := fs.Int("ticks", 1500, "ticks to replay")
	seed := fs.Int64("seed", 1, "random seed for the replay world")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *genomeList == "" {
		return usageError("replay requires -genome")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	genome, err := parseGenome(*genomeList)
	if err != nil {
		return err
	}

	replay, err := netbots.Replay(ctx, netbots.ReplayRequest{
		Config: cfg,
		Genome: genome,
		Ticks:  *ticks,
		Seed:   *seed,
	})
	if err != nil {
		return err
	}
	fmt.Printf("replay: %d captures over %d ticks\n", replay.Captures, *ticks)
	for _, agent := range replay.Agents {
		fmt.Printf("  %s at (%.1f, %.1f), score %d\n", agent.ID, agent.X, agent.Y, agent.Score)
	}
	return nil
}

func runActivations(args []string) error {
	fs := flag.NewFlagSet("activations", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	fmt.Println(renderActivations())
	return nil
}

func runDefaults(args []string) error {
	fs := flag.NewFlagSet("defaults", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	fmt.Print(renderDefaults(config.Default()))
	return nil
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: netbotsctl <train|replay|activations|defaults> [flags]", msg)
}
