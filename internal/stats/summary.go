package stats

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"netbots/internal/model"
)

// Summary aggregates a whole run's generation trace.
type Summary struct {
	Generations    int
	HighScore      int
	FinalAverage   float64
	MeanAverage    float64
	StdDevAverage  float64
	TotalMutations int
	BestGeneration int
	BestGenAverage float64
}

// Summarize folds the per-generation records into run-level figures.
func Summarize(trace []model.GenerationRecord) (Summary, error) {
	if len(trace) == 0 {
		return Summary{}, fmt.Errorf("trace must not be empty")
	}

	averages := make([]float64, 0, len(trace))
	summary := Summary{
		Generations:    len(trace),
		BestGeneration: trace[0].Generation,
		BestGenAverage: trace[0].AverageScore,
	}
	for _, record := range trace {
		averages = append(averages, record.AverageScore)
		if record.HighScore > summary.HighScore {
			summary.HighScore = record.HighScore
		}
		if record.AverageScore > summary.BestGenAverage {
			summary.BestGenAverage = record.AverageScore
			summary.BestGeneration = record.Generation
		}
	}
	last := trace[len(trace)-1]
	summary.FinalAverage = last.AverageScore
	summary.TotalMutations = last.Mutations
	summary.MeanAverage = stat.Mean(averages, nil)
	summary.StdDevAverage = stat.StdDev(averages, nil)
	return summary, nil
}
