package stats

import (
	"fmt"

	"github.com/gosuri/uitable"

	"netbots/internal/model"
)

// RenderTrace lays the generation records out as a console table.
func RenderTrace(trace []model.GenerationRecord) string {
	table := uitable.New()
	table.MaxColWidth = 40
	table.Wrap = false
	table.AddRow("Generation", "Avg.Score", "HighScore", "Mutations")
	for _, record := range trace {
		table.AddRow(
			record.Generation,
			fmt.Sprintf("%.2f", record.AverageScore),
			record.HighScore,
			record.Mutations,
		)
	}
	return table.String()
}

// RenderSummary lays the run summary out as a console table.
func RenderSummary(summary Summary) string {
	table := uitable.New()
	table.MaxColWidth = 40
	table.Wrap = false
	table.AddRow("Generations", summary.Generations)
	table.AddRow("High score", summary.HighScore)
	table.AddRow("Final avg. score", fmt.Sprintf("%.2f", summary.FinalAverage))
	table.AddRow("Mean avg. score", fmt.Sprintf("%.2f", summary.MeanAverage))
	table.AddRow("Std. dev. of avg.", fmt.Sprintf("%.2f", summary.StdDevAverage))
	table.AddRow("Best generation", fmt.Sprintf("%d (avg. %.2f)", summary.BestGeneration, summary.BestGenAverage))
	table.AddRow("Mutations", summary.TotalMutations)
	return table.String()
}
