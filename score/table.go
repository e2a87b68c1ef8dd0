package score

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// PrintTable renders benchmark results as a table.
func PrintTable(w io.Writer, results []Result) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{
		"Benchmark", "Pass", "User CPU (sec)", "Wall Clock (sec)",
		"Critical-Path Wirelength", "Score",
	})
	for _, r := range results {
		t.AppendRow(table.Row{
			r.Benchmark,
			r.Pass,
			fmt.Sprintf("%.2f", r.UserCPU),
			fmt.Sprintf("%.2f", r.WallClock),
			fmt.Sprintf("%.0f", r.CPW),
			fmt.Sprintf("%.2f", r.Score),
		})
	}
	t.Render()
}
