// Command score reads the result files of a set of benchmark runs and
// prints each benchmark's data and score as a table.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/interroute/score"
)

func main() {
	cmd := &cobra.Command{
		Use:   "score <benchmark>...",
		Short: "Compute the score achieved on a set of benchmarks by a router",
		Long: "For each benchmark prefix the files <prefix>.check, " +
			"<prefix>.phys.log and <prefix>.wirelength are read; missing or " +
			"failed results score infinity.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			results := score.Compute(score.OSFS{}, args)
			score.PrintTable(os.Stdout, results)
			return nil
		},
	}

	if err := cmd.Execute(); err != nil {
		atexit.Exit(1)
	}
	atexit.Exit(0)
}
