// Command wa computes the longest wirelength in a routed physical
// netlist: the longest single routed net, the critical-path wirelength
// across combinatorial cells, or both.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
	"go.uber.org/zap"

	"github.com/sarchlab/interroute/analyzer"
	"github.com/sarchlab/interroute/fif"
)

func main() {
	var (
		verbosity int
		mode      string
		emitTcl   bool
	)
	cmd := &cobra.Command{
		Use:   "wa <routed.phys>",
		Short: "Compute the longest wirelength in a routed physical netlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch mode {
			case "cp", "critical-path", "lsn", "longest-single-net", "both":
			default:
				return fmt.Errorf("invalid mode %q", mode)
			}
			cmd.SilenceUsage = true
			return run(args[0], verbosity, mode, emitTcl)
		},
	}
	cmd.Flags().IntVarP(&verbosity, "verbosity", "v", 1, "output verbosity level")
	cmd.Flags().StringVar(&mode, "mode", "cp",
		"cp|critical-path, lsn|longest-single-net, or both")
	cmd.Flags().BoolVar(&emitTcl, "tcl", false,
		"emit Vivado timing commands after verbose path printing")

	if err := cmd.Execute(); err != nil {
		atexit.Exit(1)
	}
	atexit.Exit(0)
}

func run(physPath string, verbosity int, mode string, emitTcl bool) error {
	logger := zap.NewNop()
	if verbosity > 0 {
		l, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer l.Sync()
		logger = l
	}

	phys, err := fif.ReadNetlist(physPath)
	if err != nil {
		logger.Error(err.Error())
		return err
	}
	wa, err := analyzer.Builder{}.
		WithNetlist(phys).
		WithVerbosity(verbosity).
		WithTimingCommands(emitTcl).
		WithLogger(logger).
		Build()
	if err != nil {
		logger.Error(err.Error())
		return err
	}

	if mode == "lsn" || mode == "longest-single-net" || mode == "both" {
		if _, err := wa.FindLSN(); err != nil {
			logger.Error(err.Error())
			return err
		}
	}
	if mode == "cp" || mode == "critical-path" || mode == "both" {
		if _, err := wa.FindCriticalWirelength(); err != nil {
			logger.Error(err.Error())
			return err
		}
	}
	return nil
}
