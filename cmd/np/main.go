// Command np prints nets as they appear in a physical netlist file.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/interroute/fif"
	"github.com/sarchlab/interroute/netprint"
)

func main() {
	cmd := &cobra.Command{
		Use:   "np <phys> <net>...",
		Short: "Print nets as they appear in the physical netlist file",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			phys, err := fif.ReadNetlist(args[0])
			if err != nil {
				return err
			}
			netprint.PrintNets(os.Stdout, phys, args[1:])
			return nil
		},
	}

	if err := cmd.Execute(); err != nil {
		atexit.Exit(1)
	}
	atexit.Exit(0)
}
