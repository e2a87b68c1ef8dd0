// Command router routes the unrouted signal nets of a physical netlist
// over a rectangular region of the device and writes the result.
package main

import (
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
	"go.uber.org/zap"

	"github.com/sarchlab/interroute/config"
	"github.com/sarchlab/interroute/fif"
	"github.com/sarchlab/interroute/router"
)

func main() {
	var configPath string
	cmd := &cobra.Command{
		Use:   "router <unrouted.phys> <routed.phys>",
		Short: "Route the unrouted signal nets of a physical netlist",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return run(configPath, args[0], args[1])
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "",
		"YAML file naming the device resources and the routing region")

	if err := cmd.Execute(); err != nil {
		atexit.Exit(1)
	}
	atexit.Exit(0)
}

func run(configPath, unroutedPath, routedPath string) error {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	defer logger.Sync()

	cfg := config.Default()
	if configPath != "" {
		if cfg, err = config.Load(configPath); err != nil {
			return fail(logger, err)
		}
	}

	device, err := fif.ReadDevice(cfg.Device)
	if err != nil {
		return fail(logger, err)
	}
	g, lookups := router.Builder{}.
		WithDevice(device).
		WithRegion(cfg.Region).
		WithLogger(logger).
		Build()

	logger.Info("parsing design", zap.String("netlist", unroutedPath))
	phys, err := fif.ReadNetlist(unroutedPath)
	if err != nil {
		return fail(logger, err)
	}

	r := router.New(g, lookups, logger)
	if err := r.Prepare(phys); err != nil {
		return fail(logger, err)
	}
	r.Route()
	if err := r.WriteNetlist(routedPath); err != nil {
		return fail(logger, err)
	}
	logger.Info("wrote routed design", zap.String("netlist", routedPath))
	return nil
}

func fail(logger *zap.Logger, err error) error {
	logger.Error(err.Error())
	return err
}
