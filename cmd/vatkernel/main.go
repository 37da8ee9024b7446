// Command vatkernel loads a vat topology file and either runs it to
// completion or steps it by a fixed number of turns. It is a thin,
// ambient wrapper around the kernel/controller/vatset packages -- the
// core itself has no notion of files, flags, or processes.
package main

import (
	"fmt"
	"os"

	"github.com/go-logr/zapr"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/net/context"

	"github.com/vatkernel/vatkernel/controller"
	"github.com/vatkernel/vatkernel/internal/vats"
	"github.com/vatkernel/vatkernel/kernel"
	"github.com/vatkernel/vatkernel/vatset"
)

var (
	configPath string
	verbose    bool
	turns      int
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "vatkernel",
		Short: "Run a capability-secure vat kernel topology",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a vat topology file (required)")
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug-level logging")
	root.AddCommand(runCmd(), stepCmd())
	return root
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the topology's bootstrap delivery to completion",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := setup()
			if err != nil {
				return err
			}
			return c.Run(context.Background())
		},
	}
}

func stepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "step",
		Short: "Process at most N pending turns, then print the queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := setup()
			if err != nil {
				return err
			}
			n, err := c.RunN(turns)
			if err != nil {
				return err
			}
			fmt.Printf("processed %d turn(s)\n%s", n, c.Dump())
			return nil
		},
	}
	cmd.Flags().IntVar(&turns, "turns", 1, "maximum number of turns to process")
	return cmd
}

func setup() (*controller.Controller, []string, error) {
	if configPath == "" {
		return nil, nil, fmt.Errorf("--config is required")
	}

	zcfg := zap.NewProductionConfig()
	if verbose {
		zcfg = zap.NewDevelopmentConfig()
	}
	zl, err := zcfg.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("building logger: %w", err)
	}
	log := zapr.NewLogger(zl)

	cfg, err := vatset.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	k := kernel.New()
	factories := vatset.Factories{
		"echo":   func(name string) kernel.Dispatch { return &vats.Echo{Log: log, Name: name} },
		"silent": func(name string) kernel.Dispatch { return &vats.Silent{Log: log, Name: name} },
	}
	bootstrapID, err := vatset.Build(k, cfg, factories)
	if err != nil {
		return nil, nil, err
	}
	if err := k.PushBootstrap(bootstrapID); err != nil {
		return nil, nil, err
	}

	log.Info("topology loaded", "vats", cfg.Names())
	return controller.New(k, log), cfg.Names(), nil
}
