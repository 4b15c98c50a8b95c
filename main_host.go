//go:build !tinygo

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"beacon/app"
	"beacon/hal"
)

func main() {
	var cfg hal.HeadlessConfig
	var configPath string
	flag.BoolVar(&cfg.Enabled, "headless", false, "Run without a window.")
	flag.Uint64Var(&cfg.Ticks, "ticks", 0, "Stop after N timer ticks in headless mode (0 = run forever).")
	flag.StringVar(&configPath, "config", "", "Simulator config file (YAML).")
	flag.Parse()

	sim := hal.DefaultSimConfig()
	if configPath != "" {
		var err error
		if sim, err = hal.LoadSimConfig(configPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	newApp := func(h hal.HAL) func() error {
		return app.NewWithConfig(h, app.Config{Palette: sim.Colors()}).Step
	}

	if cfg.Enabled {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := hal.RunHeadless(ctx, newApp, sim, cfg); err != nil {
			if err == context.Canceled {
				return
			}
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if err := hal.RunWindow(newApp, sim); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
