package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tatianab/liftguide/internal/config"
	"github.com/tatianab/liftguide/internal/logging"
	"github.com/tatianab/liftguide/internal/models"
	"github.com/tatianab/liftguide/internal/scenario"
)

func main() {
	cfg, err := config.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	paths := flag.Args()
	if cfg.Scenario != "" {
		paths = append([]string{cfg.Scenario}, paths...)
	}
	if len(paths) == 0 {
		config.Exitf("usage: scenario [flags] file.lua...")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		config.Exitf("logger: %v", err)
	}
	defer log.Sync()

	building, err := models.LoadBuilding(cfg.BuildingFile)
	if err != nil {
		config.Exitf("building: %v", err)
	}

	failed := 0
	for _, path := range paths {
		res, err := scenario.RunFile(ctx, path, scenario.Config{
			Building: building,
			Logger:   log,
			Out:      os.Stdout,
			Verbose:  cfg.Verbose,
		})
		if err != nil {
			failed++
			fmt.Printf("FAIL %s: %v\n", path, err)
			continue
		}
		fmt.Printf("ok   %s (%s, level %d, %d checks, %s)\n",
			res.Name, res.State, res.Level, res.Checks, res.Elapsed)
	}
	if failed > 0 {
		config.Exitf("%d of %d scenarios failed", failed, len(paths))
	}
}
