package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/tatianab/liftguide/internal/config"
	"github.com/tatianab/liftguide/internal/engine"
	"github.com/tatianab/liftguide/internal/logging"
	"github.com/tatianab/liftguide/internal/models"
	"github.com/tatianab/liftguide/internal/narrator"
	"github.com/tatianab/liftguide/internal/tui"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		config.Exitf("Error loading config: %v", err)
	}

	log, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		config.Exitf("Error creating logger: %v", err)
	}
	defer log.Sync()

	building, err := models.LoadBuilding(cfg.BuildingFile)
	if err != nil {
		config.Exitf("Error loading building: %v", err)
	}

	missionState := cfg.MissionState
	if missionState == "" {
		missionState, err = engine.ParseParams(cfg.Params)
		if err != nil {
			config.Exitf("Error reading params: %v", err)
		}
	}

	opts := tui.Options{
		Building:        building,
		MissionState:    missionState,
		NarratorTimeout: cfg.NarratorTimeout,
		Logger:          log,
	}
	if cfg.NarratorEnabled() {
		n, err := narrator.NewNarrator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.NarratorPersona, log)
		if err != nil {
			log.Warn("narrator disabled", zap.Error(err))
		} else {
			defer n.Close()
			opts.Narrator = n
		}
	}

	log.Info("starting lift",
		zap.String("building", building.Name),
		zap.String(engine.MissionStateParam, missionState),
		zap.Bool("narrator", opts.Narrator != nil))

	if err := tui.Run(opts); err != nil {
		config.Exitf("Error running TUI: %v", err)
	}
}
