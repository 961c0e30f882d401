package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration.
type Config struct {
	MissionState    string        `env:"LIFT_MISSION_STATE"`
	Params          string        `env:"LIFT_PARAMS"`
	BuildingFile    string        `env:"LIFT_BUILDING_FILE"`
	LogFile         string        `env:"LIFT_LOG_FILE"          envDefault:"liftguide.log"`
	LogLevel        string        `env:"LIFT_LOG_LEVEL"         envDefault:"info"`
	GeminiAPIKey    string        `env:"GEMINI_API_KEY"`
	GeminiModel     string        `env:"LIFT_GEMINI_MODEL"      envDefault:"gemini-2.5-flash"`
	NarratorPersona string        `env:"LIFT_NARRATOR_PERSONA"`
	NarratorTimeout time.Duration `env:"LIFT_NARRATOR_TIMEOUT"  envDefault:"4s"`
	Scenario        string        `env:"LIFT_SCENARIO_FILE"`
	Verbose         bool          `env:"LIFT_VERBOSE"`
	MaxTurns        int           `env:"LIFT_MAX_TURNS"         envDefault:"60"`
}

// ParseConfig loads defaults from the environment, then applies flags.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs.StringVar(&cfg.MissionState, "mission-state", cfg.MissionState, "resume at this mission state, e.g. MOVING_TO_ART")
	fs.StringVar(&cfg.Params, "params", cfg.Params, "resume parameters as a query string, e.g. missionState=LABELING_TASK")
	fs.StringVar(&cfg.BuildingFile, "building", cfg.BuildingFile, "path to a building YAML file")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "log file path (stderr when empty)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	fs.StringVar(&cfg.GeminiModel, "model", cfg.GeminiModel, "Gemini model for the narrator")
	fs.StringVar(&cfg.NarratorPersona, "persona", cfg.NarratorPersona, "narrator persona; enables the narrator when GEMINI_API_KEY is set")
	fs.DurationVar(&cfg.NarratorTimeout, "narrator-timeout", cfg.NarratorTimeout, "timeout per narrator request")
	fs.StringVar(&cfg.Scenario, "scenario", cfg.Scenario, "path to a Lua scenario file")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "print every render call")
	fs.IntVar(&cfg.MaxTurns, "max-turns", cfg.MaxTurns, "turn limit for headless play")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads the configuration from the environment and the command line.
func LoadConfig() (*Config, error) {
	cfg, err := ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// NarratorEnabled reports whether guide messages should be rewritten.
func (c Config) NarratorEnabled() bool {
	return c.GeminiAPIKey != "" && c.NarratorPersona != ""
}

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
