package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"galaxy-server/internal/shared/config"
	"galaxy-server/internal/shared/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// settings are populated from .galaxy.toml, GALAXY_* env vars and flags.
type settings struct {
	Seed             int64         `mapstructure:"seed"`
	Scenario         string        `mapstructure:"scenario"`
	SolarSystems     int           `mapstructure:"solar_systems"`
	BlackHoles       int           `mapstructure:"black_holes"`
	PlanetsPerSystem int           `mapstructure:"planets_per_system"`
	LogLevel         string        `mapstructure:"log_level"`
	LogFile          string        `mapstructure:"log_file"`
	JWTSecret        string        `mapstructure:"jwt_secret"`
	TokenTTL         time.Duration `mapstructure:"token_ttl"`
}

func Execute() {
	if err := newRootCmd(viper.New()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	root := &cobra.Command{
		Use:           "galaxy",
		Short:         "Gravity sandbox of solar systems, planets and black holes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfgFile, _ := cmd.Flags().GetString("config")
			return initConfig(v, cfgFile)
		},
	}

	root.PersistentFlags().String("config", "", "config file (default .galaxy.toml)")
	root.PersistentFlags().String("log-level", "warn", "log level: debug, info, warn, error")
	_ = v.BindPFlag("log_level", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(newSimulateCmd(v), newViewCmd(v), newTokenCmd(v))
	return root
}

func initConfig(v *viper.Viper, cfgFile string) error {
	_ = godotenv.Load()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".galaxy")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	v.SetEnvPrefix("GALAXY")
	v.AutomaticEnv()

	sim := config.DefaultSimulationConfig()
	v.SetDefault("seed", 0)
	v.SetDefault("scenario", "")
	v.SetDefault("solar_systems", sim.SolarSystems)
	v.SetDefault("black_holes", sim.BlackHoles)
	v.SetDefault("planets_per_system", sim.PlanetsPerSystem)
	v.SetDefault("log_file", "")
	v.SetDefault("jwt_secret", os.Getenv("JWT_SECRET"))
	v.SetDefault("token_ttl", 24*time.Hour)

	if err := v.ReadInConfig(); err != nil {
		// an explicit --config must exist; the default file is optional
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	return nil
}

func loadSettings(v *viper.Viper) (settings, error) {
	var s settings
	if err := v.Unmarshal(&s); err != nil {
		return s, fmt.Errorf("failed to decode settings: %w", err)
	}
	return s, nil
}

// simulationConfig overlays the CLI settings on the simulation defaults.
func (s settings) simulationConfig() (config.SimulationConfig, error) {
	sim := config.DefaultSimulationConfig()
	sim.Seed = s.Seed
	sim.ScenarioPath = s.Scenario
	sim.SolarSystems = s.SolarSystems
	sim.BlackHoles = s.BlackHoles
	sim.PlanetsPerSystem = s.PlanetsPerSystem

	if err := sim.Validate(); err != nil {
		return sim, err
	}
	return sim, nil
}

func (s settings) logger(w io.Writer) *slog.Logger {
	return logger.New(config.LoggingConfig{Level: s.LogLevel}, w)
}

// signalContext returns a context that is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
