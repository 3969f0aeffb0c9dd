package main

import (
	"encoding/json"
	"fmt"

	"galaxy-server/internal/shared/config"
	"galaxy-server/internal/world"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type simulateSummary struct {
	Seed       int64 `json:"seed"`
	Ticks      int64 `json:"ticks"`
	Systems    int   `json:"systems"`
	Planets    int   `json:"planets"`
	BlackHoles int   `json:"black_holes"`
	Absorbed   int   `json:"absorbed"`
	Merges     int   `json:"merges"`
}

func newSimulateCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run the simulation headless for a number of ticks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ticks, _ := cmd.Flags().GetInt("ticks")
			if ticks < 0 {
				return fmt.Errorf("--ticks must not be negative")
			}
			asJSON, _ := cmd.Flags().GetBool("json")

			s, err := loadSettings(v)
			if err != nil {
				return err
			}
			sim, err := s.simulationConfig()
			if err != nil {
				return err
			}

			w, seed, err := world.Bootstrap(sim, s.logger(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}

			summary := runSimulation(w, ticks)
			summary.Seed = seed

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			}
			fmt.Fprintf(out, "seed:         %d\n", summary.Seed)
			fmt.Fprintf(out, "ticks:        %d\n", summary.Ticks)
			fmt.Fprintf(out, "systems:      %d\n", summary.Systems)
			fmt.Fprintf(out, "planets:      %d\n", summary.Planets)
			fmt.Fprintf(out, "black holes:  %d\n", summary.BlackHoles)
			fmt.Fprintf(out, "absorbed:     %d\n", summary.Absorbed)
			fmt.Fprintf(out, "merges:       %d\n", summary.Merges)
			return nil
		},
	}

	cmd.Flags().Int("ticks", 600, "number of ticks to run")
	cmd.Flags().Int64("seed", 0, "random seed (0 picks one from the clock)")
	cmd.Flags().String("scenario", "", "TOML scenario file to start from")
	sim := config.DefaultSimulationConfig()
	cmd.Flags().Int("systems", sim.SolarSystems, "number of generated solar systems")
	cmd.Flags().Int("black-holes", sim.BlackHoles, "number of generated black holes")
	cmd.Flags().Bool("json", false, "print the summary as JSON")
	bindWorldFlags(v, cmd)
	return cmd
}

// bindWorldFlags binds the world flags when the command runs, so subcommands
// sharing flag names do not overwrite each other's bindings.
func bindWorldFlags(v *viper.Viper, cmd *cobra.Command) {
	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		for key, flag := range map[string]string{
			"seed":          "seed",
			"scenario":      "scenario",
			"solar_systems": "systems",
			"black_holes":   "black-holes",
			"log_file":      "log-file",
		} {
			if f := cmd.Flags().Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return err
				}
			}
		}
		return nil
	}
}

func runSimulation(w *world.World, ticks int) simulateSummary {
	var summary simulateSummary
	for range ticks {
		report := w.Step()
		summary.Absorbed += len(report.Absorbed)
		summary.Merges += len(report.Merges)
	}

	g := w.Galaxy()
	summary.Ticks = w.Tick()
	summary.Systems = len(g.Systems)
	summary.Planets = g.PlanetCount()
	summary.BlackHoles = len(g.BlackHoles)
	return summary
}
