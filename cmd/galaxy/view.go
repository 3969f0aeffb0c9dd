package main

import (
	"fmt"
	"io"
	"os"

	"galaxy-server/internal/camera"
	"galaxy-server/internal/viewer"
	"galaxy-server/internal/world"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newViewCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Open the interactive terminal viewer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(v)
			if err != nil {
				return err
			}
			sim, err := s.simulationConfig()
			if err != nil {
				return err
			}

			// the screen owns the terminal, so logs go to a file or nowhere
			var logOut io.Writer = io.Discard
			if s.LogFile != "" {
				f, err := os.OpenFile(s.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("failed to open log file: %w", err)
				}
				defer f.Close()
				logOut = f
			}
			logger := s.logger(logOut)

			w, _, err := world.Bootstrap(sim, logger)
			if err != nil {
				return err
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("failed to create screen: %w", err)
			}
			if err := screen.Init(); err != nil {
				return fmt.Errorf("failed to initialize screen: %w", err)
			}
			defer screen.Fini()

			cols, rows := screen.Size()
			cam := camera.New(float64(cols)*viewer.CellWidth, float64(rows)*viewer.CellHeight)
			// frame the generated placement area
			cam.Origin.X = sim.PlacementWidth / 2
			cam.Origin.Y = sim.PlacementHeight / 2

			ctx, cancel := signalContext()
			defer cancel()
			return viewer.Run(ctx, screen, w, cam, logger)
		},
	}

	cmd.Flags().Int64("seed", 0, "random seed (0 picks one from the clock)")
	cmd.Flags().String("scenario", "", "TOML scenario file to start from")
	cmd.Flags().String("log-file", "", "append logs to this file")
	bindWorldFlags(v, cmd)
	return cmd
}
