package main

import (
	"encoding/json"
	"fmt"

	"galaxy-server/internal/auth"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newTokenCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a session token signed with the configured secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			roleFlag, _ := cmd.Flags().GetString("role")
			role, ok := auth.ParseRole(roleFlag)
			if !ok {
				return fmt.Errorf("unknown role %q, want admin or viewer", roleFlag)
			}

			s, err := loadSettings(v)
			if err != nil {
				return err
			}
			if ttl, _ := cmd.Flags().GetDuration("ttl"); ttl > 0 {
				s.TokenTTL = ttl
			}

			tokens, err := auth.NewTokenManager(s.JWTSecret, s.TokenTTL)
			if err != nil {
				return fmt.Errorf("GALAXY_JWT_SECRET or JWT_SECRET: %w", err)
			}
			session, err := tokens.Issue(role)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return json.NewEncoder(out).Encode(session)
			}
			fmt.Fprintln(out, session.Token)
			return nil
		},
	}

	cmd.Flags().String("role", string(auth.RoleViewer), "session role: admin or viewer")
	cmd.Flags().Duration("ttl", 0, "token lifetime (default from config)")
	cmd.Flags().Bool("json", false, "print the whole session as JSON")
	return cmd
}
