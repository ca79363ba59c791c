package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Dosada05/swiss-tournament/config"
	"github.com/Dosada05/swiss-tournament/utils"
)

func newStandingsCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "standings",
		Short: "Print players ranked by wins",
		Args:  cobra.NoArgs,
		RunE: storeRunE(s, func(cmd *cobra.Command, args []string) error {
			standings, err := s.service.Standings(cmd.Context())
			if err != nil {
				return err
			}
			NewOutput(cmd.OutOrStdout(), s.output).Print(standings)
			return nil
		}),
	}
}

func newPairingsCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "pairings",
		Short: "Print the pairings for the next round",
		Args:  cobra.NoArgs,
		RunE: storeRunE(s, func(cmd *cobra.Command, args []string) error {
			pairings, err := s.service.SwissPairings(cmd.Context())
			if err != nil {
				return err
			}
			NewOutput(cmd.OutOrStdout(), s.output).Print(pairings)
			return nil
		}),
	}
}

func newSchemaCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Create the tables and views (SQL backends)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := s.open(cmd.Context(), true); err != nil {
				return err
			}
			if err := s.close(); err != nil {
				return err
			}
			msg := "schema ready"
			if s.backend == config.BackendRedis {
				msg = "redis backend needs no schema, nothing to do"
			}
			NewOutput(cmd.OutOrStdout(), s.output).PrintMessage(msg)
			return nil
		},
	}
}

func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := utils.HashPassword(args[0])
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
