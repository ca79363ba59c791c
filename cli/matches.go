package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newMatchesCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "matches",
		Short: "Match result commands",
	}

	cmd.AddCommand(newMatchesReportCmd(s))
	cmd.AddCommand(newMatchesListCmd(s))
	cmd.AddCommand(newMatchesClearCmd(s))

	return cmd
}

func newMatchesReportCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "report <winner-id> <loser-id>",
		Short: "Record the outcome of a match",
		Args:  cobra.ExactArgs(2),
		RunE: storeRunE(s, func(cmd *cobra.Command, args []string) error {
			winnerID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid winner id %q: %w", args[0], err)
			}
			loserID, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid loser id %q: %w", args[1], err)
			}

			match, err := s.service.RecordMatch(cmd.Context(), winnerID, loserID)
			if err != nil {
				return err
			}
			NewOutput(cmd.OutOrStdout(), s.output).Print(*match)
			return nil
		}),
	}
}

func newMatchesListCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recorded matches",
		Args:  cobra.NoArgs,
		RunE: storeRunE(s, func(cmd *cobra.Command, args []string) error {
			matches, err := s.service.ListMatches(cmd.Context())
			if err != nil {
				return err
			}
			NewOutput(cmd.OutOrStdout(), s.output).Print(matches)
			return nil
		}),
	}
}

func newMatchesClearCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every match and reset wins",
		Args:  cobra.NoArgs,
		RunE: storeRunE(s, func(cmd *cobra.Command, args []string) error {
			if err := s.service.ClearMatches(cmd.Context()); err != nil {
				return err
			}
			NewOutput(cmd.OutOrStdout(), s.output).PrintMessage("all matches deleted")
			return nil
		}),
	}
}
