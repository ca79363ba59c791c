package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newPlayersCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "players",
		Short: "Player management commands",
	}

	cmd.AddCommand(newPlayersRegisterCmd(s))
	cmd.AddCommand(newPlayersCountCmd(s))
	cmd.AddCommand(newPlayersClearCmd(s))

	return cmd
}

func newPlayersRegisterCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "register <name>",
		Short: "Register a new player",
		Args:  cobra.MinimumNArgs(1),
		RunE: storeRunE(s, func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			if strings.TrimSpace(name) == "" {
				return fmt.Errorf("player name must not be empty")
			}
			player, err := s.service.RegisterPlayer(cmd.Context(), name)
			if err != nil {
				return err
			}
			NewOutput(cmd.OutOrStdout(), s.output).Print(*player)
			return nil
		}),
	}
}

func newPlayersCountCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of registered players",
		Args:  cobra.NoArgs,
		RunE: storeRunE(s, func(cmd *cobra.Command, args []string) error {
			n, err := s.service.CountPlayers(cmd.Context())
			if err != nil {
				return err
			}
			NewOutput(cmd.OutOrStdout(), s.output).Print(playerCount{Count: n})
			return nil
		}),
	}
}

func newPlayersClearCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every player and their matches",
		Args:  cobra.NoArgs,
		RunE: storeRunE(s, func(cmd *cobra.Command, args []string) error {
			if err := s.service.ClearPlayers(cmd.Context()); err != nil {
				return err
			}
			NewOutput(cmd.OutOrStdout(), s.output).PrintMessage("all players deleted")
			return nil
		}),
	}
}
