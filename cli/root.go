// Package cli implements swissctl, an operator tool that talks to the
// tournament store directly.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Dosada05/swiss-tournament/app"
	"github.com/Dosada05/swiss-tournament/config"
	"github.com/Dosada05/swiss-tournament/models"
	"github.com/Dosada05/swiss-tournament/services"
)

// session is built once per invocation in PersistentPreRunE.
type session struct {
	output   string
	strategy string
	verbose  bool
	backend  string

	logger  *slog.Logger
	store   *app.Store
	service services.TournamentService
}

// open connects to the store configured in the environment. The .env file is
// loaded by config.LoadStore, so PAIRING_STRATEGY is read only after it.
func (s *session) open(ctx context.Context, createSchema bool) error {
	storeCfg, err := config.LoadStore()
	if err != nil {
		return err
	}
	if s.strategy == "" {
		s.strategy = os.Getenv("PAIRING_STRATEGY")
	}
	strategy, err := models.ParsePairingStrategy(s.strategy)
	if err != nil {
		return err
	}

	store, err := app.OpenStore(ctx, *storeCfg, createSchema, s.logger)
	if err != nil {
		return err
	}
	s.store = store
	s.backend = storeCfg.Backend
	s.service = services.NewTournamentService(store.Repo, strategy, nil, nil, s.logger)
	return nil
}

func (s *session) close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	s := &session{output: "text"}

	rootCmd := &cobra.Command{
		Use:   "swissctl",
		Short: "Operate a Swiss-system tournament store",
		Long: `swissctl registers players, reports match results and prints standings
and next-round pairings.

The store is selected with the same environment as the server:
STORE_BACKEND, DATABASE_URL, REDIS_URL and REDIS_KEY_PREFIX.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if s.output != "text" && s.output != "json" {
				return fmt.Errorf("unsupported output format %q (want text or json)", s.output)
			}
			level := slog.LevelWarn
			if s.verbose {
				level = slog.LevelDebug
			}
			s.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&s.output, "output", "o", s.output, "Output format: text, json")
	rootCmd.PersistentFlags().StringVar(&s.strategy, "strategy", s.strategy, "Pairing strategy: adjacent, score_group (default from env: PAIRING_STRATEGY)")
	rootCmd.PersistentFlags().BoolVarP(&s.verbose, "verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(newPlayersCmd(s))
	rootCmd.AddCommand(newMatchesCmd(s))
	rootCmd.AddCommand(newStandingsCmd(s))
	rootCmd.AddCommand(newPairingsCmd(s))
	rootCmd.AddCommand(newSchemaCmd(s))
	rootCmd.AddCommand(newHashPasswordCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// storeRunE runs fn with the store open and closes it afterwards.
func storeRunE(s *session, fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		if err := s.open(cmd.Context(), false); err != nil {
			return err
		}
		defer func() {
			if closeErr := s.close(); err == nil {
				err = closeErr
			}
		}()
		return fn(cmd, args)
	}
}
