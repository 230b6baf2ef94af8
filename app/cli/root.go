package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/cardano-node-tests/dbsyncx/pkg/db"
	"github.com/cardano-node-tests/dbsyncx/pkg/db/postgres"
	"github.com/cardano-node-tests/dbsyncx/pkg/logging"
	"github.com/go-jose/go-jose/v4/json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	exitCodeSuccess = 0
	exitCodeError   = 1
)

// StoreOpener builds the store a command reads from.
type StoreOpener func(ctx context.Context, cfg postgres.Config) (db.Store, error)

// OpenSyncStore opens the db-sync backed store, logging with the
// environment configured logger.
func OpenSyncStore(_ context.Context, cfg postgres.Config) (db.Store, error) {
	logger, err := logging.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return db.NewSyncStore(logger.With(zap.String("component", "dbsync")), cfg)
}

// Run executes the CLI and returns the process exit code.
func Run(ctx context.Context, args []string) int {
	root := NewRootCmd(OpenSyncStore)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		return exitCodeError
	}
	return exitCodeSuccess
}

// session is the state shared by the subcommands of one invocation.
type session struct {
	open  StoreOpener
	url   string
	limit int
}

// NewRootCmd returns the dbsync command tree. Every subcommand prints its
// rows as JSON lines on stdout.
func NewRootCmd(open StoreOpener) *cobra.Command {
	s := &session{open: open}

	rootCmd := &cobra.Command{
		Use:          "dbsync",
		Short:        "Inspect a cardano-db-sync database.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&s.url, "postgres-url", "", "db-sync connection URL (default: POSTGRES_URL or POSTGRES_* variables)")
	rootCmd.PersistentFlags().IntVar(&s.limit, "limit", 0, "maximum rows to print, 0 for all")

	rootCmd.AddCommand(
		s.schemaCmd(),
		s.tablesCmd(),
		s.tipCmd(),
		s.txCmd(),
		txListCmd(s, "inputs", "Print the outputs a transaction spends.", db.Store.TxInputs),
		txListCmd(s, "deleg", "Print the stake delegations of a transaction.", db.Store.TxStakeDelegations),
		txListCmd(s, "withdrawals", "Print the reward withdrawals of a transaction.", db.Store.TxWithdrawals),
		s.poolCmd(),
		s.rewardsCmd(),
		s.adaPotsCmd(),
		s.blocksCmd(),
		s.paramsCmd(),
	)

	return rootCmd
}

// withStore opens the store for one command run and closes it afterwards.
func (s *session) withStore(fn func(cmd *cobra.Command, args []string, store db.Store) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		cfg := postgres.ConfigFromEnv()
		if s.url != "" {
			cfg.URL = s.url
		}

		store, err := s.open(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := store.Close(context.WithoutCancel(cmd.Context())); err == nil {
				err = closeErr
			}
		}()

		return fn(cmd, args, store)
	}
}

// lineWriter returns a row callback that writes each row to w as one JSON
// document per line, as soon as the row is read.
func lineWriter[T any](w io.Writer) func(T) error {
	enc := json.NewEncoder(w)
	return func(row T) error {
		if err := enc.Encode(row); err != nil {
			return fmt.Errorf("failed to encode row: %w", err)
		}
		return nil
	}
}

// printLines writes rows already in memory with lineWriter.
func printLines[T any](w io.Writer, rows []T) error {
	write := lineWriter[T](w)
	for _, row := range rows {
		if err := write(row); err != nil {
			return err
		}
	}
	return nil
}
