package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cardano-node-tests/dbsyncx/pkg/db"
	"github.com/cardano-node-tests/dbsyncx/pkg/db/dbsync"
	"github.com/cardano-node-tests/dbsyncx/pkg/db/models/ledger"
	"github.com/spf13/cobra"
)

type schemaLine struct {
	dbsync.SchemaVersion
	MultiAssetVariant string `json:"multi_asset_variant"`
}

func (s *session) schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the db-sync schema version.",
		Args:  cobra.NoArgs,
		RunE: s.withStore(func(cmd *cobra.Command, _ []string, store db.Store) error {
			v, err := store.Stages(cmd.Context())
			if err != nil {
				return err
			}
			return printLines(cmd.OutOrStdout(), []schemaLine{{SchemaVersion: v, MultiAssetVariant: v.MultiAssetVariant().String()}})
		}),
	}
}

func (s *session) tablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "Print the user table names, one per line.",
		Args:  cobra.NoArgs,
		RunE: s.withStore(func(cmd *cobra.Command, _ []string, store db.Store) error {
			names, err := store.ListTableNames(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range names {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
					return err
				}
			}
			return nil
		}),
	}
}

func (s *session) tipCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tip",
		Short: "Print the latest block db-sync has stored.",
		Args:  cobra.NoArgs,
		RunE: s.withStore(func(cmd *cobra.Command, _ []string, store db.Store) error {
			tip, err := store.LatestBlock(cmd.Context())
			if err != nil {
				return err
			}
			return printLines(cmd.OutOrStdout(), []ledger.BlockRow{tip})
		}),
	}
}

func (s *session) txCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tx <hash>",
		Short: "Print a transaction with its outputs, mints, certificates and scripts.",
		Args:  cobra.ExactArgs(1),
		RunE: s.withStore(func(cmd *cobra.Command, args []string, store db.Store) error {
			rec, err := store.GetTxRecord(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printLines(cmd.OutOrStdout(), []*ledger.TxRecord{rec})
		}),
	}
}

func txListCmd[T any](s *session, use, short string, list func(db.Store, context.Context, string, int, func(T) error) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <hash>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: s.withStore(func(cmd *cobra.Command, args []string, store db.Store) error {
			return list(store, cmd.Context(), args[0], s.limit, lineWriter[T](cmd.OutOrStdout()))
		}),
	}
}

func (s *session) poolCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pool <pool-id>",
		Short: "Print the registration rows of a pool.",
		Args:  cobra.ExactArgs(1),
		RunE: s.withStore(func(cmd *cobra.Command, args []string, store db.Store) error {
			return store.PoolData(cmd.Context(), args[0], s.limit, lineWriter[ledger.PoolDataRow](cmd.OutOrStdout()))
		}),
	}
}

// epochFlags adds --from/--to to cmd, defaulting to every epoch.
func epochFlags(cmd *cobra.Command, epochs *dbsync.EpochRange) {
	all := dbsync.AllEpochs()
	cmd.Flags().Int64Var(&epochs.From, "from", all.From, "first epoch, inclusive")
	cmd.Flags().Int64Var(&epochs.To, "to", all.To, "last epoch, inclusive")
}

func validateEpochs(epochs dbsync.EpochRange) error {
	if epochs.From < 0 || epochs.From > epochs.To {
		return fmt.Errorf("invalid epoch range %s", epochs)
	}
	return nil
}

func (s *session) rewardsCmd() *cobra.Command {
	var epochs dbsync.EpochRange
	cmd := &cobra.Command{
		Use:   "rewards <stake-address>",
		Short: "Print the rewards of a stake address.",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(*cobra.Command, []string) error {
			return validateEpochs(epochs)
		},
		RunE: s.withStore(func(cmd *cobra.Command, args []string, store db.Store) error {
			return store.AddressRewards(cmd.Context(), args[0], epochs, s.limit, lineWriter[ledger.RewardRow](cmd.OutOrStdout()))
		}),
	}
	epochFlags(cmd, &epochs)
	return cmd
}

func (s *session) adaPotsCmd() *cobra.Command {
	var epochs dbsync.EpochRange
	cmd := &cobra.Command{
		Use:   "ada-pots",
		Short: "Print the ledger pots per epoch.",
		Args:  cobra.NoArgs,
		PreRunE: func(*cobra.Command, []string) error {
			return validateEpochs(epochs)
		},
		RunE: s.withStore(func(cmd *cobra.Command, _ []string, store db.Store) error {
			return store.ADAPots(cmd.Context(), epochs, s.limit, lineWriter[ledger.ADAPotsRow](cmd.OutOrStdout()))
		}),
	}
	epochFlags(cmd, &epochs)
	return cmd
}

func (s *session) blocksCmd() *cobra.Command {
	var epochs dbsync.EpochRange
	cmd := &cobra.Command{
		Use:   "blocks",
		Short: "Print the blocks of an epoch range.",
		Args:  cobra.NoArgs,
		PreRunE: func(*cobra.Command, []string) error {
			return validateEpochs(epochs)
		},
		RunE: s.withStore(func(cmd *cobra.Command, _ []string, store db.Store) error {
			return store.Blocks(cmd.Context(), epochs, s.limit, lineWriter[ledger.BlockRow](cmd.OutOrStdout()))
		}),
	}
	epochFlags(cmd, &epochs)
	return cmd
}

func (s *session) paramsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "params <epoch>",
		Short: "Print the protocol parameters of an epoch.",
		Args:  cobra.ExactArgs(1),
		RunE: s.withStore(func(cmd *cobra.Command, args []string, store db.Store) error {
			epoch, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || epoch < 0 {
				return fmt.Errorf("invalid epoch %q", args[0])
			}
			params, err := store.EpochParams(cmd.Context(), epoch)
			if err != nil {
				return err
			}
			if params == nil {
				return fmt.Errorf("no protocol parameters for epoch %d", epoch)
			}
			return printLines(cmd.OutOrStdout(), []*ledger.EpochParamRow{params})
		}),
	}
}
