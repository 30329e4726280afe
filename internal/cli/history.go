package cli

import (
	"github.com/spf13/cobra"

	"github.com/ewilliams-labs/musicdna/internal/adapters/sqlite"
	"github.com/ewilliams-labs/musicdna/internal/config"
	"github.com/ewilliams-labs/musicdna/internal/core/services"
)

func newHistoryCmd(load func() (config.Config, error)) *cobra.Command {
	var limit int
	var genres bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Lists recently computed profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}

			repo, err := sqlite.NewAdapter(cfg.DatabasePath)
			if err != nil {
				return err
			}
			defer repo.Close()

			if genres {
				counts, err := repo.GenreCounts(cmd.Context(), max(limit, 1))
				if err != nil {
					return err
				}
				return renderGenreCounts(cmd.OutOrStdout(), counts)
			}

			svc := services.NewOrchestrator(nil, nil, nil, repo)
			snapshots, err := svc.ListSnapshots(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return renderSnapshots(cmd.OutOrStdout(), snapshots)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", services.DefaultSnapshotLimit, "Number of rows to show")
	cmd.Flags().BoolVar(&genres, "genres", false, "Tally top genres across snapshots instead")
	return cmd
}
