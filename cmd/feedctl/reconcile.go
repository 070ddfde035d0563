package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zfogg/factoryfeed/internal/container"
	"github.com/zfogg/factoryfeed/internal/database"
	"github.com/zfogg/factoryfeed/internal/metrics"
	"github.com/zfogg/factoryfeed/internal/repository"
	"gorm.io/gorm"
)

var dryRun bool

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Repair likes_count and comments_count that drifted from their rows",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd.Context(), func(c *container.Container) error {
			out := cmd.OutOrStdout()
			m := metrics.Get()

			return database.Scoped(cmd.Context(), c.DB(), func(tx *gorm.DB) error {
				repo := repository.NewFeedRepository(tx)

				drift, err := repo.FindCounterDrift(cmd.Context())
				if err != nil {
					return err
				}
				if len(drift) == 0 {
					fmt.Fprintln(out, "All counters match")
					return nil
				}

				for _, d := range drift {
					fmt.Fprintf(out, "post %d: likes %d -> %d, comments %d -> %d\n",
						d.PostID, d.LikesCount, d.ActualLikes, d.CommentsCount, d.ActualComments)
				}

				if dryRun {
					fmt.Fprintf(out, "%d posts drifted (dry run, nothing written)\n", len(drift))
					return nil
				}

				fixed, err := repo.ReconcileCounters(cmd.Context())
				if err != nil {
					return err
				}
				for _, d := range drift {
					if d.LikesCount != d.ActualLikes {
						m.CounterDriftRows.WithLabelValues("likes_count").Inc()
					}
					if d.CommentsCount != d.ActualComments {
						m.CounterDriftRows.WithLabelValues("comments_count").Inc()
					}
				}
				fmt.Fprintf(out, "Repaired %d posts\n", fixed)
				return nil
			})
		})
	},
}

func init() {
	reconcileCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report drift without writing")
}
