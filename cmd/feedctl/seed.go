package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zfogg/factoryfeed/internal/container"
	"github.com/zfogg/factoryfeed/internal/database"
	"github.com/zfogg/factoryfeed/internal/seed"
)

var (
	seedValue  uint64
	seedCounts = seed.DefaultCounts
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the database with generated users, posts, likes and comments",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := seedCounts.Validate(); err != nil {
			return err
		}
		return withContainer(cmd.Context(), func(c *container.Container) error {
			if err := database.Migrate(c.DB()); err != nil {
				return err
			}

			result, err := seed.NewSeeder(c.DB(), seedValue).Seed(cmd.Context(), seedCounts)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d users, %d posts, %d likes, %d comments\n",
				result.Users, result.Posts, result.Likes, result.Comments)
			return nil
		})
	},
}

func init() {
	seedCmd.Flags().Uint64Var(&seedValue, "seed", 0, "Random seed (0 = time based)")
	seedCmd.Flags().IntVar(&seedCounts.Users, "users", seedCounts.Users, "Number of users")
	seedCmd.Flags().IntVar(&seedCounts.Posts, "posts", seedCounts.Posts, "Number of posts")
	seedCmd.Flags().IntVar(&seedCounts.Likes, "likes", seedCounts.Likes, "Number of likes")
	seedCmd.Flags().IntVar(&seedCounts.Comments, "comments", seedCounts.Comments, "Number of comments")
}
