package main

import (
	"github.com/spf13/cobra"
	"github.com/zfogg/factoryfeed/internal/container"
	"github.com/zfogg/factoryfeed/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the feed tables and indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd.Context(), func(c *container.Container) error {
			return database.Migrate(c.DB())
		})
	},
}
