package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"noteboard/internal/config"
	"noteboard/internal/storage"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database utilities",
}

var dbInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "List tables and row counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		store, err := storage.Open(cfg.Storage.DataDir)
		if err != nil {
			return fmt.Errorf("opening storage: %w", err)
		}
		defer store.Close()

		names, err := store.TableNames()
		if err != nil {
			return fmt.Errorf("listing tables: %w", err)
		}
		for _, name := range names {
			n, err := store.CountRows(name)
			if err != nil {
				printError("%s: %v", name, err)
				continue
			}
			printStatus(name, "%d rows", n)
		}
		printStatus("Data dir", "%s", cfg.Storage.DataDir)
		return nil
	},
}

func init() {
	dbCmd.AddCommand(dbInfoCmd)
}
