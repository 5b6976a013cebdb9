package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"noteboard/internal/config"
	"noteboard/internal/snapshot"
	"noteboard/internal/storage"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Export or restore a full-database JSON snapshot",
	Long: `Export or restore a full-database JSON snapshot.

The snapshot is one JSON document covering the items, notes, and practice
tables. It is meant for carrying data across a schema rebuild:

  noteboard snapshot export
  (delete the database file, run the app once to recreate the schema)
  noteboard snapshot restore`,
}

var snapshotExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write all table contents to a JSON snapshot file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		path, _ := cmd.Flags().GetString("file")
		if path == "" {
			path = cfg.Snapshot.Path
		}

		store, err := storage.Open(cfg.Storage.DataDir)
		if err != nil {
			return fmt.Errorf("opening storage: %w", err)
		}
		defer store.Close()

		counts, err := snapshot.Export(store.DB(), path)
		if err != nil {
			printError("export failed: %v", err)
			return err
		}
		for _, c := range counts {
			printStatus(c.Table, "%d rows", c.Rows)
		}
		printSuccess("Snapshot written to %s", path)
		return nil
	},
}

var snapshotRestoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Re-insert snapshot rows into the live schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		path, _ := cmd.Flags().GetString("file")
		if path == "" {
			path = cfg.Snapshot.Path
		}

		// Open recreates the schema if it is missing, so restore works
		// right after the old database file was deleted.
		store, err := storage.Open(cfg.Storage.DataDir)
		if err != nil {
			return fmt.Errorf("opening storage: %w", err)
		}
		defer store.Close()

		counts, err := snapshot.Restore(store.DB(), path)
		if err != nil {
			printError("restore failed: %v", err)
			return err
		}
		for _, c := range counts {
			printStatus(c.Table, "%d rows restored", c.Rows)
		}
		printSuccess("Database restore complete")
		return nil
	},
}

func init() {
	snapshotExportCmd.Flags().StringP("file", "f", "", "snapshot file path (default from config)")
	snapshotRestoreCmd.Flags().StringP("file", "f", "", "snapshot file path (default from config)")
	snapshotCmd.AddCommand(snapshotExportCmd)
	snapshotCmd.AddCommand(snapshotRestoreCmd)
}
