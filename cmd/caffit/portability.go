package caffit

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	"github.com/caffit/caffit/internal/service"
	"github.com/spf13/cobra"
)

var (
	exportOut  string
	importFile string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all stores to JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			snap, err := service.ExportSnapshot(sqldb)
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(snap, "", "  ")
			if err != nil {
				return fmt.Errorf("encode snapshot: %w", err)
			}
			if exportOut == "" {
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			if err := os.WriteFile(exportOut, data, 0o644); err != nil {
				return fmt.Errorf("write snapshot: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", exportOut)
			return nil
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a JSON snapshot, replacing current stores",
	RunE: func(cmd *cobra.Command, args []string) error {
		if importFile == "" {
			return fmt.Errorf("--file is required")
		}
		data, err := os.ReadFile(importFile)
		if err != nil {
			return fmt.Errorf("read snapshot: %w", err)
		}
		var snap service.Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return fmt.Errorf("decode snapshot: %w", err)
		}
		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.ImportSnapshot(sqldb, cat, &snap); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported snapshot from %s\n", importFile)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(exportCmd, importCmd)

	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output file (stdout when empty)")
	importCmd.Flags().StringVar(&importFile, "file", "", "Snapshot JSON file")
}
