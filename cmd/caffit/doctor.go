package caffit

import (
	"database/sql"
	"fmt"

	"github.com/caffit/caffit/internal/service"
	"github.com/spf13/cobra"
)

var doctorFix bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the stores for catalog orphans, broken plan snapshots, and overflowing queues",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			report, err := service.RunDoctor(sqldb, cat, doctorFix)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Orphan favorites: %d\n", report.OrphanFavorites)
			fmt.Fprintf(out, "Orphan recents: %d\n", report.OrphanRecents)
			fmt.Fprintf(out, "Malformed plan snapshots: %d\n", report.MalformedPlans)
			fmt.Fprintf(out, "Recents over the cap: %d\n", report.ExcessRecents)
			fmt.Fprintf(out, "Plans over the cap: %d\n", report.ExcessPlans)
			fmt.Fprintf(out, "Stale active profile: %v\n", report.StaleActiveProfile)
			if doctorFix {
				fmt.Fprintf(out, "Fixed rows: %d\n", report.FixedRows)
				// Re-check after fixes so exit status reflects final state.
				report, err = service.RunDoctor(sqldb, cat, false)
				if err != nil {
					return err
				}
			}
			if !report.Clean() {
				return fmt.Errorf("doctor found integrity issues")
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Attempt safe auto-fixes")
}
