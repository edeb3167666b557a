package caffit

import (
	"database/sql"

	"github.com/caffit/caffit/internal/service"
	"github.com/spf13/cobra"
)

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Recently planned products",
}

var recentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recently planned products, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			ids, err := service.RecentProducts(sqldb)
			if err != nil {
				return err
			}
			printProductIDs(cmd, cat, ids, "No recent products yet. Plans populate this list.")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(recentCmd)
	recentCmd.AddCommand(recentListCmd)
}
