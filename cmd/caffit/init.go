package caffit

import (
	"database/sql"
	"fmt"

	"github.com/caffit/caffit/internal/app"
	"github.com/caffit/caffit/internal/service"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the local caffit database",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		path, err := resolveDBPath()
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Initialized caffit database at %s\n", path)
			fmt.Fprintf(out, "Catalog: %d products in %d categories\n", cat.Len(), len(cat.Categories()))

			p, err := service.ActiveProfile(sqldb)
			if err != nil {
				return err
			}
			if p == nil {
				fmt.Fprintln(out, "Next: caffit profile save --category ... --age-group ... --weight ... --wake ... --sleep ...")
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func resolveDBPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	return app.DefaultDBPath()
}
