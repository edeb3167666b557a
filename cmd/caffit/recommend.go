package caffit

import (
	"database/sql"
	"fmt"

	"github.com/caffit/caffit/internal/service"
	"github.com/spf13/cobra"
)

var recommendLimit int

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend products from your favorites and history",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			recs, err := service.Recommendations(sqldb, cat, recommendLimit)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tNAME\tSCORE\tWHY")
			for _, r := range recs {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%d\t%s\n", r.ID, r.Product.Name, r.Score, r.Reason)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(recommendCmd)
	recommendCmd.Flags().IntVar(&recommendLimit, "limit", 5, "Number of recommendations")
}
