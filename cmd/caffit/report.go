package caffit

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/caffit/caffit/internal/service"
	"github.com/spf13/cobra"
)

var reportPeriod string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the daily intake report with a health assessment",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			now := time.Now()
			out := cmd.OutOrStdout()

			reports, err := service.ReportsByPeriod(sqldb, reportPeriod, now)
			if err != nil {
				return err
			}
			if len(reports) == 0 {
				fmt.Fprintln(out, "No intake recorded for this period yet.")
				return nil
			}

			fmt.Fprintln(out, "DATE\tCAFFEINE\tSUGAR\tPRODUCTS")
			for _, r := range reports {
				fmt.Fprintf(out, "%s\t%.0fmg\t%.0fg\t%d\n", r.Date, r.TotalCaffeineMg, r.TotalSugarG, r.ProductCount)
			}

			stats, err := service.AggregateReports(sqldb, reportPeriod, now)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\nDays recorded: %d, products: %d\n", stats.SessionDayCount, stats.TotalProductCount)
			fmt.Fprintf(out, "Daily average: %.0fmg caffeine / %.0fg sugar\n", stats.AvgCaffeineMg, stats.AvgSugarG)

			a := service.Assess(stats.AvgCaffeineMg, stats.AvgSugarG)
			fmt.Fprintf(out, "Caffeine: %.0f%% of the 400mg reference (%s)\n", a.CaffeineDisplayPercent, a.CaffeineBand)
			fmt.Fprintf(out, "Sugar: %.0f%% of the 50g reference (%s)\n", a.SugarDisplayPercent, a.SugarBand)

			fmt.Fprintln(out, "\nTips:")
			for _, tip := range service.HealthTips(a.CaffeinePercent, a.SugarPercent) {
				fmt.Fprintf(out, "- %s: %s\n", tip.Title, tip.Description)
			}

			fmt.Fprintln(out, "\nLow-sugar picks:")
			for _, pick := range service.LowSugarPicks(cat, 3) {
				fmt.Fprintf(out, "- %s (%s sugar)\n", pick.Product.Name, formatSugar(pick.Product))
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVar(&reportPeriod, "period", "week", "Report period: week, month, or all")
}
