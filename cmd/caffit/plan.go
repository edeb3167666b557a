package caffit

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/caffit/caffit/internal/catalog"
	"github.com/caffit/caffit/internal/gemini"
	"github.com/caffit/caffit/internal/model"
	"github.com/caffit/caffit/internal/service"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Create and review AI consumption plans",
}

var (
	planProductIDs []string
	planStartTime  string
	planSave       bool
	planOffline    bool
)

var planNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Generate a consumption plan for selected products",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(planProductIDs) == 0 {
			return fmt.Errorf("select at least one product with --product")
		}
		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			profile, err := service.ActiveProfile(sqldb)
			if err != nil {
				return err
			}
			if profile == nil {
				return fmt.Errorf("no profile saved yet; run: caffit profile save")
			}

			ids := make([]catalog.ProductID, 0, len(planProductIDs))
			products := make([]model.PlanProduct, 0, len(planProductIDs))
			for _, raw := range planProductIDs {
				id, err := parseProductIDArg(raw)
				if err != nil {
					return err
				}
				p, ok := cat.Get(id)
				if !ok {
					return fmt.Errorf("no product with id %d", id)
				}
				ids = append(ids, id)
				products = append(products, model.PlanProduct{
					Name: p.Name, Category: p.Category, CaffeineMg: p.CaffeineMg, SugarG: p.SugarG,
				})
			}

			start := planStartTime
			if start == "" {
				start = time.Now().Format("15:04")
			}

			result, notice := generatePlan(sqldb, *profile, products, start)
			if notice != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), notice)
			}

			for _, id := range ids {
				if err := service.TouchRecent(sqldb, cat, id); err != nil {
					return err
				}
			}
			totalCaffeine, totalSugar := service.PlanTotals(products)
			if err := service.RecordSession(sqldb, "", totalCaffeine, totalSugar, len(products)); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), result)

			if planSave {
				id, err := service.SavePlan(sqldb, service.SavePlanInput{
					Profile: *profile, Products: products, Result: result, StartTime: start,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved plan %d\n", id)
			}
			return nil
		})
	},
}

// generatePlan asks the generative model for a schedule, falling back to a
// locally computed one when the model is not configured or unreachable.
func generatePlan(sqldb *sql.DB, profile model.Profile, products []model.PlanProduct, start string) (result, notice string) {
	fallback := func(reason string) (string, string) {
		return service.FallbackPlan(profile, products, start),
			fmt.Sprintf("Using local planner: %s", reason)
	}
	if planOffline {
		return fallback("offline mode requested")
	}
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return fallback("GEMINI_API_KEY is not set")
	}

	modelName, _, err := service.GetConfig(sqldb, service.ConfigGeminiModel)
	if err != nil {
		return fallback(err.Error())
	}

	client := gemini.NewClient(apiKey, modelName)
	prompt := service.BuildPrompt(profile, products, start)
	ctx, cancel := contextWithTimeout()
	defer cancel()
	text, err := client.Generate(ctx, prompt)
	if err != nil {
		return fallback(err.Error())
	}
	return text, ""
}

var planHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved plans, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			plans, err := service.PlanHistory(sqldb)
			if err != nil {
				return err
			}
			if len(plans) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No saved plans yet.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tSAVED\tPRODUCTS\tCAFFEINE\tSUGAR")
			for _, p := range plans {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%d\t%.0fmg\t%.0fg\n",
					p.ID, p.SavedAt.Format("2006-01-02 15:04"), len(p.Products), p.TotalCaffeineMg, p.TotalSugarG)
			}
			return nil
		})
	},
}

var planShowCmd = &cobra.Command{
	Use:   "show <plan-id>",
	Short: "Show a saved plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parsePlanIDArg(args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			p, err := service.PlanByID(sqldb, id)
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("no plan with id %d", id)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Plan %d (saved %s, start %s)\n", p.ID, p.SavedAt.Format("2006-01-02 15:04"), p.StartTime)
			fmt.Fprintf(out, "Profile: %s (%s, %s)\n", p.Profile.Name, p.Profile.AgeGroup, p.Profile.Category)
			fmt.Fprintln(out, "Products:")
			for _, pr := range p.Products {
				sugar := "?"
				if pr.SugarG != nil {
					sugar = fmt.Sprintf("%.0fg", *pr.SugarG)
				}
				fmt.Fprintf(out, "- %s (%.0fmg caffeine, %s sugar)\n", pr.Name, pr.CaffeineMg, sugar)
			}
			fmt.Fprintf(out, "Totals: %.0fmg caffeine / %.0fg sugar\n\n", p.TotalCaffeineMg, p.TotalSugarG)
			fmt.Fprintln(out, p.ResultText)
			return nil
		})
	},
}

var planDeleteCmd = &cobra.Command{
	Use:   "delete <plan-id>",
	Short: "Delete a saved plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parsePlanIDArg(args[0])
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.DeletePlan(sqldb, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted plan %d\n", id)
			return nil
		})
	},
}

func parsePlanIDArg(value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid plan id %q", value)
	}
	return id, nil
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.AddCommand(planNewCmd, planHistoryCmd, planShowCmd, planDeleteCmd)

	planNewCmd.Flags().StringSliceVar(&planProductIDs, "product", nil, "Product id (repeatable)")
	planNewCmd.Flags().StringVar(&planStartTime, "start", "", "Start time (HH:MM, default now)")
	planNewCmd.Flags().BoolVar(&planSave, "save", false, "Save the plan to history")
	planNewCmd.Flags().BoolVar(&planOffline, "offline", false, "Skip the AI call and use the local planner")
}
