package caffit

import (
	"database/sql"
	"fmt"

	"github.com/caffit/caffit/internal/model"
	"github.com/caffit/caffit/internal/service"
	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage intake profiles",
}

var (
	profileName      string
	profileCategory  string
	profileAgeGroup  string
	profileWeight    float64
	profileWakeTime  string
	profileSleepTime string
)

var profileSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Create or update a profile and make it active",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			p, err := service.SaveProfile(sqldb, cat.Limits(), service.SaveProfileInput{
				Name:      profileName,
				Category:  profileCategory,
				AgeGroup:  profileAgeGroup,
				WeightKg:  profileWeight,
				WakeTime:  profileWakeTime,
				SleepTime: profileSleepTime,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved profile %q\n", p.Name)
			fmt.Fprintf(cmd.OutOrStdout(), "Daily limits: %.0fmg caffeine, %.0fg sugar (%.1f waking hours)\n",
				p.CaffeineLimitMg, p.SugarLimitG, p.AwakeHours)
			return nil
		})
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show a profile (the active one by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			var p *model.Profile
			var err error
			if len(args) == 1 {
				p, err = service.LoadProfile(sqldb, args[0])
			} else {
				p, err = service.ActiveProfile(sqldb)
			}
			if err != nil {
				return err
			}
			if p == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "No profile saved yet. Run: caffit profile save")
				return nil
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Profile: %s\n", p.Name)
			fmt.Fprintf(out, "Lifestyle: %s\n", p.Category)
			fmt.Fprintf(out, "Age group: %s\n", p.AgeGroup)
			fmt.Fprintf(out, "Weight: %.0fkg\n", p.WeightKg)
			fmt.Fprintf(out, "Awake: %s - %s (%.1fh)\n", p.WakeTime, p.SleepTime, p.AwakeHours)
			fmt.Fprintf(out, "Daily limits: %.0fmg caffeine / %.0fg sugar\n", p.CaffeineLimitMg, p.SugarLimitG)
			return nil
		})
	},
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			names, err := service.ListProfileNames(sqldb)
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No profiles saved yet.")
				return nil
			}
			active, err := service.ActiveProfile(sqldb)
			if err != nil {
				return err
			}
			for _, name := range names {
				marker := " "
				if active != nil && active.Name == name {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, name)
			}
			return nil
		})
	},
}

var profileUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Switch the active profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if err := service.SetActiveProfile(sqldb, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Active profile: %s\n", args[0])
			return nil
		})
	},
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if err := service.DeleteProfile(sqldb, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted profile %q\n", args[0])
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileSaveCmd, profileShowCmd, profileListCmd, profileUseCmd, profileDeleteCmd)

	profileSaveCmd.Flags().StringVar(&profileName, "name", "", "Profile name (default profile when empty)")
	profileSaveCmd.Flags().StringVar(&profileCategory, "category", "", "Preferred drink category")
	profileSaveCmd.Flags().StringVar(&profileAgeGroup, "age-group", "", "Age group (teen or adult)")
	profileSaveCmd.Flags().Float64Var(&profileWeight, "weight", 0, "Body weight in kg (30-200)")
	profileSaveCmd.Flags().StringVar(&profileWakeTime, "wake", "", "Wake time (HH:MM)")
	profileSaveCmd.Flags().StringVar(&profileSleepTime, "sleep", "", "Sleep time (HH:MM)")
	_ = profileSaveCmd.MarkFlagRequired("category")
	_ = profileSaveCmd.MarkFlagRequired("age-group")
	_ = profileSaveCmd.MarkFlagRequired("weight")
	_ = profileSaveCmd.MarkFlagRequired("wake")
	_ = profileSaveCmd.MarkFlagRequired("sleep")
}
