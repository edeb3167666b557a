package caffit

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var dbPath string

var (
	version = "dev"
	commit  = "none"
)

var rootCmd = &cobra.Command{
	Use:   "caffit",
	Short: "caffit plans your caffeine and sugar intake from the terminal",
	Long:  "caffit is a local-first caffeine and sugar planning CLI with profiles, favorites, AI-backed consumption plans, and daily intake reports.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printVersion(cmd *cobra.Command) {
	fmt.Fprintf(cmd.OutOrStdout(), "caffit %s (commit %s, %s)\n", version, commit, runtime.Version())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite database")
}
