package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const Version = "0.1.0"

var (
	cfgPath string
	dbPath  string
)

var rootCmd = &cobra.Command{
	Use:           "qb",
	Short:         "QuestBoard — gamified task tracker",
	Long:          "QuestBoard is a gamified task tracker: complete tasks for XP, level up, build streaks and unlock achievements.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to SQLite database (overrides config)")

	rootCmd.AddCommand(
		newServeCmd(),
		newStatusCmd(),
		newWatchCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
