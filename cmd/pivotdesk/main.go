package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"PivotDesk/internal/config"
	"PivotDesk/internal/logx"
)

var (
	configPath string
	logLevel   string
	cfg        *config.Config
)

// rootCmd is the base command of the PivotDesk CLI
var rootCmd = &cobra.Command{
	Use:   "pivotdesk",
	Short: "Pivot-level trading plans from daily bars",
	Long: `PivotDesk turns a symbol's daily price history into a BUY, SHORT or WAIT
plan with an entry zone, two targets and a stop, anchored on the pivot
ladder of the previous week, month or year.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if logLevel != "" {
			c.Log.Level = logLevel
		}
		logx.Setup(c.Log.Level, c.Log.Format)
		cfg = c
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.PathFromEnv(), "Path to the YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override log level (debug, info, warn, error)")
	rootCmd.AddCommand(analyzeCmd, botCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
