package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"PivotDesk/internal/config"
	"PivotDesk/internal/notifier"
)

var (
	analyzeHorizon  string
	analyzeDiag     bool
	analyzeJSON     bool
	analyzeSource   string
	analyzeTemplate int
)

// analyzeCmd implements 'pivotdesk analyze SYMBOL'
var analyzeCmd = &cobra.Command{
	Use:   "analyze SYMBOL",
	Short: "Print a trading plan for one symbol",
	Long: `Fetch daily bars for SYMBOL and print the plan for the chosen horizon.

Examples:
  pivotdesk analyze AAPL
  pivotdesk analyze BTCUSD --horizon short --diag
  pivotdesk analyze SPY --horizon invest --json
  pivotdesk analyze TEST --source mock`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeHorizon, "horizon", "mid", "Horizon: short|mid|long (aliases trade|swing|invest)")
	analyzeCmd.Flags().BoolVar(&analyzeDiag, "diag", false, "Append the diagnostics view")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the full report as JSON")
	analyzeCmd.Flags().StringVar(&analyzeSource, "source", "", "Override the data source: polygon|yahoo|mock")
	analyzeCmd.Flags().IntVar(&analyzeTemplate, "template", -1, "Closing remark template index (default from config)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if analyzeSource != "" {
		cfg.Provider.Source = strings.ToLower(analyzeSource)
	}
	if err := cfg.Validate(config.ModeCLI); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	a, err := buildApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	rep, err := a.analyst.Analyze(cmd.Context(), args[0], analyzeHorizon)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if analyzeJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}

	template := cfg.Telegram.Template
	if analyzeTemplate >= 0 {
		template = analyzeTemplate
	}
	fmt.Fprintln(out, notifier.NewNarrator(template, false).Summary(rep.Symbol, rep.Decision))
	if analyzeDiag {
		fmt.Fprintln(out)
		fmt.Fprintln(out, notifier.FormatDiagnostics(rep.Symbol, rep.Decision))
	}
	return nil
}
