// Package main führt einen einzelnen Aktualisierungslauf aus, z.B. aus einem CI-Job.
// Der Prozess endet mit Exit-Code 1, wenn ein Snapshot nicht geschrieben werden konnte.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"handscout/app"
	"handscout/config"
	"handscout/services"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "handscout-update",
	Short: "Run one discovery cycle and persist the merged collections",
	Long: `handscout-update queries all enabled providers once, merges the results into
the persisted collections and exits. Configuration comes from the environment
(and .env); the flags below override single values.`,
	SilenceUsage: true,
	RunE:         runUpdate,
}

func init() {
	rootCmd.Flags().String("domains", "", "comma-separated domains (overrides ENABLED_DOMAINS)")
	rootCmd.Flags().String("providers", "", "comma-separated providers (overrides ENABLED_PROVIDERS)")
	rootCmd.Flags().String("data-dir", "", "data directory for STORE_BACKEND=file (overrides DATA_DIR)")
	rootCmd.Flags().Uint64("seed", 0, "seed for simulated sources (overrides SIM_SEED)")
	rootCmd.Flags().Bool("json", false, "print the cycle report as JSON")
}

// applyFlags überschreibt Konfigurationswerte mit gesetzten Flags.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	if v, _ := cmd.Flags().GetString("domains"); v != "" {
		cfg.EnabledDomains = v
	}
	if v, _ := cmd.Flags().GetString("providers"); v != "" {
		cfg.EnabledProviders = v
	}
	if v, _ := cmd.Flags().GetString("data-dir"); v != "" {
		cfg.DataDir = v
	}
	if cmd.Flags().Changed("seed") {
		cfg.SimSeed, _ = cmd.Flags().GetUint64("seed")
	}
	return cfg.Validate()
}

func runUpdate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logging, err := app.NewLogger(cfg)
	if err != nil {
		return err
	}
	defer logging.Sync()

	ctx := cmd.Context()
	a, err := app.New(ctx, cfg, logging)
	if err != nil {
		return err
	}
	if err := a.EnsureCollections(ctx); err != nil {
		return err
	}

	logging.Info("Starting data update...")
	report := a.Refresh.RunCycle(ctx, services.TriggerCLI)

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		printSummary(cmd, report)
	}

	if err := report.Err(); err != nil {
		logging.Error("Data update failed", zap.Error(err))
		return err
	}
	return nil
}

func printSummary(cmd *cobra.Command, report services.CycleReport) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "cycle %s finished in %s\n", report.CycleID, report.Duration.Round(time.Millisecond))
	for _, d := range report.Domains {
		status := "written"
		switch {
		case d.Err != nil:
			status = "FAILED: " + d.Err.Error()
		case !d.Written:
			status = "unchanged"
		}
		fmt.Fprintf(out, "  %-10s found %3d  unique %3d  total %4d  new in 24h %4d  %s\n",
			d.Domain, d.Discovered, d.Unique, d.Total, d.Recent, status)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
