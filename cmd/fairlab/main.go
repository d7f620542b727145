package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/deepchokshi/mslearn-aml-labs/pkg/config"
	"github.com/deepchokshi/mslearn-aml-labs/pkg/platform"
	"github.com/deepchokshi/mslearn-aml-labs/pkg/workflow"
)

var (
	// Global flags
	verbose  bool
	cfgPath  string
	storeArg string

	// Logger
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "fairlab",
	Short: "Train a diabetes classifier and audit prediction disparity across age groups",
	Long: `fairlab runs a fairness-aware training workflow: fit a logistic
regression on the diabetes dataset, measure selection-rate disparity
between patients over 50 and those 50 or younger, sweep a grid search
under a demographic-parity constraint, and keep only the candidates on
the error/disparity dominance frontier. Models and dashboards land in a
local registry and tracking store.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zc := zap.NewProductionConfig()
		if verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute the full training and mitigation pipeline",
	RunE:  runPipeline,
}

var verifyCmd = &cobra.Command{
	Use:   "verify [upload-id]",
	Short: "Re-download an uploaded dashboard and print its shape",
	Args:  cobra.ExactArgs(1),
	RunE:  verifyDashboard,
}

func runPipeline(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if storeArg != "" {
		cfg.StorePath = storeArg
	}

	store, err := platform.Open(cfg.StorePath)
	if err != nil {
		return err
	}
	defer store.Close()

	outcome, err := workflow.Run(ctx, cfg, store, logger)
	if err != nil {
		return err
	}

	printOutcome(outcome)
	return nil
}

func printOutcome(o *workflow.Outcome) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	bold.Println("Baseline model")
	fmt.Printf("  id        %s\n", o.BaselineModelID)
	fmt.Printf("  accuracy  %.4f\n", o.BaselineAudit.Accuracy)
	fmt.Printf("  disparity %.4f\n", o.BaselineAudit.Disparity)
	for _, g := range sortedGroups(o.BaselineAudit.SelectionRate.ByGroup) {
		fmt.Printf("  selection[%s] %.4f\n", g, o.BaselineAudit.SelectionRate.ByGroup[g])
	}
	if o.AgelessAudit != nil {
		bold.Println("Without sensitive feature")
		fmt.Printf("  id        %s\n", o.AgelessModelID)
		fmt.Printf("  accuracy  %.4f\n", o.AgelessAudit.Accuracy)
		fmt.Printf("  disparity %.4f\n", o.AgelessAudit.Disparity)
	}

	bold.Printf("Dominance frontier (%d of %d candidates)\n", len(o.Frontier), len(o.Results))
	for n, i := range o.Frontier {
		r := o.Results[i]
		green.Printf("  #%02d", i)
		fmt.Printf("  error=%.4f  disparity=%.4f  model=%s\n", r.Error, r.Disparity, o.FrontierModelIDs[n])
	}
	yellow.Printf("dashboards: baseline=%s comparison=%s (run %s)\n",
		o.BaselineDashboardID, o.ComparisonDashboardID, o.RunID)
}

func sortedGroups(m map[string]float64) []string {
	out := make([]string, 0, len(m))
	for g := range m {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

func verifyDashboard(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if storeArg != "" {
		cfg.StorePath = storeArg
	}

	store, err := platform.Open(cfg.StorePath)
	if err != nil {
		return err
	}
	defer store.Close()

	d, err := store.DownloadDashboard(context.Background(), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("samples: %d\n", len(d.YTrue))
	fmt.Printf("models:  %d\n", len(d.PredictionsByModel))
	groups := map[string]int{}
	for _, g := range d.SensitiveFeature {
		groups[g]++
	}
	for _, g := range sortedKeys(groups) {
		fmt.Printf("group %q: %d samples\n", g, groups[g])
	}
	return nil
}

func sortedKeys(m map[string]int) []string {
	out := make([]string, 0, len(m))
	for g := range m {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", config.DefaultPath, "path to YAML config")
	rootCmd.PersistentFlags().StringVar(&storeArg, "store", "", "override the platform store path")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(verifyCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
