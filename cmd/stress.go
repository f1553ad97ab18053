package cmd

import (
	"context"
	"fmt"

	"github.com/mj1618/novawin-cli/internal/observability"
	"github.com/mj1618/novawin-cli/internal/output"
	"github.com/mj1618/novawin-cli/internal/platform"
	"github.com/mj1618/novawin-cli/internal/stress"
	"github.com/spf13/cobra"
)

var stressCmd = &cobra.Command{
	Use:   "stress",
	Short: "Load-test the driver with concurrent sessions",
	Long: `Open several sessions at once and run page-source and element lookup
cycles in each, then report per-operation counts, failures and min, avg,
max and p95 latency. Exits 1 when any operation failed.`,
	Example: `  novawin stress --sessions 4 --iterations 20
  novawin stress --sessions 8 --concurrency 2 --rate 5 --powershell`,
	Args: cobra.NoArgs,
	RunE: runStress,
}

func init() {
	rootCmd.AddCommand(stressCmd)
	stressCmd.Flags().Int("sessions", 2, "Sessions to open")
	stressCmd.Flags().Int("iterations", 10, "Cycles per session")
	stressCmd.Flags().Int("concurrency", 0, "Sessions running at once (0 = all)")
	stressCmd.Flags().Float64("rate", 0, "Operations per second across all sessions (0 = unlimited)")
	stressCmd.Flags().Bool("powershell", false, "Also run a PowerShell command each cycle")
}

func runStress(cmd *cobra.Command, args []string) error {
	cfg := stress.Config{Ops: stress.DefaultOps()}
	cfg.Sessions, _ = cmd.Flags().GetInt("sessions")
	cfg.Iterations, _ = cmd.Flags().GetInt("iterations")
	cfg.Concurrency, _ = cmd.Flags().GetInt("concurrency")
	cfg.Rate, _ = cmd.Flags().GetFloat64("rate")
	if ps, _ := cmd.Flags().GetBool("powershell"); ps {
		cfg.Ops = append(cfg.Ops, stress.PowerShellOp())
	}

	appCfg := currentConfig()
	open := func(ctx context.Context) (*platform.Provider, error) {
		return platform.NewProvider(ctx, appCfg)
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	report, err := stress.Run(ctx, cfg, open, observability.GetLogger().Named("stress"))
	if err != nil && report.RunID == "" {
		return err
	}
	if perr := output.Print(report); perr != nil {
		return perr
	}
	if err != nil {
		return err
	}
	if n := report.Failures(); n > 0 {
		return fmt.Errorf("%d operations failed", n)
	}
	return nil
}
