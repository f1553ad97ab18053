package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/mj1618/novawin-cli/internal/platform"
	"github.com/mj1618/novawin-cli/internal/steps"
	"github.com/spf13/cobra"
)

var assertCmd = &cobra.Command{
	Use:   "assert",
	Short: "Assert UI state",
	Long: `Check that an element exists (or with --gone, does not) and has the expected
properties. Exits 1 when the assertion fails. With --timeout the check is
retried until it passes or the time runs out.`,
	Example: `  novawin assert --for-text "Saved" --timeout 5s
  novawin assert --target "File name" --value "report.txt"
  novawin assert --for-text OK --for-role btn --enabled`,
	Args: cobra.NoArgs,
	RunE: runAssert,
}

func init() {
	rootCmd.AddCommand(assertCmd)
	addConditionFlags(assertCmd)
	addTargetFlags(assertCmd, "", "target", "the element")
	addTextTargetingFlags(assertCmd)
	assertCmd.Flags().String("value", "", "Value must equal this")
	assertCmd.Flags().String("value-contains", "", "Value must contain this")
	assertCmd.Flags().Bool("enabled", false, "Element must be enabled")
	assertCmd.Flags().Bool("disabled", false, "Element must be disabled")
	assertCmd.Flags().Bool("is-focused", false, "Element must have keyboard focus")
	assertCmd.Flags().Duration("timeout", 0, "Retry until this passes (0 = check once)")
	assertCmd.Flags().Duration("interval", 500*time.Millisecond, "Retry interval")
	addScopeFlags(assertCmd)
}

func runAssert(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	sc := getScope(cmd)
	req := steps.AssertRequest{
		Condition: getCondition(cmd),
		Target:    getTarget(cmd, "", "target", sc),
		Scope:     sc,
	}
	if f.Changed("value") {
		v, _ := f.GetString("value")
		req.Value = &v
	}
	req.ValueContains, _ = f.GetString("value-contains")
	enabled, _ := f.GetBool("enabled")
	disabled, _ := f.GetBool("disabled")
	if enabled && disabled {
		return fmt.Errorf("--enabled and --disabled are mutually exclusive")
	}
	if enabled || disabled {
		req.Enabled = &enabled
	}
	req.Focused, _ = f.GetBool("is-focused")
	req.Timeout, _ = f.GetDuration("timeout")
	req.Interval, _ = f.GetDuration("interval")
	if req.Condition.IsZero() && req.Target.Query.IsZero() {
		return fmt.Errorf("specify the element with --for-* conditions or --id, --rid, --selector, --target")
	}

	return withProvider(cmd, func(ctx context.Context, p *platform.Provider) error {
		return printResult(steps.Assert(ctx, p, req))
	})
}
