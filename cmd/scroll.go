package cmd

import (
	"context"

	"github.com/mj1618/novawin-cli/internal/platform"
	"github.com/mj1618/novawin-cli/internal/steps"
	"github.com/spf13/cobra"
)

var scrollCmd = &cobra.Command{
	Use:   "scroll [direction]",
	Short: "Scroll over an element or point",
	Long: `Turn the mouse wheel over a target. Use a direction with --amount in wheel
notches (120 pixels each), or exact pixel deltas with --dx/--dy. Positive
--dy scrolls up.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScroll,
}

func init() {
	rootCmd.AddCommand(scrollCmd)
	addTargetFlags(scrollCmd, "", "text", "the element")
	addTextTargetingFlags(scrollCmd)
	addScopeFlags(scrollCmd)
	scrollCmd.Flags().String("direction", "", "Scroll direction: up, down, left, right")
	scrollCmd.Flags().Int("amount", 3, "Number of wheel notches")
	scrollCmd.Flags().Int("dx", 0, "Horizontal pixel delta")
	scrollCmd.Flags().Int("dy", 0, "Vertical pixel delta (positive scrolls up)")
	scrollCmd.Flags().String("modifiers", "", "Keys held during the scroll, e.g. ctrl to zoom")
}

func runScroll(cmd *cobra.Command, args []string) error {
	req := steps.ScrollRequest{Target: getTarget(cmd, "", "text", getScope(cmd))}
	req.Direction, _ = cmd.Flags().GetString("direction")
	if len(args) > 0 {
		req.Direction = args[0]
	}
	req.Amount, _ = cmd.Flags().GetInt("amount")
	req.DX, _ = cmd.Flags().GetInt("dx")
	req.DY, _ = cmd.Flags().GetInt("dy")
	req.Modifiers, _ = cmd.Flags().GetString("modifiers")

	return withProvider(cmd, func(ctx context.Context, p *platform.Provider) error {
		return printResult(steps.Scroll(ctx, p, req))
	})
}
