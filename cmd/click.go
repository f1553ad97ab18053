package cmd

import (
	"context"

	"github.com/mj1618/novawin-cli/internal/platform"
	"github.com/mj1618/novawin-cli/internal/steps"
	"github.com/spf13/cobra"
)

var clickCmd = &cobra.Command{
	Use:   "click [text]",
	Short: "Click an element or a screen point",
	Long: `Click a UI element by id, runtime id, selector or visible text, or at screen
coordinates. With both an element and --x/--y the point is an offset from
the element's top-left corner.`,
	Example: `  novawin click "OK"
  novawin click --id 14 --button right
  novawin click --x 200 --y 300 --double
  novawin click --text "Remember me" --near --near-direction left`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClick,
}

func init() {
	rootCmd.AddCommand(clickCmd)
	addTargetFlags(clickCmd, "", "text", "the element")
	addTextTargetingFlags(clickCmd)
	addScopeFlags(clickCmd)
	clickCmd.Flags().String("button", "left", "Mouse button: left, right, middle, back, forward")
	clickCmd.Flags().String("modifiers", "", "Keys held during the click, e.g. ctrl+shift")
	clickCmd.Flags().Bool("double", false, "Double-click")
	clickCmd.Flags().Int("count", 1, "Number of clicks")
	clickCmd.Flags().Duration("hold", 0, "Hold the button down for this long")
}

func runClick(cmd *cobra.Command, args []string) error {
	req := steps.ClickRequest{Target: getTarget(cmd, "", "text", getScope(cmd))}
	if len(args) > 0 {
		req.Target.Text = args[0]
	}
	req.Button, _ = cmd.Flags().GetString("button")
	req.Modifiers, _ = cmd.Flags().GetString("modifiers")
	req.Count, _ = cmd.Flags().GetInt("count")
	if double, _ := cmd.Flags().GetBool("double"); double {
		req.Count = 2
	}
	req.Hold, _ = cmd.Flags().GetDuration("hold")

	return withProvider(cmd, func(ctx context.Context, p *platform.Provider) error {
		return printResult(steps.Click(ctx, p, req))
	})
}
