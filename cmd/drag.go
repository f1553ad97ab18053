package cmd

import (
	"context"
	"time"

	"github.com/mj1618/novawin-cli/internal/platform"
	"github.com/mj1618/novawin-cli/internal/steps"
	"github.com/spf13/cobra"
)

var dragCmd = &cobra.Command{
	Use:   "drag",
	Short: "Drag from one element or point to another",
	Long: `Press at the start target, move to the end target and release, using the
driver's clickAndDrag command.`,
	Example: `  novawin drag --from-x 100 --from-y 100 --to-x 400 --to-y 120
  novawin drag --from-text "report.txt" --to-text "Archive" --duration 1s --easing ease-in-out`,
	RunE: runDrag,
}

func init() {
	rootCmd.AddCommand(dragCmd)
	addTargetFlags(dragCmd, "from-", "text", "the start element")
	addTargetFlags(dragCmd, "to-", "text", "the end element")
	addTextTargetingFlags(dragCmd)
	addScopeFlags(dragCmd)
	dragCmd.Flags().String("button", "left", "Mouse button")
	dragCmd.Flags().String("modifiers", "", "Keys held during the drag")
	dragCmd.Flags().Duration("duration", 500*time.Millisecond, "Move duration")
	dragCmd.Flags().String("easing", "", "linear, ease, ease-in, ease-out, ease-in-out or cubic-bezier(...)")
}

func runDrag(cmd *cobra.Command, _ []string) error {
	sc := getScope(cmd)
	req := steps.DragRequest{
		From: getTarget(cmd, "from-", "text", sc),
		To:   getTarget(cmd, "to-", "text", sc),
	}
	req.Button, _ = cmd.Flags().GetString("button")
	req.Modifiers, _ = cmd.Flags().GetString("modifiers")
	req.Duration, _ = cmd.Flags().GetDuration("duration")
	req.Easing, _ = cmd.Flags().GetString("easing")

	return withProvider(cmd, func(ctx context.Context, p *platform.Provider) error {
		return printResult(steps.Drag(ctx, p, req))
	})
}
