package cmd

import (
	"context"

	"github.com/mj1618/novawin-cli/internal/platform"
	"github.com/mj1618/novawin-cli/internal/steps"
	"github.com/spf13/cobra"
)

var hoverCmd = &cobra.Command{
	Use:   "hover [text]",
	Short: "Move the pointer to an element or coordinates without clicking",
	Long: `Move the pointer to a UI element or point without clicking. Useful for
tooltips and hover-only controls. --from-* sets a start position for a
timed move.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHover,
}

func init() {
	rootCmd.AddCommand(hoverCmd)
	addTargetFlags(hoverCmd, "", "text", "the element")
	addTargetFlags(hoverCmd, "from-", "text", "the start element")
	addTextTargetingFlags(hoverCmd)
	addScopeFlags(hoverCmd)
	hoverCmd.Flags().String("modifiers", "", "Keys held during the move")
	hoverCmd.Flags().Duration("duration", 0, "Move duration")
}

func runHover(cmd *cobra.Command, args []string) error {
	sc := getScope(cmd)
	req := steps.HoverRequest{
		To:   getTarget(cmd, "", "text", sc),
		From: getTarget(cmd, "from-", "text", sc),
	}
	if len(args) > 0 {
		req.To.Text = args[0]
	}
	req.Modifiers, _ = cmd.Flags().GetString("modifiers")
	req.Duration, _ = cmd.Flags().GetDuration("duration")

	return withProvider(cmd, func(ctx context.Context, p *platform.Provider) error {
		return printResult(steps.Hover(ctx, p, req))
	})
}
