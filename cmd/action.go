package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/mj1618/novawin-cli/internal/platform"
	"github.com/mj1618/novawin-cli/internal/steps"
	"github.com/spf13/cobra"
)

var actionCmd = &cobra.Command{
	Use:   "action <name> [text]",
	Short: "Run a UIA pattern action on an element",
	Long: `Run a control pattern action on an element without synthesising input.

Actions: ` + strings.Join(platform.Actions, ", "),
	Example: `  novawin action invoke OK
  novawin action expand --rid 42.1.7
  novawin action toggle --id 12`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runAction,
}

func init() {
	rootCmd.AddCommand(actionCmd)
	addTargetFlags(actionCmd, "", "text", "the element")
	addTextTargetingFlags(actionCmd)
	addScopeFlags(actionCmd)
}

func runAction(cmd *cobra.Command, args []string) error {
	target := getTarget(cmd, "", "text", getScope(cmd))
	if len(args) > 1 {
		target.Text = args[1]
	}
	if target.Query.IsZero() {
		return fmt.Errorf("specify the element by --id, --rid, --selector or text")
	}
	return withProvider(cmd, func(ctx context.Context, p *platform.Provider) error {
		return printResult(steps.Action(ctx, p, target, args[0]))
	})
}
