package cmd

import (
	"context"
	"fmt"

	"github.com/mj1618/novawin-cli/internal/platform"
	"github.com/mj1618/novawin-cli/internal/steps"
	"github.com/spf13/cobra"
)

var setValueCmd = &cobra.Command{
	Use:   "set-value <value>",
	Short: "Set an element's value through the Value or RangeValue pattern",
	Long: `Set a value directly, without typing. Text fields take the string as is;
sliders and spinners take a number.`,
	Example: `  novawin set-value --target "File name" "report.txt"
  novawin set-value --rid 42.1.9 75`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := getTarget(cmd, "", "target", getScope(cmd))
		if target.Query.IsZero() {
			return fmt.Errorf("specify the element by --id, --rid, --selector or --target")
		}
		return withProvider(cmd, func(ctx context.Context, p *platform.Provider) error {
			return printResult(steps.SetValue(ctx, p, target, args[0]))
		})
	},
}

var getValueCmd = &cobra.Command{
	Use:   "get-value [text]",
	Short: "Print an element's value",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := getTarget(cmd, "", "target", getScope(cmd))
		if len(args) > 0 {
			target.Text = args[0]
		}
		if target.Query.IsZero() {
			return fmt.Errorf("specify the element by --id, --rid, --selector or text")
		}
		return withProvider(cmd, func(ctx context.Context, p *platform.Provider) error {
			return printResult(steps.GetValue(ctx, p, target))
		})
	},
}

func init() {
	rootCmd.AddCommand(setValueCmd, getValueCmd)
	for _, c := range []*cobra.Command{setValueCmd, getValueCmd} {
		addTargetFlags(c, "", "target", "the element")
		addTextTargetingFlags(c)
		addScopeFlags(c)
	}
}
