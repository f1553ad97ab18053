package cmd

import (
	"context"
	"fmt"

	"github.com/mj1618/novawin-cli/internal/platform"
	"github.com/mj1618/novawin-cli/internal/steps"
	"github.com/spf13/cobra"
)

var typeCmd = &cobra.Command{
	Use:   "type [text]",
	Short: "Type text into the focused element or a target",
	Long: `Type text through the driver's keyboard input. Without a target the text
goes to the focused element. A leading [delay:NNN] directive overrides the
keystroke delay for this text only, as does --delay.`,
	Example: `  novawin type "hello world"
  novawin type --target "File name" --clear "report.txt"
  novawin type "[delay:50]slow typing"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runType,
}

func init() {
	rootCmd.AddCommand(typeCmd)
	typeCmd.Flags().String("text", "", "Text to type (alternative to positional arg)")
	typeCmd.Flags().Int("delay", -1, "Keystroke delay in ms for this text (-1 keeps the session delay)")
	typeCmd.Flags().Bool("clear", false, "Clear the element before typing")
	addTargetFlags(typeCmd, "", "target", "the element to type into")
	addTextTargetingFlags(typeCmd)
	addScopeFlags(typeCmd)
}

func runType(cmd *cobra.Command, args []string) error {
	req := steps.TypeRequest{Target: getTarget(cmd, "", "target", getScope(cmd))}
	req.Text, _ = cmd.Flags().GetString("text")
	if len(args) > 0 {
		req.Text = args[0]
	}
	req.Clear, _ = cmd.Flags().GetBool("clear")
	if req.Text == "" && !req.Clear {
		return fmt.Errorf("specify text as an argument or with --text")
	}
	if delay, _ := cmd.Flags().GetInt("delay"); delay >= 0 {
		req.DelayMs = &delay
	}

	return withProvider(cmd, func(ctx context.Context, p *platform.Provider) error {
		return printResult(steps.Type(ctx, p, req))
	})
}

var typeDelayCmd = &cobra.Command{
	Use:   "type-delay <ms>",
	Short: "Set the session keystroke delay",
	Long: `Send the typeDelay command. Only useful inside a session that outlives the
command, e.g. as a do step; shown here for checking the driver accepts it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var ms int
		if _, err := fmt.Sscanf(args[0], "%d", &ms); err != nil || ms < 0 {
			return fmt.Errorf("delay must be a non-negative number of milliseconds, got %q", args[0])
		}
		return withProvider(cmd, func(ctx context.Context, p *platform.Provider) error {
			return printResult(steps.SetTypeDelay(ctx, p, ms))
		})
	},
}

func init() {
	rootCmd.AddCommand(typeDelayCmd)
}
