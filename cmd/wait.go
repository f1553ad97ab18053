package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/mj1618/novawin-cli/internal/locate"
	"github.com/mj1618/novawin-cli/internal/platform"
	"github.com/mj1618/novawin-cli/internal/steps"
	"github.com/spf13/cobra"
)

var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Wait for a UI condition",
	Long: `Poll until an element appears (or with --gone, disappears) or the timeout
passes. --selector polls a driver lookup; the --for-* flags poll the
page-source tree.`,
	Example: `  novawin wait --for-text "Save As" --timeout 10s
  novawin wait --for-text Loading --gone
  novawin wait --selector "name=Done"`,
	Args: cobra.NoArgs,
	RunE: runWait,
}

func init() {
	rootCmd.AddCommand(waitCmd)
	addConditionFlags(waitCmd)
	waitCmd.Flags().String("selector", "", "Wait for a driver locator to match")
	waitCmd.Flags().Duration("timeout", 30*time.Second, "Max time to wait")
	waitCmd.Flags().Duration("interval", 500*time.Millisecond, "Polling interval")
	addScopeFlags(waitCmd)
}

// addConditionFlags registers the tree condition flags of wait and assert.
func addConditionFlags(cmd *cobra.Command) {
	cmd.Flags().String("for-text", "", "Element with this text (case-insensitive substring)")
	cmd.Flags().String("for-role", "", "Element with this role (e.g. btn, input)")
	cmd.Flags().Int("for-id", 0, "Element with this id")
	cmd.Flags().String("for-rid", "", "Element with this runtime id")
	cmd.Flags().Bool("gone", false, "Invert: the element must not exist")
}

func getCondition(cmd *cobra.Command) locate.Condition {
	f := cmd.Flags()
	c := locate.Condition{}
	c.Text, _ = f.GetString("for-text")
	c.Role, _ = f.GetString("for-role")
	c.ID, _ = f.GetInt("for-id")
	c.RuntimeID, _ = f.GetString("for-rid")
	c.Gone, _ = f.GetBool("gone")
	return c
}

func runWait(cmd *cobra.Command, args []string) error {
	req := steps.WaitRequest{Condition: getCondition(cmd), Scope: getScope(cmd)}
	req.Selector, _ = cmd.Flags().GetString("selector")
	req.Timeout, _ = cmd.Flags().GetDuration("timeout")
	req.Interval, _ = cmd.Flags().GetDuration("interval")
	if req.Selector == "" && req.Condition.IsZero() {
		return fmt.Errorf("specify --selector or at least one of --for-text, --for-role, --for-id, --for-rid")
	}
	if req.Selector != "" && req.Condition.Gone {
		return fmt.Errorf("--gone works with the --for-* conditions only")
	}

	return withProvider(cmd, func(ctx context.Context, p *platform.Provider) error {
		return printResult(steps.Wait(ctx, p, req))
	})
}
