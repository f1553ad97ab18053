package cmd

import (
	"context"
	"fmt"

	"github.com/mj1618/novawin-cli/internal/platform"
	"github.com/mj1618/novawin-cli/internal/steps"
	"github.com/spf13/cobra"
)

var findCmd = &cobra.Command{
	Use:   "find [text]",
	Short: "Find elements by driver locator or visible text",
	Long: `Find elements either through the driver (--selector, e.g. name=OK,
accessibility id=15, class name=Edit, tag name=Button or xpath=//Button)
or by visible text in the page-source tree.`,
	Example: `  novawin find --selector "name=OK"
  novawin find --selector "xpath=//Button" --all
  novawin find --selector "name=Save" --timeout 10s
  novawin find Save --roles btn`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFind,
}

func init() {
	rootCmd.AddCommand(findCmd)
	findCmd.Flags().String("selector", "", "Driver locator strategy=value")
	findCmd.Flags().String("text", "", "Visible text to search for")
	findCmd.Flags().String("roles", "", "Only match these roles when using text")
	findCmd.Flags().Bool("exact", false, "Require an exact text match")
	findCmd.Flags().Bool("all", false, "Return every match instead of the first")
	findCmd.Flags().Duration("timeout", 0, "Poll the selector until it matches or this passes")
	addScopeFlags(findCmd)
}

func runFind(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	req := steps.FindRequest{Scope: getScope(cmd)}
	req.Selector, _ = f.GetString("selector")
	req.Text, _ = f.GetString("text")
	if len(args) > 0 {
		req.Text = args[0]
	}
	req.Roles, _ = f.GetString("roles")
	req.Exact, _ = f.GetBool("exact")
	req.All, _ = f.GetBool("all")
	req.Timeout, _ = f.GetDuration("timeout")
	if req.Selector == "" && req.Text == "" {
		return fmt.Errorf("specify --selector or text to search for")
	}
	if req.Selector != "" && req.Text != "" {
		return fmt.Errorf("--selector and text are mutually exclusive")
	}

	return withProvider(cmd, func(ctx context.Context, p *platform.Provider) error {
		return printResult(steps.Find(ctx, p, req))
	})
}
