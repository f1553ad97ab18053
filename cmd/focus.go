package cmd

import (
	"context"
	"fmt"

	"github.com/mj1618/novawin-cli/internal/platform"
	"github.com/mj1618/novawin-cli/internal/steps"
	"github.com/spf13/cobra"
)

var focusCmd = &cobra.Command{
	Use:   "focus",
	Short: "Bring a window to the foreground",
	Long:  "Focus a top-level window by title substring or runtime id.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := platform.FocusOptions{}
		opts.Window, _ = cmd.Flags().GetString("window")
		opts.WindowRID, _ = cmd.Flags().GetString("window-rid")
		if opts.Window == "" && opts.WindowRID == "" {
			return fmt.Errorf("specify --window or --window-rid")
		}
		return withProvider(cmd, func(ctx context.Context, p *platform.Provider) error {
			return printResult(steps.Focus(ctx, p, opts))
		})
	},
}

var foregroundCmd = &cobra.Command{
	Use:     "foreground <process>",
	Short:   "Bring a process's main window to the foreground",
	Example: "  novawin foreground notepad",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := platform.FocusOptions{Process: args[0]}
		return withProvider(cmd, func(ctx context.Context, p *platform.Provider) error {
			return printResult(steps.Focus(ctx, p, opts))
		})
	},
}

func init() {
	rootCmd.AddCommand(focusCmd, foregroundCmd)
	focusCmd.Flags().String("window", "", "Window title substring")
	focusCmd.Flags().String("window-rid", "", "Window runtime id")
}
