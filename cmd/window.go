package cmd

import (
	"context"

	"github.com/mj1618/novawin-cli/internal/platform"
	"github.com/mj1618/novawin-cli/internal/steps"
	"github.com/spf13/cobra"
)

var windowCmd = &cobra.Command{
	Use:   "window",
	Short: "Maximize, minimize, restore or close a window",
	Long: `Change a top-level window's state through the UIA window pattern. The window
is named by --rid, or by --title and/or --pid through the window list.`,
}

func init() {
	rootCmd.AddCommand(windowCmd)
	for _, action := range []platform.WindowAction{
		platform.WindowMaximize, platform.WindowMinimize, platform.WindowRestore, platform.WindowClose,
	} {
		c := &cobra.Command{
			Use:   string(action),
			Short: "Send " + string(action) + " to a window",
			Args:  cobra.NoArgs,
			RunE:  runWindow(string(action)),
		}
		c.Flags().String("rid", "", "Window runtime id")
		c.Flags().String("title", "", "Window title substring")
		c.Flags().Int("pid", 0, "Window process id")
		windowCmd.AddCommand(c)
	}
}

func runWindow(action string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		req := steps.WindowRequest{Action: action}
		req.WindowRID, _ = cmd.Flags().GetString("rid")
		req.Title, _ = cmd.Flags().GetString("title")
		req.PID, _ = cmd.Flags().GetInt("pid")
		return withProvider(cmd, func(ctx context.Context, p *platform.Provider) error {
			return printResult(steps.Window(ctx, p, req))
		})
	}
}
