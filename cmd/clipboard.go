package cmd

import (
	"context"
	"fmt"

	"github.com/mj1618/novawin-cli/internal/platform"
	"github.com/mj1618/novawin-cli/internal/steps"
	"github.com/spf13/cobra"
)

var clipboardCmd = &cobra.Command{
	Use:   "clipboard",
	Short: "Read, write, or clear the driver host clipboard",
	Long: `Read or write the clipboard of the machine the driver runs on. Content is
moved as base64, so images travel as PNG files.`,
}

var clipboardGetCmd = &cobra.Command{
	Use:     "get",
	Short:   "Print the clipboard text, or save a clipboard image",
	Example: "  novawin clipboard get\n  novawin clipboard get --image --file clip.png",
	Args:    cobra.NoArgs,
	RunE:    runClipboard("get"),
}

var clipboardSetCmd = &cobra.Command{
	Use:     "set [text]",
	Short:   "Set the clipboard text, or an image from a PNG file",
	Example: "  novawin clipboard set \"hello\"\n  novawin clipboard set --image --file logo.png",
	Args:    cobra.MaximumNArgs(1),
	RunE:    runClipboard("set"),
}

var clipboardClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the clipboard",
	Args:  cobra.NoArgs,
	RunE:  runClipboard("clear"),
}

func init() {
	rootCmd.AddCommand(clipboardCmd)
	clipboardCmd.AddCommand(clipboardGetCmd, clipboardSetCmd, clipboardClearCmd)
	for _, c := range []*cobra.Command{clipboardGetCmd, clipboardSetCmd} {
		c.Flags().Bool("image", false, "Move a PNG image instead of text")
		c.Flags().String("file", "", "PNG file to read from or write to (with --image)")
	}
	clipboardSetCmd.Flags().String("text", "", "Text to set (alternative to positional arg)")
}

func runClipboard(op string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		req := steps.ClipboardRequest{Op: op}
		if op != "clear" {
			req.Image, _ = cmd.Flags().GetBool("image")
			req.File, _ = cmd.Flags().GetString("file")
		}
		if op == "set" {
			req.Text, _ = cmd.Flags().GetString("text")
			if len(args) > 0 {
				req.Text = args[0]
			}
			if req.Image && req.File == "" {
				return fmt.Errorf("--file is required with --image")
			}
		}
		return withProvider(cmd, func(ctx context.Context, p *platform.Provider) error {
			return printResult(steps.Clipboard(ctx, p, req))
		})
	}
}
