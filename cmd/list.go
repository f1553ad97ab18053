package cmd

import (
	"context"

	"github.com/mj1618/novawin-cli/internal/model"
	"github.com/mj1618/novawin-cli/internal/output"
	"github.com/mj1618/novawin-cli/internal/platform"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List top-level windows",
	Long:  "List the top-level windows under the session root with their title, process id, runtime id and bounds.",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().String("title", "", "Filter windows by title substring")
	listCmd.Flags().Int("pid", 0, "Filter windows by process id")
}

func runList(cmd *cobra.Command, args []string) error {
	opts := platform.ListOptions{}
	opts.Title, _ = cmd.Flags().GetString("title")
	opts.PID, _ = cmd.Flags().GetInt("pid")

	return withProvider(cmd, func(ctx context.Context, p *platform.Provider) error {
		windows, err := p.Reader.ListWindows(ctx, opts)
		if err != nil {
			return err
		}
		if windows == nil {
			windows = []model.Window{}
		}
		return output.Print(windows)
	})
}
