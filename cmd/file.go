package cmd

import (
	"context"

	"github.com/mj1618/novawin-cli/internal/platform"
	"github.com/mj1618/novawin-cli/internal/steps"
	"github.com/spf13/cobra"
)

var fileCmd = &cobra.Command{
	Use:   "file",
	Short: "Copy files to and from the driver host",
}

var filePushCmd = &cobra.Command{
	Use:     "push <local> <remote>",
	Short:   "Upload a local file to the driver host",
	Example: `  novawin file push input.csv 'C:\Temp\input.csv'`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(cmd, args[0])
		if err != nil {
			return err
		}
		return withProvider(cmd, func(ctx context.Context, p *platform.Provider) error {
			return printResult(steps.PushFile(ctx, p, args[1], data))
		})
	},
}

var filePullCmd = &cobra.Command{
	Use:     "pull <remote> [local]",
	Short:   "Download a file from the driver host",
	Long:    "Download a file. Without a local path the content is printed as text.",
	Example: `  novawin file pull 'C:\Temp\out.log' out.log`,
	Args:    cobra.RangeArgs(1, 2),
	RunE:    runPull(false),
}

var filePullFolderCmd = &cobra.Command{
	Use:     "pull-folder <remote> <local.zip>",
	Short:   "Download a folder from the driver host as a zip archive",
	Example: `  novawin file pull-folder 'C:\Temp\logs' logs.zip`,
	Args:    cobra.ExactArgs(2),
	RunE:    runPull(true),
}

func init() {
	rootCmd.AddCommand(fileCmd)
	fileCmd.AddCommand(filePushCmd, filePullCmd, filePullFolderCmd)
}

func runPull(folder bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		local := ""
		if len(args) > 1 {
			local = args[1]
		}
		return withProvider(cmd, func(ctx context.Context, p *platform.Provider) error {
			return printResult(steps.PullFile(ctx, p, args[0], local, folder))
		})
	}
}
