package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mj1618/novawin-cli/internal/platform"
	"github.com/mj1618/novawin-cli/internal/steps"
	"github.com/spf13/cobra"
)

var powershellCmd = &cobra.Command{
	Use:   "powershell",
	Short: "Run PowerShell on the driver host",
	Long: `Run a PowerShell script or one-line command on the machine the driver runs
on and print its output. The driver must be started with the power_shell
insecure feature enabled.`,
	Example: `  novawin powershell --command "Get-Process notepad"
  novawin powershell --file cleanup.ps1
  echo 'Get-Date' | novawin powershell --file -`,
	Args: cobra.NoArgs,
	RunE: runPowerShell,
}

func init() {
	rootCmd.AddCommand(powershellCmd)
	powershellCmd.Flags().String("command", "", "One-line command")
	powershellCmd.Flags().String("script", "", "Multi-line script text")
	powershellCmd.Flags().String("file", "", "Read the script from a file (- for stdin)")
}

func runPowerShell(cmd *cobra.Command, args []string) error {
	command, _ := cmd.Flags().GetString("command")
	script, _ := cmd.Flags().GetString("script")
	file, _ := cmd.Flags().GetString("file")

	set := 0
	for _, s := range []string{command, script, file} {
		if s != "" {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("specify exactly one of --command, --script or --file")
	}
	if file != "" {
		data, err := readInput(cmd, file)
		if err != nil {
			return err
		}
		script = string(data)
	}

	return withProvider(cmd, func(ctx context.Context, p *platform.Provider) error {
		if command != "" {
			return printResult(steps.PowerShell(ctx, p, command, true))
		}
		return printResult(steps.PowerShell(ctx, p, script, false))
	})
}

// readInput reads a file, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
