package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/mj1618/novawin-cli/internal/observability"
	"github.com/mj1618/novawin-cli/internal/output"
	"github.com/mj1618/novawin-cli/internal/platform"
	"github.com/mj1618/novawin-cli/internal/steps"
	"github.com/spf13/cobra"
)

var doCmd = &cobra.Command{
	Use:   "do",
	Short: "Run a YAML scenario of steps in one session",
	Long: `Run a sequence of steps from a YAML list on stdin (or --file) against one
driver session. Each step is a single-key map of the step name to its
parameters; a scalar value is the step's main parameter.

By default execution stops at the first error. The session is deleted on
every path, including Ctrl+C.

Steps: ` + strings.Join(steps.Supported(), ", ") + `

Example scenario:
  - click: {text: "File"}
  - click: {text: "Save As", roles: menuitem}
  - wait: {for-text: "File name", timeout: 5}
  - type: {target: "File name", text: "[delay:30]report.txt"}
  - key: enter`,
	Example: `  novawin do --file scenario.yaml
  cat scenario.yaml | novawin do --window Notepad --stop-on-error=false`,
	Args: cobra.NoArgs,
	RunE: runDo,
}

func init() {
	rootCmd.AddCommand(doCmd)
	doCmd.Flags().String("file", "-", "Scenario file (- for stdin)")
	doCmd.Flags().Bool("stop-on-error", true, "Stop at the first failing step")
	addScopeFlags(doCmd)
}

func runDo(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	stopOnError, _ := cmd.Flags().GetBool("stop-on-error")
	data, err := readInput(cmd, file)
	if err != nil {
		return err
	}
	list, err := steps.ParseSteps(data)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return fmt.Errorf("no steps to run")
	}

	return withProvider(cmd, func(ctx context.Context, p *platform.Provider) error {
		runner := &steps.Runner{
			Provider:    p,
			Scope:       getScope(cmd),
			StopOnError: stopOnError,
			Log:         observability.GetLogger().Named("do"),
		}
		res := runner.Run(ctx, list)
		if err := output.Print(res); err != nil {
			return err
		}
		if !res.OK {
			return fmt.Errorf("%s", res.Error)
		}
		return nil
	})
}
