package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/mj1618/novawin-cli/internal/model"
	"github.com/mj1618/novawin-cli/internal/output"
	"github.com/mj1618/novawin-cli/internal/platform"
	"github.com/spf13/cobra"
)

// OpenResult is the output of open.
type OpenResult struct {
	OK      bool           `yaml:"ok"                json:"ok"`
	Action  string         `yaml:"action"            json:"action"`
	Session string         `yaml:"session"           json:"session"`
	App     string         `yaml:"app,omitempty"     json:"app,omitempty"`
	Windows []model.Window `yaml:"windows"           json:"windows"`
}

var openCmd = &cobra.Command{
	Use:   "open [app] [args...]",
	Short: "Launch an application through the driver",
	Long: `Start a session that launches app (an executable path or an AppUserModelID)
and print its windows. The application is left running when the session
ends unless --close is given; later commands attach with --app Root.`,
	Example: `  novawin open notepad.exe
  novawin open 'C:\Tools\app.exe' --working-dir 'C:\Tools' -- --verbose
  novawin open Microsoft.WindowsCalculator_8wekyb3d8bbwe!App`,
	RunE: runOpen,
}

func init() {
	rootCmd.AddCommand(openCmd)
	openCmd.Flags().String("working-dir", "", "Working directory for the application")
	openCmd.Flags().String("top-level-window", "", "Attach to this existing window handle (hex) instead of launching")
	openCmd.Flags().Int("launch-retries", 0, "Retries while waiting for the main window")
	openCmd.Flags().Int("launch-retry-interval", 0, "Milliseconds between launch retries")
	openCmd.Flags().Bool("close", false, "Close the application when the session ends")
}

func runOpen(cmd *cobra.Command, args []string) error {
	cfg := *currentConfig()
	s := &cfg.Session
	s.AppTopLevelWindow, _ = cmd.Flags().GetString("top-level-window")
	switch {
	case s.AppTopLevelWindow != "" && len(args) > 0:
		return fmt.Errorf("an app and --top-level-window are mutually exclusive")
	case s.AppTopLevelWindow != "":
		s.App = ""
	case len(args) == 0:
		return fmt.Errorf("specify an app to launch or --top-level-window")
	default:
		s.App = args[0]
		s.AppArguments = strings.Join(args[1:], " ")
	}
	s.AppWorkingDir, _ = cmd.Flags().GetString("working-dir")
	s.AppWaitForLaunchRetries, _ = cmd.Flags().GetInt("launch-retries")
	s.AppWaitForLaunchRetryIntervalMs, _ = cmd.Flags().GetInt("launch-retry-interval")
	closeApp, _ := cmd.Flags().GetBool("close")
	s.ShouldCloseApp = &closeApp

	return withProviderConfig(cmd, &cfg, func(ctx context.Context, p *platform.Provider) error {
		windows, err := p.Reader.ListWindows(ctx, platform.ListOptions{})
		if err != nil {
			return err
		}
		if windows == nil {
			windows = []model.Window{}
		}
		return output.Print(OpenResult{
			OK:      true,
			Action:  "open",
			Session: p.SessionID,
			App:     s.App,
			Windows: windows,
		})
	})
}
