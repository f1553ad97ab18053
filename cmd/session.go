package cmd

import (
	"context"
	"time"

	"github.com/mj1618/novawin-cli/internal/output"
	"github.com/mj1618/novawin-cli/internal/platform"
	"github.com/spf13/cobra"
)

// SessionResult is the output of session.
type SessionResult struct {
	OK           bool                   `yaml:"ok"                json:"ok"`
	Action       string                 `yaml:"action"            json:"action"`
	URL          string                 `yaml:"url"               json:"url"`
	Session      string                 `yaml:"session,omitempty" json:"session,omitempty"`
	Capabilities map[string]interface{} `yaml:"capabilities"      json:"capabilities"`
	Windows      int                    `yaml:"windows,omitempty" json:"windows,omitempty"`
	Elapsed      string                 `yaml:"elapsed,omitempty" json:"elapsed,omitempty"`
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Check the driver by opening and deleting a session",
	Long: `Print the driver URL and the capabilities built from the configuration,
then open a session, count the top-level windows and delete it. With
--dry-run nothing is sent to the driver.`,
	Example: `  novawin session --dry-run
  novawin session --app notepad.exe --cap ms:waitForAppLaunch=5`,
	Args: cobra.NoArgs,
	RunE: runSession,
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.Flags().Bool("dry-run", false, "Print the capabilities without connecting")
}

func runSession(cmd *cobra.Command, args []string) error {
	cfg := currentConfig()
	caps, err := cfg.Capabilities()
	if err != nil {
		return err
	}
	res := SessionResult{OK: true, Action: "session", URL: cfg.URL(), Capabilities: caps}
	if dry, _ := cmd.Flags().GetBool("dry-run"); dry {
		return output.Print(res)
	}

	start := time.Now()
	return withProvider(cmd, func(ctx context.Context, p *platform.Provider) error {
		windows, err := p.Reader.ListWindows(ctx, platform.ListOptions{})
		if err != nil {
			return err
		}
		res.Session = p.SessionID
		res.Windows = len(windows)
		res.Elapsed = time.Since(start).Round(time.Millisecond).String()
		return output.Print(res)
	})
}
