package cmd

import (
	"context"

	"github.com/mj1618/novawin-cli/internal/platform"
	"github.com/mj1618/novawin-cli/internal/steps"
	"github.com/spf13/cobra"
)

var keyCmd = &cobra.Command{
	Use:   "key <combo>...",
	Short: "Press key combinations",
	Long: `Press one or more key combinations in order. Keys are virtual-key names
(ENTER, TAB, LWIN, F5, A-Z, 0-9) or numeric codes; modifiers are joined with +.`,
	Example: `  novawin key ctrl+s
  novawin key alt+f4
  novawin key ctrl+a delete`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		unicode, _ := cmd.Flags().GetBool("force-unicode")
		return withProvider(cmd, func(ctx context.Context, p *platform.Provider) error {
			return printResult(steps.Key(ctx, p, args, unicode))
		})
	},
}

var keysCmd = &cobra.Command{
	Use:   "keys <step>...",
	Short: "Send a raw key sequence",
	Long: `Send a sequence of key steps in one keys command:

  down:KEY     key down only
  up:KEY       key up only
  pause:MS     wait
  text:STRING  type text
  KEY / a+b    full press or combo`,
	Example: `  novawin keys down:LWIN pause:200 up:LWIN
  novawin keys down:SHIFT LEFT LEFT up:SHIFT`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		unicode, _ := cmd.Flags().GetBool("force-unicode")
		return withProvider(cmd, func(ctx context.Context, p *platform.Provider) error {
			return printResult(steps.Keys(ctx, p, args, unicode))
		})
	},
}

func init() {
	rootCmd.AddCommand(keyCmd, keysCmd)
	for _, c := range []*cobra.Command{keyCmd, keysCmd} {
		c.Flags().Bool("force-unicode", false, "Send text steps as unicode input")
	}
}
