package cmd

import (
	"context"
	"fmt"

	"github.com/mj1618/novawin-cli/internal/output"
	"github.com/mj1618/novawin-cli/internal/platform"
	"github.com/spf13/cobra"
)

var attrsCmd = &cobra.Command{
	Use:   "attrs <rid>",
	Short: "Print every UIA property of an element",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if args[0] == "" {
			return fmt.Errorf("runtime id is required")
		}
		return withProvider(cmd, func(ctx context.Context, p *platform.Provider) error {
			attrs, err := p.Reader.Attributes(ctx, args[0])
			if err != nil {
				return err
			}
			return output.Print(attrs)
		})
	},
}

func init() {
	rootCmd.AddCommand(attrsCmd)
}
