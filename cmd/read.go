package cmd

import (
	"context"
	"time"

	"github.com/mj1618/novawin-cli/internal/locate"
	"github.com/mj1618/novawin-cli/internal/model"
	"github.com/mj1618/novawin-cli/internal/output"
	"github.com/mj1618/novawin-cli/internal/platform"
	"github.com/spf13/cobra"
)

var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Read the UI element tree",
	Long: `Read the page source of the session root and print it as a compact element
tree. Element ids are stable for the same tree and can be passed to --id on
other commands; runtime ids (rid) identify elements to the driver.`,
	Example: `  novawin read --window Notepad --roles interactive
  novawin read --text Save --flat
  novawin read --focused`,
	RunE: runRead,
}

func init() {
	rootCmd.AddCommand(readCmd)
	addScopeFlags(readCmd)
	addReadFilterFlags(readCmd)
	readCmd.Flags().Bool("flat", false, "Flatten the tree into a list with parent paths")
}

// addReadFilterFlags registers the tree filters shared by read and observe.
func addReadFilterFlags(cmd *cobra.Command) {
	cmd.Flags().Int("depth", 0, "Max depth below the window (0 = unlimited)")
	cmd.Flags().String("roles", "", "Comma-separated roles to include (e.g. \"btn,input\" or \"interactive\")")
	cmd.Flags().Bool("visible-only", true, "Drop offscreen and zero-sized elements")
	cmd.Flags().String("bbox", "", "Only include elements within x,y,w,h")
	cmd.Flags().String("text", "", "Only include elements containing this text, with their ancestors")
	cmd.Flags().Bool("focused", false, "Only include the focused element and its ancestors")
	cmd.Flags().Bool("prune", false, "Drop anonymous groups")
}

func getReadOptions(cmd *cobra.Command) (platform.ReadOptions, error) {
	sc := getScope(cmd)
	opts := sc.ReadOptions()
	f := cmd.Flags()
	opts.Depth, _ = f.GetInt("depth")
	roles, _ := f.GetString("roles")
	opts.Roles = locate.ParseRoles(roles)
	opts.VisibleOnly, _ = f.GetBool("visible-only")
	opts.Text, _ = f.GetString("text")
	opts.Focused, _ = f.GetBool("focused")
	opts.Prune, _ = f.GetBool("prune")
	if bbox, _ := f.GetString("bbox"); bbox != "" {
		b, err := platform.ParseBBox(bbox)
		if err != nil {
			return opts, err
		}
		opts.BBox = b
	}
	return opts, nil
}

func runRead(cmd *cobra.Command, args []string) error {
	opts, err := getReadOptions(cmd)
	if err != nil {
		return err
	}
	flat, _ := cmd.Flags().GetBool("flat")

	return withProvider(cmd, func(ctx context.Context, p *platform.Provider) error {
		elements, err := p.Reader.ReadElements(ctx, opts)
		if err != nil {
			return err
		}
		root, window := treeNames(elements, opts)
		if flat {
			return output.Print(output.ReadFlatResult{
				Session:  p.SessionID,
				Root:     root,
				Window:   window,
				TS:       time.Now().Unix(),
				Elements: model.FlattenElements(elements),
			})
		}
		if elements == nil {
			elements = []model.Element{}
		}
		return output.Print(output.ReadResult{
			Session:  p.SessionID,
			Root:     root,
			Window:   window,
			TS:       time.Now().Unix(),
			Elements: elements,
		})
	})
}

// treeNames returns the title of the top element, and of the scoped
// window when a scope was given.
func treeNames(elements []model.Element, opts platform.ReadOptions) (root, window string) {
	if len(elements) == 0 {
		return "", ""
	}
	if opts.Scoped() {
		return "", elements[0].Title
	}
	return elements[0].Title, ""
}
