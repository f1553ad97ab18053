package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	json "github.com/json-iterator/go"
	"github.com/mj1618/novawin-cli/internal/model"
	"github.com/mj1618/novawin-cli/internal/output"
	"github.com/mj1618/novawin-cli/internal/platform"
	"github.com/spf13/cobra"
)

var observeCmd = &cobra.Command{
	Use:   "observe",
	Short: "Watch for UI changes and stream diffs as JSONL",
	Long: `Poll the page source and emit one JSON line per added, removed or changed
element. Elements are matched across reads by runtime id. Nothing is
written while the UI is stable.

Output is always JSONL regardless of --format. Stop with Ctrl+C or
--duration.`,
	Example: `  novawin observe --window Notepad --roles interactive
  novawin observe --interval 250ms --duration 30s --ignore-bounds`,
	Args: cobra.NoArgs,
	RunE: runObserve,
}

func init() {
	rootCmd.AddCommand(observeCmd)
	addScopeFlags(observeCmd)
	addReadFilterFlags(observeCmd)
	observeCmd.Flags().Duration("interval", time.Second, "Polling interval")
	observeCmd.Flags().Duration("duration", 0, "Stop after this long (0 = until Ctrl+C)")
	observeCmd.Flags().Bool("ignore-bounds", false, "Ignore position changes")
	observeCmd.Flags().Bool("ignore-focus", false, "Ignore focus changes")
}

// observeOptions configures an observation loop.
type observeOptions struct {
	Read         platform.ReadOptions
	Interval     time.Duration
	IgnoreBounds bool
	IgnoreFocus  bool
}

func runObserve(cmd *cobra.Command, args []string) error {
	opts := observeOptions{}
	var err error
	if opts.Read, err = getReadOptions(cmd); err != nil {
		return err
	}
	opts.Interval, _ = cmd.Flags().GetDuration("interval")
	opts.IgnoreBounds, _ = cmd.Flags().GetBool("ignore-bounds")
	opts.IgnoreFocus, _ = cmd.Flags().GetBool("ignore-focus")
	duration, _ := cmd.Flags().GetDuration("duration")
	if opts.Interval <= 0 {
		return fmt.Errorf("--interval must be positive")
	}

	return withProvider(cmd, func(ctx context.Context, p *platform.Provider) error {
		if duration > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, duration)
			defer cancel()
		}
		return observe(ctx, p.Reader, opts, output.Stdout)
	})
}

// observe streams changes to w until ctx ends. Read errors after the
// first read are reported as events and do not stop the loop.
func observe(ctx context.Context, r platform.Reader, opts observeOptions, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	start := time.Now()

	elements, err := r.ReadElements(ctx, opts.Read)
	if err != nil {
		return fmt.Errorf("initial read failed: %w", err)
	}
	prev := model.FlattenElements(elements)
	_ = enc.Encode(map[string]interface{}{"type": "snapshot", "ts": time.Now().Unix(), "count": len(prev)})

	events := 0
	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return enc.Encode(map[string]interface{}{
				"type":    "done",
				"ts":      time.Now().Unix(),
				"elapsed": fmt.Sprintf("%.1fs", time.Since(start).Seconds()),
				"events":  events,
			})
		case <-ticker.C:
		}

		elements, err := r.ReadElements(ctx, opts.Read)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			_ = enc.Encode(map[string]interface{}{"type": "error", "ts": time.Now().Unix(), "error": err.Error()})
			continue
		}
		curr := model.FlattenElements(elements)
		for _, change := range model.DiffElements(prev, curr) {
			if change.Type == model.ChangeChanged {
				if opts.IgnoreBounds {
					delete(change.Changes, "b")
				}
				if opts.IgnoreFocus {
					delete(change.Changes, "f")
				}
				if len(change.Changes) == 0 {
					continue
				}
			}
			if err := enc.Encode(change); err != nil {
				return err
			}
			events++
		}
		prev = curr
	}
}
