package remote

import (
	"context"
	"fmt"
	"strings"

	"github.com/mj1618/novawin-cli/internal/novawin"
	"github.com/mj1618/novawin-cli/internal/platform"
)

// ActionPerformer implements platform.ActionPerformer with the driver's
// UIA pattern commands.
type ActionPerformer struct {
	s *novawin.Session
}

func NewActionPerformer(s *novawin.Session) *ActionPerformer {
	return &ActionPerformer{s: s}
}

func (p *ActionPerformer) PerformAction(ctx context.Context, opts platform.ActionOptions) error {
	if opts.RuntimeID == "" {
		return fmt.Errorf("runtime id is required")
	}
	if opts.Action == "" {
		return fmt.Errorf("action is required")
	}
	ref := novawin.ElementRef(opts.RuntimeID)
	switch strings.ToLower(opts.Action) {
	case "invoke", "press":
		return p.s.Invoke(ctx, ref)
	case "expand":
		return p.s.Expand(ctx, ref)
	case "collapse":
		return p.s.Collapse(ctx, ref)
	case "toggle":
		return p.s.Toggle(ctx, ref)
	case "select":
		return p.s.Select(ctx, ref)
	case "add-to-selection":
		return p.s.AddToSelection(ctx, ref)
	case "remove-from-selection":
		return p.s.RemoveFromSelection(ctx, ref)
	case "scroll-into-view":
		return p.s.ScrollIntoView(ctx, ref)
	case "focus":
		return p.s.SetFocus(ctx, ref)
	}
	return fmt.Errorf("unknown action %q (expected one of: %s)", opts.Action, strings.Join(platform.Actions, ", "))
}

// ValueSetter implements platform.ValueSetter.
type ValueSetter struct {
	s *novawin.Session
}

func NewValueSetter(s *novawin.Session) *ValueSetter {
	return &ValueSetter{s: s}
}

func (v *ValueSetter) SetValue(ctx context.Context, runtimeID, value string) error {
	return v.s.SetValue(ctx, novawin.ElementRef(runtimeID), value)
}

func (v *ValueSetter) GetValue(ctx context.Context, runtimeID string) (string, error) {
	return v.s.GetValue(ctx, novawin.ElementRef(runtimeID))
}
