package remote

import (
	"context"
	"fmt"

	"github.com/mj1618/novawin-cli/internal/novawin"
	"github.com/mj1618/novawin-cli/internal/platform"
)

// Inputter implements platform.Inputter with the driver's pointer and
// keyboard extension commands.
type Inputter struct {
	s *novawin.Session
}

// NewInputter creates an Inputter for s.
func NewInputter(s *novawin.Session) *Inputter {
	return &Inputter{s: s}
}

func (in *Inputter) Click(ctx context.Context, opts platform.ClickOptions) error {
	return in.s.Click(ctx, novawin.ClickArgs{
		Target:    opts.Target.Endpoint(),
		Button:    opts.Button,
		Modifiers: opts.Modifiers,
		Duration:  opts.Hold,
		Times:     opts.Count,
	})
}

func (in *Inputter) Hover(ctx context.Context, opts platform.HoverOptions) error {
	from := opts.From
	if from.IsZero() {
		from = opts.To
	}
	return in.s.Hover(ctx, novawin.HoverArgs{
		Start:     from.Endpoint(),
		End:       opts.To.Endpoint(),
		Modifiers: opts.Modifiers,
		Duration:  opts.Duration,
	})
}

func (in *Inputter) Scroll(ctx context.Context, opts platform.ScrollOptions) error {
	return in.s.Scroll(ctx, novawin.ScrollArgs{
		Target:    opts.Target.Endpoint(),
		DeltaX:    opts.DX,
		DeltaY:    opts.DY,
		Modifiers: opts.Modifiers,
	})
}

func (in *Inputter) Drag(ctx context.Context, opts platform.DragOptions) error {
	return in.s.ClickAndDrag(ctx, novawin.DragArgs{
		Start:             opts.From.Endpoint(),
		End:               opts.To.Endpoint(),
		Button:            opts.Button,
		Modifiers:         opts.Modifiers,
		Duration:          opts.Duration,
		SmoothPointerMove: opts.Easing,
	})
}

// TypeText types into the target element. A point target is clicked first
// and the text goes to whatever takes focus.
func (in *Inputter) TypeText(ctx context.Context, opts platform.TypeOptions) error {
	el, err := in.resolve(ctx, opts.Target)
	if err != nil {
		return fmt.Errorf("type into %s: %w", opts.Target, err)
	}
	if opts.Clear {
		if err := el.Clear(ctx); err != nil {
			return err
		}
	}
	return in.s.Type(ctx, el, opts.Text, opts.DelayMs)
}

func (in *Inputter) resolve(ctx context.Context, t platform.Target) (*novawin.Element, error) {
	switch {
	case t.IsZero():
		return in.s.ActiveElement(ctx)
	case t.RuntimeID != "":
		el, err := in.s.Find(ctx, novawin.ByRuntimeID(t.RuntimeID))
		if err != nil {
			return nil, err
		}
		if t.HasPoint {
			if err := in.s.Click(ctx, novawin.ClickArgs{Target: t.Endpoint()}); err != nil {
				return nil, err
			}
		}
		return el, nil
	default:
		if err := in.s.Click(ctx, novawin.ClickArgs{Target: t.Endpoint()}); err != nil {
			return nil, err
		}
		return in.s.ActiveElement(ctx)
	}
}

func (in *Inputter) SendKeys(ctx context.Context, opts platform.KeysOptions) error {
	return in.s.Keys(ctx, novawin.KeysArgs{Actions: opts.Actions, ForceUnicode: opts.ForceUnicode})
}

func (in *Inputter) SetTypeDelay(ctx context.Context, delayMs int) error {
	return in.s.SetTypeDelay(ctx, delayMs)
}
