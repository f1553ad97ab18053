package steps

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mj1618/novawin-cli/internal/locate"
	"github.com/mj1618/novawin-cli/internal/novawin"
	"github.com/mj1618/novawin-cli/internal/platform"
)

// WheelDelta is the pixel delta of one wheel notch.
const WheelDelta = 120

// ClickRequest configures Click.
type ClickRequest struct {
	Target    TargetSpec
	Button    string
	Modifiers string
	Count     int
	Hold      time.Duration
}

// Click clicks the target.
func Click(ctx context.Context, p *platform.Provider, req ClickRequest) (Result, error) {
	if err := needInput(p); err != nil {
		return fail("click", err)
	}
	button, err := novawin.ParseMouseButton(req.Button)
	if err != nil {
		return fail("click", err)
	}
	mods, err := novawin.ParseModifiers(req.Modifiers)
	if err != nil {
		return fail("click", err)
	}
	target, info, err := ResolveTarget(ctx, p.Reader, req.Target)
	if err != nil {
		return fail("click", err)
	}
	count := max(req.Count, 1)
	if err := p.Inputter.Click(ctx, platform.ClickOptions{
		Target:    target,
		Button:    button,
		Modifiers: mods,
		Count:     count,
		Hold:      req.Hold,
	}); err != nil {
		return fail("click", err)
	}
	return Result{Action: "click", Target: info}, nil
}

// HoverRequest configures Hover. A zero From moves straight to To.
type HoverRequest struct {
	From, To  TargetSpec
	Modifiers string
	Duration  time.Duration
}

// Hover moves the pointer.
func Hover(ctx context.Context, p *platform.Provider, req HoverRequest) (Result, error) {
	if err := needInput(p); err != nil {
		return fail("hover", err)
	}
	mods, err := novawin.ParseModifiers(req.Modifiers)
	if err != nil {
		return fail("hover", err)
	}
	to, info, err := ResolveTarget(ctx, p.Reader, req.To)
	if err != nil {
		return fail("hover", err)
	}
	var from platform.Target
	if !req.From.IsZero() {
		if from, _, err = ResolveTarget(ctx, p.Reader, req.From); err != nil {
			return fail("hover", fmt.Errorf("start: %w", err))
		}
	}
	if err := p.Inputter.Hover(ctx, platform.HoverOptions{
		From:      from,
		To:        to,
		Modifiers: mods,
		Duration:  req.Duration,
	}); err != nil {
		return fail("hover", err)
	}
	return Result{Action: "hover", Target: info}, nil
}

// DragRequest configures Drag.
type DragRequest struct {
	From, To  TargetSpec
	Button    string
	Modifiers string
	Duration  time.Duration
	Easing    string
}

// Drag presses at From, moves to To and releases.
func Drag(ctx context.Context, p *platform.Provider, req DragRequest) (Result, error) {
	if err := needInput(p); err != nil {
		return fail("drag", err)
	}
	button, err := novawin.ParseMouseButton(req.Button)
	if err != nil {
		return fail("drag", err)
	}
	mods, err := novawin.ParseModifiers(req.Modifiers)
	if err != nil {
		return fail("drag", err)
	}
	from, info, err := ResolveTarget(ctx, p.Reader, req.From)
	if err != nil {
		return fail("drag", fmt.Errorf("start: %w", err))
	}
	to, _, err := ResolveTarget(ctx, p.Reader, req.To)
	if err != nil {
		return fail("drag", fmt.Errorf("end: %w", err))
	}
	if err := p.Inputter.Drag(ctx, platform.DragOptions{
		From:      from,
		To:        to,
		Button:    button,
		Modifiers: mods,
		Duration:  req.Duration,
		Easing:    req.Easing,
	}); err != nil {
		return fail("drag", err)
	}
	return Result{Action: "drag", Target: info}, nil
}

// ScrollRequest configures Scroll. Direction and Amount (in wheel notches)
// are used when DX and DY are both zero.
type ScrollRequest struct {
	Target    TargetSpec
	DX, DY    int
	Direction string
	Amount    int
	Modifiers string
}

// Deltas returns the pixel deltas the request asks for.
func (r ScrollRequest) Deltas() (dx, dy int, err error) {
	if r.DX != 0 || r.DY != 0 {
		return r.DX, r.DY, nil
	}
	amount := r.Amount
	if amount <= 0 {
		amount = 3
	}
	switch strings.ToLower(r.Direction) {
	case "up":
		return 0, amount * WheelDelta, nil
	case "down":
		return 0, -amount * WheelDelta, nil
	case "left":
		return -amount * WheelDelta, 0, nil
	case "right":
		return amount * WheelDelta, 0, nil
	case "":
		return 0, 0, fmt.Errorf("specify dx/dy or a direction")
	}
	return 0, 0, fmt.Errorf("invalid direction %q (expected up, down, left, or right)", r.Direction)
}

// Scroll turns the wheel over the target.
func Scroll(ctx context.Context, p *platform.Provider, req ScrollRequest) (Result, error) {
	if err := needInput(p); err != nil {
		return fail("scroll", err)
	}
	dx, dy, err := req.Deltas()
	if err != nil {
		return fail("scroll", err)
	}
	mods, err := novawin.ParseModifiers(req.Modifiers)
	if err != nil {
		return fail("scroll", err)
	}
	target, info, err := ResolveTarget(ctx, p.Reader, req.Target)
	if err != nil {
		return fail("scroll", err)
	}
	if err := p.Inputter.Scroll(ctx, platform.ScrollOptions{
		Target:    target,
		DX:        dx,
		DY:        dy,
		Modifiers: mods,
	}); err != nil {
		return fail("scroll", err)
	}
	return Result{Action: "scroll", Target: info, Value: fmt.Sprintf("%d,%d", dx, dy)}, nil
}

// TypeRequest configures Type. A zero Target types into the focused element.
type TypeRequest struct {
	Target  TargetSpec
	Text    string
	DelayMs *int
	Clear   bool
}

// Type sends text to the target, optionally with a per-call keystroke delay.
func Type(ctx context.Context, p *platform.Provider, req TypeRequest) (Result, error) {
	if err := needInput(p); err != nil {
		return fail("type", err)
	}
	if req.Text == "" && !req.Clear {
		return fail("type", fmt.Errorf("text is required"))
	}
	if req.DelayMs != nil && *req.DelayMs < 0 {
		return fail("type", fmt.Errorf("delay must be >= 0, got %d", *req.DelayMs))
	}
	var (
		target platform.Target
		info   *locate.ElementInfo
		err    error
	)
	if !req.Target.IsZero() {
		if target, info, err = ResolveTarget(ctx, p.Reader, req.Target); err != nil {
			return fail("type", err)
		}
	}
	if err := p.Inputter.TypeText(ctx, platform.TypeOptions{
		Target:  target,
		Text:    req.Text,
		DelayMs: req.DelayMs,
		Clear:   req.Clear,
	}); err != nil {
		return fail("type", err)
	}
	res := Result{Action: "type", Target: info, Text: req.Text}
	if p.Reader != nil {
		if focused, err := p.Reader.FocusedElement(ctx); err == nil {
			res.Focused = locate.Info(focused)
		}
	}
	return res, nil
}

// SetTypeDelay sets the session keystroke delay in milliseconds.
func SetTypeDelay(ctx context.Context, p *platform.Provider, delayMs int) (Result, error) {
	if err := needInput(p); err != nil {
		return fail("type-delay", err)
	}
	if err := p.Inputter.SetTypeDelay(ctx, delayMs); err != nil {
		return fail("type-delay", err)
	}
	return Result{Action: "type-delay", Value: fmt.Sprintf("%dms", delayMs)}, nil
}

// Key presses one or more combos such as "ctrl+s" in sequence.
func Key(ctx context.Context, p *platform.Provider, combos []string, forceUnicode bool) (Result, error) {
	if err := needInput(p); err != nil {
		return fail("key", err)
	}
	if len(combos) == 0 {
		return fail("key", fmt.Errorf("key combo is required"))
	}
	var actions []novawin.KeyAction
	for _, c := range combos {
		parsed, err := novawin.ParseCombo(c)
		if err != nil {
			return fail("key", err)
		}
		actions = append(actions, parsed...)
	}
	if err := p.Inputter.SendKeys(ctx, platform.KeysOptions{Actions: actions, ForceUnicode: forceUnicode}); err != nil {
		return fail("key", err)
	}
	return Result{Action: "key", Key: strings.Join(combos, " ")}, nil
}

// Keys sends a raw sequence of textual key steps (down:LWIN, pause:200,
// text:hello, up:LWIN, ...).
func Keys(ctx context.Context, p *platform.Provider, seq []string, forceUnicode bool) (Result, error) {
	if err := needInput(p); err != nil {
		return fail("keys", err)
	}
	if len(seq) == 0 {
		return fail("keys", fmt.Errorf("at least one key step is required"))
	}
	actions, err := novawin.ParseKeyActions(seq)
	if err != nil {
		return fail("keys", err)
	}
	if err := p.Inputter.SendKeys(ctx, platform.KeysOptions{Actions: actions, ForceUnicode: forceUnicode}); err != nil {
		return fail("keys", err)
	}
	return Result{Action: "keys", Key: strings.Join(seq, " ")}, nil
}
