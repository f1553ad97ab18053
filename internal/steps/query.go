package steps

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mj1618/novawin-cli/internal/locate"
	"github.com/mj1618/novawin-cli/internal/model"
	"github.com/mj1618/novawin-cli/internal/platform"
)

// FindRequest configures Find. Selector runs a driver lookup; Text
// searches the page-source tree instead.
type FindRequest struct {
	Selector string
	Text     string
	Roles    string
	Exact    bool
	All      bool
	Timeout  time.Duration // Poll for Selector up to this long
	Scope    Scope
}

// Find looks up elements.
func Find(ctx context.Context, p *platform.Provider, req FindRequest) (Result, error) {
	if err := needReader(p); err != nil {
		return fail("find", err)
	}
	res := Result{Action: "find"}
	switch {
	case req.Selector != "" && req.Timeout > 0:
		wctx, cancel := context.WithTimeout(ctx, req.Timeout)
		defer cancel()
		start := time.Now()
		el, err := p.Reader.WaitElement(wctx, req.Selector, 0)
		if err != nil {
			return fail("find", fmt.Errorf("waiting for %s: %w", req.Selector, err))
		}
		res.Target = locate.Info(el)
		res.Elapsed = elapsed(start)
	case req.Selector != "":
		found, err := p.Reader.FindElements(ctx, req.Selector, req.All)
		if err != nil {
			return fail("find", err)
		}
		if !req.All && len(found) > 0 {
			res.Target = locate.Info(&found[0])
		} else {
			res.Elements = infos(found)
		}
	case req.Text != "":
		elements, err := p.Reader.ReadElements(ctx, req.Scope.ReadOptions())
		if err != nil {
			return fail("find", err)
		}
		if !req.All {
			el, err := locate.ByText(elements, req.Text, req.Roles, req.Exact, 0)
			if err != nil {
				return fail("find", err)
			}
			res.Target = locate.Info(el)
			return res, nil
		}
		res.Elements = []locate.ElementInfo{}
		for _, el := range (locate.Condition{Text: req.Text, Role: req.Roles}).FindAll(elements) {
			res.Elements = append(res.Elements, *locate.Info(el))
		}
	default:
		return fail("find", fmt.Errorf("specify a selector or text"))
	}
	return res, nil
}

func infos(elements []model.Element) []locate.ElementInfo {
	out := make([]locate.ElementInfo, 0, len(elements))
	for i := range elements {
		out = append(out, *locate.Info(&elements[i]))
	}
	return out
}

func elapsed(start time.Time) string {
	return fmt.Sprintf("%.1fs", time.Since(start).Seconds())
}

// WaitRequest configures Wait.
type WaitRequest struct {
	Condition locate.Condition
	Selector  string // Wait for a driver lookup instead of a tree condition
	Timeout   time.Duration
	Interval  time.Duration
	Scope     Scope
}

// Wait polls until the condition holds or Timeout passes.
func Wait(ctx context.Context, p *platform.Provider, req WaitRequest) (Result, error) {
	if err := needReader(p); err != nil {
		return fail("wait", err)
	}
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	wctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	start := time.Now()

	var (
		el    *model.Element
		err   error
		match string
	)
	if req.Selector != "" {
		match = "selector " + req.Selector
		el, err = p.Reader.WaitElement(wctx, req.Selector, req.Interval)
		if err != nil {
			err = fmt.Errorf("wait for %s: %w", match, err)
		}
	} else {
		match = req.Condition.String()
		el, err = locate.Poll(wctx, p.Reader, req.Scope.ReadOptions(), req.Condition, req.Interval)
	}
	if err != nil {
		return fail("wait", err)
	}
	return Result{Action: "wait", Target: locate.Info(el), Match: match, Elapsed: elapsed(start)}, nil
}

// AssertRequest configures Assert. The element is found by Condition
// (or Target when Condition is empty) and then checked against every set
// expectation.
type AssertRequest struct {
	Condition     locate.Condition
	Target        TargetSpec
	Value         *string
	ValueContains string
	Enabled       *bool
	Focused       bool
	Timeout       time.Duration // Retry until the assertion passes
	Interval      time.Duration
	Scope         Scope
}

// Assert checks UI state, retrying until Timeout when one is set.
func Assert(ctx context.Context, p *platform.Provider, req AssertRequest) (Result, error) {
	if err := needReader(p); err != nil {
		return fail("assert", err)
	}
	interval := req.Interval
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	deadline := time.Now().Add(req.Timeout)
	for {
		res, err := assertOnce(ctx, p, req)
		if err == nil || time.Now().After(deadline) {
			return res, err
		}
		select {
		case <-ctx.Done():
			return res, err
		case <-time.After(interval):
		}
	}
}

func assertOnce(ctx context.Context, p *platform.Provider, req AssertRequest) (Result, error) {
	var el *model.Element
	if req.Condition.IsZero() {
		if req.Target.Query.IsZero() {
			return fail("assert", fmt.Errorf("specify an element condition or target"))
		}
		m, err := locate.Resolve(ctx, p.Reader, req.Target.Query)
		if err != nil {
			return fail("assert", err)
		}
		el = m.Element
	} else {
		elements, err := p.Reader.ReadElements(ctx, req.Scope.ReadOptions())
		if err != nil {
			return fail("assert", err)
		}
		el = req.Condition.Find(elements)
		if req.Condition.Gone {
			if el != nil {
				return fail("assert", fmt.Errorf("expected %s to be gone, found id %d", req.Condition, el.ID))
			}
			return Result{Action: "assert", Match: req.Condition.String()}, nil
		}
		if el == nil {
			return fail("assert", fmt.Errorf("no element matches %s", req.Condition))
		}
	}
	res := Result{Action: "assert", Target: locate.Info(el)}
	var failures []string

	if req.Enabled != nil {
		enabled := el.Enabled == nil || *el.Enabled
		if enabled != *req.Enabled {
			failures = append(failures, fmt.Sprintf("enabled is %t, want %t", enabled, *req.Enabled))
		}
	}
	if req.Focused {
		focused := el.Focused
		if !focused && el.RuntimeID != "" {
			if f, err := p.Reader.FocusedElement(ctx); err == nil {
				focused = f.RuntimeID == el.RuntimeID
			}
		}
		if !focused {
			failures = append(failures, "element is not focused")
		}
	}
	if req.Value != nil || req.ValueContains != "" {
		if p.ValueSetter == nil || el.RuntimeID == "" {
			return fail("assert", fmt.Errorf("value checks need an element with a runtime id"))
		}
		v, err := p.ValueSetter.GetValue(ctx, el.RuntimeID)
		if err != nil {
			return fail("assert", err)
		}
		res.Value = v
		if req.Value != nil && v != *req.Value {
			failures = append(failures, fmt.Sprintf("value is %q, want %q", v, *req.Value))
		}
		if req.ValueContains != "" && !strings.Contains(v, req.ValueContains) {
			failures = append(failures, fmt.Sprintf("value %q does not contain %q", v, req.ValueContains))
		}
	}
	if len(failures) > 0 {
		res.Error = strings.Join(failures, "; ")
		return res, fmt.Errorf("assertion failed: %s", res.Error)
	}
	return res, nil
}

// Read returns the filtered element tree.
func Read(ctx context.Context, p *platform.Provider, opts platform.ReadOptions) (Result, error) {
	if err := needReader(p); err != nil {
		return fail("read", err)
	}
	elements, err := p.Reader.ReadElements(ctx, opts)
	if err != nil {
		return fail("read", err)
	}
	return Result{Action: "read", Tree: elements, Focused: locate.Info(locate.Focused(elements))}, nil
}

// Screenshot captures the root or a window into File.
func Screenshot(ctx context.Context, p *platform.Provider, opts platform.ScreenshotOptions, file string) (Result, error) {
	if p.Screenshotter == nil {
		return fail("screenshot", fmt.Errorf("screenshot not available"))
	}
	if file == "" {
		return fail("screenshot", fmt.Errorf("an output file is required"))
	}
	data, err := p.Screenshotter.CaptureWindow(ctx, opts)
	if err != nil {
		return fail("screenshot", err)
	}
	if err := os.WriteFile(file, data, 0o644); err != nil {
		return fail("screenshot", fmt.Errorf("write %s: %w", file, err))
	}
	return Result{Action: "screenshot", File: file, Bytes: len(data)}, nil
}

// Sleep pauses for d or until ctx ends.
func Sleep(ctx context.Context, d time.Duration) (Result, error) {
	if d <= 0 {
		return fail("sleep", fmt.Errorf("ms must be > 0"))
	}
	select {
	case <-ctx.Done():
		return fail("sleep", ctx.Err())
	case <-time.After(d):
	}
	return Result{Action: "sleep", Elapsed: d.String()}, nil
}
