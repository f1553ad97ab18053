package remote

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mj1618/novawin-cli/internal/model"
	"github.com/mj1618/novawin-cli/internal/novawin"
	"github.com/mj1618/novawin-cli/internal/platform"
	"go.uber.org/zap"
)

// Reader implements platform.Reader over page source and element lookups.
type Reader struct {
	s   *novawin.Session
	log *zap.Logger
}

// NewReader creates a Reader for s.
func NewReader(s *novawin.Session, log *zap.Logger) *Reader {
	return &Reader{s: s, log: log}
}

// tree fetches and parses the full page source of the session root.
func (r *Reader) tree(ctx context.Context) ([]model.Element, error) {
	start := time.Now()
	src, err := r.s.Source(ctx)
	if err != nil {
		return nil, err
	}
	roots, err := model.ParseSource(src, 0)
	if err != nil {
		return nil, err
	}
	r.log.Debug("page source parsed", zap.Int("bytes", len(src)), zap.Duration("elapsed", time.Since(start)))
	return roots, nil
}

// ReadElements reads the element tree, scopes it to a window when asked,
// then applies depth and the remaining filters in that order.
func (r *Reader) ReadElements(ctx context.Context, opts platform.ReadOptions) ([]model.Element, error) {
	roots, err := r.tree(ctx)
	if err != nil {
		return nil, err
	}
	if opts.Scoped() {
		win, err := findWindow(roots, opts.Window, opts.WindowRID, opts.PID)
		if err != nil {
			return nil, err
		}
		roots = []model.Element{*win}
	}
	if opts.Depth > 0 {
		roots = model.TrimDepth(roots, opts.Depth+1)
	}
	if opts.VisibleOnly {
		roots = model.FilterVisible(roots)
	}
	var bbox *[4]int
	if opts.BBox != nil {
		b := opts.BBox.Array()
		bbox = &b
	}
	roots = model.FilterElements(roots, model.ExpandRoles(opts.Roles), bbox)
	if opts.Text != "" {
		roots = model.FilterByText(roots, opts.Text)
	}
	if opts.Focused {
		roots = model.FilterByFocused(roots)
	}
	if opts.Prune {
		roots = model.PruneEmptyGroups(roots)
	}
	return roots, nil
}

// ListWindows returns the top-level windows under the session root.
func (r *Reader) ListWindows(ctx context.Context, opts platform.ListOptions) ([]model.Window, error) {
	roots, err := r.tree(ctx)
	if err != nil {
		return nil, err
	}
	title := strings.ToLower(opts.Title)
	windows := []model.Window{}
	for _, w := range model.Windows(roots) {
		if opts.PID != 0 && w.PID != opts.PID {
			continue
		}
		if title != "" && !strings.Contains(strings.ToLower(w.Title), title) {
			continue
		}
		windows = append(windows, w)
	}
	return windows, nil
}

// FindElements runs a driver lookup and describes each match. Ids are
// numbered from 1 in result order.
func (r *Reader) FindElements(ctx context.Context, selector string, all bool) ([]model.Element, error) {
	loc, err := novawin.ParseLocator(selector)
	if err != nil {
		return nil, err
	}
	var found []*novawin.Element
	if all {
		found, err = r.s.FindAll(ctx, loc)
	} else {
		var el *novawin.Element
		el, err = r.s.Find(ctx, loc)
		found = []*novawin.Element{el}
	}
	if err != nil {
		return nil, err
	}
	out := make([]model.Element, 0, len(found))
	for i, el := range found {
		m, err := describe(ctx, el, i+1)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// WaitElement polls for selector until it matches or ctx ends.
func (r *Reader) WaitElement(ctx context.Context, selector string, interval time.Duration) (*model.Element, error) {
	loc, err := novawin.ParseLocator(selector)
	if err != nil {
		return nil, err
	}
	el, err := r.s.WaitFor(ctx, loc, interval)
	if err != nil {
		return nil, err
	}
	m, err := describe(ctx, el, 1)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Attributes returns every UIA property of the element.
func (r *Reader) Attributes(ctx context.Context, runtimeID string) (map[string]interface{}, error) {
	if runtimeID == "" {
		return nil, fmt.Errorf("runtime id is required")
	}
	return r.s.Attributes(ctx, novawin.ElementRef(runtimeID))
}

// FocusedElement describes the element with keyboard focus.
func (r *Reader) FocusedElement(ctx context.Context) (*model.Element, error) {
	el, err := r.s.ActiveElement(ctx)
	if err != nil {
		return nil, err
	}
	m, err := describe(ctx, el, 1)
	if err != nil {
		return nil, err
	}
	m.Focused = true
	return &m, nil
}

// describe builds a model.Element from a looked-up element. Name,
// AutomationId and ClassName are optional; a failed read leaves them empty.
func describe(ctx context.Context, el *novawin.Element, id int) (model.Element, error) {
	tag, err := el.TagName(ctx)
	if err != nil {
		return model.Element{}, err
	}
	rect, err := el.Rect(ctx)
	if err != nil {
		return model.Element{}, err
	}
	m := model.Element{
		ID:          id,
		ControlType: tag,
		Role:        model.MapRole(tag),
		RuntimeID:   el.ElementID(),
		Bounds:      [4]int{rect.X, rect.Y, rect.Width, rect.Height},
	}
	m.Title, _ = el.Attribute(ctx, "Name")
	m.AutomationID, _ = el.Attribute(ctx, "AutomationId")
	m.ClassName, _ = el.Attribute(ctx, "ClassName")
	if v, err := el.Attribute(ctx, "IsEnabled"); err == nil && strings.EqualFold(v, "false") {
		disabled := false
		m.Enabled = &disabled
	}
	return m, nil
}

// findWindow picks the scope root for a read or screenshot. A RuntimeId
// may name any element in the tree; title and pid match top-level
// elements only, title as a case-insensitive substring.
func findWindow(roots []model.Element, title, runtimeID string, pid int) (*model.Element, error) {
	if runtimeID != "" {
		var found *model.Element
		model.Walk(roots, func(el *model.Element) bool {
			if el.RuntimeID == runtimeID {
				found = el
				return false
			}
			return true
		})
		if found == nil {
			return nil, fmt.Errorf("no element with runtime id %q", runtimeID)
		}
		return found, nil
	}

	top := roots
	if len(top) == 1 && top[0].ControlType != "Window" {
		top = top[0].Children
	}
	want := strings.ToLower(title)
	for i := range top {
		w := &top[i]
		if pid != 0 && w.PID != pid {
			continue
		}
		if want != "" && !strings.Contains(strings.ToLower(w.Title), want) {
			continue
		}
		return w, nil
	}
	switch {
	case title != "" && pid != 0:
		return nil, fmt.Errorf("no window matching title %q in process %d", title, pid)
	case title != "":
		return nil, fmt.Errorf("no window matching title %q", title)
	default:
		return nil, fmt.Errorf("no window for process %d", pid)
	}
}
