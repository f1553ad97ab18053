// Package locate resolves element references given on the command line or
// in scenario steps (tree id, runtime id, driver selector or visible text)
// to elements and input targets.
package locate

import (
	"context"
	"fmt"
	"strings"

	"github.com/mj1618/novawin-cli/internal/model"
	"github.com/mj1618/novawin-cli/internal/platform"
)

// Query names one element. At most one of ID, RuntimeID, Selector and Text
// should be set; they are tried in that order.
type Query struct {
	ID        int    // Tree id from a previous read
	RuntimeID string // Driver element id
	Selector  string // Driver locator, e.g. "name=OK" or "xpath=//Button"
	Text      string // Visible text (Name, AutomationId or HelpText)

	Roles   string // Comma-separated roles for text matching
	Exact   bool   // Require a whole-field match for text
	ScopeID int    // Limit text matching to descendants of this tree id

	// Near picks the nearest interactive element to the text match.
	Near          bool
	NearDirection string // left, right, above, below or "" for any

	// Window scope used for tree reads.
	Window    string
	WindowRID string
	PID       int
}

// IsZero reports whether q names no element.
func (q Query) IsZero() bool {
	return q.ID == 0 && q.RuntimeID == "" && q.Selector == "" && q.Text == ""
}

func (q Query) readOptions() platform.ReadOptions {
	return platform.ReadOptions{Window: q.Window, WindowRID: q.WindowRID, PID: q.PID}
}

func (q Query) String() string {
	switch {
	case q.ID > 0:
		return fmt.Sprintf("id %d", q.ID)
	case q.RuntimeID != "":
		return "runtime id " + q.RuntimeID
	case q.Selector != "":
		return "selector " + q.Selector
	case q.Text != "":
		return fmt.Sprintf("text %q", q.Text)
	}
	return "nothing"
}

// Match is a resolved query. Element is nil when Near found no interactive
// element and fell back to a point beside the text.
type Match struct {
	Element *model.Element
	Target  platform.Target
}

// Resolve finds the element q names.
func Resolve(ctx context.Context, r platform.Reader, q Query) (*Match, error) {
	if r == nil {
		return nil, fmt.Errorf("reader not available")
	}
	switch {
	case q.ID > 0:
		elements, err := r.ReadElements(ctx, q.readOptions())
		if err != nil {
			return nil, fmt.Errorf("failed to read elements: %w", err)
		}
		el := model.FindByID(elements, q.ID)
		if el == nil {
			return nil, fmt.Errorf("element with id %d not found", q.ID)
		}
		return elementMatch(el)
	case q.RuntimeID != "":
		return &Match{
			Element: &model.Element{RuntimeID: q.RuntimeID},
			Target:  platform.ElementTarget(q.RuntimeID),
		}, nil
	case q.Selector != "":
		found, err := r.FindElements(ctx, q.Selector, false)
		if err != nil {
			return nil, err
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("no element matches selector %q", q.Selector)
		}
		return elementMatch(&found[0])
	case q.Text != "":
		return resolveText(ctx, r, q)
	}
	return nil, fmt.Errorf("specify an element by id, runtime id, selector or text")
}

// elementMatch targets el by runtime id, or by its centre when the driver
// did not report one.
func elementMatch(el *model.Element) (*Match, error) {
	if el.RuntimeID != "" {
		return &Match{Element: el, Target: platform.ElementTarget(el.RuntimeID)}, nil
	}
	if el.Bounds[2] == 0 && el.Bounds[3] == 0 {
		return nil, fmt.Errorf("element %d has neither a runtime id nor bounds", el.ID)
	}
	x, y := el.Center()
	return &Match{Element: el, Target: platform.PointTarget(x, y)}, nil
}

func resolveText(ctx context.Context, r platform.Reader, q Query) (*Match, error) {
	elements, err := r.ReadElements(ctx, q.readOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to read elements: %w", err)
	}
	el, err := ByText(elements, q.Text, q.Roles, q.Exact, q.ScopeID)
	if err != nil {
		return nil, err
	}
	if !q.Near {
		return elementMatch(el)
	}
	if nearest := NearestInteractive(elements, el, q.NearDirection); nearest != nil {
		return elementMatch(nearest)
	}
	x, y := NearFallbackOffset(el, q.NearDirection)
	return &Match{Target: platform.PointTarget(x, y)}, nil
}

// ParseRoles splits a comma-separated role list and expands meta-roles.
func ParseRoles(roles string) []string {
	var list []string
	for _, r := range strings.Split(roles, ",") {
		if r = strings.TrimSpace(r); r != "" {
			list = append(list, r)
		}
	}
	return model.ExpandRoles(list)
}

// ByText finds the single element matching text in elements. With several
// candidates it prefers those closest to the focused element, then
// interactive roles over static ones; if that still leaves more than one
// the error lists them.
func ByText(elements []model.Element, text, roles string, exact bool, scopeID int) (*model.Element, error) {
	scope := elements
	if scopeID > 0 {
		scopeEl := model.FindByID(elements, scopeID)
		if scopeEl == nil {
			return nil, fmt.Errorf("scope element with id %d not found", scopeID)
		}
		scope = scopeEl.Children
	}

	roleSet := make(map[string]bool)
	for _, r := range ParseRoles(roles) {
		roleSet[r] = true
	}

	matches := collectLeafMatches(scope, strings.ToLower(text), roleSet, exact)
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no element found matching text %q", text)
	case 1:
		return matches[0], nil
	}

	matches = narrowByFocusProximity(elements, matches)
	if len(matches) == 1 {
		return matches[0], nil
	}
	if roles == "" {
		matches = preferInteractive(matches)
		if len(matches) == 1 {
			return matches[0], nil
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "multiple elements match text %q", text)
	if roles != "" {
		fmt.Fprintf(&b, " with roles %q", roles)
	}
	b.WriteString("; use --id, --rid, --exact or --scope-id to narrow:\n")
	for _, m := range matches {
		fmt.Fprintf(&b, "  id=%d %s (%d,%d,%d,%d)", m.ID, m.Role,
			m.Bounds[0], m.Bounds[1], m.Bounds[2], m.Bounds[3])
		if m.Title != "" {
			fmt.Fprintf(&b, " title=%q", m.Title)
		}
		if m.RuntimeID != "" {
			fmt.Fprintf(&b, " rid=%s", m.RuntimeID)
		}
		if path := RolePath(elements, m.ID); path != "" {
			fmt.Fprintf(&b, " path=%q", path)
		}
		b.WriteByte('\n')
	}
	return nil, fmt.Errorf("%s", strings.TrimRight(b.String(), "\n"))
}

// collectLeafMatches returns the deepest elements matching the text: an
// element whose descendants also match is skipped in favour of them.
func collectLeafMatches(elements []model.Element, textLower string, roles map[string]bool, exact bool) []*model.Element {
	var results []*model.Element
	for i := range elements {
		el := &elements[i]
		childMatches := collectLeafMatches(el.Children, textLower, roles, exact)
		selfMatch := TextMatches(*el, textLower, exact) && (len(roles) == 0 || roles[el.Role])
		if selfMatch && len(childMatches) == 0 {
			results = append(results, el)
		} else {
			results = append(results, childMatches...)
		}
	}
	return results
}

// TextMatches reports whether el's Name, AutomationId or HelpText contains
// textLower (or equals it when exact is set). textLower must be lower case.
func TextMatches(el model.Element, textLower string, exact bool) bool {
	fields := [...]string{el.Title, el.AutomationID, el.Description}
	for _, f := range fields {
		if f == "" {
			continue
		}
		if exact {
			if exactFieldMatch(f, textLower) {
				return true
			}
		} else if strings.Contains(strings.ToLower(f), textLower) {
			return true
		}
	}
	return false
}

// exactFieldMatch compares case-insensitively, also accepting the field
// with a trailing accelerator hint such as "Save (Ctrl+S)" stripped.
func exactFieldMatch(field, textLower string) bool {
	if strings.EqualFold(field, textLower) {
		return true
	}
	if idx := strings.LastIndex(field, "("); idx > 0 && strings.HasSuffix(field, ")") {
		return strings.EqualFold(strings.TrimSpace(field[:idx]), textLower)
	}
	return false
}

// narrowByFocusProximity keeps the matches sharing the deepest common
// ancestor with the focused element.
func narrowByFocusProximity(elements []model.Element, matches []*model.Element) []*model.Element {
	focused := Focused(elements)
	if focused == nil {
		return matches
	}
	focusPath := PathToID(elements, focused.ID)

	best := 0
	scores := make([]int, len(matches))
	for i, m := range matches {
		scores[i] = commonPrefixLen(focusPath, PathToID(elements, m.ID))
		best = max(best, scores[i])
	}
	if best == 0 {
		return matches
	}
	var narrowed []*model.Element
	for i, m := range matches {
		if scores[i] == best {
			narrowed = append(narrowed, m)
		}
	}
	return narrowed
}

// staticRoles are ranked below interactive ones and never picked by Near.
var staticRoles = map[string]bool{
	"txt":    true,
	"img":    true,
	"group":  true,
	"other":  true,
	"window": true,
}

func preferInteractive(matches []*model.Element) []*model.Element {
	var interactive []*model.Element
	for _, m := range matches {
		if !staticRoles[m.Role] {
			interactive = append(interactive, m)
		}
	}
	if len(interactive) > 0 && len(interactive) < len(matches) {
		return interactive
	}
	return matches
}

// PathToID returns the ids from a root down to the element with id, or nil.
func PathToID(elements []model.Element, id int) []int {
	for i := range elements {
		if elements[i].ID == id {
			return []int{id}
		}
		if p := PathToID(elements[i].Children, id); p != nil {
			return append([]int{elements[i].ID}, p...)
		}
	}
	return nil
}

// RolePath returns the role chain to the element with id, e.g.
// "window > pane > btn", or "" if it is not in the tree.
func RolePath(elements []model.Element, id int) string {
	parts := rolePathParts(elements, id)
	return strings.Join(parts, " > ")
}

func rolePathParts(elements []model.Element, id int) []string {
	for i := range elements {
		if elements[i].ID == id {
			return []string{elements[i].Role}
		}
		if p := rolePathParts(elements[i].Children, id); p != nil {
			return append([]string{elements[i].Role}, p...)
		}
	}
	return nil
}

func commonPrefixLen(a, b []int) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

// NearMaxRadius bounds the centre-to-centre distance for Near lookups.
const NearMaxRadius = 200

// NearestInteractive returns the interactive element closest to anchor
// within NearMaxRadius, restricted to direction (left, right, above,
// below). With no direction it tries the left side first, where checkbox
// and radio glyphs sit relative to their labels.
func NearestInteractive(elements []model.Element, anchor *model.Element, direction string) *model.Element {
	ax, ay := anchor.Center()
	maxDistSq := int64(NearMaxRadius) * int64(NearMaxRadius)

	findBest := func(accept func(cx, cy int) bool) *model.Element {
		var best *model.Element
		bestDist := int64(1<<62 - 1)
		model.Walk(elements, func(el *model.Element) bool {
			if el.ID == anchor.ID || staticRoles[el.Role] || el.Bounds[2] == 0 || el.Bounds[3] == 0 {
				return true
			}
			cx, cy := el.Center()
			dx, dy := int64(cx-ax), int64(cy-ay)
			dist := dx*dx + dy*dy
			if dist <= maxDistSq && accept(cx, cy) && dist < bestDist {
				best, bestDist = el, dist
			}
			return true
		})
		return best
	}

	switch direction {
	case "left":
		return findBest(func(cx, _ int) bool { return cx < ax })
	case "right":
		return findBest(func(cx, _ int) bool { return cx > ax })
	case "above":
		return findBest(func(_, cy int) bool { return cy < ay })
	case "below":
		return findBest(func(_, cy int) bool { return cy > ay })
	}
	if best := findBest(func(cx, _ int) bool { return cx < ax }); best != nil {
		return best
	}
	return findBest(func(int, int) bool { return true })
}

// NearFallbackOffset returns a point 20px beside anchor in direction
// (default left), used when no interactive element is near.
func NearFallbackOffset(anchor *model.Element, direction string) (x, y int) {
	bx, by, bw, bh := anchor.Bounds[0], anchor.Bounds[1], anchor.Bounds[2], anchor.Bounds[3]
	cx, cy := anchor.Center()
	switch direction {
	case "right":
		return bx + bw + 20, cy
	case "above":
		return cx, by - 20
	case "below":
		return cx, by + bh + 20
	}
	return bx - 20, cy
}

// Focused returns the focused element in the tree, or nil.
func Focused(elements []model.Element) *model.Element {
	var found *model.Element
	model.Walk(elements, func(el *model.Element) bool {
		if el.Focused {
			found = el
			return false
		}
		return true
	})
	return found
}
