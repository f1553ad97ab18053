package platform

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mj1618/novawin-cli/internal/novawin"
)

// Bounds represents a screen rectangle.
type Bounds struct {
	X, Y, Width, Height int
}

// Array returns b as [x, y, w, h], the layout model.Element uses.
func (b Bounds) Array() [4]int { return [4]int{b.X, b.Y, b.Width, b.Height} }

// ParseBBox parses a "x,y,w,h" string into a Bounds.
func ParseBBox(s string) (*Bounds, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("invalid bbox %q: expected x,y,w,h", s)
	}
	vals := make([]int, 4)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid bbox %q: %w", s, err)
		}
		vals[i] = v
	}
	return &Bounds{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}, nil
}

// Target is where an input action lands. RuntimeID names a driver element;
// X/Y are absolute screen coordinates, or an offset inside the element when
// both are set.
type Target struct {
	RuntimeID string
	X, Y      int
	HasPoint  bool
}

// ElementTarget targets the centre of a driver element.
func ElementTarget(runtimeID string) Target { return Target{RuntimeID: runtimeID} }

// PointTarget targets absolute screen coordinates.
func PointTarget(x, y int) Target { return Target{X: x, Y: y, HasPoint: true} }

// IsZero reports whether t names nothing.
func (t Target) IsZero() bool { return t.RuntimeID == "" && !t.HasPoint }

func (t Target) String() string {
	switch {
	case t.RuntimeID != "" && t.HasPoint:
		return fmt.Sprintf("element %s +(%d,%d)", t.RuntimeID, t.X, t.Y)
	case t.RuntimeID != "":
		return "element " + t.RuntimeID
	case t.HasPoint:
		return fmt.Sprintf("(%d,%d)", t.X, t.Y)
	}
	return "nothing"
}

// Endpoint converts t to the session client's form.
func (t Target) Endpoint() novawin.Endpoint {
	var ep novawin.Endpoint
	if t.RuntimeID != "" {
		ep.Element = novawin.ElementRef(t.RuntimeID)
	}
	if t.HasPoint {
		ep.Point = &novawin.Point{X: t.X, Y: t.Y}
	}
	return ep
}

// ReadOptions controls what elements to read and how to filter them.
type ReadOptions struct {
	Window      string   // Scope to the first top-level window whose title contains this
	WindowRID   string   // Scope to a window by RuntimeId
	PID         int      // Scope to the first top-level window of this process
	Depth       int      // Max depth below the scope root (0 = unlimited)
	Roles       []string // Only include these roles (empty = all); meta-roles are expanded
	VisibleOnly bool     // Drop offscreen and zero-sized elements
	BBox        *Bounds  // Only include elements intersecting this box
	Text        string   // Only include elements (and their ancestors) containing this text
	Focused     bool     // Only include the focused element and its ancestors
	Prune       bool     // Remove anonymous group/other elements
}

// Scoped reports whether any window scoping option is set.
func (o ReadOptions) Scoped() bool { return o.Window != "" || o.WindowRID != "" || o.PID != 0 }

// ListOptions controls window listing.
type ListOptions struct {
	PID   int    // Filter by process ID
	Title string // Filter by title substring
}

// ClickOptions configures a click.
type ClickOptions struct {
	Target    Target
	Button    novawin.MouseButton
	Modifiers []novawin.Modifier
	Count     int
	Hold      time.Duration
}

// HoverOptions configures a pointer move. A zero From starts at To.
type HoverOptions struct {
	From, To  Target
	Modifiers []novawin.Modifier
	Duration  time.Duration
}

// ScrollOptions configures a wheel scroll. Positive DY scrolls up.
type ScrollOptions struct {
	Target    Target
	DX, DY    int
	Modifiers []novawin.Modifier
}

// DragOptions configures a press-move-release.
type DragOptions struct {
	From, To  Target
	Button    novawin.MouseButton
	Modifiers []novawin.Modifier
	Duration  time.Duration
	Easing    string
}

// TypeOptions configures typing into an element. A zero Target types into
// the focused element.
type TypeOptions struct {
	Target  Target
	Text    string
	DelayMs *int // Per-call keystroke delay; nil keeps the session delay
	Clear   bool // Clear the element before typing
}

// KeysOptions configures a raw keyboard sequence.
type KeysOptions struct {
	Actions      []novawin.KeyAction
	ForceUnicode bool
}

// FocusOptions specifies what to bring to the foreground. Process wins over
// Window when both are set.
type FocusOptions struct {
	Window    string
	WindowRID string
	Process   string
}

// WindowAction is a window pattern operation.
type WindowAction string

const (
	WindowMaximize WindowAction = "maximize"
	WindowMinimize WindowAction = "minimize"
	WindowRestore  WindowAction = "restore"
	WindowClose    WindowAction = "close"
)

// ParseWindowAction accepts maximize, minimize, restore and close (and
// the short forms max and min).
func ParseWindowAction(s string) (WindowAction, error) {
	switch strings.ToLower(s) {
	case "maximize", "max":
		return WindowMaximize, nil
	case "minimize", "min":
		return WindowMinimize, nil
	case "restore":
		return WindowRestore, nil
	case "close":
		return WindowClose, nil
	}
	return "", fmt.Errorf("unknown window action %q (expected maximize, minimize, restore, or close)", s)
}

// ScreenshotOptions configures what to capture.
type ScreenshotOptions struct {
	Window    string  // Crop to the window whose title contains this
	WindowRID string  // Crop to a window by RuntimeId
	Format    string  // "png" or "jpg"
	Quality   int     // JPEG quality 1-100 (ignored for PNG)
	Scale     float64 // Scale factor 0.1-1.0 (0 or 1 = unscaled)
}

// ActionOptions names an element pattern action.
type ActionOptions struct {
	RuntimeID string
	Action    string // invoke, expand, collapse, toggle, select, add-to-selection, remove-from-selection, scroll-into-view, focus
}

// Actions lists the names PerformAction accepts.
var Actions = []string{
	"invoke", "expand", "collapse", "toggle", "select",
	"add-to-selection", "remove-from-selection", "scroll-into-view", "focus",
}
