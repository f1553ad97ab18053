package novawin

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	json "github.com/json-iterator/go"
	"github.com/mj1618/novawin-cli/internal/config"
)

// MouseButton names a button accepted by click and clickAndDrag.
type MouseButton string

const (
	ButtonLeft    MouseButton = "left"
	ButtonMiddle  MouseButton = "middle"
	ButtonRight   MouseButton = "right"
	ButtonBack    MouseButton = "back"
	ButtonForward MouseButton = "forward"
)

// ParseMouseButton converts a flag value to a MouseButton. Empty means left.
func ParseMouseButton(s string) (MouseButton, error) {
	switch b := MouseButton(strings.ToLower(s)); b {
	case "":
		return ButtonLeft, nil
	case ButtonLeft, ButtonMiddle, ButtonRight, ButtonBack, ButtonForward:
		return b, nil
	}
	return "", invalid("button", "%q (expected left, middle, right, back, or forward)", s)
}

// Modifier is a key held during a pointer action.
type Modifier string

const (
	ModShift Modifier = "shift"
	ModCtrl  Modifier = "ctrl"
	ModAlt   Modifier = "alt"
	ModWin   Modifier = "win"
)

// ParseModifiers reads a "ctrl+shift" style list. Empty input yields nil.
func ParseModifiers(s string) ([]Modifier, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var mods []Modifier
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == '+' || r == ',' }) {
		switch m := strings.ToLower(strings.TrimSpace(part)); m {
		case "shift":
			mods = append(mods, ModShift)
		case "ctrl", "control":
			mods = append(mods, ModCtrl)
		case "alt":
			mods = append(mods, ModAlt)
		case "win", "meta", "cmd", "super":
			mods = append(mods, ModWin)
		default:
			return nil, invalid("modifier", "%q (expected shift, ctrl, alt, or win)", part)
		}
	}
	return mods, nil
}

// Point is a screen coordinate, or an offset from an element's top-left
// corner when paired with an element.
type Point struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
}

// Endpoint is where a pointer action happens: an element (its centre, or
// Point as an offset inside it) or absolute screen coordinates.
type Endpoint struct {
	Element Target
	Point   *Point
}

// At returns an Endpoint at absolute screen coordinates.
func At(x, y int) Endpoint { return Endpoint{Point: &Point{X: x, Y: y}} }

// On returns an Endpoint at the centre of t.
func On(t Target) Endpoint { return Endpoint{Element: t} }

func (p Endpoint) empty() bool { return p.Element == nil && p.Point == nil }

// put writes the endpoint into payload using the driver's key names:
// elementId/x/y without a prefix, startElementId/startX/startY with one.
func (p Endpoint) put(payload map[string]interface{}, prefix string) {
	key := func(name string) string {
		if prefix == "" {
			return strings.ToLower(name[:1]) + name[1:]
		}
		return prefix + name
	}
	if p.Element != nil {
		payload[key("ElementId")] = p.Element.ElementID()
	}
	if p.Point != nil {
		payload[key("X")] = p.Point.X
		payload[key("Y")] = p.Point.Y
	}
}

func putModifiers(payload map[string]interface{}, mods []Modifier) {
	if len(mods) > 0 {
		payload["modifierKeys"] = mods
	}
}

func ms(d time.Duration) int64 { return d.Milliseconds() }

// ClickArgs configures "windows: click".
type ClickArgs struct {
	Target    Endpoint
	Button    MouseButton
	Modifiers []Modifier
	// Duration the button is held down.
	Duration time.Duration
	// Times to click. Zero means once.
	Times int
	// InterClickDelay between repeated clicks. Zero keeps the driver default (100ms).
	InterClickDelay time.Duration
}

func (a ClickArgs) payload() (map[string]interface{}, error) {
	if a.Target.empty() {
		return nil, invalid("click target", "either an element or both x and y are required")
	}
	button, err := ParseMouseButton(string(a.Button))
	if err != nil {
		return nil, err
	}
	if a.Duration < 0 || a.InterClickDelay < 0 {
		return nil, invalid("click duration", "must be >= 0")
	}
	if a.Times < 0 {
		return nil, invalid("click times", "must be >= 1, got %d", a.Times)
	}
	p := map[string]interface{}{"button": button}
	a.Target.put(p, "")
	putModifiers(p, a.Modifiers)
	if a.Duration > 0 {
		p["durationMs"] = ms(a.Duration)
	}
	if a.Times > 1 {
		p["times"] = a.Times
	}
	if a.InterClickDelay > 0 {
		p["interClickDelayMs"] = ms(a.InterClickDelay)
	}
	return p, nil
}

// Click runs "windows: click".
func (s *Session) Click(ctx context.Context, args ClickArgs) error {
	p, err := args.payload()
	if err != nil {
		return err
	}
	_, err = s.Extension(ctx, "click", p)
	return err
}

// HoverArgs configures "windows: hover".
type HoverArgs struct {
	Start, End Endpoint
	Modifiers  []Modifier
	// Duration of the move. Zero keeps the driver default (500ms).
	Duration time.Duration
}

// Hover runs "windows: hover".
func (s *Session) Hover(ctx context.Context, args HoverArgs) error {
	if args.Start.empty() {
		return invalid("hover start", "either an element or both x and y are required")
	}
	if args.End.empty() {
		return invalid("hover end", "either an element or both x and y are required")
	}
	if args.Duration < 0 {
		return invalid("hover duration", "must be >= 0")
	}
	p := map[string]interface{}{}
	args.Start.put(p, "start")
	args.End.put(p, "end")
	putModifiers(p, args.Modifiers)
	if args.Duration > 0 {
		p["durationMs"] = ms(args.Duration)
	}
	_, err := s.Extension(ctx, "hover", p)
	return err
}

// ScrollArgs configures "windows: scroll". Deltas are wheel units as the
// driver passes them to the OS; positive DeltaY scrolls up.
type ScrollArgs struct {
	Target         Endpoint
	DeltaX, DeltaY int
	Modifiers      []Modifier
}

// Scroll runs "windows: scroll".
func (s *Session) Scroll(ctx context.Context, args ScrollArgs) error {
	if args.Target.empty() {
		return invalid("scroll target", "either an element or both x and y are required")
	}
	if args.DeltaX == 0 && args.DeltaY == 0 {
		return invalid("scroll delta", "deltaX or deltaY must be non-zero")
	}
	p := map[string]interface{}{}
	args.Target.put(p, "")
	if args.DeltaX != 0 {
		p["deltaX"] = args.DeltaX
	}
	if args.DeltaY != 0 {
		p["deltaY"] = args.DeltaY
	}
	putModifiers(p, args.Modifiers)
	_, err := s.Extension(ctx, "scroll", p)
	return err
}

// DragArgs configures "windows: clickAndDrag".
type DragArgs struct {
	Start, End Endpoint
	Button     MouseButton
	Modifiers  []Modifier
	// Duration of the move. Zero keeps the driver default (1000ms).
	Duration time.Duration
	// SmoothPointerMove names an easing function; empty uses the session capability.
	SmoothPointerMove string
}

func (a DragArgs) payload() (map[string]interface{}, error) {
	if a.Start.empty() {
		return nil, invalid("drag start", "either an element or both x and y are required")
	}
	if a.End.empty() {
		return nil, invalid("drag end", "either an element or both x and y are required")
	}
	button, err := ParseMouseButton(string(a.Button))
	if err != nil {
		return nil, err
	}
	if a.Duration < 0 {
		return nil, invalid("drag duration", "must be >= 0")
	}
	if a.SmoothPointerMove != "" && !config.ValidEasing(a.SmoothPointerMove) {
		return nil, invalid("smoothPointerMove", "unsupported easing function %q", a.SmoothPointerMove)
	}
	p := map[string]interface{}{"button": button}
	a.Start.put(p, "start")
	a.End.put(p, "end")
	putModifiers(p, a.Modifiers)
	if a.Duration > 0 {
		p["durationMs"] = ms(a.Duration)
	}
	if a.SmoothPointerMove != "" {
		p["smoothPointerMove"] = a.SmoothPointerMove
	}
	return p, nil
}

// ClickAndDrag runs "windows: clickAndDrag".
func (s *Session) ClickAndDrag(ctx context.Context, args DragArgs) error {
	p, err := args.payload()
	if err != nil {
		return err
	}
	_, err = s.Extension(ctx, "clickAndDrag", p)
	return err
}

// SetTypeDelay runs "windows: typeDelay" and records the new delay.
func (s *Session) SetTypeDelay(ctx context.Context, delayMs int) error {
	if delayMs < 0 {
		return invalid("typeDelay", "must be >= 0, got %d", delayMs)
	}
	if _, err := s.Extension(ctx, "typeDelay", map[string]interface{}{"delay": delayMs}); err != nil {
		return err
	}
	s.mu.Lock()
	s.typeDelay = delayMs
	s.mu.Unlock()
	return nil
}

// ClipboardType selects clipboard content.
type ClipboardType string

const (
	ClipboardText  ClipboardType = "plaintext"
	ClipboardImage ClipboardType = "image"
)

// ParseClipboardType accepts plaintext/text and image. Empty means plaintext.
func ParseClipboardType(s string) (ClipboardType, error) {
	switch strings.ToLower(s) {
	case "", "plaintext", "text":
		return ClipboardText, nil
	case "image", "png":
		return ClipboardImage, nil
	}
	return "", invalid("contentType", "%q (expected plaintext or image)", s)
}

// GetClipboard returns the decoded clipboard content.
func (s *Session) GetClipboard(ctx context.Context, typ ClipboardType) ([]byte, error) {
	if typ == "" {
		typ = ClipboardText
	}
	v, err := s.Extension(ctx, "getClipboard", map[string]interface{}{"contentType": typ})
	if err != nil {
		return nil, err
	}
	return decodeBase64(v)
}

// SetClipboard replaces the clipboard content.
func (s *Session) SetClipboard(ctx context.Context, typ ClipboardType, data []byte) error {
	if typ == "" {
		typ = ClipboardText
	}
	if len(data) == 0 {
		return invalid("b64Content", "clipboard content must not be empty")
	}
	_, err := s.Extension(ctx, "setClipboard", map[string]interface{}{
		"b64Content":  base64.StdEncoding.EncodeToString(data),
		"contentType": typ,
	})
	return err
}

// GetClipboardText returns the clipboard as text.
func (s *Session) GetClipboardText(ctx context.Context) (string, error) {
	data, err := s.GetClipboard(ctx, ClipboardText)
	return string(data), err
}

// SetClipboardText puts text on the clipboard.
func (s *Session) SetClipboardText(ctx context.Context, text string) error {
	return s.SetClipboard(ctx, ClipboardText, []byte(text))
}

// SetProcessForeground restores and focuses the main window of a process.
func (s *Session) SetProcessForeground(ctx context.Context, process string) error {
	if process == "" {
		return invalid("process", "process name is required")
	}
	_, err := s.Extension(ctx, "setProcessForeground", map[string]interface{}{"process": process})
	return err
}

// CacheRequestArgs changes the driver's UIA cache request. At least one
// field is set. TreeScope and AutomationElementMode take the .NET enum
// names or their numeric values; TreeFilter is a driver condition string.
type CacheRequestArgs struct {
	TreeScope             string
	TreeFilter            string
	AutomationElementMode string
}

var treeScopes = map[string]bool{
	"element": true, "children": true, "descendants": true,
	"subtree": true, "parent": true, "ancestors": true,
}

func (a CacheRequestArgs) validate() error {
	if a.TreeScope == "" && a.TreeFilter == "" && a.AutomationElementMode == "" {
		return invalid("cacheRequest", "at least one of treeScope, treeFilter or automationElementMode must be set")
	}
	if a.TreeScope != "" && !enumValue(a.TreeScope, "TreeScope", treeScopes, 1, 16) {
		return invalid("treeScope", "unsupported value %q", a.TreeScope)
	}
	modes := map[string]bool{"none": true, "full": true}
	if a.AutomationElementMode != "" && !enumValue(a.AutomationElementMode, "AutomationElementMode", modes, 0, 1) {
		return invalid("automationElementMode", "unsupported value %q", a.AutomationElementMode)
	}
	return nil
}

// enumValue accepts a name from names, optionally qualified with the
// System.Windows.Automation type, or an integer in [lo, hi].
func enumValue(v, typeName string, names map[string]bool, lo, hi int) bool {
	if n, err := strconv.Atoi(v); err == nil {
		return n >= lo && n <= hi
	}
	name := strings.ToLower(v)
	for _, prefix := range []string{"system.windows.automation." + strings.ToLower(typeName) + ".", strings.ToLower(typeName) + "."} {
		name = strings.TrimPrefix(name, prefix)
	}
	return names[name]
}

// CacheRequest replaces the cache request used by later element lookups.
func (s *Session) CacheRequest(ctx context.Context, args CacheRequestArgs) error {
	if err := args.validate(); err != nil {
		return err
	}
	payload := map[string]interface{}{}
	if args.TreeScope != "" {
		payload["treeScope"] = args.TreeScope
	}
	if args.TreeFilter != "" {
		payload["treeFilter"] = args.TreeFilter
	}
	if args.AutomationElementMode != "" {
		payload["automationElementMode"] = args.AutomationElementMode
	}
	_, err := s.Extension(ctx, "cacheRequest", payload)
	return err
}

// Attributes returns every UIA property of t.
func (s *Session) Attributes(ctx context.Context, t Target) (map[string]interface{}, error) {
	v, err := s.Extension(ctx, "getAttributes", elementArg(t))
	if err != nil {
		return nil, err
	}
	switch r := v.(type) {
	case map[string]interface{}:
		return r, nil
	case string:
		attrs := map[string]interface{}{}
		if err := json.Unmarshal([]byte(r), &attrs); err != nil {
			return nil, fmt.Errorf("getAttributes: parse result: %w", err)
		}
		return attrs, nil
	}
	return nil, fmt.Errorf("getAttributes: unexpected result type %T", v)
}

// pattern runs an element pattern command that takes only the element.
func (s *Session) pattern(ctx context.Context, command string, t Target) (interface{}, error) {
	if t == nil || t.ElementID() == "" {
		return nil, invalid("element", "%s requires an element", command)
	}
	return s.Extension(ctx, command, elementArg(t))
}

func (s *Session) patternVoid(ctx context.Context, command string, t Target) error {
	_, err := s.pattern(ctx, command, t)
	return err
}

// Invoke runs the Invoke pattern (press a button, open a menu item).
func (s *Session) Invoke(ctx context.Context, t Target) error { return s.patternVoid(ctx, "invoke", t) }

// Expand runs the ExpandCollapse pattern's Expand.
func (s *Session) Expand(ctx context.Context, t Target) error { return s.patternVoid(ctx, "expand", t) }

// Collapse runs the ExpandCollapse pattern's Collapse.
func (s *Session) Collapse(ctx context.Context, t Target) error {
	return s.patternVoid(ctx, "collapse", t)
}

// Toggle runs the Toggle pattern.
func (s *Session) Toggle(ctx context.Context, t Target) error { return s.patternVoid(ctx, "toggle", t) }

// Select selects a SelectionItem.
func (s *Session) Select(ctx context.Context, t Target) error { return s.patternVoid(ctx, "select", t) }

func (s *Session) AddToSelection(ctx context.Context, t Target) error {
	return s.patternVoid(ctx, "addToSelection", t)
}

func (s *Session) RemoveFromSelection(ctx context.Context, t Target) error {
	return s.patternVoid(ctx, "removeFromSelection", t)
}

// ScrollIntoView scrolls a container until t is visible.
func (s *Session) ScrollIntoView(ctx context.Context, t Target) error {
	return s.patternVoid(ctx, "scrollIntoView", t)
}

// SetFocus gives t keyboard focus.
func (s *Session) SetFocus(ctx context.Context, t Target) error {
	return s.patternVoid(ctx, "setFocus", t)
}

// Maximize maximizes a window element.
func (s *Session) Maximize(ctx context.Context, t Target) error {
	return s.patternVoid(ctx, "maximize", t)
}

// Minimize minimizes a window element.
func (s *Session) Minimize(ctx context.Context, t Target) error {
	return s.patternVoid(ctx, "minimize", t)
}

// Restore restores a maximized or minimized window element.
func (s *Session) Restore(ctx context.Context, t Target) error {
	return s.patternVoid(ctx, "restore", t)
}

// CloseWindow closes a window element.
func (s *Session) CloseWindow(ctx context.Context, t Target) error {
	return s.patternVoid(ctx, "close", t)
}

// IsMultiple reports whether a selection container allows multiple selection.
func (s *Session) IsMultiple(ctx context.Context, t Target) (bool, error) {
	v, err := s.pattern(ctx, "isMultiple", t)
	if err != nil {
		return false, err
	}
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		return strconv.ParseBool(strings.TrimSpace(b))
	}
	return false, nil
}

// SelectedItem returns the first selected item of a selection container.
func (s *Session) SelectedItem(ctx context.Context, t Target) (ElementRef, error) {
	v, err := s.pattern(ctx, "selectedItem", t)
	if err != nil {
		return "", err
	}
	refs := refsFromResult(v)
	if len(refs) == 0 {
		return "", &CommandError{Command: "selectedItem", Err: ErrNoSuchElement}
	}
	return refs[0], nil
}

// AllSelectedItems returns every selected item of a selection container.
func (s *Session) AllSelectedItems(ctx context.Context, t Target) ([]ElementRef, error) {
	v, err := s.pattern(ctx, "allSelectedItems", t)
	if err != nil {
		return nil, err
	}
	return refsFromResult(v), nil
}

func refsFromResult(v interface{}) []ElementRef {
	var refs []ElementRef
	add := func(x interface{}) {
		if m, ok := x.(map[string]interface{}); ok {
			if id, ok := m[W3CElementKey].(string); ok && id != "" {
				refs = append(refs, ElementRef(id))
			}
		}
	}
	if list, ok := v.([]interface{}); ok {
		for _, x := range list {
			add(x)
		}
		return refs
	}
	add(v)
	return refs
}

// SetValue sets a Value or RangeValue pattern value.
func (s *Session) SetValue(ctx context.Context, t Target, value string) error {
	if t == nil || t.ElementID() == "" {
		return invalid("element", "setValue requires an element")
	}
	_, err := s.Extension(ctx, "setValue", elementArg(t), value)
	return err
}

// GetValue reads the Value pattern. Older driver builds return nothing here;
// the Value.Value attribute is used as a fallback.
func (s *Session) GetValue(ctx context.Context, t Target) (string, error) {
	v, err := s.pattern(ctx, "getValue", t)
	if err != nil {
		return "", err
	}
	if v != nil {
		return stringResult(v), nil
	}
	attrs, err := s.Attributes(ctx, t)
	if err != nil {
		return "", err
	}
	for _, key := range []string{"Value.Value", "Value", "ValueValue"} {
		if val, ok := attrs[key]; ok {
			return stringResult(val), nil
		}
	}
	return "", nil
}

// PowerShellArgs is a PowerShell script or one-line command. Exactly one is set.
type PowerShellArgs struct {
	Script  string
	Command string
}

// PowerShell runs a script on the driver host and returns its output.
// The driver must run with the power_shell insecure feature enabled.
func (s *Session) PowerShell(ctx context.Context, args PowerShellArgs) (string, error) {
	if (args.Script == "") == (args.Command == "") {
		return "", invalid("powerShell", "exactly one of script or command is required")
	}
	payload := map[string]interface{}{}
	if args.Script != "" {
		payload["script"] = args.Script
	} else {
		payload["command"] = args.Command
	}
	v, err := s.Execute(ctx, "powerShell", payload)
	if err != nil {
		return "", err
	}
	return stringResult(v), nil
}

// PushFile writes data to path on the driver host, creating parent folders.
func (s *Session) PushFile(ctx context.Context, path string, data []byte) error {
	if path == "" {
		return invalid("path", "remote path is required")
	}
	_, err := s.Execute(ctx, "pushFile", map[string]interface{}{
		"path": path,
		"data": base64.StdEncoding.EncodeToString(data),
	})
	return err
}

// PullFile reads a file from the driver host.
func (s *Session) PullFile(ctx context.Context, path string) ([]byte, error) {
	if path == "" {
		return nil, invalid("path", "remote path is required")
	}
	v, err := s.Execute(ctx, "pullFile", map[string]interface{}{"path": path})
	if err != nil {
		return nil, err
	}
	return decodeBase64(v)
}

// PullFolder returns a zip archive of a folder on the driver host.
func (s *Session) PullFolder(ctx context.Context, path string) ([]byte, error) {
	if path == "" {
		return nil, invalid("path", "remote path is required")
	}
	v, err := s.Execute(ctx, "pullFolder", map[string]interface{}{"path": path})
	if err != nil {
		return nil, err
	}
	return decodeBase64(v)
}
