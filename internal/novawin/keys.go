package novawin

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// VirtualKeys maps key names to Windows virtual-key codes.
var VirtualKeys = map[string]int{
	"BACK":      0x08,
	"BACKSPACE": 0x08,
	"TAB":       0x09,
	"CLEAR":     0x0C,
	"ENTER":     0x0D,
	"RETURN":    0x0D,
	"SHIFT":     0x10,
	"CTRL":      0x11,
	"CONTROL":   0x11,
	"ALT":       0x12,
	"MENU":      0x12,
	"PAUSE":     0x13,
	"CAPSLOCK":  0x14,
	"ESC":       0x1B,
	"ESCAPE":    0x1B,
	"SPACE":     0x20,
	"PAGEUP":    0x21,
	"PRIOR":     0x21,
	"PAGEDOWN":  0x22,
	"NEXT":      0x22,
	"END":       0x23,
	"HOME":      0x24,
	"LEFT":      0x25,
	"UP":        0x26,
	"RIGHT":     0x27,
	"DOWN":      0x28,
	"PRINT":     0x2A,
	"SNAPSHOT":  0x2C,
	"INSERT":    0x2D,
	"DELETE":    0x2E,
	"DEL":       0x2E,
	"LWIN":      0x5B,
	"WIN":       0x5B,
	"RWIN":      0x5C,
	"APPS":      0x5D,
	"NUMPAD0":   0x60,
	"NUMPAD1":   0x61,
	"NUMPAD2":   0x62,
	"NUMPAD3":   0x63,
	"NUMPAD4":   0x64,
	"NUMPAD5":   0x65,
	"NUMPAD6":   0x66,
	"NUMPAD7":   0x67,
	"NUMPAD8":   0x68,
	"NUMPAD9":   0x69,
	"MULTIPLY":  0x6A,
	"ADD":       0x6B,
	"SUBTRACT":  0x6D,
	"DECIMAL":   0x6E,
	"DIVIDE":    0x6F,
	"NUMLOCK":   0x90,
	"SCROLL":    0x91,
	"LSHIFT":    0xA0,
	"RSHIFT":    0xA1,
	"LCTRL":     0xA2,
	"RCTRL":     0xA3,
	"LALT":      0xA4,
	"RALT":      0xA5,
}

// VirtualKeyCode resolves a key name, a single letter or digit, F1-F24,
// or a numeric code ("0x5B", "91").
func VirtualKeyCode(name string) (int, error) {
	key := strings.ToUpper(strings.TrimSpace(name))
	if key == "" {
		return 0, invalid("key", "empty key name")
	}
	if code, ok := VirtualKeys[key]; ok {
		return code, nil
	}
	if len(key) == 1 && ((key[0] >= 'A' && key[0] <= 'Z') || (key[0] >= '0' && key[0] <= '9')) {
		return int(key[0]), nil
	}
	if strings.HasPrefix(key, "F") && len(key) > 1 {
		if n, err := strconv.Atoi(key[1:]); err == nil && n >= 1 && n <= 24 {
			return 0x70 + n - 1, nil
		}
	}
	if code, err := strconv.ParseInt(key, 0, 32); err == nil {
		if code < 1 || code > 0xFE {
			return 0, invalid("key", "virtual-key code %s out of range", name)
		}
		return int(code), nil
	}
	return 0, invalid("key", "unknown key %q", name)
}

// KeyAction is one step of "windows: keys". Exactly one of Pause, Text
// or VirtualKeyCode is set. Down applies to VirtualKeyCode and Text: nil
// sends a full press, true only the key-down, false only the key-up.
type KeyAction struct {
	Pause          time.Duration
	Text           string
	VirtualKeyCode int
	Down           *bool
}

func (a KeyAction) validate(i int) error {
	set := 0
	if a.Pause != 0 {
		set++
	}
	if a.Text != "" {
		set++
	}
	if a.VirtualKeyCode != 0 {
		set++
	}
	field := fmt.Sprintf("keys action %d", i)
	switch {
	case set != 1:
		return invalid(field, "exactly one of pause, text or virtualKeyCode must be set")
	case a.Pause < 0:
		return invalid(field, "pause must be > 0")
	case a.Pause > 0 && a.Pause < time.Millisecond:
		return invalid(field, "pause %s is below the 1ms resolution", a.Pause)
	case a.VirtualKeyCode < 0 || a.VirtualKeyCode > 0xFE:
		return invalid(field, "virtualKeyCode %d out of range", a.VirtualKeyCode)
	case a.Down != nil && a.Pause != 0:
		return invalid(field, "down cannot be combined with pause")
	}
	return nil
}

func (a KeyAction) payload() map[string]interface{} {
	p := map[string]interface{}{}
	switch {
	case a.Pause != 0:
		p["pause"] = ms(a.Pause)
	case a.Text != "":
		p["text"] = a.Text
	default:
		p["virtualKeyCode"] = a.VirtualKeyCode
	}
	if a.Down != nil {
		p["down"] = *a.Down
	}
	return p
}

func (a KeyAction) String() string {
	switch {
	case a.Pause != 0:
		return "pause:" + strconv.FormatInt(ms(a.Pause), 10)
	case a.Text != "":
		return "text:" + a.Text
	}
	code := fmt.Sprintf("0x%02X", a.VirtualKeyCode)
	if a.Down == nil {
		return code
	}
	if *a.Down {
		return "down:" + code
	}
	return "up:" + code
}

// KeyDown, KeyUp, KeyPress, Pause and TypeText build KeyActions.
func KeyDown(code int) KeyAction {
	down := true
	return KeyAction{VirtualKeyCode: code, Down: &down}
}

func KeyUp(code int) KeyAction {
	down := false
	return KeyAction{VirtualKeyCode: code, Down: &down}
}

func KeyPress(code int) KeyAction { return KeyAction{VirtualKeyCode: code} }

func Pause(d time.Duration) KeyAction { return KeyAction{Pause: d} }

func TypeText(text string) KeyAction { return KeyAction{Text: text} }

// KeysArgs configures "windows: keys".
type KeysArgs struct {
	Actions []KeyAction
	// ForceUnicode sends text as Unicode input instead of mapped key presses.
	ForceUnicode bool
}

// Keys runs "windows: keys".
func (s *Session) Keys(ctx context.Context, args KeysArgs) error {
	if len(args.Actions) == 0 {
		return invalid("keys", "at least one action is required")
	}
	actions := make([]map[string]interface{}, 0, len(args.Actions))
	for i, a := range args.Actions {
		if err := a.validate(i); err != nil {
			return err
		}
		actions = append(actions, a.payload())
	}
	_, err := s.Extension(ctx, "keys", map[string]interface{}{
		"actions":      actions,
		"forceUnicode": args.ForceUnicode,
	})
	return err
}

// ParseCombo turns "ctrl+shift+esc" into key-downs in order followed by
// key-ups in reverse order.
func ParseCombo(combo string) ([]KeyAction, error) {
	parts := strings.Split(combo, "+")
	codes := make([]int, 0, len(parts))
	for _, p := range parts {
		code, err := VirtualKeyCode(p)
		if err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	actions := make([]KeyAction, 0, len(codes)*2)
	for _, c := range codes {
		actions = append(actions, KeyDown(c))
	}
	for i := len(codes) - 1; i >= 0; i-- {
		actions = append(actions, KeyUp(codes[i]))
	}
	return actions, nil
}

// ParseKeyAction reads one textual step:
//
//	down:LWIN   up:LEFT   LEFT   pause:200   text:hello   ctrl+c
func ParseKeyAction(s string) ([]KeyAction, error) {
	s = strings.TrimSpace(s)
	kind, rest, hasKind := strings.Cut(s, ":")
	if hasKind {
		switch strings.ToLower(kind) {
		case "pause", "sleep", "wait":
			n, err := strconv.Atoi(strings.TrimSpace(rest))
			if err != nil || n <= 0 {
				return nil, invalid("pause", "%q must be a positive number of milliseconds", rest)
			}
			return []KeyAction{Pause(time.Duration(n) * time.Millisecond)}, nil
		case "text", "type":
			if rest == "" {
				return nil, invalid("text", "empty text")
			}
			return []KeyAction{TypeText(rest)}, nil
		case "down":
			code, err := VirtualKeyCode(rest)
			if err != nil {
				return nil, err
			}
			return []KeyAction{KeyDown(code)}, nil
		case "up":
			code, err := VirtualKeyCode(rest)
			if err != nil {
				return nil, err
			}
			return []KeyAction{KeyUp(code)}, nil
		}
	}
	if strings.Contains(s, "+") && len(s) > 1 {
		return ParseCombo(s)
	}
	code, err := VirtualKeyCode(s)
	if err != nil {
		return nil, err
	}
	return []KeyAction{KeyPress(code)}, nil
}

// ParseKeyActions parses a list of textual steps.
func ParseKeyActions(steps []string) ([]KeyAction, error) {
	var actions []KeyAction
	for _, step := range steps {
		parsed, err := ParseKeyAction(step)
		if err != nil {
			return nil, err
		}
		actions = append(actions, parsed...)
	}
	return actions, nil
}
