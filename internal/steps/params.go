package steps

import (
	"fmt"
	"strconv"
	"strings"
)

// Params are the arguments of one step, as decoded from YAML or MCP JSON.
type Params map[string]interface{}

// Has reports whether key is present.
func (p Params) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// String returns key as a string. Numbers are formatted, since YAML
// decodes `text: 42` as an int.
func (p Params) String(key, def string) string {
	v, ok := p[key]
	if !ok || v == nil {
		return def
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// Int returns key as an int; numeric strings are accepted.
func (p Params) Int(key string, def int) int {
	switch n := p[key].(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i
		}
	}
	return def
}

// Float returns key as a float64.
func (p Params) Float(key string, def float64) float64 {
	switch n := p[key].(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return f
		}
	}
	return def
}

// Bool returns key as a bool; "true"/"false" strings are accepted.
func (p Params) Bool(key string, def bool) bool {
	switch b := p[key].(type) {
	case bool:
		return b
	case string:
		if v, err := strconv.ParseBool(b); err == nil {
			return v
		}
	}
	return def
}

// Strings returns key as a string list. A single string is split on
// whitespace.
func (p Params) Strings(key string) []string {
	switch v := p[key].(type) {
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprintf("%v", item))
		}
		return out
	case []string:
		return v
	case string:
		return strings.Fields(v)
	}
	return nil
}

// IntPtr returns key as *int, nil when absent.
func (p Params) IntPtr(key string) *int {
	if !p.Has(key) {
		return nil
	}
	v := p.Int(key, 0)
	return &v
}

// target decodes a target from prefix-ed keys: id, rid, selector, the
// text key, x and y. roles, exact, scope-id, near and near-direction
// are read unprefixed.
func (p Params) target(prefix, textKey string, sc Scope) TargetSpec {
	t := TargetSpec{}
	t.ID = p.Int(prefix+"id", 0)
	t.RuntimeID = p.String(prefix+"rid", "")
	t.Selector = p.String(prefix+"selector", "")
	t.Text = p.String(prefix+textKey, "")
	t.Roles = p.String("roles", "")
	t.Exact = p.Bool("exact", false)
	t.ScopeID = p.Int("scope-id", 0)
	t.Near = p.Bool("near", false)
	t.NearDirection = p.String("near-direction", "")
	t.Window, t.WindowRID, t.PID = sc.Window, sc.WindowRID, sc.PID
	if p.Has(prefix+"x") && p.Has(prefix+"y") {
		t.X, t.Y, t.HasPoint = p.Int(prefix+"x", 0), p.Int(prefix+"y", 0), true
	}
	return t
}

// scope reads window, window-rid and pid, falling back to def.
func (p Params) scope(def Scope) Scope {
	return Scope{
		Window:    p.String("window", def.Window),
		WindowRID: p.String("window-rid", def.WindowRID),
		PID:       p.Int("pid", def.PID),
	}
}
