// Package steps implements each automation step once, for the CLI
// commands, do scenarios and the MCP tools.
package steps

import (
	"context"
	"fmt"

	"github.com/mj1618/novawin-cli/internal/locate"
	"github.com/mj1618/novawin-cli/internal/model"
	"github.com/mj1618/novawin-cli/internal/platform"
)

// Scope limits tree reads to one top-level window.
type Scope struct {
	Window    string
	WindowRID string
	PID       int
}

// ReadOptions converts s to reader options.
func (s Scope) ReadOptions() platform.ReadOptions {
	return platform.ReadOptions{Window: s.Window, WindowRID: s.WindowRID, PID: s.PID}
}

// TargetSpec names where an input step lands: an element query, a point,
// or both (the point is then an offset inside the element).
type TargetSpec struct {
	locate.Query
	X, Y     int
	HasPoint bool
}

// IsZero reports whether t names neither an element nor a point.
func (t TargetSpec) IsZero() bool { return t.Query.IsZero() && !t.HasPoint }

// Result is the outcome of one step.
type Result struct {
	Step     int                  `yaml:"step,omitempty"     json:"step,omitempty"`
	OK       bool                 `yaml:"ok"                 json:"ok"`
	Action   string               `yaml:"action"             json:"action"`
	Error    string               `yaml:"error,omitempty"    json:"error,omitempty"`
	Target   *locate.ElementInfo  `yaml:"target,omitempty"   json:"target,omitempty"`
	Focused  *locate.ElementInfo  `yaml:"focused,omitempty"  json:"focused,omitempty"`
	Elements []locate.ElementInfo `yaml:"elements,omitempty" json:"elements,omitempty"`
	Tree     []model.Element      `yaml:"tree,omitempty"     json:"tree,omitempty"`
	Text     string               `yaml:"text,omitempty"     json:"text,omitempty"`
	Key      string               `yaml:"key,omitempty"      json:"key,omitempty"`
	Value    string               `yaml:"value,omitempty"    json:"value,omitempty"`
	Output   string               `yaml:"output,omitempty"   json:"output,omitempty"`
	File     string               `yaml:"file,omitempty"     json:"file,omitempty"`
	Bytes    int                  `yaml:"bytes,omitempty"    json:"bytes,omitempty"`
	Match    string               `yaml:"match,omitempty"    json:"match,omitempty"`
	Elapsed  string               `yaml:"elapsed,omitempty"  json:"elapsed,omitempty"`
}

// fail returns a Result for action together with err.
func fail(action string, err error) (Result, error) {
	return Result{Action: action}, err
}

// ResolveTarget turns t into an input target. The element summary is nil
// for bare points.
func ResolveTarget(ctx context.Context, r platform.Reader, t TargetSpec) (platform.Target, *locate.ElementInfo, error) {
	if t.Query.IsZero() {
		if !t.HasPoint {
			return platform.Target{}, nil, fmt.Errorf("specify an element (id, rid, selector or text) or x/y coordinates")
		}
		return platform.PointTarget(t.X, t.Y), nil, nil
	}
	m, err := locate.Resolve(ctx, r, t.Query)
	if err != nil {
		return platform.Target{}, nil, err
	}
	target := m.Target
	if t.HasPoint {
		if target.RuntimeID == "" {
			return platform.Target{}, nil, fmt.Errorf("%s has no runtime id to offset from", t.Query)
		}
		target.X, target.Y, target.HasPoint = t.X, t.Y, true
	}
	return target, locate.Info(m.Element), nil
}

func needReader(p *platform.Provider) error {
	if p.Reader == nil {
		return fmt.Errorf("reader not available")
	}
	return nil
}

func needInput(p *platform.Provider) error {
	if p.Inputter == nil {
		return fmt.Errorf("input not available")
	}
	return nil
}
