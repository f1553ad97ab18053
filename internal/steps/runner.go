package steps

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/mj1618/novawin-cli/internal/locate"
	"github.com/mj1618/novawin-cli/internal/platform"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Step is one entry of a scenario: a single action key with its params,
// given as a mapping or, for most actions, as a scalar or list shorthand
// for the main param:
//
//	[{click: {text: OK}}, {key: ctrl+s}, {keys: [down:LWIN, pause:200, up:LWIN]}]
type Step struct {
	Action string
	Params Params
}

// shorthand names the param a scalar or list step value fills.
var shorthand = map[string]string{
	"find":       "selector",
	"click":      "text",
	"hover":      "text",
	"type":       "text",
	"type-delay": "ms",
	"key":        "key",
	"keys":       "steps",
	"clipboard":  "op",
	"window":     "action",
	"focus":      "window",
	"foreground": "process",
	"action":     "action",
	"get-value":  "rid",
	"powershell": "command",
	"pull-file":  "remote",
	"wait":       "text",
	"assert":     "text",
	"read":       "window",
	"screenshot": "output",
	"sleep":      "ms",
}

// UnmarshalYAML decodes a single-key mapping.
func (s *Step) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode || len(n.Content) != 2 {
		keys := 0
		if n.Kind == yaml.MappingNode {
			keys = len(n.Content) / 2
		}
		return fmt.Errorf("line %d: expected exactly one action key, got %d", n.Line, keys)
	}
	s.Action = n.Content[0].Value
	v := n.Content[1]
	switch v.Kind {
	case yaml.MappingNode:
		params := Params{}
		if err := v.Decode(&params); err != nil {
			return fmt.Errorf("line %d: %s: %w", v.Line, s.Action, err)
		}
		s.Params = params
	case yaml.ScalarNode, yaml.SequenceNode:
		key, ok := shorthand[s.Action]
		if !ok {
			if _, known := executors[s.Action]; !known {
				// Reported by ParseSteps with the supported list.
				s.Params = Params{}
				return nil
			}
			return fmt.Errorf("line %d: %s takes a mapping of params", v.Line, s.Action)
		}
		var val interface{}
		if err := v.Decode(&val); err != nil {
			return fmt.Errorf("line %d: %s: %w", v.Line, s.Action, err)
		}
		s.Params = Params{}
		if val != nil {
			s.Params[key] = val
		}
	default:
		return fmt.Errorf("line %d: %s: unsupported value", v.Line, s.Action)
	}
	return nil
}

// ParseSteps decodes a YAML list of steps.
func ParseSteps(data []byte) ([]Step, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("no steps provided; expected a YAML list of actions")
	}
	var list []Step
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to parse YAML steps: %w", err)
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("no steps provided; expected a YAML list of actions")
	}
	for i, st := range list {
		if _, ok := executors[st.Action]; !ok {
			return nil, fmt.Errorf("step %d: unknown step type %q (supported: %s)", i+1, st.Action, strings.Join(Supported(), ", "))
		}
	}
	return list, nil
}

// RunResult is the outcome of a scenario.
type RunResult struct {
	OK        bool     `yaml:"ok"              json:"ok"`
	Action    string   `yaml:"action"          json:"action"`
	Session   string   `yaml:"session,omitempty" json:"session,omitempty"`
	Steps     int      `yaml:"steps"           json:"steps"`
	Completed int      `yaml:"completed"       json:"completed"`
	Error     string   `yaml:"error,omitempty" json:"error,omitempty"`
	Results   []Result `yaml:"results"         json:"results"`
}

// Runner executes steps against one provider.
type Runner struct {
	Provider    *platform.Provider
	Scope       Scope // Default window scope for every step
	StopOnError bool
	Log         *zap.Logger
}

// Run executes steps in order. It stops at the first error when
// StopOnError is set, and always when ctx is cancelled.
func (r *Runner) Run(ctx context.Context, list []Step) RunResult {
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}
	out := RunResult{Action: "do", Session: r.Provider.SessionID, Steps: len(list), Results: make([]Result, 0, len(list))}
	for i, st := range list {
		n := i + 1
		if err := ctx.Err(); err != nil {
			out.Error = fmt.Sprintf("step %d: %v", n, err)
			break
		}
		start := time.Now()
		res, err := r.Execute(ctx, st)
		res.Step = n
		if res.Action == "" {
			res.Action = st.Action
		}
		if err != nil {
			res.OK = false
			res.Error = err.Error()
			out.Results = append(out.Results, res)
			log.Warn("step failed", zap.Int("step", n), zap.String("action", st.Action), zap.Error(err))
			if out.Error == "" {
				out.Error = fmt.Sprintf("step %d: %v", n, err)
			}
			if r.StopOnError || ctx.Err() != nil {
				break
			}
			continue
		}
		res.OK = true
		out.Completed++
		out.Results = append(out.Results, res)
		log.Info("step done", zap.Int("step", n), zap.String("action", st.Action), zap.Duration("took", time.Since(start)))
	}
	out.OK = out.Error == ""
	return out
}

// Execute runs one step.
func (r *Runner) Execute(ctx context.Context, st Step) (Result, error) {
	return Execute(ctx, r.Provider, st.Action, st.Params, r.Scope)
}

type executor func(ctx context.Context, p *platform.Provider, params Params, sc Scope) (Result, error)

var executors = map[string]executor{
	"find":        execFind,
	"click":       execClick,
	"hover":       execHover,
	"type":        execType,
	"type-delay":  execTypeDelay,
	"key":         execKey,
	"keys":        execKeys,
	"drag":        execDrag,
	"scroll":      execScroll,
	"clipboard":   execClipboard,
	"window":      execWindow,
	"focus":       execFocus,
	"foreground":  execForeground,
	"action":      execAction,
	"set-value":   execSetValue,
	"get-value":   execGetValue,
	"powershell":  execPowerShell,
	"push-file":   execPushFile,
	"pull-file":   execPullFile,
	"pull-folder": execPullFolder,
	"wait":        execWait,
	"assert":      execAssert,
	"read":        execRead,
	"screenshot":  execScreenshot,
	"sleep":       execSleep,
}

// Supported lists the step names Execute accepts.
func Supported() []string {
	names := make([]string, 0, len(executors))
	for name := range executors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute runs the named step with params. Window scope params override sc.
func Execute(ctx context.Context, p *platform.Provider, action string, params Params, sc Scope) (Result, error) {
	exec, ok := executors[action]
	if !ok {
		return fail(action, fmt.Errorf("unknown step type %q (supported: %s)", action, strings.Join(Supported(), ", ")))
	}
	if params == nil {
		params = Params{}
	}
	return exec(ctx, p, params, params.scope(sc))
}

func ms(params Params, key string, def int) time.Duration {
	return time.Duration(params.Int(key, def)) * time.Millisecond
}

func seconds(params Params, key string, def float64) time.Duration {
	return time.Duration(params.Float(key, def) * float64(time.Second))
}

func execFind(ctx context.Context, p *platform.Provider, params Params, sc Scope) (Result, error) {
	return Find(ctx, p, FindRequest{
		Selector: params.String("selector", ""),
		Text:     params.String("text", ""),
		Roles:    params.String("roles", ""),
		Exact:    params.Bool("exact", false),
		All:      params.Bool("all", false),
		Timeout:  seconds(params, "timeout", 0),
		Scope:    sc,
	})
}

func execClick(ctx context.Context, p *platform.Provider, params Params, sc Scope) (Result, error) {
	count := params.Int("count", 1)
	if params.Bool("double", false) {
		count = 2
	}
	return Click(ctx, p, ClickRequest{
		Target:    params.target("", "text", sc),
		Button:    params.String("button", ""),
		Modifiers: params.String("modifiers", ""),
		Count:     count,
		Hold:      ms(params, "hold", 0),
	})
}

func execHover(ctx context.Context, p *platform.Provider, params Params, sc Scope) (Result, error) {
	return Hover(ctx, p, HoverRequest{
		From:      params.target("from-", "text", sc),
		To:        params.target("", "text", sc),
		Modifiers: params.String("modifiers", ""),
		Duration:  ms(params, "duration", 0),
	})
}

func execType(ctx context.Context, p *platform.Provider, params Params, sc Scope) (Result, error) {
	return Type(ctx, p, TypeRequest{
		Target:  params.target("", "target", sc),
		Text:    params.String("text", ""),
		DelayMs: params.IntPtr("delay"),
		Clear:   params.Bool("clear", false),
	})
}

func execTypeDelay(ctx context.Context, p *platform.Provider, params Params, _ Scope) (Result, error) {
	if !params.Has("ms") {
		return fail("type-delay", fmt.Errorf("ms is required"))
	}
	return SetTypeDelay(ctx, p, params.Int("ms", 0))
}

func execKey(ctx context.Context, p *platform.Provider, params Params, _ Scope) (Result, error) {
	return Key(ctx, p, params.Strings("key"), params.Bool("force-unicode", false))
}

func execKeys(ctx context.Context, p *platform.Provider, params Params, _ Scope) (Result, error) {
	return Keys(ctx, p, params.Strings("steps"), params.Bool("force-unicode", false))
}

func execDrag(ctx context.Context, p *platform.Provider, params Params, sc Scope) (Result, error) {
	return Drag(ctx, p, DragRequest{
		From:      params.target("from-", "text", sc),
		To:        params.target("to-", "text", sc),
		Button:    params.String("button", ""),
		Modifiers: params.String("modifiers", ""),
		Duration:  ms(params, "duration", 500),
		Easing:    params.String("easing", ""),
	})
}

func execScroll(ctx context.Context, p *platform.Provider, params Params, sc Scope) (Result, error) {
	return Scroll(ctx, p, ScrollRequest{
		Target:    params.target("", "text", sc),
		DX:        params.Int("dx", 0),
		DY:        params.Int("dy", 0),
		Direction: params.String("direction", ""),
		Amount:    params.Int("amount", 3),
		Modifiers: params.String("modifiers", ""),
	})
}

func execClipboard(ctx context.Context, p *platform.Provider, params Params, _ Scope) (Result, error) {
	op := params.String("op", "")
	if op == "" {
		op = "get"
		if params.Has("text") || (params.Has("file") && !params.Has("output")) {
			op = "set"
		}
	}
	file := params.String("file", params.String("output", ""))
	return Clipboard(ctx, p, ClipboardRequest{
		Op:    op,
		Text:  params.String("text", ""),
		Image: params.Bool("image", false),
		File:  file,
	})
}

func execWindow(ctx context.Context, p *platform.Provider, params Params, sc Scope) (Result, error) {
	return Window(ctx, p, WindowRequest{
		Action:    params.String("action", ""),
		WindowRID: sc.WindowRID,
		Title:     sc.Window,
		PID:       sc.PID,
	})
}

func execFocus(ctx context.Context, p *platform.Provider, params Params, sc Scope) (Result, error) {
	return Focus(ctx, p, platform.FocusOptions{
		Window:    sc.Window,
		WindowRID: sc.WindowRID,
		Process:   params.String("process", ""),
	})
}

func execForeground(ctx context.Context, p *platform.Provider, params Params, _ Scope) (Result, error) {
	process := params.String("process", "")
	if process == "" {
		return fail("foreground", fmt.Errorf("process is required"))
	}
	return Focus(ctx, p, platform.FocusOptions{Process: process})
}

func execAction(ctx context.Context, p *platform.Provider, params Params, sc Scope) (Result, error) {
	return Action(ctx, p, params.target("", "text", sc), params.String("action", ""))
}

func execSetValue(ctx context.Context, p *platform.Provider, params Params, sc Scope) (Result, error) {
	if !params.Has("value") {
		return fail("set-value", fmt.Errorf("value is required"))
	}
	return SetValue(ctx, p, params.target("", "text", sc), params.String("value", ""))
}

func execGetValue(ctx context.Context, p *platform.Provider, params Params, sc Scope) (Result, error) {
	return GetValue(ctx, p, params.target("", "text", sc))
}

func execPowerShell(ctx context.Context, p *platform.Provider, params Params, _ Scope) (Result, error) {
	script, command := params.String("script", ""), params.String("command", "")
	if (script == "") == (command == "") {
		return fail("powershell", fmt.Errorf("exactly one of script or command is required"))
	}
	if command != "" {
		return PowerShell(ctx, p, command, true)
	}
	return PowerShell(ctx, p, script, false)
}

func execPushFile(ctx context.Context, p *platform.Provider, params Params, _ Scope) (Result, error) {
	var data []byte
	switch {
	case params.Has("file"):
		b, err := os.ReadFile(params.String("file", ""))
		if err != nil {
			return fail("push-file", err)
		}
		data = b
	case params.Has("data"):
		data = []byte(params.String("data", ""))
	default:
		return fail("push-file", fmt.Errorf("file or data is required"))
	}
	return PushFile(ctx, p, params.String("remote", ""), data)
}

func execPullFile(ctx context.Context, p *platform.Provider, params Params, _ Scope) (Result, error) {
	return PullFile(ctx, p, params.String("remote", ""), params.String("output", ""), false)
}

func execPullFolder(ctx context.Context, p *platform.Provider, params Params, _ Scope) (Result, error) {
	return PullFile(ctx, p, params.String("remote", ""), params.String("output", ""), true)
}

func condition(params Params) locate.Condition {
	return locate.Condition{
		Text:      params.String("text", ""),
		Role:      params.String("role", ""),
		ID:        params.Int("id", 0),
		RuntimeID: params.String("rid", ""),
		Gone:      params.Bool("gone", false),
	}
}

func execWait(ctx context.Context, p *platform.Provider, params Params, sc Scope) (Result, error) {
	return Wait(ctx, p, WaitRequest{
		Condition: condition(params),
		Selector:  params.String("selector", ""),
		Timeout:   seconds(params, "timeout", 30),
		Interval:  ms(params, "interval", 500),
		Scope:     sc,
	})
}

func execAssert(ctx context.Context, p *platform.Provider, params Params, sc Scope) (Result, error) {
	req := AssertRequest{
		Condition:     condition(params),
		ValueContains: params.String("value-contains", ""),
		Focused:       params.Bool("focused", false),
		Timeout:       seconds(params, "timeout", 0),
		Interval:      ms(params, "interval", 500),
		Scope:         sc,
	}
	if sel := params.String("selector", ""); sel != "" {
		req.Target.Selector = sel
	}
	if params.Has("value") {
		v := params.String("value", "")
		req.Value = &v
	}
	if params.Has("enabled") {
		v := params.Bool("enabled", true)
		req.Enabled = &v
	}
	return Assert(ctx, p, req)
}

func execRead(ctx context.Context, p *platform.Provider, params Params, sc Scope) (Result, error) {
	opts := sc.ReadOptions()
	opts.Depth = params.Int("depth", 0)
	opts.Roles = locate.ParseRoles(params.String("roles", ""))
	opts.Text = params.String("text", "")
	opts.VisibleOnly = params.Bool("visible-only", false)
	opts.Focused = params.Bool("focused", false)
	opts.Prune = params.Bool("prune", false)
	return Read(ctx, p, opts)
}

func execScreenshot(ctx context.Context, p *platform.Provider, params Params, sc Scope) (Result, error) {
	return Screenshot(ctx, p, platform.ScreenshotOptions{
		Window:    sc.Window,
		WindowRID: sc.WindowRID,
		Format:    params.String("format", ""),
		Quality:   params.Int("quality", 80),
		Scale:     params.Float("scale", 1),
	}, params.String("output", ""))
}

func execSleep(ctx context.Context, _ *platform.Provider, params Params, _ Scope) (Result, error) {
	return Sleep(ctx, ms(params, "ms", 0))
}
