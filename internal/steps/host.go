package steps

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mj1618/novawin-cli/internal/locate"
	"github.com/mj1618/novawin-cli/internal/platform"
)

// ClipboardRequest configures Clipboard. Op is get, set or clear. With
// Image set the content is a PNG read from or written to File.
type ClipboardRequest struct {
	Op    string
	Text  string
	Image bool
	File  string
}

// Clipboard reads, writes or clears the host clipboard.
func Clipboard(ctx context.Context, p *platform.Provider, req ClipboardRequest) (Result, error) {
	cb := p.ClipboardManager
	if cb == nil {
		return fail("clipboard", fmt.Errorf("clipboard not available"))
	}
	res := Result{Action: "clipboard-" + req.Op}
	switch req.Op {
	case "get":
		if req.Image {
			if req.File == "" {
				return fail(res.Action, fmt.Errorf("an output file is required for image content"))
			}
			data, err := cb.GetImage(ctx)
			if err != nil {
				return fail(res.Action, err)
			}
			if err := os.WriteFile(req.File, data, 0o644); err != nil {
				return fail(res.Action, fmt.Errorf("write %s: %w", req.File, err))
			}
			res.File, res.Bytes = req.File, len(data)
			return res, nil
		}
		text, err := cb.GetText(ctx)
		if err != nil {
			return fail(res.Action, err)
		}
		res.Text = text
		return res, nil
	case "set":
		if req.Image {
			data, err := os.ReadFile(req.File)
			if err != nil {
				return fail(res.Action, fmt.Errorf("read image: %w", err))
			}
			if err := cb.SetImage(ctx, data); err != nil {
				return fail(res.Action, err)
			}
			res.File, res.Bytes = req.File, len(data)
			return res, nil
		}
		if err := cb.SetText(ctx, req.Text); err != nil {
			return fail(res.Action, err)
		}
		res.Text = req.Text
		return res, nil
	case "clear":
		if err := cb.Clear(ctx); err != nil {
			return fail(res.Action, err)
		}
		return res, nil
	}
	return fail("clipboard", fmt.Errorf("unknown clipboard operation %q (expected get, set, or clear)", req.Op))
}

// PowerShell runs a script, or a one-line command when isCommand is set,
// and returns its output.
func PowerShell(ctx context.Context, p *platform.Provider, script string, isCommand bool) (Result, error) {
	if p.ScriptRunner == nil {
		return fail("powershell", fmt.Errorf("script execution not available"))
	}
	if strings.TrimSpace(script) == "" {
		return fail("powershell", fmt.Errorf("script or command is required"))
	}
	out, err := p.ScriptRunner.PowerShell(ctx, script, isCommand)
	if err != nil {
		return fail("powershell", err)
	}
	return Result{Action: "powershell", Output: out}, nil
}

// PushFile writes data to remotePath on the host.
func PushFile(ctx context.Context, p *platform.Provider, remotePath string, data []byte) (Result, error) {
	if p.FileTransfer == nil {
		return fail("push-file", fmt.Errorf("file transfer not available"))
	}
	if remotePath == "" {
		return fail("push-file", fmt.Errorf("remote path is required"))
	}
	if err := p.FileTransfer.PushFile(ctx, remotePath, data); err != nil {
		return fail("push-file", err)
	}
	return Result{Action: "push-file", File: remotePath, Bytes: len(data)}, nil
}

// PullFile fetches remotePath (or the folder as a zip when folder is set).
// The content goes to localPath, or into Result.Text when localPath is empty.
func PullFile(ctx context.Context, p *platform.Provider, remotePath, localPath string, folder bool) (Result, error) {
	action := "pull-file"
	if folder {
		action = "pull-folder"
	}
	if p.FileTransfer == nil {
		return fail(action, fmt.Errorf("file transfer not available"))
	}
	if remotePath == "" {
		return fail(action, fmt.Errorf("remote path is required"))
	}
	var (
		data []byte
		err  error
	)
	if folder {
		data, err = p.FileTransfer.PullFolder(ctx, remotePath)
	} else {
		data, err = p.FileTransfer.PullFile(ctx, remotePath)
	}
	if err != nil {
		return fail(action, err)
	}
	res := Result{Action: action, Bytes: len(data)}
	if localPath == "" {
		if folder {
			return fail(action, fmt.Errorf("an output file is required for a folder archive"))
		}
		res.Text = string(data)
		return res, nil
	}
	if err := os.WriteFile(localPath, data, 0o644); err != nil {
		return fail(action, fmt.Errorf("write %s: %w", localPath, err))
	}
	res.File = localPath
	return res, nil
}

// WindowRequest configures Window. The window is named by runtime id, or
// by title (and optionally pid) through the window list.
type WindowRequest struct {
	Action    string
	WindowRID string
	Title     string
	PID       int
}

// Window maximizes, minimizes, restores or closes a window.
func Window(ctx context.Context, p *platform.Provider, req WindowRequest) (Result, error) {
	if p.WindowManager == nil {
		return fail("window", fmt.Errorf("window management not available"))
	}
	action, err := platform.ParseWindowAction(req.Action)
	if err != nil {
		return fail("window", err)
	}
	res := Result{Action: "window-" + string(action)}
	rid := req.WindowRID
	if rid == "" {
		if req.Title == "" && req.PID == 0 {
			return fail(res.Action, fmt.Errorf("specify a window by runtime id, title or pid"))
		}
		if err := needReader(p); err != nil {
			return fail(res.Action, err)
		}
		windows, err := p.Reader.ListWindows(ctx, platform.ListOptions{Title: req.Title, PID: req.PID})
		if err != nil {
			return fail(res.Action, err)
		}
		if len(windows) == 0 {
			return fail(res.Action, fmt.Errorf("no window matches title %q pid %d", req.Title, req.PID))
		}
		rid = windows[0].RuntimeID
		res.Text = windows[0].Title
	}
	if err := p.WindowManager.WindowAction(ctx, rid, action); err != nil {
		return fail(res.Action, err)
	}
	res.Value = rid
	return res, nil
}

// Focus brings a window or process to the foreground.
func Focus(ctx context.Context, p *platform.Provider, opts platform.FocusOptions) (Result, error) {
	action := "focus"
	if opts.Process != "" {
		action = "foreground"
	}
	if p.WindowManager == nil {
		return fail(action, fmt.Errorf("window management not available"))
	}
	if opts.Process == "" && opts.Window == "" && opts.WindowRID == "" {
		return fail(action, fmt.Errorf("specify a window title, a window runtime id or a process"))
	}
	if err := p.WindowManager.FocusWindow(ctx, opts); err != nil {
		return fail(action, err)
	}
	return Result{Action: action}, nil
}

// Action runs a UIA pattern action (invoke, expand, toggle, ...) on the target.
func Action(ctx context.Context, p *platform.Provider, target TargetSpec, action string) (Result, error) {
	if p.ActionPerformer == nil {
		return fail("action", fmt.Errorf("actions not available"))
	}
	if action == "" {
		action = "invoke"
	}
	rid, info, err := resolveRID(ctx, p, target)
	if err != nil {
		return fail("action", err)
	}
	if err := p.ActionPerformer.PerformAction(ctx, platform.ActionOptions{RuntimeID: rid, Action: action}); err != nil {
		return fail("action", err)
	}
	return Result{Action: "action", Target: info, Value: action}, nil
}

// SetValue writes the Value pattern of the target.
func SetValue(ctx context.Context, p *platform.Provider, target TargetSpec, value string) (Result, error) {
	if p.ValueSetter == nil {
		return fail("set-value", fmt.Errorf("value pattern not available"))
	}
	rid, info, err := resolveRID(ctx, p, target)
	if err != nil {
		return fail("set-value", err)
	}
	if err := p.ValueSetter.SetValue(ctx, rid, value); err != nil {
		return fail("set-value", err)
	}
	return Result{Action: "set-value", Target: info, Value: value}, nil
}

// GetValue reads the Value pattern of the target.
func GetValue(ctx context.Context, p *platform.Provider, target TargetSpec) (Result, error) {
	if p.ValueSetter == nil {
		return fail("get-value", fmt.Errorf("value pattern not available"))
	}
	rid, info, err := resolveRID(ctx, p, target)
	if err != nil {
		return fail("get-value", err)
	}
	v, err := p.ValueSetter.GetValue(ctx, rid)
	if err != nil {
		return fail("get-value", err)
	}
	return Result{Action: "get-value", Target: info, Value: v}, nil
}

// resolveRID resolves target to an element with a runtime id; pattern
// commands cannot address points.
func resolveRID(ctx context.Context, p *platform.Provider, target TargetSpec) (string, *locate.ElementInfo, error) {
	if target.Query.IsZero() {
		return "", nil, fmt.Errorf("specify an element by id, rid, selector or text")
	}
	t, info, err := ResolveTarget(ctx, p.Reader, TargetSpec{Query: target.Query})
	if err != nil {
		return "", nil, err
	}
	if t.RuntimeID == "" {
		return "", nil, fmt.Errorf("%s has no runtime id", target.Query)
	}
	return t.RuntimeID, info, nil
}
