package remote

import (
	"context"
	"fmt"

	"github.com/mj1618/novawin-cli/internal/novawin"
	"github.com/mj1618/novawin-cli/internal/platform"
)

// WindowManager implements platform.WindowManager.
type WindowManager struct {
	s      *novawin.Session
	reader *Reader
}

// NewWindowManager creates a WindowManager that resolves titles through reader.
func NewWindowManager(s *novawin.Session, reader *Reader) *WindowManager {
	return &WindowManager{s: s, reader: reader}
}

// FocusWindow brings a process or a window to the foreground. A process
// name goes through setProcessForeground, which also restores a minimized
// main window; a window gets keyboard focus through setFocus.
func (wm *WindowManager) FocusWindow(ctx context.Context, opts platform.FocusOptions) error {
	if opts.Process != "" {
		return wm.s.SetProcessForeground(ctx, opts.Process)
	}
	rid := opts.WindowRID
	if rid == "" {
		if opts.Window == "" {
			return fmt.Errorf("specify a process, a window title or a window runtime id")
		}
		roots, err := wm.reader.tree(ctx)
		if err != nil {
			return err
		}
		win, err := findWindow(roots, opts.Window, "", 0)
		if err != nil {
			return err
		}
		if win.RuntimeID == "" {
			return fmt.Errorf("window %q has no runtime id", win.Title)
		}
		rid = win.RuntimeID
	}
	return wm.s.SetFocus(ctx, novawin.ElementRef(rid))
}

// WindowAction runs a window pattern operation on the element.
func (wm *WindowManager) WindowAction(ctx context.Context, runtimeID string, action platform.WindowAction) error {
	if runtimeID == "" {
		return fmt.Errorf("window runtime id is required")
	}
	ref := novawin.ElementRef(runtimeID)
	switch action {
	case platform.WindowMaximize:
		return wm.s.Maximize(ctx, ref)
	case platform.WindowMinimize:
		return wm.s.Minimize(ctx, ref)
	case platform.WindowRestore:
		return wm.s.Restore(ctx, ref)
	case platform.WindowClose:
		return wm.s.CloseWindow(ctx, ref)
	}
	return fmt.Errorf("unknown window action %q", action)
}
