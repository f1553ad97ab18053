package platform

import (
	"context"
	"time"

	"github.com/mj1618/novawin-cli/internal/model"
)

// Reader reads the UI element tree through the driver.
type Reader interface {
	// ReadElements returns the filtered element tree for the given scope.
	ReadElements(ctx context.Context, opts ReadOptions) ([]model.Element, error)

	// ListWindows returns top-level windows, optionally filtered.
	ListWindows(ctx context.Context, opts ListOptions) ([]model.Window, error)

	// FindElements runs a driver lookup (see novawin.ParseLocator for the
	// selector syntax). With all=false at most one element is returned and
	// no match is an error.
	FindElements(ctx context.Context, selector string, all bool) ([]model.Element, error)

	// WaitElement polls FindElements until an element matches or ctx ends.
	WaitElement(ctx context.Context, selector string, interval time.Duration) (*model.Element, error)

	// Attributes returns every UIA property of an element.
	Attributes(ctx context.Context, runtimeID string) (map[string]interface{}, error)

	// FocusedElement returns the element with keyboard focus.
	FocusedElement(ctx context.Context) (*model.Element, error)
}

// Inputter simulates mouse and keyboard input.
type Inputter interface {
	Click(ctx context.Context, opts ClickOptions) error
	Hover(ctx context.Context, opts HoverOptions) error
	Scroll(ctx context.Context, opts ScrollOptions) error
	Drag(ctx context.Context, opts DragOptions) error
	TypeText(ctx context.Context, opts TypeOptions) error
	SendKeys(ctx context.Context, opts KeysOptions) error
	SetTypeDelay(ctx context.Context, delayMs int) error
}

// WindowManager manages window focus and state.
type WindowManager interface {
	FocusWindow(ctx context.Context, opts FocusOptions) error
	WindowAction(ctx context.Context, runtimeID string, action WindowAction) error
}

// Screenshotter captures screenshots.
type Screenshotter interface {
	// CaptureWindow captures the session root, optionally cropped to a
	// window, and returns image bytes in the requested format.
	CaptureWindow(ctx context.Context, opts ScreenshotOptions) ([]byte, error)
}

// ActionPerformer runs UIA control pattern actions on elements.
type ActionPerformer interface {
	PerformAction(ctx context.Context, opts ActionOptions) error
}

// ValueSetter reads and writes Value / RangeValue patterns.
type ValueSetter interface {
	SetValue(ctx context.Context, runtimeID, value string) error
	GetValue(ctx context.Context, runtimeID string) (string, error)
}

// ClipboardManager reads and writes the driver host clipboard.
type ClipboardManager interface {
	GetText(ctx context.Context) (string, error)
	SetText(ctx context.Context, text string) error
	GetImage(ctx context.Context) ([]byte, error)
	SetImage(ctx context.Context, png []byte) error
	Clear(ctx context.Context) error
}

// ScriptRunner executes PowerShell on the driver host.
type ScriptRunner interface {
	// PowerShell runs script (a multi-line script, or a one-line command
	// when isCommand is set) and returns its output.
	PowerShell(ctx context.Context, script string, isCommand bool) (string, error)
}

// FileTransfer moves files to and from the driver host.
type FileTransfer interface {
	PushFile(ctx context.Context, remotePath string, data []byte) error
	PullFile(ctx context.Context, remotePath string) ([]byte, error)
	// PullFolder returns a zip archive of the folder.
	PullFolder(ctx context.Context, remotePath string) ([]byte, error)
}
