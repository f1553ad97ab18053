package steps

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mj1618/novawin-cli/internal/model"
	"github.com/mj1618/novawin-cli/internal/platform"
)

type fakeReader struct {
	elements []model.Element
	found    []model.Element
	windows  []model.Window
	focused  *model.Element
	readErr  error
	waitErr  error
	reads    int
	lastOpts platform.ReadOptions
	lastList platform.ListOptions
}

func (f *fakeReader) ReadElements(_ context.Context, opts platform.ReadOptions) ([]model.Element, error) {
	f.reads++
	f.lastOpts = opts
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.elements, nil
}

func (f *fakeReader) ListWindows(_ context.Context, opts platform.ListOptions) ([]model.Window, error) {
	f.lastList = opts
	return f.windows, nil
}

func (f *fakeReader) FindElements(_ context.Context, selector string, all bool) ([]model.Element, error) {
	if len(f.found) == 0 {
		return nil, errors.New("no element matches " + selector)
	}
	if !all {
		return f.found[:1], nil
	}
	return f.found, nil
}

func (f *fakeReader) WaitElement(ctx context.Context, selector string, _ time.Duration) (*model.Element, error) {
	if f.waitErr != nil {
		return nil, f.waitErr
	}
	if len(f.found) == 0 {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return &f.found[0], nil
}

func (f *fakeReader) Attributes(context.Context, string) (map[string]interface{}, error) {
	return map[string]interface{}{}, nil
}

func (f *fakeReader) FocusedElement(context.Context) (*model.Element, error) {
	if f.focused == nil {
		return nil, errors.New("nothing focused")
	}
	return f.focused, nil
}

// fakeInput records every call.
type fakeInput struct {
	mu      sync.Mutex
	clicks  []platform.ClickOptions
	hovers  []platform.HoverOptions
	scrolls []platform.ScrollOptions
	drags   []platform.DragOptions
	typed   []platform.TypeOptions
	keys    []platform.KeysOptions
	delay   int
	err     error
}

func (f *fakeInput) Click(_ context.Context, o platform.ClickOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clicks = append(f.clicks, o)
	return f.err
}

func (f *fakeInput) Hover(_ context.Context, o platform.HoverOptions) error {
	f.hovers = append(f.hovers, o)
	return f.err
}

func (f *fakeInput) Scroll(_ context.Context, o platform.ScrollOptions) error {
	f.scrolls = append(f.scrolls, o)
	return f.err
}

func (f *fakeInput) Drag(_ context.Context, o platform.DragOptions) error {
	f.drags = append(f.drags, o)
	return f.err
}

func (f *fakeInput) TypeText(_ context.Context, o platform.TypeOptions) error {
	f.typed = append(f.typed, o)
	return f.err
}

func (f *fakeInput) SendKeys(_ context.Context, o platform.KeysOptions) error {
	f.keys = append(f.keys, o)
	return f.err
}

func (f *fakeInput) SetTypeDelay(_ context.Context, ms int) error {
	f.delay = ms
	return f.err
}

type fakeHost struct {
	clipText  string
	clipImage []byte
	cleared   bool
	values    map[string]string
	actions   []platform.ActionOptions
	windowOps []string
	focus     []platform.FocusOptions
	scripts   []string
	files     map[string][]byte
}

func newFakeHost() *fakeHost {
	return &fakeHost{values: map[string]string{}, files: map[string][]byte{}}
}

func (h *fakeHost) GetText(context.Context) (string, error) { return h.clipText, nil }

func (h *fakeHost) SetText(_ context.Context, text string) error {
	h.clipText = text
	return nil
}

func (h *fakeHost) GetImage(context.Context) ([]byte, error) { return h.clipImage, nil }

func (h *fakeHost) SetImage(_ context.Context, png []byte) error {
	h.clipImage = png
	return nil
}

func (h *fakeHost) Clear(context.Context) error {
	h.cleared = true
	h.clipText = ""
	return nil
}

func (h *fakeHost) SetValue(_ context.Context, rid, value string) error {
	h.values[rid] = value
	return nil
}

func (h *fakeHost) GetValue(_ context.Context, rid string) (string, error) {
	return h.values[rid], nil
}

func (h *fakeHost) PerformAction(_ context.Context, o platform.ActionOptions) error {
	h.actions = append(h.actions, o)
	return nil
}

func (h *fakeHost) FocusWindow(_ context.Context, o platform.FocusOptions) error {
	h.focus = append(h.focus, o)
	return nil
}

func (h *fakeHost) WindowAction(_ context.Context, rid string, a platform.WindowAction) error {
	h.windowOps = append(h.windowOps, string(a)+" "+rid)
	return nil
}

func (h *fakeHost) PowerShell(_ context.Context, script string, isCommand bool) (string, error) {
	h.scripts = append(h.scripts, script)
	if isCommand {
		return "cmd:" + script, nil
	}
	return "script:" + script, nil
}

func (h *fakeHost) PushFile(_ context.Context, path string, data []byte) error {
	h.files[path] = data
	return nil
}

func (h *fakeHost) PullFile(_ context.Context, path string) ([]byte, error) {
	data, ok := h.files[path]
	if !ok {
		return nil, errors.New("file not found: " + path)
	}
	return data, nil
}

func (h *fakeHost) PullFolder(_ context.Context, path string) ([]byte, error) {
	return []byte("PK\x03\x04" + path), nil
}

func (h *fakeHost) CaptureWindow(_ context.Context, opts platform.ScreenshotOptions) ([]byte, error) {
	return []byte("\x89PNG" + opts.Format), nil
}

type fixture struct {
	reader *fakeReader
	input  *fakeInput
	host   *fakeHost
	p      *platform.Provider
}

func newFixture() *fixture {
	f := &fixture{
		reader: &fakeReader{elements: notepadTree()},
		input:  &fakeInput{},
		host:   newFakeHost(),
	}
	f.p = &platform.Provider{
		Reader:           f.reader,
		Inputter:         f.input,
		WindowManager:    f.host,
		Screenshotter:    f.host,
		ActionPerformer:  f.host,
		ValueSetter:      f.host,
		ClipboardManager: f.host,
		ScriptRunner:     f.host,
		FileTransfer:     f.host,
		SessionID:        "sess-1",
	}
	return f
}

func notepadTree() []model.Element {
	disabled := false
	return []model.Element{{
		ID: 1, Role: "window", Title: "Untitled - Notepad", RuntimeID: "42.1", Bounds: [4]int{0, 0, 800, 600},
		Children: []model.Element{
			{ID: 2, Role: "input", Title: "Text Editor", AutomationID: "15", RuntimeID: "42.1.2", Bounds: [4]int{0, 50, 800, 500}, Focused: true},
			{ID: 3, Role: "btn", Title: "OK", RuntimeID: "42.1.3", Bounds: [4]int{700, 560, 80, 24}},
			{ID: 4, Role: "btn", Title: "Apply", RuntimeID: "42.1.4", Bounds: [4]int{600, 560, 80, 24}, Enabled: &disabled},
			{ID: 5, Role: "txt", Title: "Ln 1, Col 1", Bounds: [4]int{10, 570, 100, 20}},
		},
	}}
}
