package remote

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
	"time"

	"github.com/mj1618/novawin-cli/internal/novawin"
	"github.com/mj1618/novawin-cli/internal/novawin/novawintest"
	"github.com/mj1618/novawin-cli/internal/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tebeka/selenium"
)

var ctx = context.Background()

const desktopSource = `<?xml version="1.0" encoding="utf-8"?>
<Pane Name="Desktop 1" ClassName="#32769" RuntimeId="42.1" x="0" y="0" width="100" height="80">
  <Window Name="Untitled - Notepad" ClassName="Notepad" ProcessId="4242" RuntimeId="42.10" x="10" y="20" width="40" height="30">
    <Document Name="Text Editor" AutomationId="15" RuntimeId="42.10.1" x="12" y="30" width="36" height="18" HasKeyboardFocus="True"/>
    <Pane RuntimeId="42.10.2" x="12" y="22" width="36" height="6">
      <Button Name="Close" RuntimeId="42.10.2.1" x="40" y="22" width="8" height="6"/>
    </Pane>
  </Window>
  <Window Name="Calculator" ProcessId="77" RuntimeId="42.20" x="60" y="0" width="40" height="40" IsOffscreen="True">
    <Button Name="Seven" AutomationId="num7Button" RuntimeId="42.20.7" x="62" y="10" width="10" height="10"/>
  </Window>
  <Pane Name="Taskbar" ClassName="Shell_TrayWnd" ProcessId="500" RuntimeId="42.30" x="0" y="70" width="100" height="10"/>
</Pane>`

func newTestProvider(t *testing.T) (*platform.Provider, *novawintest.Driver) {
	t.Helper()
	fake := novawintest.NewDriver("sess-r")
	fake.Source = desktopSource
	p := NewSessionProvider(novawin.NewSession(fake, nil), nil)
	t.Cleanup(func() { _ = p.Close() })
	return p, fake
}

func TestNewSessionProvider(t *testing.T) {
	p, fake := newTestProvider(t)
	assert.Equal(t, "sess-r", p.SessionID)
	assert.NotNil(t, p.Reader)
	assert.NotNil(t, p.Inputter)
	assert.NotNil(t, p.WindowManager)
	assert.NotNil(t, p.Screenshotter)
	assert.NotNil(t, p.ActionPerformer)
	assert.NotNil(t, p.ValueSetter)
	assert.NotNil(t, p.ClipboardManager)
	assert.NotNil(t, p.ScriptRunner)
	assert.NotNil(t, p.FileTransfer)

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.Equal(t, 1, fake.QuitCalls)
}

func TestInitRegistersBackend(t *testing.T) {
	assert.NotNil(t, platform.NewProviderFunc)
}

func TestReadElements_Full(t *testing.T) {
	p, _ := newTestProvider(t)
	els, err := p.Reader.ReadElements(ctx, platform.ReadOptions{})
	require.NoError(t, err)
	require.Len(t, els, 1)
	assert.Equal(t, "Desktop 1", els[0].Title)
	assert.Len(t, els[0].Children, 3)
}

func TestReadElements_ScopedByTitle(t *testing.T) {
	p, _ := newTestProvider(t)
	els, err := p.Reader.ReadElements(ctx, platform.ReadOptions{Window: "notepad"})
	require.NoError(t, err)
	require.Len(t, els, 1)
	assert.Equal(t, "42.10", els[0].RuntimeID)
	require.Len(t, els[0].Children, 2)
}

func TestReadElements_ScopedByPIDAndRID(t *testing.T) {
	p, _ := newTestProvider(t)

	els, err := p.Reader.ReadElements(ctx, platform.ReadOptions{PID: 77})
	require.NoError(t, err)
	assert.Equal(t, "Calculator", els[0].Title)

	els, err = p.Reader.ReadElements(ctx, platform.ReadOptions{WindowRID: "42.10.2"})
	require.NoError(t, err)
	require.Len(t, els, 1)
	assert.Equal(t, "Close", els[0].Children[0].Title)

	_, err = p.Reader.ReadElements(ctx, platform.ReadOptions{Window: "Paint"})
	assert.ErrorContains(t, err, `no window matching title "Paint"`)

	_, err = p.Reader.ReadElements(ctx, platform.ReadOptions{WindowRID: "9.9"})
	assert.ErrorContains(t, err, "no element with runtime id")
}

func TestReadElements_DepthBelowScope(t *testing.T) {
	p, _ := newTestProvider(t)
	els, err := p.Reader.ReadElements(ctx, platform.ReadOptions{Window: "Notepad", Depth: 1})
	require.NoError(t, err)
	require.Len(t, els[0].Children, 2)
	assert.Empty(t, els[0].Children[1].Children)
}

func TestReadElements_Filters(t *testing.T) {
	p, _ := newTestProvider(t)

	els, err := p.Reader.ReadElements(ctx, platform.ReadOptions{Roles: []string{"btn"}})
	require.NoError(t, err)
	require.Len(t, els, 2)
	assert.Equal(t, "Close", els[0].Title)
	assert.Equal(t, "Seven", els[1].Title)

	els, err = p.Reader.ReadElements(ctx, platform.ReadOptions{Roles: []string{"btn"}, VisibleOnly: true})
	require.NoError(t, err)
	require.Len(t, els, 1)
	assert.Equal(t, "Close", els[0].Title)

	els, err = p.Reader.ReadElements(ctx, platform.ReadOptions{Focused: true})
	require.NoError(t, err)
	require.Len(t, els, 1)
	assert.Equal(t, "Text Editor", els[0].Children[0].Children[0].Title)

	els, err = p.Reader.ReadElements(ctx, platform.ReadOptions{Window: "Notepad", Prune: true})
	require.NoError(t, err)
	require.Len(t, els[0].Children, 2)
	assert.Equal(t, "Close", els[0].Children[1].Title, "anonymous pane is pruned")

	bbox, err := platform.ParseBBox("0,70,100,10")
	require.NoError(t, err)
	els, err = p.Reader.ReadElements(ctx, platform.ReadOptions{Roles: []string{"group"}, BBox: bbox})
	require.NoError(t, err)
	require.Len(t, els, 1)
	assert.Equal(t, "Desktop 1", els[0].Title)
}

func TestListWindows(t *testing.T) {
	p, _ := newTestProvider(t)

	wins, err := p.Reader.ListWindows(ctx, platform.ListOptions{})
	require.NoError(t, err)
	require.Len(t, wins, 2)
	assert.True(t, wins[0].Focused)

	wins, err = p.Reader.ListWindows(ctx, platform.ListOptions{Title: "calc"})
	require.NoError(t, err)
	require.Len(t, wins, 1)
	assert.Equal(t, 77, wins[0].PID)

	wins, err = p.Reader.ListWindows(ctx, platform.ListOptions{PID: 1})
	require.NoError(t, err)
	assert.Empty(t, wins)
	assert.NotNil(t, wins)
}

func sevenButton() *novawintest.Element {
	el := novawintest.NewElement("42.20.7")
	el.Tag = "Button"
	el.Attrs["Name"] = "Seven"
	el.Attrs["AutomationId"] = "num7Button"
	el.Attrs["IsEnabled"] = "False"
	el.Pos = selenium.Point{X: 62, Y: 10}
	el.Dims = selenium.Size{Width: 10, Height: 10}
	return el
}

func TestFindElements(t *testing.T) {
	p, fake := newTestProvider(t)
	fake.AddElement("accessibility id", "num7Button", sevenButton())

	els, err := p.Reader.FindElements(ctx, "id=num7Button", false)
	require.NoError(t, err)
	require.Len(t, els, 1)
	el := els[0]
	assert.Equal(t, 1, el.ID)
	assert.Equal(t, "btn", el.Role)
	assert.Equal(t, "Seven", el.Title)
	assert.Equal(t, "42.20.7", el.RuntimeID)
	assert.Equal(t, [4]int{62, 10, 10, 10}, el.Bounds)
	require.NotNil(t, el.Enabled)
	assert.False(t, *el.Enabled)
	assert.Empty(t, el.ClassName, "missing attribute leaves the field empty")

	_, err = p.Reader.FindElements(ctx, "name=Eight", false)
	assert.ErrorIs(t, err, novawin.ErrNoSuchElement)

	none, err := p.Reader.FindElements(ctx, "tag=Slider", true)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = p.Reader.FindElements(ctx, "", true)
	assert.Error(t, err)
}

func TestWaitElement(t *testing.T) {
	p, fake := newTestProvider(t)
	go func() {
		time.Sleep(20 * time.Millisecond)
		fake.AddElement("accessibility id", "num7Button", sevenButton())
	}()
	wctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	el, err := p.Reader.WaitElement(wctx, "id=num7Button", 5*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, "Seven", el.Title)
}

func TestFocusedElementAndAttributes(t *testing.T) {
	p, fake := newTestProvider(t)
	fake.Active = sevenButton()
	fake.Results["windows: getAttributes"] = map[string]interface{}{"Name": "Seven", "IsEnabled": false}

	el, err := p.Reader.FocusedElement(ctx)
	require.NoError(t, err)
	assert.True(t, el.Focused)
	assert.Equal(t, "42.20.7", el.RuntimeID)

	attrs, err := p.Reader.Attributes(ctx, "42.20.7")
	require.NoError(t, err)
	assert.Equal(t, "Seven", attrs["Name"])
	assert.Equal(t, "42.20.7", fake.LastCall().Payload()[novawin.W3CElementKey])

	_, err = p.Reader.Attributes(ctx, "")
	assert.Error(t, err)
}

func TestInputter_ClickHoverScrollDrag(t *testing.T) {
	p, fake := newTestProvider(t)

	require.NoError(t, p.Inputter.Click(ctx, platform.ClickOptions{
		Target: platform.ElementTarget("42.20.7"),
		Button: novawin.ButtonRight,
		Count:  2,
		Hold:   50 * time.Millisecond,
	}))
	call := fake.LastCall()
	assert.Equal(t, "windows: click", call.Script)
	assert.Equal(t, map[string]interface{}{
		"elementId":  "42.20.7",
		"button":     "right",
		"times":      float64(2),
		"durationMs": float64(50),
	}, call.Payload())

	require.NoError(t, p.Inputter.Hover(ctx, platform.HoverOptions{To: platform.PointTarget(5, 6)}))
	assert.Equal(t, map[string]interface{}{
		"startX": float64(5), "startY": float64(6), "endX": float64(5), "endY": float64(6),
	}, fake.LastCall().Payload())

	require.NoError(t, p.Inputter.Scroll(ctx, platform.ScrollOptions{Target: platform.PointTarget(1, 2), DY: -120}))
	assert.Equal(t, map[string]interface{}{"x": float64(1), "y": float64(2), "deltaY": float64(-120)}, fake.LastCall().Payload())

	require.NoError(t, p.Inputter.Drag(ctx, platform.DragOptions{
		From:   platform.ElementTarget("42.10.1"),
		To:     platform.PointTarget(90, 90),
		Easing: "ease-in",
	}))
	call = fake.LastCall()
	assert.Equal(t, "windows: clickAndDrag", call.Script)
	assert.Equal(t, "42.10.1", call.Payload()["startElementId"])
	assert.Equal(t, "ease-in", call.Payload()["smoothPointerMove"])

	err := p.Inputter.Click(ctx, platform.ClickOptions{})
	assert.Error(t, err, "zero target")
}

func TestInputter_TypeText(t *testing.T) {
	p, fake := newTestProvider(t)
	edit := novawintest.NewElement("42.10.1")
	fake.AddElement("xpath", `//*[@RuntimeId="42.10.1"]`, edit)
	delay := 30

	require.NoError(t, p.Inputter.TypeText(ctx, platform.TypeOptions{
		Target:  platform.ElementTarget("42.10.1"),
		Text:    "hello",
		DelayMs: &delay,
		Clear:   true,
	}))
	assert.Equal(t, 1, edit.Cleared)
	assert.Equal(t, []string{"[delay:30]hello"}, edit.Keys())
	assert.Empty(t, fake.Scripts())
}

func TestInputter_TypeTextFocusedAndPoint(t *testing.T) {
	p, fake := newTestProvider(t)
	focused := novawintest.NewElement("42.10.1")
	fake.Active = focused

	require.NoError(t, p.Inputter.TypeText(ctx, platform.TypeOptions{Text: "a"}))
	assert.Empty(t, fake.Calls)

	require.NoError(t, p.Inputter.TypeText(ctx, platform.TypeOptions{Target: platform.PointTarget(20, 40), Text: "b"}))
	assert.Equal(t, []string{"windows: click"}, fake.Scripts())
	assert.Equal(t, []string{"a", "b"}, focused.Keys())
}

func TestInputter_TypeTextMissingElement(t *testing.T) {
	p, _ := newTestProvider(t)
	err := p.Inputter.TypeText(ctx, platform.TypeOptions{Target: platform.ElementTarget("1.2"), Text: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, novawin.ErrNoSuchElement)
	assert.Contains(t, err.Error(), "type into element 1.2")
}

func TestInputter_KeysAndDelay(t *testing.T) {
	p, fake := newTestProvider(t)

	actions, err := novawin.ParseCombo("ctrl+a")
	require.NoError(t, err)
	require.NoError(t, p.Inputter.SendKeys(ctx, platform.KeysOptions{Actions: actions}))
	call := fake.LastCall()
	assert.Equal(t, "windows: keys", call.Script)
	assert.Len(t, call.Payload()["actions"], 4)

	require.NoError(t, p.Inputter.SetTypeDelay(ctx, 75))
	assert.Equal(t, map[string]interface{}{"delay": float64(75)}, fake.LastCall().Payload())
}

func TestWindowManager(t *testing.T) {
	p, fake := newTestProvider(t)

	require.NoError(t, p.WindowManager.FocusWindow(ctx, platform.FocusOptions{Process: "notepad", Window: "ignored"}))
	assert.Equal(t, "windows: setProcessForeground", fake.LastCall().Script)
	assert.Equal(t, "notepad", fake.LastCall().Payload()["process"])

	require.NoError(t, p.WindowManager.FocusWindow(ctx, platform.FocusOptions{Window: "calc"}))
	assert.Equal(t, "windows: setFocus", fake.LastCall().Script)
	assert.Equal(t, "42.20", fake.LastCall().Payload()[novawin.W3CElementKey])

	assert.Error(t, p.WindowManager.FocusWindow(ctx, platform.FocusOptions{}))

	for action, script := range map[platform.WindowAction]string{
		platform.WindowMaximize: "windows: maximize",
		platform.WindowMinimize: "windows: minimize",
		platform.WindowRestore:  "windows: restore",
		platform.WindowClose:    "windows: close",
	} {
		require.NoError(t, p.WindowManager.WindowAction(ctx, "42.10", action))
		assert.Equal(t, script, fake.LastCall().Script)
	}
	assert.Error(t, p.WindowManager.WindowAction(ctx, "", platform.WindowMaximize))
	assert.Error(t, p.WindowManager.WindowAction(ctx, "42.10", "shake"))
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 0, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestCaptureWindow(t *testing.T) {
	p, fake := newTestProvider(t)
	fake.PNG = testPNG(t, 100, 80)

	raw, err := p.Screenshotter.CaptureWindow(ctx, platform.ScreenshotOptions{})
	require.NoError(t, err)
	assert.Equal(t, fake.PNG, raw, "unscaled png is passed through")

	data, err := p.Screenshotter.CaptureWindow(ctx, platform.ScreenshotOptions{Window: "Notepad"})
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())
	assert.Equal(t, 30, img.Bounds().Dy())
	r, g, _, _ := img.At(img.Bounds().Min.X, img.Bounds().Min.Y).RGBA()
	assert.Equal(t, uint32(10), r>>8)
	assert.Equal(t, uint32(20), g>>8)

	data, err = p.Screenshotter.CaptureWindow(ctx, platform.ScreenshotOptions{Format: "jpg", Scale: 0.5, Quality: 90})
	require.NoError(t, err)
	img, err = jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 50, img.Bounds().Dx())
	assert.Equal(t, 40, img.Bounds().Dy())
}

func TestCaptureWindow_Errors(t *testing.T) {
	p, fake := newTestProvider(t)
	fake.PNG = testPNG(t, 100, 80)

	_, err := p.Screenshotter.CaptureWindow(ctx, platform.ScreenshotOptions{Format: "gif"})
	assert.ErrorContains(t, err, "unsupported screenshot format")

	_, err = p.Screenshotter.CaptureWindow(ctx, platform.ScreenshotOptions{Scale: 2})
	assert.ErrorContains(t, err, "scale")

	_, err = p.Screenshotter.CaptureWindow(ctx, platform.ScreenshotOptions{Window: "Paint"})
	assert.ErrorContains(t, err, "no window")
}

func TestCropTo_OffsetRoot(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 50, 50))
	got, err := cropTo(img, [4]int{110, 120, 20, 10}, [4]int{100, 100, 50, 50})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(10, 20, 30, 30), got.Bounds())

	_, err = cropTo(img, [4]int{500, 500, 10, 10}, [4]int{100, 100, 50, 50})
	assert.ErrorContains(t, err, "outside the captured area")
}

func TestPerformAction(t *testing.T) {
	p, fake := newTestProvider(t)
	cases := map[string]string{
		"invoke":                "windows: invoke",
		"expand":                "windows: expand",
		"collapse":              "windows: collapse",
		"toggle":                "windows: toggle",
		"select":                "windows: select",
		"add-to-selection":      "windows: addToSelection",
		"remove-from-selection": "windows: removeFromSelection",
		"scroll-into-view":      "windows: scrollIntoView",
		"focus":                 "windows: setFocus",
	}
	for _, name := range platform.Actions {
		require.NoError(t, p.ActionPerformer.PerformAction(ctx, platform.ActionOptions{RuntimeID: "42.20.7", Action: name}), name)
		assert.Equal(t, cases[name], fake.LastCall().Script, name)
	}

	err := p.ActionPerformer.PerformAction(ctx, platform.ActionOptions{RuntimeID: "1", Action: "wiggle"})
	assert.ErrorContains(t, err, "unknown action")
	assert.Error(t, p.ActionPerformer.PerformAction(ctx, platform.ActionOptions{Action: "invoke"}))
}

func TestValueSetter(t *testing.T) {
	p, fake := newTestProvider(t)
	fake.Results["windows: getValue"] = "42"

	require.NoError(t, p.ValueSetter.SetValue(ctx, "42.20.9", "42"))
	call := fake.LastCall()
	assert.Equal(t, "windows: setValue", call.Script)
	require.Len(t, call.Args, 2)
	assert.Equal(t, "42", call.Args[1])

	v, err := p.ValueSetter.GetValue(ctx, "42.20.9")
	require.NoError(t, err)
	assert.Equal(t, "42", v)
}

func TestClipboard(t *testing.T) {
	p, fake := newTestProvider(t)
	fake.Results["windows: getClipboard"] = "aGVsbG8="

	text, err := p.ClipboardManager.GetText(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hello", text)

	require.NoError(t, p.ClipboardManager.SetText(ctx, "hi"))
	assert.Equal(t, map[string]interface{}{"b64Content": "aGk=", "contentType": "plaintext"}, fake.LastCall().Payload())

	require.NoError(t, p.ClipboardManager.SetImage(ctx, []byte{0x89, 'P', 'N', 'G'}))
	assert.Equal(t, "image", fake.LastCall().Payload()["contentType"])

	require.NoError(t, p.ClipboardManager.SetText(ctx, ""))
	call := fake.LastCall()
	assert.Equal(t, "powerShell", call.Script)
	assert.Equal(t, map[string]interface{}{"command": clearClipboardCommand}, call.Payload())
}

func TestScriptRunnerAndFiles(t *testing.T) {
	p, fake := newTestProvider(t)
	fake.Results["powerShell"] = "ok\r\n"
	fake.Results["pullFile"] = "aGk="

	out, err := p.ScriptRunner.PowerShell(ctx, "Get-Date", true)
	require.NoError(t, err)
	assert.Equal(t, "ok\r\n", out)
	assert.Equal(t, map[string]interface{}{"command": "Get-Date"}, fake.LastCall().Payload())

	_, err = p.ScriptRunner.PowerShell(ctx, "$a = 1\n$a", false)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"script": "$a = 1\n$a"}, fake.LastCall().Payload())

	require.NoError(t, p.FileTransfer.PushFile(ctx, `C:\tmp\a.txt`, []byte("hi")))
	assert.Equal(t, map[string]interface{}{"path": `C:\tmp\a.txt`, "data": "aGk="}, fake.LastCall().Payload())

	data, err := p.FileTransfer.PullFile(ctx, `C:\tmp\a.txt`)
	require.NoError(t, err)
	assert.Equal(t, []byte("hi"), data)
}
