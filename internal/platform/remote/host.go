package remote

import (
	"context"

	"github.com/mj1618/novawin-cli/internal/novawin"
)

// clearClipboardCommand empties the clipboard. setClipboard rejects empty
// content, so clearing needs PowerShell.
const clearClipboardCommand = "Set-Clipboard -Value $null"

// Clipboard implements platform.ClipboardManager on the driver host clipboard.
type Clipboard struct {
	s *novawin.Session
}

func NewClipboard(s *novawin.Session) *Clipboard {
	return &Clipboard{s: s}
}

func (c *Clipboard) GetText(ctx context.Context) (string, error) {
	return c.s.GetClipboardText(ctx)
}

// SetText replaces the clipboard text. Empty text clears the clipboard.
func (c *Clipboard) SetText(ctx context.Context, text string) error {
	if text == "" {
		return c.Clear(ctx)
	}
	return c.s.SetClipboardText(ctx, text)
}

func (c *Clipboard) GetImage(ctx context.Context) ([]byte, error) {
	return c.s.GetClipboard(ctx, novawin.ClipboardImage)
}

func (c *Clipboard) SetImage(ctx context.Context, png []byte) error {
	return c.s.SetClipboard(ctx, novawin.ClipboardImage, png)
}

// Clear empties the clipboard. The driver must allow the power_shell feature.
func (c *Clipboard) Clear(ctx context.Context) error {
	_, err := c.s.PowerShell(ctx, novawin.PowerShellArgs{Command: clearClipboardCommand})
	return err
}

// ScriptRunner implements platform.ScriptRunner.
type ScriptRunner struct {
	s *novawin.Session
}

func NewScriptRunner(s *novawin.Session) *ScriptRunner {
	return &ScriptRunner{s: s}
}

func (r *ScriptRunner) PowerShell(ctx context.Context, script string, isCommand bool) (string, error) {
	if isCommand {
		return r.s.PowerShell(ctx, novawin.PowerShellArgs{Command: script})
	}
	return r.s.PowerShell(ctx, novawin.PowerShellArgs{Script: script})
}

// FileTransfer implements platform.FileTransfer.
type FileTransfer struct {
	s *novawin.Session
}

func NewFileTransfer(s *novawin.Session) *FileTransfer {
	return &FileTransfer{s: s}
}

func (f *FileTransfer) PushFile(ctx context.Context, remotePath string, data []byte) error {
	return f.s.PushFile(ctx, remotePath, data)
}

func (f *FileTransfer) PullFile(ctx context.Context, remotePath string) ([]byte, error) {
	return f.s.PullFile(ctx, remotePath)
}

func (f *FileTransfer) PullFolder(ctx context.Context, remotePath string) ([]byte, error) {
	return f.s.PullFolder(ctx, remotePath)
}
