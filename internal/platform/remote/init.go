// Package remote implements the platform interfaces on a NovaWindows2
// driver session. Importing it registers the backend with platform.
package remote

import (
	"context"

	"github.com/mj1618/novawin-cli/internal/config"
	"github.com/mj1618/novawin-cli/internal/novawin"
	"github.com/mj1618/novawin-cli/internal/observability"
	"github.com/mj1618/novawin-cli/internal/platform"
	"go.uber.org/zap"
)

func init() {
	platform.NewProviderFunc = NewProvider
}

// NewProvider opens a session against the driver described by cfg.
func NewProvider(ctx context.Context, cfg *config.Config) (*platform.Provider, error) {
	log := observability.GetLogger()
	d, err := novawin.NewDialer(cfg, log)
	if err != nil {
		return nil, err
	}
	s, err := d.Open(ctx)
	if err != nil {
		return nil, err
	}
	return NewSessionProvider(s, log), nil
}

// NewSessionProvider wraps an open session. Closing the provider deletes
// the session.
func NewSessionProvider(s *novawin.Session, log *zap.Logger) *platform.Provider {
	if log == nil {
		log = zap.NewNop()
	}
	reader := NewReader(s, log)
	p := &platform.Provider{
		Reader:           reader,
		Inputter:         NewInputter(s),
		WindowManager:    NewWindowManager(s, reader),
		Screenshotter:    NewScreenshotter(s, reader),
		ActionPerformer:  NewActionPerformer(s),
		ValueSetter:      NewValueSetter(s),
		ClipboardManager: NewClipboard(s),
		ScriptRunner:     NewScriptRunner(s),
		FileTransfer:     NewFileTransfer(s),
		SessionID:        s.ID(),
	}
	p.SetCloser(s.Close)
	return p
}
