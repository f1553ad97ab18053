package platform

import (
	"context"
	"errors"
	"sync"

	"github.com/mj1618/novawin-cli/internal/config"
)

// Provider bundles all backends for one driver session.
type Provider struct {
	Reader           Reader
	Inputter         Inputter
	WindowManager    WindowManager
	Screenshotter    Screenshotter
	ActionPerformer  ActionPerformer
	ValueSetter      ValueSetter
	ClipboardManager ClipboardManager
	ScriptRunner     ScriptRunner
	FileTransfer     FileTransfer

	// SessionID is the remote session id, empty for providers without one.
	SessionID string

	closeOnce sync.Once
	closeErr  error
	closer    func() error
}

// SetCloser registers the function Close runs once.
func (p *Provider) SetCloser(fn func() error) { p.closer = fn }

// Close releases the backend session. Calling it again returns the first result.
func (p *Provider) Close() error {
	p.closeOnce.Do(func() {
		if p.closer != nil {
			p.closeErr = p.closer()
		}
	})
	return p.closeErr
}

// ErrNoBackend is returned when no backend package has registered itself.
var ErrNoBackend = errors.New("no platform backend registered; import internal/platform/remote")

// NewProviderFunc is set by backend packages via init().
// See internal/platform/remote for the driver-backed registration.
var NewProviderFunc func(ctx context.Context, cfg *config.Config) (*Provider, error)

// NewProvider opens a Provider with the registered backend. The caller owns
// the result and must Close it.
func NewProvider(ctx context.Context, cfg *config.Config) (*Provider, error) {
	if NewProviderFunc == nil {
		return nil, ErrNoBackend
	}
	return NewProviderFunc(ctx, cfg)
}
