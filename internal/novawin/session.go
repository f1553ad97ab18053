// Package novawin is a client for the NovaWindows2 Windows UI-automation
// driver. It speaks W3C WebDriver through github.com/tebeka/selenium and
// wraps the driver's "windows:" extension commands in typed calls.
package novawin

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mj1618/novawin-cli/internal/config"
	"github.com/tebeka/selenium"
	"go.uber.org/zap"
)

const extensionPrefix = "windows: "

// RemoteFunc opens a WebDriver session. selenium.NewRemote is the default.
type RemoteFunc func(caps selenium.Capabilities, urlPrefix string) (selenium.WebDriver, error)

// clientInstaller sets the library-wide HTTP client once. tebeka/selenium
// sends every request of every session through selenium.HTTPClient, so
// the first dialer's timeout holds for the process.
type clientInstaller struct {
	once    sync.Once
	install func(*http.Client)
}

func (c *clientInstaller) apply(timeout time.Duration) {
	c.once.Do(func() {
		if timeout > 0 {
			c.install(&http.Client{Timeout: timeout})
		}
	})
}

var httpClient = &clientInstaller{install: func(c *http.Client) { selenium.HTTPClient = c }}

// Dialer opens sessions against one driver endpoint.
type Dialer struct {
	URL          string
	Capabilities map[string]interface{}
	// Timeout bounds every HTTP round trip. Zero keeps the library default.
	Timeout time.Duration
	Logger  *zap.Logger
	// Remote replaces selenium.NewRemote, mainly in tests.
	Remote RemoteFunc
}

// NewDialer builds a Dialer from cfg.
func NewDialer(cfg *config.Config, logger *zap.Logger) (*Dialer, error) {
	caps, err := cfg.Capabilities()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dialer{
		URL:          cfg.URL(),
		Capabilities: caps,
		Timeout:      cfg.Server.Timeout,
		Logger:       logger,
	}, nil
}

type remoteResult struct {
	wd  selenium.WebDriver
	err error
}

// Open creates a new remote session. If ctx ends first, the session that
// eventually comes back is quit so it does not leak on the driver.
func (d *Dialer) Open(ctx context.Context) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	httpClient.apply(d.Timeout)

	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}

	remote := d.Remote
	if remote == nil {
		remote = selenium.NewRemote
	}

	start := time.Now()
	done := make(chan remoteResult, 1)
	go func() {
		wd, err := remote(selenium.Capabilities(d.Capabilities), d.URL)
		done <- remoteResult{wd: wd, err: err}
	}()

	var res remoteResult
	select {
	case res = <-done:
	case <-ctx.Done():
		go func() {
			if late := <-done; late.err == nil {
				_ = late.wd.Quit()
			}
		}()
		return nil, ctx.Err()
	}
	if res.err != nil {
		return nil, &CommandError{Command: "new session", Err: res.err}
	}

	s := &Session{
		wd:        res.wd,
		id:        res.wd.SessionID(),
		typeDelay: capInt(d.Capabilities[config.CapTypeDelay]),
	}
	s.log = log.With(zap.String("session", s.id))
	s.log.Info("session opened", zap.String("url", d.URL), zap.Duration("elapsed", time.Since(start)))
	return s, nil
}

func capInt(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		i, _ := strconv.Atoi(n)
		return i
	}
	return 0
}

// Session is one remote automation session. Methods are safe for
// sequential use; callers sharing a Session across goroutines must
// serialise access themselves.
type Session struct {
	wd  selenium.WebDriver
	id  string
	log *zap.Logger

	mu        sync.Mutex
	closed    bool
	typeDelay int
}

// NewSession wraps an existing WebDriver.
func NewSession(wd selenium.WebDriver, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	id := wd.SessionID()
	return &Session{wd: wd, id: id, log: logger.With(zap.String("session", id))}
}

// ID returns the remote session id.
func (s *Session) ID() string { return s.id }

// WebDriver exposes the underlying client for calls this package does not wrap.
func (s *Session) WebDriver() selenium.WebDriver { return s.wd }

// TypeDelay returns the per-keystroke delay the session currently uses.
func (s *Session) TypeDelay() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.typeDelay
}

// Close deletes the remote session. Calling it again is a no-op.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	start := time.Now()
	if err := s.wd.Quit(); err != nil {
		s.log.Warn("session teardown failed", zap.Error(err))
		return &CommandError{Command: "delete session", Err: err}
	}
	s.log.Info("session closed", zap.Duration("elapsed", time.Since(start)))
	return nil
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// do runs one wire call with cancellation, closed-session checks and logging.
func (s *Session) do(ctx context.Context, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.isClosed() {
		return ErrSessionClosed
	}
	start := time.Now()
	err := fn()
	s.log.Debug("command",
		zap.String("command", name),
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(err))
	if err != nil {
		return &CommandError{Command: name, Err: err}
	}
	return nil
}

// Execute runs a raw script through the execute/sync endpoint.
func (s *Session) Execute(ctx context.Context, script string, args ...interface{}) (interface{}, error) {
	var result interface{}
	err := s.do(ctx, script, func() error {
		var err error
		result, err = s.wd.ExecuteScript(script, args)
		return err
	})
	return result, err
}

// Extension runs a "windows: <command>" extension command.
func (s *Session) Extension(ctx context.Context, command string, args ...interface{}) (interface{}, error) {
	return s.Execute(ctx, extensionPrefix+command, args...)
}

// Source returns the page source XML of the current root.
func (s *Session) Source(ctx context.Context) (string, error) {
	var src string
	err := s.do(ctx, "source", func() error {
		var err error
		src, err = s.wd.PageSource()
		return err
	})
	return src, err
}

// Screenshot returns a PNG of the session root.
func (s *Session) Screenshot(ctx context.Context) ([]byte, error) {
	var png []byte
	err := s.do(ctx, "screenshot", func() error {
		var err error
		png, err = s.wd.Screenshot()
		return err
	})
	return png, err
}

// RootName returns the Name property of the session root element.
func (s *Session) RootName(ctx context.Context) (string, error) {
	v, err := s.Execute(ctx, "return window.name")
	if err != nil {
		return "", err
	}
	return stringResult(v), nil
}

// ActiveElement returns the element with keyboard focus.
func (s *Session) ActiveElement(ctx context.Context) (*Element, error) {
	var we selenium.WebElement
	err := s.do(ctx, "active element", func() error {
		var err error
		we, err = s.wd.ActiveElement()
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.wrap(we)
}

func stringResult(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

func decodeBase64(v interface{}) ([]byte, error) {
	s := strings.TrimSpace(stringResult(v))
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode base64 result: %w", err)
	}
	return data, nil
}
