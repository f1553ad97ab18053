package config

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Capability keys understood by the NovaWindows2 driver.
const (
	CapPlatformName                    = "platformName"
	CapAutomationName                  = "appium:automationName"
	CapApp                             = "appium:app"
	CapAppTopLevelWindow               = "appium:appTopLevelWindow"
	CapAppArguments                    = "appium:appArguments"
	CapAppWorkingDir                   = "appium:appWorkingDir"
	CapAppWaitForLaunchRetries         = "appium:appWaitForLaunchRetries"
	CapAppWaitForLaunchRetryIntervalMs = "appium:appWaitForLaunchRetryIntervalMs"
	CapNewCommandTimeout               = "appium:newCommandTimeout"
	CapConnectHardwareKeyboard         = "appium:connectHardwareKeyboard"
	CapTypeDelay                       = "appium:typeDelay"
	CapSmoothPointerMove               = "appium:smoothPointerMove"
	CapDelayBeforeClick                = "appium:delayBeforeClick"
	CapDelayAfterClick                 = "appium:delayAfterClick"
	CapShouldCloseApp                  = "appium:shouldCloseApp"
	CapIsolatedScriptExecution         = "appium:isolatedScriptExecution"
	CapPrerun                          = "appium:prerun"
	CapPostrun                         = "appium:postrun"
)

// RootApp attaches the session to the desktop instead of launching an app.
const RootApp = "Root"

// Config is the full client configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Session SessionConfig `mapstructure:"session" yaml:"session"`
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
}

// ServerConfig locates the remote driver.
type ServerConfig struct {
	Host    string        `mapstructure:"host" yaml:"host"`
	Port    int           `mapstructure:"port" yaml:"port"`
	Path    string        `mapstructure:"path" yaml:"path"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// ScriptConfig is a PowerShell prerun/postrun hook. Exactly one field is set.
type ScriptConfig struct {
	Script  string `mapstructure:"script" yaml:"script,omitempty"`
	Command string `mapstructure:"command" yaml:"command,omitempty"`
}

// SessionConfig holds the capabilities sent when a session is created.
// Zero values are treated as unset and left out of the request, except
// for the fields with non-zero defaults in SetDefaults.
type SessionConfig struct {
	PlatformName                    string                 `mapstructure:"platform_name" yaml:"platform_name"`
	AutomationName                  string                 `mapstructure:"automation_name" yaml:"automation_name"`
	App                             string                 `mapstructure:"app" yaml:"app"`
	AppTopLevelWindow               string                 `mapstructure:"app_top_level_window" yaml:"app_top_level_window"`
	AppArguments                    string                 `mapstructure:"app_arguments" yaml:"app_arguments"`
	AppWorkingDir                   string                 `mapstructure:"app_working_dir" yaml:"app_working_dir"`
	AppWaitForLaunchRetries         int                    `mapstructure:"app_wait_for_launch_retries" yaml:"app_wait_for_launch_retries"`
	AppWaitForLaunchRetryIntervalMs int                    `mapstructure:"app_wait_for_launch_retry_interval_ms" yaml:"app_wait_for_launch_retry_interval_ms"`
	NewCommandTimeout               int                    `mapstructure:"new_command_timeout" yaml:"new_command_timeout"`
	ConnectHardwareKeyboard         bool                   `mapstructure:"connect_hardware_keyboard" yaml:"connect_hardware_keyboard"`
	TypeDelay                       int                    `mapstructure:"type_delay" yaml:"type_delay"`
	SmoothPointerMove               string                 `mapstructure:"smooth_pointer_move" yaml:"smooth_pointer_move"`
	DelayBeforeClick                int                    `mapstructure:"delay_before_click" yaml:"delay_before_click"`
	DelayAfterClick                 int                    `mapstructure:"delay_after_click" yaml:"delay_after_click"`
	ShouldCloseApp                  *bool                  `mapstructure:"should_close_app" yaml:"should_close_app,omitempty"`
	IsolatedScriptExecution         bool                   `mapstructure:"isolated_script_execution" yaml:"isolated_script_execution"`
	Prerun                          *ScriptConfig          `mapstructure:"prerun" yaml:"prerun,omitempty"`
	Postrun                         *ScriptConfig          `mapstructure:"postrun" yaml:"postrun,omitempty"`
	Extra                           map[string]interface{} `mapstructure:"extra" yaml:"extra,omitempty"`
}

// LoggerConfig configures the zap logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	// -- Server --
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 4723)
	v.SetDefault("server.path", "/")
	v.SetDefault("server.timeout", "90s")

	// -- Session --
	v.SetDefault("session.platform_name", "Windows")
	v.SetDefault("session.automation_name", "NovaWindows2")
	// Empty defaults register the keys so NOVAWIN_SESSION_* env vars are
	// seen by Unmarshal. App falls back to Root in applyDefaults.
	v.SetDefault("session.app", "")
	v.SetDefault("session.app_top_level_window", "")
	v.SetDefault("session.app_arguments", "")
	v.SetDefault("session.app_working_dir", "")
	v.SetDefault("session.app_wait_for_launch_retries", 0)
	v.SetDefault("session.app_wait_for_launch_retry_interval_ms", 0)
	v.SetDefault("session.smooth_pointer_move", "")
	v.SetDefault("session.delay_before_click", 0)
	v.SetDefault("session.delay_after_click", 0)
	v.SetDefault("session.isolated_script_execution", false)
	v.SetDefault("session.new_command_timeout", 3600)
	v.SetDefault("session.connect_hardware_keyboard", true)
	v.SetDefault("session.type_delay", 0)

	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "novawin")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
}

// Default returns a configuration populated only from defaults.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	cfg.applyDefaults()
	return &cfg
}

// NewConfigFromViper unmarshals and validates the configuration held by v.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// applyDefaults fills defaults that depend on other fields. A session
// with neither app nor top-level window attaches to the desktop.
func (c *Config) applyDefaults() {
	if c.Session.App == "" && c.Session.AppTopLevelWindow == "" {
		c.Session.App = RootApp
	}
}

var cubicBezierRe = regexp.MustCompile(`^cubic-bezier\(\s*-?[\d.]+\s*,\s*-?[\d.]+\s*,\s*-?[\d.]+\s*,\s*-?[\d.]+\s*\)$`)

var easingNames = map[string]bool{
	"linear":      true,
	"ease":        true,
	"ease-in":     true,
	"ease-out":    true,
	"ease-in-out": true,
}

// ValidEasing reports whether s names a pointer easing function the driver accepts.
func ValidEasing(s string) bool {
	return easingNames[s] || cubicBezierRe.MatchString(s)
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if c.Server.Host == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout < 0 {
		return fmt.Errorf("server.timeout must not be negative")
	}
	return c.Session.Validate()
}

// Validate checks the session capabilities.
func (s *SessionConfig) Validate() error {
	if s.PlatformName == "" {
		return fmt.Errorf("session.platform_name is required")
	}
	if s.App != "" && s.AppTopLevelWindow != "" {
		return fmt.Errorf("session.app and session.app_top_level_window are mutually exclusive")
	}
	if s.TypeDelay < 0 {
		return fmt.Errorf("session.type_delay must be >= 0, got %d", s.TypeDelay)
	}
	if s.DelayBeforeClick < 0 || s.DelayAfterClick < 0 {
		return fmt.Errorf("session click delays must be >= 0")
	}
	if s.SmoothPointerMove != "" && !ValidEasing(s.SmoothPointerMove) {
		return fmt.Errorf("session.smooth_pointer_move: unsupported easing function %q", s.SmoothPointerMove)
	}
	for name, hook := range map[string]*ScriptConfig{"prerun": s.Prerun, "postrun": s.Postrun} {
		if hook == nil {
			continue
		}
		if (hook.Script == "") == (hook.Command == "") {
			return fmt.Errorf("session.%s: exactly one of script or command is required", name)
		}
	}
	return nil
}

// URL returns the driver base URL, e.g. http://127.0.0.1:4723/.
func (c *Config) URL() string {
	path := c.Server.Path
	if path == "" {
		path = "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := url.URL{
		Scheme: "http",
		Host:   c.Server.Host + ":" + strconv.Itoa(c.Server.Port),
		Path:   path,
	}
	return strings.TrimSuffix(u.String(), "/")
}

// Capabilities builds the capability map sent in the new-session request.
func (c *Config) Capabilities() (map[string]interface{}, error) {
	if err := c.Session.Validate(); err != nil {
		return nil, err
	}
	s := c.Session
	caps := map[string]interface{}{
		CapPlatformName: s.PlatformName,
	}
	setString := func(key, val string) {
		if val != "" {
			caps[key] = val
		}
	}
	setInt := func(key string, val int) {
		if val > 0 {
			caps[key] = val
		}
	}

	setString(CapAutomationName, s.AutomationName)
	setString(CapApp, s.App)
	setString(CapAppTopLevelWindow, s.AppTopLevelWindow)
	setString(CapAppArguments, s.AppArguments)
	setString(CapAppWorkingDir, s.AppWorkingDir)
	setString(CapSmoothPointerMove, s.SmoothPointerMove)
	setInt(CapAppWaitForLaunchRetries, s.AppWaitForLaunchRetries)
	setInt(CapAppWaitForLaunchRetryIntervalMs, s.AppWaitForLaunchRetryIntervalMs)
	setInt(CapNewCommandTimeout, s.NewCommandTimeout)
	setInt(CapTypeDelay, s.TypeDelay)
	setInt(CapDelayBeforeClick, s.DelayBeforeClick)
	setInt(CapDelayAfterClick, s.DelayAfterClick)

	if s.ConnectHardwareKeyboard {
		caps[CapConnectHardwareKeyboard] = true
	}
	if s.ShouldCloseApp != nil {
		caps[CapShouldCloseApp] = *s.ShouldCloseApp
	}
	if s.IsolatedScriptExecution {
		caps[CapIsolatedScriptExecution] = true
	}
	if s.Prerun != nil {
		caps[CapPrerun] = s.Prerun.payload()
	}
	if s.Postrun != nil {
		caps[CapPostrun] = s.Postrun.payload()
	}
	for k, v := range s.Extra {
		caps[k] = v
	}
	return caps, nil
}

func (h *ScriptConfig) payload() map[string]string {
	if h.Script != "" {
		return map[string]string{"script": h.Script}
	}
	return map[string]string{"command": h.Command}
}
