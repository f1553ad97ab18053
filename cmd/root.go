package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	json "github.com/json-iterator/go"
	"github.com/mj1618/novawin-cli/internal/config"
	"github.com/mj1618/novawin-cli/internal/observability"
	"github.com/mj1618/novawin-cli/internal/output"
	"github.com/mj1618/novawin-cli/internal/platform"
	_ "github.com/mj1618/novawin-cli/internal/platform/remote"
	"github.com/mj1618/novawin-cli/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	cfgFile string
	// appConfig is loaded by the root pre-run.
	appConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "novawin",
	Short: "Drive Windows UI automation through a NovaWindows2 driver",
	Long: `A CLI for the NovaWindows2 WebDriver/Appium driver. Each command opens a
session against the configured driver, performs its action and deletes
the session. Results are printed as YAML (or JSON with --format json).`,
	SilenceUsage:      true,
	PersistentPreRunE: preRun,
}

// Execute runs the root command, cancelling on SIGINT/SIGTERM.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		observability.GetLogger().Debug("command failed", zap.Error(err))
	}
	observability.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)

	f := rootCmd.PersistentFlags()
	f.StringVarP(&cfgFile, "config", "c", "", "Config file (default ./novawin.yaml)")
	f.String("host", "", "Driver host (default 127.0.0.1)")
	f.Int("port", 0, "Driver port (default 4723)")
	f.Duration("timeout", 0, "HTTP timeout for driver commands (default 90s)")
	f.String("app", "", "App to launch, or Root to attach to the desktop")
	f.Int("type-delay", 0, "Session keystroke delay in ms")
	f.StringArray("cap", nil, "Extra capability as key=value (value may be JSON); repeatable")
	f.String("log-level", "", "Log level: debug, info, warn, error")
	f.String("format", "yaml", "Output format: yaml, json")
	f.Bool("pretty", false, "Indent JSON output")
}

func preRun(cmd *cobra.Command, _ []string) error {
	// The root's own flags, so a local flag of the same name (find
	// --timeout) does not bind to the driver setting.
	flags := cmd.Root().PersistentFlags()
	cfg, err := loadConfig(viper.New(), flags)
	if err != nil {
		observability.InitializeLogger(config.Default().Logger)
		return err
	}
	appConfig = cfg
	observability.InitializeLogger(cfg.Logger)

	format, _ := flags.GetString("format")
	if output.OutputFormat, err = output.ParseFormat(format); err != nil {
		return err
	}
	output.PrettyOutput, _ = flags.GetBool("pretty")
	return nil
}

// loadConfig layers defaults, the config file, NOVAWIN_* environment
// variables and the persistent flags that were set.
func loadConfig(v *viper.Viper, flags *pflag.FlagSet) (*config.Config, error) {
	config.SetDefaults(v)
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("novawin")
		v.SetConfigType("yaml")
	}
	v.SetEnvPrefix("NOVAWIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	for key, name := range map[string]string{
		"server.host":        "host",
		"server.port":        "port",
		"server.timeout":     "timeout",
		"session.app":        "app",
		"session.type_delay": "type-delay",
		"logger.level":       "log-level",
	} {
		if fl := flags.Lookup(name); fl != nil && fl.Changed {
			if err := v.BindPFlag(key, fl); err != nil {
				return nil, err
			}
		}
	}
	cfg, err := config.NewConfigFromViper(v)
	if err != nil {
		return nil, err
	}
	// Set after unmarshalling: viper lowercases keys, capability names are
	// case-sensitive.
	if caps, _ := flags.GetStringArray("cap"); len(caps) > 0 {
		extra, err := parseCaps(caps)
		if err != nil {
			return nil, err
		}
		if cfg.Session.Extra == nil {
			cfg.Session.Extra = map[string]interface{}{}
		}
		for k, val := range extra {
			cfg.Session.Extra[k] = val
		}
	}
	return cfg, nil
}

// parseCaps reads key=value pairs. Values that parse as JSON keep their
// type; anything else is a string.
func parseCaps(pairs []string) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(pairs))
	for _, pair := range pairs {
		k, raw, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid --cap %q (expected key=value)", pair)
		}
		var val interface{}
		if err := json.Unmarshal([]byte(raw), &val); err != nil {
			val = raw
		}
		out[strings.TrimSpace(k)] = val
	}
	return out, nil
}

func currentConfig() *config.Config {
	if appConfig == nil {
		return config.Default()
	}
	return appConfig
}

// withProvider opens a session, runs fn and always deletes the session.
func withProvider(cmd *cobra.Command, fn func(ctx context.Context, p *platform.Provider) error) error {
	return withProviderConfig(cmd, currentConfig(), fn)
}

func withProviderConfig(cmd *cobra.Command, cfg *config.Config, fn func(ctx context.Context, p *platform.Provider) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	p, err := platform.NewProvider(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := p.Close(); cerr != nil {
			observability.GetLogger().Warn("failed to delete session", zap.String("session", p.SessionID), zap.Error(cerr))
		}
	}()
	return fn(ctx, p)
}
