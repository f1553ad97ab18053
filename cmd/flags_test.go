package cmd

import (
	"testing"

	"github.com/spf13/cobra"
)

type flagSpec struct {
	name     string
	flagType string
}

func checkFlags(t *testing.T, cmd *cobra.Command, want []flagSpec) {
	t.Helper()
	flags := cmd.Flags()
	for _, tt := range want {
		f := flags.Lookup(tt.name)
		if f == nil {
			t.Errorf("%s: expected flag %q not found", cmd.Name(), tt.name)
			continue
		}
		if f.Value.Type() != tt.flagType {
			t.Errorf("%s: flag %q: expected type %q, got %q", cmd.Name(), tt.name, tt.flagType, f.Value.Type())
		}
	}
}

func TestRootCommand_PersistentFlags(t *testing.T) {
	flags := rootCmd.PersistentFlags()
	tests := []flagSpec{
		{"config", "string"},
		{"host", "string"},
		{"port", "int"},
		{"timeout", "duration"},
		{"app", "string"},
		{"type-delay", "int"},
		{"cap", "stringArray"},
		{"log-level", "string"},
		{"format", "string"},
		{"pretty", "bool"},
	}
	for _, tt := range tests {
		f := flags.Lookup(tt.name)
		if f == nil {
			t.Errorf("expected persistent flag %q not found", tt.name)
			continue
		}
		if f.Value.Type() != tt.flagType {
			t.Errorf("flag %q: expected type %q, got %q", tt.name, tt.flagType, f.Value.Type())
		}
	}
	if f := flags.Lookup("config"); f != nil && f.Shorthand != "c" {
		t.Errorf("config shorthand: expected %q, got %q", "c", f.Shorthand)
	}
}

func TestTargetFlags(t *testing.T) {
	target := []flagSpec{
		{"id", "int"}, {"rid", "string"}, {"selector", "string"}, {"x", "int"}, {"y", "int"},
		{"roles", "string"}, {"exact", "bool"}, {"scope-id", "int"}, {"near", "bool"}, {"near-direction", "string"},
		{"window", "string"}, {"window-rid", "string"}, {"pid", "int"},
	}
	checkFlags(t, clickCmd, append(target, flagSpec{"text", "string"}, flagSpec{"button", "string"},
		flagSpec{"double", "bool"}, flagSpec{"count", "int"}, flagSpec{"hold", "duration"}))
	checkFlags(t, typeCmd, append(target, flagSpec{"target", "string"}, flagSpec{"text", "string"},
		flagSpec{"delay", "int"}, flagSpec{"clear", "bool"}))
	checkFlags(t, actionCmd, append(target, flagSpec{"text", "string"}))
	checkFlags(t, setValueCmd, append(target, flagSpec{"target", "string"}))
	checkFlags(t, scrollCmd, append(target, flagSpec{"direction", "string"}, flagSpec{"amount", "int"},
		flagSpec{"dx", "int"}, flagSpec{"dy", "int"}))
}

func TestDragCommand_Flags(t *testing.T) {
	checkFlags(t, dragCmd, []flagSpec{
		{"from-id", "int"}, {"from-rid", "string"}, {"from-text", "string"}, {"from-x", "int"}, {"from-y", "int"},
		{"to-id", "int"}, {"to-rid", "string"}, {"to-text", "string"}, {"to-x", "int"}, {"to-y", "int"},
		{"duration", "duration"}, {"easing", "string"},
	})
}

func TestReadCommand_Flags(t *testing.T) {
	checkFlags(t, readCmd, []flagSpec{
		{"window", "string"}, {"window-rid", "string"}, {"pid", "int"}, {"depth", "int"}, {"roles", "string"},
		{"visible-only", "bool"}, {"bbox", "string"}, {"text", "string"}, {"focused", "bool"}, {"prune", "bool"},
		{"flat", "bool"},
	})
	if f := readCmd.Flags().Lookup("visible-only"); f != nil && f.DefValue != "true" {
		t.Errorf("visible-only should default to true, got %s", f.DefValue)
	}
}

func TestQueryCommand_Flags(t *testing.T) {
	checkFlags(t, listCmd, []flagSpec{{"title", "string"}, {"pid", "int"}})
	checkFlags(t, findCmd, []flagSpec{
		{"selector", "string"}, {"text", "string"}, {"roles", "string"}, {"exact", "bool"},
		{"all", "bool"}, {"timeout", "duration"},
	})
	checkFlags(t, waitCmd, []flagSpec{
		{"for-text", "string"}, {"for-role", "string"}, {"for-id", "int"}, {"for-rid", "string"},
		{"gone", "bool"}, {"selector", "string"}, {"timeout", "duration"}, {"interval", "duration"},
	})
	checkFlags(t, assertCmd, []flagSpec{
		{"for-text", "string"}, {"target", "string"}, {"value", "string"}, {"value-contains", "string"},
		{"enabled", "bool"}, {"disabled", "bool"}, {"is-focused", "bool"}, {"timeout", "duration"},
	})
	checkFlags(t, observeCmd, []flagSpec{
		{"interval", "duration"}, {"duration", "duration"}, {"ignore-bounds", "bool"}, {"ignore-focus", "bool"},
	})
}

func TestHostCommand_Flags(t *testing.T) {
	checkFlags(t, powershellCmd, []flagSpec{{"command", "string"}, {"script", "string"}, {"file", "string"}})
	checkFlags(t, clipboardGetCmd, []flagSpec{{"image", "bool"}, {"file", "string"}})
	checkFlags(t, clipboardSetCmd, []flagSpec{{"image", "bool"}, {"file", "string"}, {"text", "string"}})
	checkFlags(t, screenshotCmd, []flagSpec{
		{"output", "string"}, {"image-format", "string"}, {"quality", "int"}, {"scale", "float64"},
		{"annotate", "bool"}, {"label", "string"},
	})
	checkFlags(t, keyCmd, []flagSpec{{"force-unicode", "bool"}})
	checkFlags(t, openCmd, []flagSpec{{"working-dir", "string"}, {"top-level-window", "string"}, {"close", "bool"}})
}

func TestRunnerCommand_Flags(t *testing.T) {
	checkFlags(t, doCmd, []flagSpec{{"file", "string"}, {"stop-on-error", "bool"}})
	checkFlags(t, serveCmd, []flagSpec{{"transport", "string"}, {"addr", "string"}, {"cache-ttl", "duration"}})
	checkFlags(t, stressCmd, []flagSpec{
		{"sessions", "int"}, {"iterations", "int"}, {"concurrency", "int"}, {"rate", "float64"}, {"powershell", "bool"},
	})
	if f := doCmd.Flags().Lookup("stop-on-error"); f != nil && f.DefValue != "true" {
		t.Errorf("stop-on-error should default to true, got %s", f.DefValue)
	}
}
