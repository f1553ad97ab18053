package cmd

import (
	"github.com/mj1618/novawin-cli/internal/output"
	"github.com/mj1618/novawin-cli/internal/steps"
	"github.com/spf13/cobra"
)

// addScopeFlags registers the window scope flags.
func addScopeFlags(cmd *cobra.Command) {
	cmd.Flags().String("window", "", "Scope to the first window whose title contains this")
	cmd.Flags().String("window-rid", "", "Scope to a window by runtime id")
	cmd.Flags().Int("pid", 0, "Scope to the first window of this process")
}

func getScope(cmd *cobra.Command) steps.Scope {
	window, _ := cmd.Flags().GetString("window")
	windowRID, _ := cmd.Flags().GetString("window-rid")
	pid, _ := cmd.Flags().GetInt("pid")
	return steps.Scope{Window: window, WindowRID: windowRID, PID: pid}
}

// addTargetFlags registers the flags naming an element or a point. prefix
// is "" or e.g. "from-"; textFlag is the name of the visible-text flag.
func addTargetFlags(cmd *cobra.Command, prefix, textFlag, what string) {
	cmd.Flags().Int(prefix+"id", 0, "Element id of "+what+" (from a preceding read)")
	cmd.Flags().String(prefix+"rid", "", "Runtime id of "+what)
	cmd.Flags().String(prefix+"selector", "", "Driver locator for "+what+", e.g. name=OK or xpath=//Button")
	cmd.Flags().String(prefix+textFlag, "", "Find "+what+" by visible text (case-insensitive match on name, automation id or help text)")
	cmd.Flags().Int(prefix+"x", 0, "X coordinate (offset inside "+what+" when one is named)")
	cmd.Flags().Int(prefix+"y", 0, "Y coordinate")
}

// addTextTargetingFlags registers the flags that refine text matching.
func addTextTargetingFlags(cmd *cobra.Command) {
	cmd.Flags().String("roles", "", "Only match these roles when using text (e.g. \"btn,input\" or \"interactive\")")
	cmd.Flags().Bool("exact", false, "Require an exact text match")
	cmd.Flags().Int("scope-id", 0, "Limit text search to descendants of this element id")
	cmd.Flags().Bool("near", false, "Use the nearest interactive element to the text match")
	cmd.Flags().String("near-direction", "", "Direction for --near: left, right, above, below")
}

func getTarget(cmd *cobra.Command, prefix, textFlag string, sc steps.Scope) steps.TargetSpec {
	f := cmd.Flags()
	t := steps.TargetSpec{}
	t.ID, _ = f.GetInt(prefix + "id")
	t.RuntimeID, _ = f.GetString(prefix + "rid")
	t.Selector, _ = f.GetString(prefix + "selector")
	t.Text, _ = f.GetString(prefix + textFlag)
	t.Roles, _ = f.GetString("roles")
	t.Exact, _ = f.GetBool("exact")
	t.ScopeID, _ = f.GetInt("scope-id")
	t.Near, _ = f.GetBool("near")
	t.NearDirection, _ = f.GetString("near-direction")
	t.Window, t.WindowRID, t.PID = sc.Window, sc.WindowRID, sc.PID
	if f.Changed(prefix+"x") && f.Changed(prefix+"y") {
		t.X, _ = f.GetInt(prefix + "x")
		t.Y, _ = f.GetInt(prefix + "y")
		t.HasPoint = true
	}
	return t
}

// printResult prints res with OK and Error filled in from err, and
// returns err so the command exits non-zero on failure.
func printResult(res steps.Result, err error) error {
	res.OK = err == nil
	if err != nil && res.Error == "" {
		res.Error = err.Error()
	}
	if perr := output.Print(res); perr != nil {
		return perr
	}
	return err
}
