package server

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

func scopeOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("window", mcp.Description("Scope to the first window whose title contains this")),
		mcp.WithString("window-rid", mcp.Description("Scope to a window by runtime id")),
		mcp.WithNumber("pid", mcp.Description("Scope to the first window of this process")),
	}
}

// targetOptions describes an element or point. prefix is "" or "from-"/"to-".
func targetOptions(prefix, textKey, what string) []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString(prefix+textKey, mcp.Description("Find "+what+" by visible text")),
		mcp.WithNumber(prefix+"id", mcp.Description("Element id from a previous read")),
		mcp.WithString(prefix+"rid", mcp.Description("Element runtime id")),
		mcp.WithString(prefix+"selector", mcp.Description("Driver locator, e.g. name=OK, xpath=//Button, id=15")),
		mcp.WithNumber(prefix+"x", mcp.Description("X coordinate (offset inside the element when one is given)")),
		mcp.WithNumber(prefix+"y", mcp.Description("Y coordinate")),
	}
}

func textOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("roles", mcp.Description("Filter text matches by role, e.g. btn,input or interactive")),
		mcp.WithBoolean("exact", mcp.Description("Require an exact text match")),
		mcp.WithNumber("scope-id", mcp.Description("Limit text search to descendants of this element id")),
		mcp.WithBoolean("near", mcp.Description("Use the nearest interactive element to the text match")),
		mcp.WithString("near-direction", mcp.Description("Direction for near: left, right, above, below")),
	}
}

func tool(name, desc string, groups ...[]mcp.ToolOption) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(desc)}
	for _, g := range groups {
		opts = append(opts, g...)
	}
	return mcp.NewTool(name, opts...)
}

func opts(o ...mcp.ToolOption) []mcp.ToolOption { return o }

func (s *Server) buildTools() []mcpserver.ServerTool {
	step := func(t mcp.Tool, name string, write bool) mcpserver.ServerTool {
		return mcpserver.ServerTool{Tool: t, Handler: s.stepHandler(name, write)}
	}
	pointer := opts(mcp.WithString("modifiers", mcp.Description("Held keys, e.g. ctrl+shift")))

	return []mcpserver.ServerTool{
		{Tool: tool("session", "Show the shared driver session, opening it if needed",
			opts(mcp.WithBoolean("restart", mcp.Description("Close the current session and open a new one")))),
			Handler: s.handleSession},
		{Tool: tool("list", "List top-level windows",
			opts(mcp.WithString("title", mcp.Description("Filter by title substring")),
				mcp.WithNumber("pid", mcp.Description("Filter by process id")))),
			Handler: s.handleList},
		step(tool("read", "Read the UI element tree from page source. Returns elements with ids, roles, titles, runtime ids and bounds.",
			scopeOptions(),
			opts(mcp.WithNumber("depth", mcp.Description("Max depth below the scope root (0 = unlimited)")),
				mcp.WithString("roles", mcp.Description("Only include these roles")),
				mcp.WithString("text", mcp.Description("Only include elements containing this text")),
				mcp.WithBoolean("visible-only", mcp.Description("Drop offscreen and zero-sized elements")),
				mcp.WithBoolean("focused", mcp.Description("Only the focused element and its ancestors")),
				mcp.WithBoolean("prune", mcp.Description("Remove anonymous group elements")))),
			"read", false),
		step(tool("find", "Find elements with a driver locator or by visible text",
			scopeOptions(),
			opts(mcp.WithString("selector", mcp.Description("Driver locator")),
				mcp.WithString("text", mcp.Description("Visible text")),
				mcp.WithString("roles", mcp.Description("Filter text matches by role")),
				mcp.WithBoolean("exact", mcp.Description("Require an exact text match")),
				mcp.WithBoolean("all", mcp.Description("Return every match")),
				mcp.WithNumber("timeout", mcp.Description("Wait up to N seconds for the selector")))),
			"find", false),
		step(tool("click", "Click an element or a screen point",
			scopeOptions(), targetOptions("", "text", "the element"), textOptions(), pointer,
			opts(mcp.WithString("button", mcp.Description("left, right, middle, back or forward")),
				mcp.WithBoolean("double", mcp.Description("Double-click")),
				mcp.WithNumber("count", mcp.Description("Click count")),
				mcp.WithNumber("hold", mcp.Description("Hold the button for N ms")))),
			"click", true),
		step(tool("hover", "Move the pointer to an element or point",
			scopeOptions(), targetOptions("", "text", "the element"), targetOptions("from-", "text", "the start element"), textOptions(), pointer,
			opts(mcp.WithNumber("duration", mcp.Description("Move duration in ms")))),
			"hover", true),
		step(tool("type", "Type text, optionally into a target element. An inline [delay:NNN] prefix overrides the keystroke delay.",
			scopeOptions(), targetOptions("", "target", "the element to type into"), textOptions(),
			opts(mcp.WithString("text", mcp.Description("Text to type"), mcp.Required()),
				mcp.WithNumber("delay", mcp.Description("Keystroke delay in ms for this call")),
				mcp.WithBoolean("clear", mcp.Description("Clear the element first")))),
			"type", true),
		step(tool("type_delay", "Set the session keystroke delay",
			opts(mcp.WithNumber("ms", mcp.Description("Delay in milliseconds"), mcp.Required()))),
			"type-delay", false),
		step(tool("key", "Press key combos such as ctrl+s or alt+f4",
			opts(mcp.WithArray("key", mcp.Description("Combos, pressed in order"), mcp.WithStringItems(), mcp.Required()),
				mcp.WithBoolean("force-unicode", mcp.Description("Send text as unicode input")))),
			"key", true),
		step(tool("keys", "Send raw key steps: down:LWIN, up:LWIN, pause:200, text:hello, ENTER",
			opts(mcp.WithArray("steps", mcp.Description("Key steps"), mcp.WithStringItems(), mcp.Required()),
				mcp.WithBoolean("force-unicode", mcp.Description("Send text as unicode input")))),
			"keys", true),
		step(tool("drag", "Press at a start target, move to an end target and release",
			scopeOptions(), targetOptions("from-", "text", "the start element"), targetOptions("to-", "text", "the end element"), textOptions(), pointer,
			opts(mcp.WithString("button", mcp.Description("Mouse button")),
				mcp.WithNumber("duration", mcp.Description("Move duration in ms (default 500)")),
				mcp.WithString("easing", mcp.Description("linear, ease, ease-in, ease-out, ease-in-out or cubic-bezier(...)")))),
			"drag", true),
		step(tool("scroll", "Scroll the wheel over an element or point",
			scopeOptions(), targetOptions("", "text", "the element"), textOptions(), pointer,
			opts(mcp.WithString("direction", mcp.Description("up, down, left or right")),
				mcp.WithNumber("amount", mcp.Description("Wheel notches (default 3)")),
				mcp.WithNumber("dx", mcp.Description("Horizontal pixel delta")),
				mcp.WithNumber("dy", mcp.Description("Vertical pixel delta, positive scrolls up")))),
			"scroll", true),
		step(tool("clipboard", "Get, set or clear the host clipboard",
			opts(mcp.WithString("op", mcp.Description("get, set or clear")),
				mcp.WithString("text", mcp.Description("Text to set")))),
			"clipboard", false),
		step(tool("window", "Maximize, minimize, restore or close a window",
			scopeOptions(),
			opts(mcp.WithString("action", mcp.Description("maximize, minimize, restore or close"), mcp.Required()))),
			"window", true),
		step(tool("focus", "Bring a window to the foreground", scopeOptions()), "focus", true),
		step(tool("foreground", "Bring a process's main window to the foreground",
			opts(mcp.WithString("process", mcp.Description("Process name or id"), mcp.Required()))),
			"foreground", true),
		step(tool("action", "Run a UIA pattern action on an element",
			scopeOptions(), targetOptions("", "text", "the element"), textOptions(),
			opts(mcp.WithString("action", mcp.Description("invoke (default), expand, collapse, toggle, select, add-to-selection, remove-from-selection, scroll-into-view or focus")))),
			"action", true),
		step(tool("set_value", "Set an element's Value or RangeValue pattern",
			scopeOptions(), targetOptions("", "text", "the element"), textOptions(),
			opts(mcp.WithString("value", mcp.Description("Value to set"), mcp.Required()))),
			"set-value", true),
		step(tool("get_value", "Read an element's Value pattern",
			scopeOptions(), targetOptions("", "text", "the element"), textOptions()),
			"get-value", false),
		{Tool: tool("attrs", "Return every UIA property of an element",
			opts(mcp.WithString("rid", mcp.Description("Element runtime id"), mcp.Required()))),
			Handler: s.handleAttrs},
		step(tool("powershell", "Run PowerShell on the driver host and return its output",
			opts(mcp.WithString("script", mcp.Description("Multi-line script")),
				mcp.WithString("command", mcp.Description("One-line command")))),
			"powershell", true),
		step(tool("push_file", "Write a file on the driver host",
			opts(mcp.WithString("remote", mcp.Description("Remote path"), mcp.Required()),
				mcp.WithString("data", mcp.Description("File content"), mcp.Required()))),
			"push-file", false),
		step(tool("pull_file", "Read a file from the driver host",
			opts(mcp.WithString("remote", mcp.Description("Remote path"), mcp.Required()))),
			"pull-file", false),
		step(tool("wait", "Wait for an element to appear, or to disappear with gone",
			scopeOptions(),
			opts(mcp.WithString("text", mcp.Description("Element text")),
				mcp.WithString("role", mcp.Description("Element role")),
				mcp.WithNumber("id", mcp.Description("Element id")),
				mcp.WithString("rid", mcp.Description("Element runtime id")),
				mcp.WithString("selector", mcp.Description("Wait for a driver locator instead")),
				mcp.WithBoolean("gone", mcp.Description("Wait until nothing matches")),
				mcp.WithNumber("timeout", mcp.Description("Max seconds (default 30)")),
				mcp.WithNumber("interval", mcp.Description("Poll interval in ms (default 500)")))),
			"wait", false),
		step(tool("assert", "Assert an element's state",
			scopeOptions(),
			opts(mcp.WithString("text", mcp.Description("Element text")),
				mcp.WithString("role", mcp.Description("Element role")),
				mcp.WithNumber("id", mcp.Description("Element id")),
				mcp.WithString("rid", mcp.Description("Element runtime id")),
				mcp.WithString("selector", mcp.Description("Driver locator")),
				mcp.WithBoolean("gone", mcp.Description("Assert nothing matches")),
				mcp.WithString("value", mcp.Description("Expected value")),
				mcp.WithString("value-contains", mcp.Description("Expected value substring")),
				mcp.WithBoolean("enabled", mcp.Description("Expected enabled state")),
				mcp.WithBoolean("focused", mcp.Description("Assert the element has focus")),
				mcp.WithNumber("timeout", mcp.Description("Retry for N seconds")),
				mcp.WithNumber("interval", mcp.Description("Retry interval in ms")))),
			"assert", false),
		{Tool: tool("screenshot", "Capture the session root or a window",
			opts(mcp.WithString("window", mcp.Description("Crop to the window whose title contains this")),
				mcp.WithString("window-rid", mcp.Description("Crop to a window by runtime id")),
				mcp.WithString("format", mcp.Description("png or jpg (default png)")),
				mcp.WithNumber("quality", mcp.Description("JPEG quality 1-100 (default 80)")),
				mcp.WithNumber("scale", mcp.Description("Scale factor 0.1-1.0 (default 0.5)")))),
			Handler: s.handleScreenshot},
		{Tool: tool("do", "Run several steps in order against the shared session. Each step is an object with one action key, e.g. {\"click\": {\"text\": \"OK\"}} or {\"key\": \"ctrl+s\"}.",
			opts(mcp.WithArray("steps", mcp.Description("Step objects"), mcp.Required(), mcp.Items(map[string]interface{}{"type": "object"})),
				mcp.WithString("window", mcp.Description("Default window scope for every step")),
				mcp.WithString("window-rid", mcp.Description("Default window runtime id for every step")),
				mcp.WithBoolean("stop-on-error", mcp.Description("Stop at the first failing step (default true)")))),
			Handler: s.handleDo},
	}
}
