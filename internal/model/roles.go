package model

// RoleMap maps UIA control types to compact role codes. The driver
// reports DataGrid as List and DataItem as ListItem.
var RoleMap = map[string]string{
	"Button":      "btn",
	"SplitButton": "btn",
	"Text":        "txt",
	"Hyperlink":   "lnk",
	"Image":       "img",
	"Edit":        "input",
	"Document":    "input",
	"CheckBox":    "chk",
	"RadioButton": "radio",
	"ComboBox":    "combo",
	"Menu":        "menu",
	"MenuBar":     "menu",
	"MenuItem":    "menuitem",
	"Tab":         "tab",
	"TabItem":     "tabitem",
	"List":        "list",
	"DataGrid":    "list",
	"Table":       "list",
	"Tree":        "list",
	"ListItem":    "item",
	"DataItem":    "item",
	"TreeItem":    "item",
	"Header":      "header",
	"HeaderItem":  "header",
	"Group":       "group",
	"Pane":        "group",
	"Custom":      "other",
	"ScrollBar":   "scroll",
	"Slider":      "slider",
	"Spinner":     "spin",
	"ProgressBar": "progress",
	"StatusBar":   "status",
	"ToolBar":     "toolbar",
	"ToolTip":     "tip",
	"TitleBar":    "titlebar",
	"Calendar":    "cal",
	"Window":      "window",
}

// MetaRoles maps meta-role names to the concrete roles they expand to.
var MetaRoles = map[string][]string{
	"interactive": {"btn", "input", "chk", "radio", "combo", "menuitem", "tabitem", "item", "lnk", "slider", "spin"},
	"text":        {"txt", "input"},
}

// ExpandRoles expands any meta-roles in the given list to their concrete roles.
// Non-meta roles are passed through unchanged. Duplicates are removed.
func ExpandRoles(roles []string) []string {
	seen := make(map[string]bool, len(roles))
	var expanded []string
	for _, r := range roles {
		if concrete, ok := MetaRoles[r]; ok {
			for _, c := range concrete {
				if !seen[c] {
					seen[c] = true
					expanded = append(expanded, c)
				}
			}
		} else if !seen[r] {
			seen[r] = true
			expanded = append(expanded, r)
		}
	}
	return expanded
}

// MapRole converts a UIA control type to a compact code.
func MapRole(controlType string) string {
	if short, ok := RoleMap[controlType]; ok {
		return short
	}
	return "other"
}
