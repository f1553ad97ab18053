package model

import (
	"reflect"
	"testing"
)

func TestMapRole_KnownRoles(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Button", "btn"},
		{"Text", "txt"},
		{"Hyperlink", "lnk"},
		{"Edit", "input"},
		{"Document", "input"},
		{"CheckBox", "chk"},
		{"RadioButton", "radio"},
		{"ComboBox", "combo"},
		{"MenuItem", "menuitem"},
		{"List", "list"},
		{"ListItem", "item"},
		{"Pane", "group"},
		{"ToolBar", "toolbar"},
		{"Window", "window"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := MapRole(tt.input); got != tt.want {
				t.Errorf("MapRole(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestMapRole_UnknownFallback(t *testing.T) {
	for _, role := range []string{"Thumb", "Separator", "SemanticZoom", "Unknown", ""} {
		if got := MapRole(role); got != "other" {
			t.Errorf("MapRole(%q) = %q, want %q", role, got, "other")
		}
	}
}

func TestExpandRoles(t *testing.T) {
	got := ExpandRoles([]string{"btn", "text", "window"})
	want := []string{"btn", "txt", "input", "window"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExpandRoles = %v, want %v", got, want)
	}
}
