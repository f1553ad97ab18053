package model

import (
	"fmt"
	"strconv"
	"time"
)

// ChangeType represents the kind of UI change detected.
type ChangeType string

const (
	ChangeAdded   ChangeType = "added"
	ChangeRemoved ChangeType = "removed"
	ChangeChanged ChangeType = "changed"
)

// UIChange represents a single change between two reads.
type UIChange struct {
	Type      ChangeType           `yaml:"type"              json:"type"`
	TS        int64                `yaml:"ts"                json:"ts"`
	Element   *FlatElement         `yaml:"el,omitempty"      json:"el,omitempty"`      // For added: the full element
	Path      string               `yaml:"p,omitempty"       json:"p,omitempty"`       // For added: path in tree
	ID        int                  `yaml:"id,omitempty"      json:"id,omitempty"`      // For removed/changed: element ID in the read it came from
	RuntimeID string               `yaml:"rid,omitempty"     json:"rid,omitempty"`     // For removed/changed
	Role      string               `yaml:"r,omitempty"       json:"r,omitempty"`       // For removed: role
	Title     string               `yaml:"t,omitempty"       json:"t,omitempty"`       // For removed: title
	Changes   map[string][2]string `yaml:"changes,omitempty" json:"changes,omitempty"` // For changed: field diffs
}

// identity is the key elements are matched on across reads. Sequential ids
// shift whenever a node appears earlier in the tree, so the RuntimeId is
// used when the driver reports one.
func identity(el FlatElement) string {
	if el.RuntimeID != "" {
		return el.RuntimeID
	}
	return "#" + strconv.Itoa(el.ID)
}

// DiffElements compares two flat element lists and returns the changes.
func DiffElements(prev, curr []FlatElement) []UIChange {
	prevMap := make(map[string]FlatElement, len(prev))
	for _, el := range prev {
		prevMap[identity(el)] = el
	}
	currMap := make(map[string]FlatElement, len(curr))
	for _, el := range curr {
		currMap[identity(el)] = el
	}

	var changes []UIChange
	now := time.Now().Unix()

	for _, el := range curr {
		prevEl, existed := prevMap[identity(el)]
		if !existed {
			elCopy := el
			changes = append(changes, UIChange{
				Type:    ChangeAdded,
				TS:      now,
				Element: &elCopy,
				Path:    el.Path,
			})
			continue
		}
		if diffs := diffProperties(prevEl, el); len(diffs) > 0 {
			changes = append(changes, UIChange{
				Type:      ChangeChanged,
				TS:        now,
				ID:        el.ID,
				RuntimeID: el.RuntimeID,
				Changes:   diffs,
			})
		}
	}

	for _, el := range prev {
		if _, exists := currMap[identity(el)]; !exists {
			changes = append(changes, UIChange{
				Type:      ChangeRemoved,
				TS:        now,
				ID:        el.ID,
				RuntimeID: el.RuntimeID,
				Role:      el.Role,
				Title:     el.Title,
			})
		}
	}

	return changes
}

// diffProperties compares two elements and returns changed fields.
func diffProperties(prev, curr FlatElement) map[string][2]string {
	diffs := make(map[string][2]string)

	if prev.Title != curr.Title {
		diffs["t"] = [2]string{prev.Title, curr.Title}
	}
	if prev.Role != curr.Role {
		diffs["r"] = [2]string{prev.Role, curr.Role}
	}
	if prev.Description != curr.Description {
		diffs["d"] = [2]string{prev.Description, curr.Description}
	}
	if prev.Bounds != curr.Bounds {
		diffs["b"] = [2]string{fmt.Sprint(prev.Bounds), fmt.Sprint(curr.Bounds)}
	}
	if prev.Focused != curr.Focused {
		diffs["f"] = [2]string{strconv.FormatBool(prev.Focused), strconv.FormatBool(curr.Focused)}
	}
	if pe, ce := enabled(prev.Enabled), enabled(curr.Enabled); pe != ce {
		diffs["e"] = [2]string{strconv.FormatBool(pe), strconv.FormatBool(ce)}
	}
	if prev.Offscreen != curr.Offscreen {
		diffs["off"] = [2]string{strconv.FormatBool(prev.Offscreen), strconv.FormatBool(curr.Offscreen)}
	}

	if len(diffs) == 0 {
		return nil
	}
	return diffs
}

func enabled(e *bool) bool { return e == nil || *e }
