package model

// Element is one node of the UI Automation tree as read from page source.
type Element struct {
	ID           int       `yaml:"i"             json:"i"`             // Sequential id, depth-first from 1
	Role         string    `yaml:"r"             json:"r"`             // Abbreviated role code
	ControlType  string    `yaml:"ct,omitempty"  json:"ct,omitempty"`  // UIA control type (the XML tag)
	Title        string    `yaml:"t,omitempty"   json:"t,omitempty"`   // Name property
	Description  string    `yaml:"d,omitempty"   json:"d,omitempty"`   // HelpText property
	AutomationID string    `yaml:"aid,omitempty" json:"aid,omitempty"` // AutomationId
	ClassName    string    `yaml:"cls,omitempty" json:"cls,omitempty"`
	RuntimeID    string    `yaml:"rid,omitempty" json:"rid,omitempty"` // Driver element id
	PID          int       `yaml:"pid,omitempty" json:"pid,omitempty"`
	Bounds       [4]int    `yaml:"b"             json:"b"` // [x, y, width, height]
	Focused      bool      `yaml:"f,omitempty"   json:"f,omitempty"`
	Enabled      *bool     `yaml:"e,omitempty"   json:"e,omitempty"` // nil = enabled; false is the only value written
	Offscreen    bool      `yaml:"off,omitempty" json:"off,omitempty"`
	Children     []Element `yaml:"c,omitempty"   json:"c,omitempty"`
}

// Walk calls fn for every element in depth-first order until fn returns false.
func Walk(elements []Element, fn func(*Element) bool) bool {
	for i := range elements {
		if !fn(&elements[i]) {
			return false
		}
		if !Walk(elements[i].Children, fn) {
			return false
		}
	}
	return true
}

// FindByID returns the element with the given sequential id, or nil.
func FindByID(elements []Element, id int) *Element {
	var found *Element
	Walk(elements, func(el *Element) bool {
		if el.ID == id {
			found = el
			return false
		}
		return true
	})
	return found
}

// Center returns the midpoint of the element's bounds.
func (e Element) Center() (int, int) {
	return e.Bounds[0] + e.Bounds[2]/2, e.Bounds[1] + e.Bounds[3]/2
}
