package model

// FlatElement is an element with a path breadcrumb instead of children.
type FlatElement struct {
	ID           int    `yaml:"i"             json:"i"`
	Role         string `yaml:"r"             json:"r"`
	ControlType  string `yaml:"ct,omitempty"  json:"ct,omitempty"`
	Title        string `yaml:"t,omitempty"   json:"t,omitempty"`
	Description  string `yaml:"d,omitempty"   json:"d,omitempty"`
	AutomationID string `yaml:"aid,omitempty" json:"aid,omitempty"`
	ClassName    string `yaml:"cls,omitempty" json:"cls,omitempty"`
	RuntimeID    string `yaml:"rid,omitempty" json:"rid,omitempty"`
	PID          int    `yaml:"pid,omitempty" json:"pid,omitempty"`
	Bounds       [4]int `yaml:"b"             json:"b"`
	Focused      bool   `yaml:"f,omitempty"   json:"f,omitempty"`
	Enabled      *bool  `yaml:"e,omitempty"   json:"e,omitempty"`
	Offscreen    bool   `yaml:"off,omitempty" json:"off,omitempty"`
	Path         string `yaml:"p,omitempty"   json:"p,omitempty"`
}

// FlattenElements converts a tree of elements into a flat list.
// Each element gets a path string showing its location in the tree
// using abbreviated role names joined with " > ".
func FlattenElements(elements []Element) []FlatElement {
	var result []FlatElement
	for _, el := range elements {
		flattenRecursive(el, "", &result)
	}
	return result
}

func flattenRecursive(el Element, parentPath string, result *[]FlatElement) {
	currentPath := el.Role
	if parentPath != "" {
		currentPath = parentPath + " > " + el.Role
	}

	*result = append(*result, FlatElement{
		ID:           el.ID,
		Role:         el.Role,
		ControlType:  el.ControlType,
		Title:        el.Title,
		Description:  el.Description,
		AutomationID: el.AutomationID,
		ClassName:    el.ClassName,
		RuntimeID:    el.RuntimeID,
		PID:          el.PID,
		Bounds:       el.Bounds,
		Focused:      el.Focused,
		Enabled:      el.Enabled,
		Offscreen:    el.Offscreen,
		Path:         currentPath,
	})

	for _, child := range el.Children {
		flattenRecursive(child, currentPath, result)
	}
}
