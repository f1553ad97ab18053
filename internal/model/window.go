package model

// Window is a top-level window under the desktop root.
type Window struct {
	Title     string `yaml:"title"               json:"title"`
	ClassName string `yaml:"class,omitempty"     json:"class,omitempty"`
	PID       int    `yaml:"pid"                 json:"pid"`
	ID        int    `yaml:"id"                  json:"id"`
	RuntimeID string `yaml:"rid"                 json:"rid"`
	Bounds    [4]int `yaml:"bounds"              json:"bounds"`
	Focused   bool   `yaml:"focused,omitempty"   json:"focused,omitempty"`
	Offscreen bool   `yaml:"offscreen,omitempty" json:"offscreen,omitempty"`
}

// Windows returns the Window elements found directly under the roots.
// When the tree is rooted at a single desktop pane its children are used.
func Windows(elements []Element) []Window {
	roots := elements
	if len(roots) == 1 && roots[0].ControlType != "Window" {
		roots = roots[0].Children
	}
	var out []Window
	for _, el := range roots {
		if el.ControlType != "Window" {
			continue
		}
		out = append(out, Window{
			Title:     el.Title,
			ClassName: el.ClassName,
			PID:       el.PID,
			ID:        el.ID,
			RuntimeID: el.RuntimeID,
			Bounds:    el.Bounds,
			Focused:   el.Focused || hasFocusedDescendant(el.Children),
			Offscreen: el.Offscreen,
		})
	}
	return out
}

func hasFocusedDescendant(children []Element) bool {
	return !Walk(children, func(el *Element) bool { return !el.Focused })
}
