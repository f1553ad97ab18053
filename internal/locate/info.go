package locate

import "github.com/mj1618/novawin-cli/internal/model"

// ElementInfo is the compact element summary reported by input commands.
type ElementInfo struct {
	ID           int    `yaml:"i,omitempty"   json:"i,omitempty"`
	Role         string `yaml:"r,omitempty"   json:"r,omitempty"`
	Title        string `yaml:"t,omitempty"   json:"t,omitempty"`
	AutomationID string `yaml:"aid,omitempty" json:"aid,omitempty"`
	RuntimeID    string `yaml:"rid,omitempty" json:"rid,omitempty"`
	Bounds       [4]int `yaml:"b"             json:"b"`
}

// Info summarises el; nil stays nil.
func Info(el *model.Element) *ElementInfo {
	if el == nil {
		return nil
	}
	return &ElementInfo{
		ID:           el.ID,
		Role:         el.Role,
		Title:        el.Title,
		AutomationID: el.AutomationID,
		RuntimeID:    el.RuntimeID,
		Bounds:       el.Bounds,
	}
}
