package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// ParseSource parses driver page source XML into an element tree. Ids are
// assigned depth-first starting at 1. maxDepth limits how deep the tree is
// kept (0 keeps everything); deeper nodes do not consume ids.
func ParseSource(src string, maxDepth int) ([]Element, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(src); err != nil {
		return nil, fmt.Errorf("page source: %w", err)
	}
	nextID := 0

	var convert func(node *etree.Element, depth int) Element
	convert = func(node *etree.Element, depth int) Element {
		nextID++
		el := elementFromNode(node)
		el.ID = nextID
		if maxDepth > 0 && depth >= maxDepth {
			return el
		}
		for _, child := range node.ChildElements() {
			el.Children = append(el.Children, convert(child, depth+1))
		}
		return el
	}

	var roots []Element
	for _, node := range doc.ChildElements() {
		roots = append(roots, convert(node, 1))
	}
	if len(roots) == 0 {
		return nil, errors.New("page source: no elements")
	}
	return roots, nil
}

func elementFromNode(node *etree.Element) Element {
	el := Element{ControlType: node.Tag}
	var x, y, w, h int
	for _, attr := range node.Attr {
		// Older driver builds spell some names with a lowercase inner letter
		// (HasKeyboardfocus), so matching is case-insensitive.
		switch strings.ToLower(attr.Key) {
		case "name":
			el.Title = attr.Value
		case "helptext":
			el.Description = attr.Value
		case "automationid":
			el.AutomationID = attr.Value
		case "classname":
			el.ClassName = attr.Value
		case "runtimeid":
			el.RuntimeID = attr.Value
		case "processid":
			el.PID = atoi(attr.Value)
		case "x":
			x = atoi(attr.Value)
		case "y":
			y = atoi(attr.Value)
		case "width":
			w = atoi(attr.Value)
		case "height":
			h = atoi(attr.Value)
		case "haskeyboardfocus":
			el.Focused = isTrue(attr.Value)
		case "isenabled":
			if !isTrue(attr.Value) {
				disabled := false
				el.Enabled = &disabled
			}
		case "isoffscreen":
			el.Offscreen = isTrue(attr.Value)
		}
	}
	el.Bounds = [4]int{x, y, w, h}
	el.Role = MapRole(el.ControlType)
	return el
}

func isTrue(s string) bool { return strings.EqualFold(s, "true") }

// atoi accepts the driver's decimal rectangle values ("12.5") and
// truncates them.
func atoi(s string) int {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int(f)
}
