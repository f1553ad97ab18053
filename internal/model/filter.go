package model

import "strings"

// FilterElements applies filters to a slice of elements, returning only
// matching elements. It filters by roles and bounding box. Depth filtering
// is done by TrimDepth.
func FilterElements(elements []Element, roles []string, bbox *[4]int) []Element {
	if len(roles) == 0 && bbox == nil {
		return elements
	}

	roleSet := make(map[string]bool, len(roles))
	for _, r := range roles {
		roleSet[r] = true
	}

	var result []Element
	for _, el := range elements {
		// Recursively filter children first
		var filteredChildren []Element
		if len(el.Children) > 0 {
			filteredChildren = FilterElements(el.Children, roles, bbox)
		}

		roleMatch := len(roleSet) == 0 || roleSet[el.Role]
		bboxMatch := bbox == nil || boundsIntersect(el.Bounds, *bbox)

		if roleMatch && bboxMatch {
			// Element matches filters: include it with filtered children
			filtered := el
			filtered.Children = filteredChildren
			result = append(result, filtered)
		} else if len(filteredChildren) > 0 {
			// Element doesn't match, but has matching descendants: include them directly
			result = append(result, filteredChildren...)
		}
	}
	return result
}

// FilterByText filters elements to only those whose name, help text or
// automation id contains the given text (case-insensitive). It recursively
// searches children and returns matching elements with their matching
// children preserved. Parent elements are included if any descendant matches.
func FilterByText(elements []Element, text string) []Element {
	if text == "" {
		return elements
	}
	textLower := strings.ToLower(text)
	var result []Element
	for _, el := range elements {
		matched := textMatchesElement(el, textLower)
		childMatches := FilterByText(el.Children, text)

		if matched || len(childMatches) > 0 {
			filtered := el
			filtered.Children = childMatches
			result = append(result, filtered)
		}
	}
	return result
}

func textMatchesElement(el Element, textLower string) bool {
	return strings.Contains(strings.ToLower(el.Title), textLower) ||
		strings.Contains(strings.ToLower(el.Description), textLower) ||
		strings.Contains(strings.ToLower(el.AutomationID), textLower)
}

// FilterByFocused filters elements to only those that have Focused == true.
// It recursively searches children and returns matching elements with their
// ancestry path preserved (in tree mode) or just the focused element (in flat mode).
func FilterByFocused(elements []Element) []Element {
	var result []Element
	for _, el := range elements {
		childMatches := FilterByFocused(el.Children)

		if el.Focused {
			filtered := el
			filtered.Children = childMatches
			result = append(result, filtered)
		} else if len(childMatches) > 0 {
			filtered := el
			filtered.Children = childMatches
			result = append(result, filtered)
		}
	}
	return result
}

// FilterVisible drops offscreen elements and zero-sized ones together with
// their subtrees.
func FilterVisible(elements []Element) []Element {
	var result []Element
	for _, el := range elements {
		if el.Offscreen || el.Bounds[2] <= 0 || el.Bounds[3] <= 0 {
			continue
		}
		visible := el
		visible.Children = FilterVisible(el.Children)
		result = append(result, visible)
	}
	return result
}

// isEmptyGroup reports an anonymous group/other node: no name, help text
// or automation id.
func isEmptyGroup(role, title, description, automationID string) bool {
	return (role == "group" || role == "other") &&
		title == "" && description == "" && automationID == ""
}

// PruneEmptyGroups removes anonymous group/other nodes from a tree. Children
// of removed nodes are promoted to the parent. Desktop trees are full of
// unnamed Pane containers, so this shrinks output a lot.
func PruneEmptyGroups(elements []Element) []Element {
	var result []Element
	for _, el := range elements {
		// Recursively prune children first
		prunedChildren := PruneEmptyGroups(el.Children)

		if isEmptyGroup(el.Role, el.Title, el.Description, el.AutomationID) {
			// Skip this element, promote its children
			result = append(result, prunedChildren...)
		} else {
			pruned := el
			pruned.Children = prunedChildren
			result = append(result, pruned)
		}
	}
	return result
}

// PruneEmptyGroupsFlat removes anonymous group/other FlatElements. Paths of
// the remaining elements are left as they are.
func PruneEmptyGroupsFlat(elements []FlatElement) []FlatElement {
	var result []FlatElement
	for _, el := range elements {
		if isEmptyGroup(el.Role, el.Title, el.Description, el.AutomationID) {
			continue
		}
		result = append(result, el)
	}
	return result
}

// boundsIntersect checks if two [x, y, width, height] rectangles overlap.
func boundsIntersect(a, b [4]int) bool {
	// a and b are [x, y, width, height]
	ax1, ay1, ax2, ay2 := a[0], a[1], a[0]+a[2], a[1]+a[3]
	bx1, by1, bx2, by2 := b[0], b[1], b[0]+b[2], b[1]+b[3]
	return ax1 < bx2 && ax2 > bx1 && ay1 < by2 && ay2 > by1
}

// TrimDepth drops everything more than depth levels below the given roots.
// Depth 0 keeps the whole tree; depth 1 keeps only the roots.
func TrimDepth(elements []Element, depth int) []Element {
	if depth <= 0 {
		return elements
	}
	result := make([]Element, len(elements))
	for i, el := range elements {
		result[i] = el
		if depth == 1 {
			result[i].Children = nil
		} else {
			result[i].Children = TrimDepth(el.Children, depth-1)
		}
	}
	return result
}
