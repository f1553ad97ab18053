package locate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mj1618/novawin-cli/internal/model"
	"github.com/mj1618/novawin-cli/internal/platform"
)

// Condition is a predicate over a tree read, used by wait and assert.
type Condition struct {
	Text      string
	Role      string
	ID        int
	RuntimeID string
	Gone      bool // Met when nothing matches
}

// IsZero reports whether c has no criteria.
func (c Condition) IsZero() bool {
	return c.Text == "" && c.Role == "" && c.ID == 0 && c.RuntimeID == ""
}

// Find returns the first element satisfying every criterion, ignoring Gone.
func (c Condition) Find(elements []model.Element) *model.Element {
	var found *model.Element
	c.walk(elements, func(el *model.Element) bool {
		found = el
		return false
	})
	return found
}

// FindAll returns every element satisfying the criteria, in tree order.
func (c Condition) FindAll(elements []model.Element) []*model.Element {
	var found []*model.Element
	c.walk(elements, func(el *model.Element) bool {
		found = append(found, el)
		return true
	})
	return found
}

func (c Condition) walk(elements []model.Element, fn func(*model.Element) bool) {
	textLower := strings.ToLower(c.Text)
	roles := map[string]bool{}
	for _, r := range ParseRoles(c.Role) {
		roles[r] = true
	}
	model.Walk(elements, func(el *model.Element) bool {
		if c.ID > 0 && el.ID != c.ID {
			return true
		}
		if c.RuntimeID != "" && el.RuntimeID != c.RuntimeID {
			return true
		}
		if len(roles) > 0 && !roles[el.Role] {
			return true
		}
		if c.Text != "" && !TextMatches(*el, textLower, false) {
			return true
		}
		return fn(el)
	})
}

// Met reports whether the condition holds for elements.
func (c Condition) Met(elements []model.Element) bool {
	return (c.Find(elements) != nil) != c.Gone
}

func (c Condition) String() string {
	var parts []string
	if c.Text != "" {
		parts = append(parts, fmt.Sprintf("text=%q", c.Text))
	}
	if c.Role != "" {
		parts = append(parts, "role="+c.Role)
	}
	if c.ID > 0 {
		parts = append(parts, fmt.Sprintf("id=%d", c.ID))
	}
	if c.RuntimeID != "" {
		parts = append(parts, "rid="+c.RuntimeID)
	}
	desc := strings.Join(parts, " ")
	if c.Gone {
		desc += " gone"
	}
	return desc
}

// Poll reads the tree every interval until c is met or ctx ends. Read
// errors are retried; the last one is reported on timeout.
func Poll(ctx context.Context, r platform.Reader, opts platform.ReadOptions, c Condition, interval time.Duration) (*model.Element, error) {
	if c.IsZero() {
		return nil, fmt.Errorf("specify at least one condition: text, role, id or runtime id")
	}
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastErr error
	for {
		elements, err := r.ReadElements(ctx, opts)
		if err == nil {
			el := c.Find(elements)
			if (el != nil) != c.Gone {
				return el, nil
			}
		}
		lastErr = err

		select {
		case <-ctx.Done():
			if lastErr != nil {
				return nil, fmt.Errorf("timed out waiting for %s (last error: %w)", c, lastErr)
			}
			return nil, fmt.Errorf("timed out waiting for %s", c)
		case <-ticker.C:
		}
	}
}
