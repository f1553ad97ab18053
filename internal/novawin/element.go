package novawin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	json "github.com/json-iterator/go"
	"github.com/tebeka/selenium"
)

// W3CElementKey is the JSON key carrying an element id on the wire.
const W3CElementKey = "element-6066-11e4-a52e-4f735466cecf"

// Target is anything that names a driver element.
type Target interface {
	ElementID() string
}

// ElementRef names a driver element by id without a lookup. The driver
// uses the dot-joined UIA RuntimeId as the element id, so ids taken from
// page source can be used directly.
type ElementRef string

func (r ElementRef) ElementID() string { return string(r) }

// MarshalJSON encodes the ref as a W3C element reference.
func (r ElementRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(elementArg(r))
}

func elementArg(t Target) map[string]string {
	id := t.ElementID()
	return map[string]string{W3CElementKey: id, "ELEMENT": id}
}

// Locator is a find strategy and selector pair.
type Locator struct {
	Using string
	Value string
}

func (l Locator) String() string { return l.Using + "=" + l.Value }

// ByXPath finds elements by XPath over the page source tree.
func ByXPath(expr string) Locator { return Locator{Using: selenium.ByXPATH, Value: expr} }

// ByAccessibilityID matches the UIA AutomationId.
func ByAccessibilityID(id string) Locator { return Locator{Using: "accessibility id", Value: id} }

// ByClassName matches the UIA ClassName.
func ByClassName(name string) Locator { return Locator{Using: selenium.ByClassName, Value: name} }

// ByTagName matches the UIA control type, e.g. "Button".
func ByTagName(tag string) Locator { return Locator{Using: selenium.ByTagName, Value: tag} }

// ByUIAutomation passes a raw UIA condition string through to the driver.
func ByUIAutomation(condition string) Locator {
	return Locator{Using: "-windows uiautomation", Value: condition}
}

// ByName matches the UIA Name property. The "name" strategy is rewritten
// to a CSS selector by the WebDriver client in W3C mode, so this goes
// through XPath instead.
func ByName(name string) Locator {
	return ByXPath("//*[@Name=" + xpathLiteral(name) + "]")
}

// ByRuntimeID finds the element whose dot-joined RuntimeId is rid. The
// driver's own "id" strategy is rewritten to CSS by the client, as with name.
func ByRuntimeID(rid string) Locator {
	return ByXPath("//*[@RuntimeId=" + xpathLiteral(rid) + "]")
}

// xpathLiteral quotes s as an XPath 1.0 string literal.
func xpathLiteral(s string) string {
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	parts := strings.Split(s, `"`)
	quoted := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			quoted = append(quoted, `'"'`)
		}
		if p != "" {
			quoted = append(quoted, `"`+p+`"`)
		}
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}

// ParseLocator reads "strategy=value" selectors used on the command line.
// Recognised prefixes: xpath, id (AutomationId), name, class, tag, uia, rid.
// A bare value starting with "/" or "(" is XPath; anything else is a Name.
func ParseLocator(s string) (Locator, error) {
	if s == "" {
		return Locator{}, invalid("locator", "empty selector")
	}
	if prefix, value, ok := strings.Cut(s, "="); ok && value != "" {
		switch strings.ToLower(prefix) {
		case "xpath":
			return ByXPath(value), nil
		case "id", "accessibility-id", "automationid":
			return ByAccessibilityID(value), nil
		case "name":
			return ByName(value), nil
		case "class":
			return ByClassName(value), nil
		case "tag":
			return ByTagName(value), nil
		case "uia":
			return ByUIAutomation(value), nil
		case "rid", "runtimeid":
			return ByRuntimeID(value), nil
		}
	}
	if strings.HasPrefix(s, "/") || strings.HasPrefix(s, "(") {
		return ByXPath(s), nil
	}
	return ByName(s), nil
}

// Element is a driver element obtained by a lookup.
type Element struct {
	s  *Session
	we selenium.WebElement
	id string
}

// ElementID returns the driver element id (the UIA RuntimeId).
func (e *Element) ElementID() string { return e.id }

// WebElement exposes the underlying client element.
func (e *Element) WebElement() selenium.WebElement { return e.we }

// MarshalJSON encodes the element as a W3C element reference.
func (e *Element) MarshalJSON() ([]byte, error) {
	return json.Marshal(elementArg(e))
}

func (s *Session) wrap(we selenium.WebElement) (*Element, error) {
	id, err := webElementID(we)
	if err != nil {
		return nil, err
	}
	return &Element{s: s, we: we, id: id}, nil
}

// webElementID reads the id out of the client's JSON form of the element.
func webElementID(we selenium.WebElement) (string, error) {
	data, err := json.Marshal(we)
	if err != nil {
		return "", fmt.Errorf("element id: %w", err)
	}
	var ref map[string]string
	if err := json.Unmarshal(data, &ref); err != nil {
		return "", fmt.Errorf("element id: %w", err)
	}
	if id := ref[W3CElementKey]; id != "" {
		return id, nil
	}
	if id := ref["ELEMENT"]; id != "" {
		return id, nil
	}
	return "", fmt.Errorf("element id: no id in %s", data)
}

// Find returns the first element matching loc.
func (s *Session) Find(ctx context.Context, loc Locator) (*Element, error) {
	var we selenium.WebElement
	err := s.do(ctx, "find "+loc.String(), func() error {
		var err error
		we, err = s.wd.FindElement(loc.Using, loc.Value)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.wrap(we)
}

// FindAll returns every element matching loc. No match is not an error.
func (s *Session) FindAll(ctx context.Context, loc Locator) ([]*Element, error) {
	var wes []selenium.WebElement
	err := s.do(ctx, "find all "+loc.String(), func() error {
		var err error
		wes, err = s.wd.FindElements(loc.Using, loc.Value)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.wrapAll(wes)
}

func (s *Session) wrapAll(wes []selenium.WebElement) ([]*Element, error) {
	out := make([]*Element, 0, len(wes))
	for _, we := range wes {
		el, err := s.wrap(we)
		if err != nil {
			return nil, err
		}
		out = append(out, el)
	}
	return out, nil
}

// WaitFor polls Find every interval until it succeeds or ctx ends.
// Errors other than no-such-element stop the wait immediately.
func (s *Session) WaitFor(ctx context.Context, loc Locator, interval time.Duration) (*Element, error) {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		el, err := s.Find(ctx, loc)
		if err == nil {
			return el, nil
		}
		if !isNoSuchElement(err) {
			return nil, err
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for %s: %w", loc, ctx.Err())
		case <-ticker.C:
		}
	}
}

func isNoSuchElement(err error) bool {
	return errors.Is(err, ErrNoSuchElement)
}

// Find returns the first descendant of e matching loc. Absolute XPath is
// made relative to e by the driver.
func (e *Element) Find(ctx context.Context, loc Locator) (*Element, error) {
	var we selenium.WebElement
	err := e.s.do(ctx, "find from element "+loc.String(), func() error {
		var err error
		we, err = e.we.FindElement(loc.Using, loc.Value)
		return err
	})
	if err != nil {
		return nil, err
	}
	return e.s.wrap(we)
}

// FindAll returns every descendant of e matching loc.
func (e *Element) FindAll(ctx context.Context, loc Locator) ([]*Element, error) {
	var wes []selenium.WebElement
	err := e.s.do(ctx, "find all from element "+loc.String(), func() error {
		var err error
		wes, err = e.we.FindElements(loc.Using, loc.Value)
		return err
	})
	if err != nil {
		return nil, err
	}
	return e.s.wrapAll(wes)
}

// Click performs a standard WebDriver click at the element centre.
func (e *Element) Click(ctx context.Context) error {
	return e.s.do(ctx, "click", e.we.Click)
}

// Clear empties the element's value.
func (e *Element) Clear(ctx context.Context) error {
	return e.s.do(ctx, "clear", e.we.Clear)
}

// SendKeys types text into the element as-is, honouring any [delay:N] prefix.
func (e *Element) SendKeys(ctx context.Context, text string) error {
	return e.s.do(ctx, "send keys", func() error { return e.we.SendKeys(text) })
}

// Text returns the element's text.
func (e *Element) Text(ctx context.Context) (string, error) {
	var text string
	err := e.s.do(ctx, "text", func() error {
		var err error
		text, err = e.we.Text()
		return err
	})
	return text, err
}

// Attribute returns a UIA property by name, e.g. "Name" or "IsEnabled".
func (e *Element) Attribute(ctx context.Context, name string) (string, error) {
	var v string
	err := e.s.do(ctx, "attribute "+name, func() error {
		var err error
		v, err = e.we.GetAttribute(name)
		return err
	})
	return v, err
}

// TagName returns the element's control type.
func (e *Element) TagName(ctx context.Context) (string, error) {
	var v string
	err := e.s.do(ctx, "tag name", func() error {
		var err error
		v, err = e.we.TagName()
		return err
	})
	return v, err
}

// Rect is an element's screen rectangle.
type Rect struct {
	X      int `yaml:"x" json:"x"`
	Y      int `yaml:"y" json:"y"`
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// Center returns the midpoint of r.
func (r Rect) Center() (int, int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Rect returns the element's location and size.
func (e *Element) Rect(ctx context.Context) (Rect, error) {
	var r Rect
	err := e.s.do(ctx, "rect", func() error {
		loc, err := e.we.Location()
		if err != nil {
			return err
		}
		size, err := e.we.Size()
		if err != nil {
			return err
		}
		r = Rect{X: loc.X, Y: loc.Y, Width: size.Width, Height: size.Height}
		return nil
	})
	return r, err
}
