// Package novawintest provides an in-memory WebDriver for tests.
package novawintest

import (
	"fmt"
	"sync"

	json "github.com/json-iterator/go"
	"github.com/tebeka/selenium"
)

const w3cElementKey = "element-6066-11e4-a52e-4f735466cecf"

// Call records one ExecuteScript invocation. Args are normalised through
// JSON so tests compare wire shapes, not Go types.
type Call struct {
	Script string
	Args   []interface{}
}

// Payload returns the first argument as an object, or nil.
func (c Call) Payload() map[string]interface{} {
	if len(c.Args) == 0 {
		return nil
	}
	m, _ := c.Args[0].(map[string]interface{})
	return m
}

// Driver is a fake selenium.WebDriver. Methods not overridden here panic
// through the nil embedded interface.
type Driver struct {
	selenium.WebDriver

	mu sync.Mutex

	ID      string
	Source  string
	PNG     []byte
	Active  *Element
	QuitErr error

	// Results and Errors are keyed by script.
	Results map[string]interface{}
	Errors  map[string]error
	// ResultFunc, when set, computes results instead of Results.
	ResultFunc func(script string, args []interface{}) (interface{}, error)

	// Elements are keyed by "using=value".
	Elements map[string][]*Element

	Calls     []Call
	Finds     []string
	QuitCalls int
}

// NewDriver returns a Driver with the given session id.
func NewDriver(id string) *Driver {
	return &Driver{
		ID:       id,
		Results:  map[string]interface{}{},
		Errors:   map[string]error{},
		Elements: map[string][]*Element{},
	}
}

// Remote matches novawin.RemoteFunc and returns d.
func (d *Driver) Remote(caps selenium.Capabilities, urlPrefix string) (selenium.WebDriver, error) {
	return d, nil
}

// AddElement registers el as the result of finding using=value.
func (d *Driver) AddElement(using, value string, el *Element) *Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	key := using + "=" + value
	d.Elements[key] = append(d.Elements[key], el)
	return el
}

// Scripts returns the scripts executed so far, in order.
func (d *Driver) Scripts() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.Calls))
	for i, c := range d.Calls {
		out[i] = c.Script
	}
	return out
}

// LastCall returns the most recent ExecuteScript call.
func (d *Driver) LastCall() Call {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.Calls) == 0 {
		return Call{}
	}
	return d.Calls[len(d.Calls)-1]
}

func (d *Driver) SessionID() string { return d.ID }

func (d *Driver) Quit() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.QuitCalls++
	return d.QuitErr
}

func (d *Driver) ExecuteScript(script string, args []interface{}) (interface{}, error) {
	var norm []interface{}
	data, err := json.Marshal(args)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &norm); err != nil {
		return nil, err
	}

	d.mu.Lock()
	d.Calls = append(d.Calls, Call{Script: script, Args: norm})
	fn := d.ResultFunc
	res, resErr := d.Results[script], d.Errors[script]
	d.mu.Unlock()

	if fn != nil {
		return fn(script, norm)
	}
	return res, resErr
}

// NoSuchElement builds the error the client library returns for a failed lookup.
func NoSuchElement(what string) error {
	return &selenium.Error{Err: "no such element", Message: what, HTTPCode: 404}
}

func (d *Driver) FindElement(by, value string) (selenium.WebElement, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	key := by + "=" + value
	d.Finds = append(d.Finds, key)
	els := d.Elements[key]
	if len(els) == 0 {
		return nil, NoSuchElement(key)
	}
	return els[0], nil
}

func (d *Driver) FindElements(by, value string) ([]selenium.WebElement, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	key := by + "=" + value
	d.Finds = append(d.Finds, key)
	out := make([]selenium.WebElement, 0, len(d.Elements[key]))
	for _, el := range d.Elements[key] {
		out = append(out, el)
	}
	return out, nil
}

func (d *Driver) PageSource() (string, error) { return d.Source, nil }

func (d *Driver) Screenshot() ([]byte, error) {
	if d.PNG == nil {
		return nil, fmt.Errorf("no screenshot configured")
	}
	return d.PNG, nil
}

func (d *Driver) ActiveElement() (selenium.WebElement, error) {
	if d.Active == nil {
		return nil, NoSuchElement("active element")
	}
	return d.Active, nil
}

// Element is a fake selenium.WebElement.
type Element struct {
	selenium.WebElement

	mu sync.Mutex

	ID       string
	Tag      string
	Label    string
	Attrs    map[string]string
	Pos      selenium.Point
	Dims     selenium.Size
	SendErr  error
	Children map[string][]*Element

	Sent    []string
	Clicks  int
	Cleared int
}

// NewElement returns an Element with the given driver id.
func NewElement(id string) *Element {
	return &Element{ID: id, Attrs: map[string]string{}, Children: map[string][]*Element{}}
}

// Keys returns everything sent with SendKeys.
func (e *Element) Keys() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.Sent...)
}

func (e *Element) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{"ELEMENT": e.ID, w3cElementKey: e.ID})
}

func (e *Element) Click() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Clicks++
	return nil
}

func (e *Element) Clear() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Cleared++
	return nil
}

func (e *Element) SendKeys(keys string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.SendErr != nil {
		return e.SendErr
	}
	e.Sent = append(e.Sent, keys)
	return nil
}

func (e *Element) Text() (string, error) { return e.Label, nil }

func (e *Element) TagName() (string, error) { return e.Tag, nil }

func (e *Element) GetAttribute(name string) (string, error) {
	v, ok := e.Attrs[name]
	if !ok {
		return "", &selenium.Error{Err: "no such attribute", Message: name}
	}
	return v, nil
}

func (e *Element) Location() (*selenium.Point, error) {
	p := e.Pos
	return &p, nil
}

func (e *Element) Size() (*selenium.Size, error) {
	s := e.Dims
	return &s, nil
}

func (e *Element) FindElement(by, value string) (selenium.WebElement, error) {
	els := e.Children[by+"="+value]
	if len(els) == 0 {
		return nil, NoSuchElement(by + "=" + value)
	}
	return els[0], nil
}

func (e *Element) FindElements(by, value string) ([]selenium.WebElement, error) {
	var out []selenium.WebElement
	for _, el := range e.Children[by+"="+value] {
		out = append(out, el)
	}
	return out, nil
}
