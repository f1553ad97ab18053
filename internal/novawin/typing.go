package novawin

import (
	"context"
	"regexp"
	"strconv"
)

var delayDirectiveRe = regexp.MustCompile(`^\[delay:(\d+)\]`)

// ParseDelay splits a leading [delay:NNN] directive from text.
func ParseDelay(text string) (delayMs int, rest string, ok bool) {
	m := delayDirectiveRe.FindStringSubmatch(text)
	if m == nil {
		return 0, text, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, text, false
	}
	return n, text[len(m[0]):], true
}

// WithDelay prefixes text with a [delay:NNN] directive, replacing any
// directive already present.
func WithDelay(text string, delayMs int) string {
	if _, rest, ok := ParseDelay(text); ok {
		text = rest
	}
	return "[delay:" + strconv.Itoa(delayMs) + "]" + text
}

// Type sends text to el. A nil delay types with the session delay. A
// non-nil delay applies to this call only and is sent as a [delay:NNN]
// directive, which the driver honours whatever the session delay is.
func (s *Session) Type(ctx context.Context, el *Element, text string, delayMs *int) error {
	if el == nil {
		return invalid("element", "type requires an element")
	}
	if delayMs == nil {
		return el.SendKeys(ctx, text)
	}
	if *delayMs < 0 {
		return invalid("delay", "must be >= 0, got %d", *delayMs)
	}
	return el.SendKeys(ctx, WithDelay(text, *delayMs))
}
