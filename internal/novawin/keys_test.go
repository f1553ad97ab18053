package novawin

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVirtualKeyCode(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"LWIN", 0x5B},
		{"lwin", 0x5B},
		{"LEFT", 0x25},
		{"ctrl", 0x11},
		{"Esc", 0x1B},
		{"a", 'A'},
		{"7", '7'},
		{"F1", 0x70},
		{"f12", 0x7B},
		{"F24", 0x87},
		{"0x5B", 0x5B},
		{"91", 91},
	}
	for _, tt := range tests {
		got, err := VirtualKeyCode(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"", "F25", "0x1FF", "NOPE"} {
		_, err := VirtualKeyCode(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseCombo(t *testing.T) {
	actions, err := ParseCombo("ctrl+shift+esc")
	require.NoError(t, err)

	var got []string
	for _, a := range actions {
		got = append(got, a.String())
	}
	assert.Equal(t, []string{
		"down:0x11", "down:0x10", "down:0x1B",
		"up:0x1B", "up:0x10", "up:0x11",
	}, got)
}

func TestParseKeyAction(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"down:LWIN", []string{"down:0x5B"}},
		{"up:LEFT", []string{"up:0x25"}},
		{"LEFT", []string{"0x25"}},
		{"pause:200", []string{"pause:200"}},
		{"text:hello world", []string{"text:hello world"}},
		{"win+d", []string{"down:0x5B", "down:0x44", "up:0x44", "up:0x5B"}},
	}
	for _, tt := range tests {
		actions, err := ParseKeyAction(tt.in)
		require.NoError(t, err, tt.in)
		var got []string
		for _, a := range actions {
			got = append(got, a.String())
		}
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"pause:0", "pause:x", "text:", "down:WHAT"} {
		_, err := ParseKeyAction(bad)
		assert.Error(t, err, bad)
	}
}

func TestKeys_Payload(t *testing.T) {
	s, fake := openFake(t)

	// Win+Left snaps the focused window to the left half of the screen.
	err := s.Keys(ctx, KeysArgs{Actions: []KeyAction{
		KeyDown(0x5B),
		KeyPress(0x25),
		KeyUp(0x5B),
		Pause(300 * time.Millisecond),
		TypeText("ok"),
	}})
	require.NoError(t, err)

	call := fake.LastCall()
	assert.Equal(t, "windows: keys", call.Script)
	assert.Equal(t, map[string]interface{}{
		"forceUnicode": false,
		"actions": []interface{}{
			map[string]interface{}{"virtualKeyCode": float64(0x5B), "down": true},
			map[string]interface{}{"virtualKeyCode": float64(0x25)},
			map[string]interface{}{"virtualKeyCode": float64(0x5B), "down": false},
			map[string]interface{}{"pause": float64(300)},
			map[string]interface{}{"text": "ok"},
		},
	}, call.Payload())
}

func TestKeys_Validation(t *testing.T) {
	s, fake := openFake(t)
	down := true

	tests := []struct {
		name    string
		actions []KeyAction
	}{
		{"empty", nil},
		{"nothing set", []KeyAction{{}}},
		{"two set", []KeyAction{{Text: "a", VirtualKeyCode: 0x41}}},
		{"negative pause", []KeyAction{{Pause: -time.Millisecond}}},
		{"sub-millisecond pause", []KeyAction{Pause(500 * time.Microsecond)}},
		{"code out of range", []KeyAction{{VirtualKeyCode: 300}}},
		{"down with pause", []KeyAction{{Pause: time.Millisecond, Down: &down}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Keys(ctx, KeysArgs{Actions: tt.actions})
			var ve *ValidationError
			assert.ErrorAs(t, err, &ve)
		})
	}
	assert.Empty(t, fake.Calls)
}

func TestKeys_OneMillisecondPause(t *testing.T) {
	s, fake := openFake(t)
	require.NoError(t, s.Keys(ctx, KeysArgs{Actions: []KeyAction{Pause(time.Millisecond)}}))
	assert.Equal(t, []interface{}{map[string]interface{}{"pause": float64(1)}}, fake.LastCall().Payload()["actions"])
}
