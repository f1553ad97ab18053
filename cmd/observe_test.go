package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mj1618/novawin-cli/internal/model"
	"github.com/mj1618/novawin-cli/internal/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedReader returns one tree per read, repeating the last.
type scriptedReader struct {
	platform.Reader
	mu    sync.Mutex
	trees [][]model.Element
	errs  []error
	reads int
}

func (r *scriptedReader) ReadElements(context.Context, platform.ReadOptions) ([]model.Element, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.reads
	r.reads++
	if i < len(r.errs) && r.errs[i] != nil {
		return nil, r.errs[i]
	}
	if i >= len(r.trees) {
		i = len(r.trees) - 1
	}
	return r.trees[i], nil
}

func events(t *testing.T, out string) []map[string]interface{} {
	t.Helper()
	var evs []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		var ev map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &ev), line)
		evs = append(evs, ev)
	}
	return evs
}

func TestObserve_StreamsChanges(t *testing.T) {
	ok := model.Element{ID: 2, Role: "btn", Title: "OK", RuntimeID: "42.2", Bounds: [4]int{10, 10, 50, 20}}
	moved := ok
	moved.Bounds = [4]int{20, 10, 50, 20}
	win := func(children ...model.Element) []model.Element {
		return []model.Element{{ID: 1, Role: "window", Title: "Dialog", RuntimeID: "42.1", Children: children}}
	}
	r := &scriptedReader{trees: [][]model.Element{win(), win(ok), win(moved), win()}}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	var buf bytes.Buffer
	require.NoError(t, observe(ctx, r, observeOptions{Interval: 10 * time.Millisecond}, &buf))

	evs := events(t, buf.String())
	require.GreaterOrEqual(t, len(evs), 5)
	assert.Equal(t, "snapshot", evs[0]["type"])
	assert.Equal(t, float64(1), evs[0]["count"])
	assert.Equal(t, "added", evs[1]["type"])
	assert.Equal(t, "changed", evs[2]["type"])
	assert.Equal(t, "removed", evs[3]["type"])
	assert.Equal(t, "42.2", evs[3]["rid"])
	last := evs[len(evs)-1]
	assert.Equal(t, "done", last["type"])
	assert.Equal(t, float64(3), last["events"])
}

func TestObserve_IgnoreBounds(t *testing.T) {
	a := []model.Element{{ID: 1, Role: "btn", Title: "OK", RuntimeID: "42.2", Bounds: [4]int{10, 10, 50, 20}}}
	b := []model.Element{{ID: 1, Role: "btn", Title: "OK", RuntimeID: "42.2", Bounds: [4]int{99, 10, 50, 20}}}
	r := &scriptedReader{trees: [][]model.Element{a, b}}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	var buf bytes.Buffer
	require.NoError(t, observe(ctx, r, observeOptions{Interval: 10 * time.Millisecond, IgnoreBounds: true}, &buf))

	evs := events(t, buf.String())
	require.Len(t, evs, 2)
	assert.Equal(t, "done", evs[1]["type"])
	assert.Equal(t, float64(0), evs[1]["events"])
}

func TestObserve_ReadErrors(t *testing.T) {
	tree := []model.Element{{ID: 1, Role: "window", RuntimeID: "42.1"}}
	r := &scriptedReader{trees: [][]model.Element{tree}, errs: []error{nil, errors.New("driver busy")}}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	var buf bytes.Buffer
	require.NoError(t, observe(ctx, r, observeOptions{Interval: 10 * time.Millisecond}, &buf))
	assert.Contains(t, buf.String(), `"error":"driver busy"`)

	r = &scriptedReader{trees: [][]model.Element{tree}, errs: []error{errors.New("no session")}}
	err := observe(context.Background(), r, observeOptions{Interval: time.Millisecond}, &buf)
	assert.ErrorContains(t, err, "initial read failed")
}
