package stress

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mj1618/novawin-cli/internal/novawin"
	"github.com/mj1618/novawin-cli/internal/novawin/novawintest"
	"github.com/mj1618/novawin-cli/internal/platform"
	"github.com/mj1618/novawin-cli/internal/platform/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const source = `<?xml version="1.0" encoding="utf-8"?>
<Pane Name="Desktop 1" RuntimeId="42.1" x="0" y="0" width="200" height="100">
  <Window Name="Calculator" ProcessId="7" RuntimeId="42.2" x="0" y="0" width="200" height="100"/>
</Pane>`

// fleet hands out fake-driver sessions and remembers them.
type fleet struct {
	mu      sync.Mutex
	drivers []*novawintest.Driver
	failAt  int // 1-based open that fails; 0 = none
}

func (f *fleet) open(context.Context) (*platform.Provider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := len(f.drivers) + 1
	d := novawintest.NewDriver(fmt.Sprintf("sess-%d", n))
	d.Source = source
	f.drivers = append(f.drivers, d)
	if n == f.failAt {
		return nil, errors.New("session not created")
	}
	return remote.NewSessionProvider(novawin.NewSession(d, nil), nil), nil
}

func stat(t *testing.T, r Report, name string) OpStats {
	t.Helper()
	for _, op := range r.Ops {
		if op.Name == name {
			return op
		}
	}
	t.Fatalf("no stats for %s", name)
	return OpStats{}
}

func TestRun(t *testing.T) {
	f := &fleet{}
	report, err := Run(context.Background(), Config{
		Sessions:    3,
		Iterations:  2,
		Concurrency: 2,
		Ops:         DefaultOps(),
	}, f.open, nil)
	require.NoError(t, err)

	_, err = uuid.Parse(report.RunID)
	assert.NoError(t, err, "run id is a uuid")
	assert.Equal(t, 3, report.Sessions)
	assert.Equal(t, 0, report.Failures())
	assert.Equal(t, 3, stat(t, report, "open-session").Count)
	assert.Equal(t, 6, stat(t, report, "page-source").Count)
	assert.Equal(t, 6, stat(t, report, "find-buttons").Count)
	assert.Equal(t, 3, stat(t, report, "close-session").Count)

	require.Len(t, f.drivers, 3)
	for _, d := range f.drivers {
		assert.Equal(t, 1, d.QuitCalls, "every session is deleted")
		assert.Contains(t, d.Finds, "xpath=//Button")
	}
}

func TestRun_CountsFailures(t *testing.T) {
	f := &fleet{failAt: 2}
	boom := Op{Name: "boom", Run: func(context.Context, *platform.Provider) error { return errors.New("boom") }}

	report, err := Run(context.Background(), Config{Sessions: 2, Iterations: 3, Ops: []Op{boom}}, f.open, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, stat(t, report, "open-session").Failures)
	assert.Equal(t, 3, stat(t, report, "boom").Failures, "only the opened session runs ops")
	assert.Equal(t, 4, report.Failures())
	assert.Contains(t, report.Errors, "boom: boom")
}

func TestRun_RateLimited(t *testing.T) {
	f := &fleet{}
	noop := Op{Name: "noop", Run: func(context.Context, *platform.Provider) error { return nil }}

	start := time.Now()
	_, err := Run(context.Background(), Config{Sessions: 1, Iterations: 4, Rate: 20, Ops: []Op{noop}}, f.open, nil)
	require.NoError(t, err)
	// Burst of one: the first op runs at once, the next three wait 50ms each.
	assert.GreaterOrEqual(t, time.Since(start), 140*time.Millisecond)
}

func TestRun_Cancelled(t *testing.T) {
	f := &fleet{}
	ctx, cancel := context.WithCancel(context.Background())
	op := Op{Name: "cancel", Run: func(context.Context, *platform.Provider) error {
		cancel()
		return nil
	}}
	_, err := Run(ctx, Config{Sessions: 1, Iterations: 10, Rate: 1000, Ops: []Op{op}}, f.open, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, f.drivers[0].QuitCalls)
}

func TestRun_Logs(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	f := &fleet{failAt: 1}
	_, err := Run(context.Background(), Config{Sessions: 1, Iterations: 1, Ops: DefaultOps()}, f.open, zap.New(core))
	require.NoError(t, err)

	assert.Equal(t, 1, logs.FilterMessage("session failed to open").Len())
	done := logs.FilterMessage("stress run finished").All()
	require.Len(t, done, 1)
	assert.Contains(t, done[0].ContextMap(), "run_id")
}

func TestConfig_Validate(t *testing.T) {
	ops := DefaultOps()
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Sessions: 1, Iterations: 1, Ops: ops}, false},
		{"no sessions", Config{Iterations: 1, Ops: ops}, true},
		{"no iterations", Config{Sessions: 1, Ops: ops}, true},
		{"negative rate", Config{Sessions: 1, Iterations: 1, Rate: -1, Ops: ops}, true},
		{"no ops", Config{Sessions: 1, Iterations: 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSummarise(t *testing.T) {
	var samples []time.Duration
	for i := 20; i >= 1; i-- {
		samples = append(samples, time.Duration(i)*time.Millisecond)
	}
	st := summarise("op", samples, 2)
	assert.Equal(t, 20, st.Count)
	assert.Equal(t, 2, st.Failures)
	assert.Equal(t, "1ms", st.Min)
	assert.Equal(t, "20ms", st.Max)
	assert.Equal(t, "10.5ms", st.Avg)
	assert.Equal(t, "19ms", st.P95)

	assert.Empty(t, summarise("none", nil, 0).P95)
}
