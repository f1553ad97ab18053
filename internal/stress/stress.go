// Package stress drives several concurrent driver sessions through
// repeated read and lookup operations and reports their latencies.
package stress

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mj1618/novawin-cli/internal/platform"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Op is one timed operation run in every iteration.
type Op struct {
	Name string
	Run  func(ctx context.Context, p *platform.Provider) error
}

// DefaultOps reads the page source and looks up buttons and windows.
func DefaultOps() []Op {
	return []Op{
		{Name: "page-source", Run: func(ctx context.Context, p *platform.Provider) error {
			_, err := p.Reader.ReadElements(ctx, platform.ReadOptions{})
			return err
		}},
		{Name: "find-buttons", Run: findAll("xpath=//Button")},
		{Name: "find-windows", Run: findAll("xpath=//Window")},
	}
}

// PowerShellOp lists processes on the driver host.
func PowerShellOp() Op {
	return Op{Name: "powershell", Run: func(ctx context.Context, p *platform.Provider) error {
		if p.ScriptRunner == nil {
			return errors.New("script execution not available")
		}
		_, err := p.ScriptRunner.PowerShell(ctx, "Get-Process | Select-Object -First 5", true)
		return err
	}}
}

func findAll(selector string) func(context.Context, *platform.Provider) error {
	return func(ctx context.Context, p *platform.Provider) error {
		_, err := p.Reader.FindElements(ctx, selector, true)
		return err
	}
}

// OpenFunc opens one driver session.
type OpenFunc func(ctx context.Context) (*platform.Provider, error)

// Config controls a run.
type Config struct {
	Sessions    int
	Iterations  int
	Concurrency int     // Sessions running at once (0 = all)
	Rate        float64 // Operations per second across all sessions (0 = unlimited)
	Ops         []Op
}

// Validate checks the run shape.
func (c Config) Validate() error {
	if c.Sessions < 1 {
		return fmt.Errorf("sessions must be >= 1, got %d", c.Sessions)
	}
	if c.Iterations < 1 {
		return fmt.Errorf("iterations must be >= 1, got %d", c.Iterations)
	}
	if c.Concurrency < 0 || c.Rate < 0 {
		return fmt.Errorf("concurrency and rate must be >= 0")
	}
	if len(c.Ops) == 0 {
		return fmt.Errorf("no operations to run")
	}
	return nil
}

// OpStats summarises one operation's latencies.
type OpStats struct {
	Name     string `yaml:"name"     json:"name"`
	Count    int    `yaml:"count"    json:"count"`
	Failures int    `yaml:"failures" json:"failures"`
	Min      string `yaml:"min"      json:"min"`
	Avg      string `yaml:"avg"      json:"avg"`
	Max      string `yaml:"max"      json:"max"`
	P95      string `yaml:"p95"      json:"p95"`
}

// Report is the outcome of a run.
type Report struct {
	RunID      string    `yaml:"run_id"              json:"run_id"`
	Sessions   int       `yaml:"sessions"            json:"sessions"`
	Iterations int       `yaml:"iterations"          json:"iterations"`
	Elapsed    string    `yaml:"elapsed"             json:"elapsed"`
	Errors     []string  `yaml:"errors,omitempty"    json:"errors,omitempty"`
	Ops        []OpStats `yaml:"ops"                 json:"ops"`
}

// Failures returns the total failed operations, session opens included.
func (r Report) Failures() int {
	n := 0
	for _, op := range r.Ops {
		n += op.Failures
	}
	return n
}

// recorder collects latencies from every session.
type recorder struct {
	mu       sync.Mutex
	order    []string
	samples  map[string][]time.Duration
	failures map[string]int
	errors   []string
}

func newRecorder() *recorder {
	return &recorder{samples: map[string][]time.Duration{}, failures: map[string]int{}}
}

// maxErrors caps the distinct error messages kept in a report.
const maxErrors = 20

func (r *recorder) add(name string, d time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, seen := r.samples[name]; !seen {
		r.order = append(r.order, name)
		r.samples[name] = nil
	}
	r.samples[name] = append(r.samples[name], d)
	if err != nil {
		r.failures[name]++
		if len(r.errors) < maxErrors {
			r.errors = append(r.errors, fmt.Sprintf("%s: %v", name, err))
		}
	}
}

func (r *recorder) stats() []OpStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]OpStats, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, summarise(name, r.samples[name], r.failures[name]))
	}
	return out
}

func summarise(name string, samples []time.Duration, failures int) OpStats {
	st := OpStats{Name: name, Count: len(samples), Failures: failures}
	if len(samples) == 0 {
		return st
	}
	sorted := append([]time.Duration(nil), samples...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	var total time.Duration
	for _, d := range sorted {
		total += d
	}
	idx := int(math.Ceil(0.95*float64(len(sorted)))) - 1
	st.Min = sorted[0].String()
	st.Max = sorted[len(sorted)-1].String()
	st.Avg = (total / time.Duration(len(sorted))).String()
	st.P95 = sorted[idx].String()
	return st
}

// Run opens cfg.Sessions sessions and runs every op cfg.Iterations times in
// each. Failed operations are counted, not fatal; Run only returns an
// error for a bad config or a cancelled context.
func Run(ctx context.Context, cfg Config, open OpenFunc, log *zap.Logger) (Report, error) {
	if err := cfg.Validate(); err != nil {
		return Report{}, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	report := Report{RunID: uuid.NewString(), Sessions: cfg.Sessions, Iterations: cfg.Iterations}
	log = log.With(zap.String("run_id", report.RunID))

	limit := rate.Inf
	if cfg.Rate > 0 {
		limit = rate.Limit(cfg.Rate)
	}
	limiter := rate.NewLimiter(limit, 1)
	rec := newRecorder()

	g, gctx := errgroup.WithContext(ctx)
	if cfg.Concurrency > 0 {
		g.SetLimit(cfg.Concurrency)
	}
	start := time.Now()
	for i := 0; i < cfg.Sessions; i++ {
		n := i + 1
		g.Go(func() error {
			return runSession(gctx, n, cfg, open, limiter, rec, log)
		})
	}
	err := g.Wait()

	report.Elapsed = time.Since(start).Round(time.Millisecond).String()
	report.Ops = rec.stats()
	report.Errors = rec.errors
	log.Info("stress run finished", zap.String("elapsed", report.Elapsed), zap.Int("failures", report.Failures()))
	return report, err
}

func runSession(ctx context.Context, n int, cfg Config, open OpenFunc, limiter *rate.Limiter, rec *recorder, log *zap.Logger) error {
	start := time.Now()
	p, err := open(ctx)
	rec.add("open-session", time.Since(start), err)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn("session failed to open", zap.Int("session", n), zap.Error(err))
		return nil
	}
	defer func() {
		start := time.Now()
		err := p.Close()
		rec.add("close-session", time.Since(start), err)
	}()
	log.Debug("session opened", zap.Int("session", n), zap.String("id", p.SessionID))

	for it := 0; it < cfg.Iterations; it++ {
		for _, op := range cfg.Ops {
			if err := limiter.Wait(ctx); err != nil {
				return err
			}
			start := time.Now()
			err := op.Run(ctx, p)
			rec.add(op.Name, time.Since(start), err)
			if err != nil {
				log.Debug("operation failed", zap.Int("session", n), zap.String("op", op.Name), zap.Error(err))
			}
		}
	}
	return nil
}
