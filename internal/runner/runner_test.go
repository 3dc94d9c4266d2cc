package runner

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/selimozcann/linktracer/internal/model"
)

type fakeTracer struct {
	active, peak atomic.Int32
	delay        time.Duration
}

func (f *fakeTracer) Trace(ctx context.Context, target string) model.Result {
	n := f.active.Add(1)
	defer f.active.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	select {
	case <-time.After(f.delay):
	case <-ctx.Done():
	}
	return model.Result{Target: target, Chain: []model.Hop{{URL: target, Status: 200, RedirectMethod: model.MethodNone}}}
}

func TestRunPreservesOrder(t *testing.T) {
	t.Parallel()
	tr := &fakeTracer{delay: 5 * time.Millisecond}
	r := New(Config{Threads: 3}, tr, zaptest.NewLogger(t))

	var calls atomic.Int32
	r.OnResult = func(int, model.Result) { calls.Add(1) }

	targets := []string{"https://a.example", "https://b.example", "https://c.example", "https://d.example", "https://e.example", "https://f.example", "https://g.example"}
	results := r.Run(context.Background(), targets)

	require.Len(t, results, len(targets))
	for i, res := range results {
		assert.Equal(t, targets[i], res.Target)
		require.Len(t, res.Chain, 1)
		assert.Equal(t, targets[i], res.Chain[0].URL)
	}
	assert.Equal(t, int32(len(targets)), calls.Load())
	assert.LessOrEqual(t, tr.peak.Load(), int32(3))
}

func TestRunDefaultsToOneThread(t *testing.T) {
	t.Parallel()
	tr := &fakeTracer{delay: time.Millisecond}
	r := New(Config{}, tr, nil)
	results := r.Run(context.Background(), []string{"https://a.example", "https://b.example"})
	assert.Len(t, results, 2)
	assert.Equal(t, int32(1), tr.peak.Load())
}

func TestRunCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := New(Config{Threads: 2}, &fakeTracer{delay: time.Second}, nil)
	results := r.Run(ctx, []string{"https://a.example", "https://b.example"})
	require.Len(t, results, 2)
	assert.Equal(t, "https://a.example", results[0].Target)
	assert.Empty(t, results[0].Chain)
}
