package dispatch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestPoolRunsJobs(t *testing.T) {
	p := NewPool(2, 4, zap.NewNop())
	p.Start(context.Background())

	var n atomic.Int32
	for i := 0; i < 10; i++ {
		p.Dispatch("count", func(ctx context.Context) error {
			n.Add(1)
			return nil
		})
	}
	p.Close()

	assert.Equal(t, int32(10), n.Load())
}

func TestPoolLogsFailures(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	p := NewPool(1, 1, zap.New(core))
	p.Start(context.Background())

	p.Dispatch("add mistake", func(ctx context.Context) error {
		return errors.New("boom")
	})
	p.Dispatch("panics", func(ctx context.Context) error {
		panic("oops")
	})
	p.Close()

	assert.Equal(t, 1, logs.FilterMessage("background job failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("background job panicked").Len())
}

func TestDispatchAfterClose(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	p := NewPool(1, 1, zap.New(core))
	p.Start(context.Background())
	p.Close()
	p.Close()

	ran := false
	p.Dispatch("late", func(ctx context.Context) error {
		ran = true
		return nil
	})

	assert.False(t, ran)
	assert.Equal(t, 1, logs.FilterMessage("background job rejected").Len())
}

func TestCloseDrainsAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := NewPool(1, 8, zap.NewNop())
	p.Start(ctx)

	var n atomic.Int32
	for i := 0; i < 5; i++ {
		p.Dispatch("sync", func(ctx context.Context) error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			n.Add(1)
			return nil
		})
	}
	cancel()
	p.Close()

	assert.Equal(t, int32(5), n.Load())
}
