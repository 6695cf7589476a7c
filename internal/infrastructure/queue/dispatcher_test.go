package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitrine/storefront/internal/core/domain"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) snapshot() []domain.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.Event(nil), p.events...)
}

func TestDispatcher_PerAggregateOrder(t *testing.T) {
	pub := &recordingPublisher{}
	d := NewDispatcher(3, pub, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	for i := 0; i < 20; i++ {
		d.Emit(domain.Event{ID: fmt.Sprintf("a-%d", i), AggregateID: "product-a", Type: domain.EventProductRated})
		d.Emit(domain.Event{ID: fmt.Sprintf("b-%d", i), AggregateID: "product-b", Type: domain.EventProductRated})
	}

	require.Eventually(t, func() bool { return len(pub.snapshot()) == 40 }, 2*time.Second, 10*time.Millisecond)
	cancel()
	d.Wait()

	var gotA, gotB []string
	for _, e := range pub.snapshot() {
		switch e.AggregateID {
		case "product-a":
			gotA = append(gotA, e.ID)
		case "product-b":
			gotB = append(gotB, e.ID)
		}
	}
	for i := 0; i < 20; i++ {
		assert.Equal(t, fmt.Sprintf("a-%d", i), gotA[i])
		assert.Equal(t, fmt.Sprintf("b-%d", i), gotB[i])
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(0, &recordingPublisher{}, zerolog.Nop())
	assert.Len(t, d.workers, defaultWorkers)

	first := d.shardIndex("user-42")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, d.shardIndex("user-42"))
	}
	assert.GreaterOrEqual(t, first, 0)
	assert.Less(t, first, defaultWorkers)
}

func TestDispatcher_PublishErrorDoesNotStopWorker(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	d := NewDispatcher(1, pub, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	d.Emit(domain.Event{ID: "1", AggregateID: "x"})
	d.Emit(domain.Event{ID: "2", AggregateID: "x"})

	require.Eventually(t, func() bool { return len(pub.snapshot()) == 2 }, 2*time.Second, 10*time.Millisecond)
	cancel()
	d.Wait()
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	pub := &recordingPublisher{}
	d := NewDispatcher(1, pub, zerolog.Nop())

	// not started: nothing consumes the queue
	for i := 0; i < channelBuffer+10; i++ {
		d.Emit(domain.Event{AggregateID: "x"})
	}
	assert.Len(t, d.workers[0], channelBuffer)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Start(ctx)
	d.Wait()
	assert.Len(t, pub.snapshot(), channelBuffer, "queued events are drained on shutdown")
}
