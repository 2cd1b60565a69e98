package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/travel-marketplace/internal/queue"
)

type capturePublisher struct {
	mu   sync.Mutex
	got  []queue.ActivityEvent
	fail error
}

func (c *capturePublisher) Publish(_ context.Context, ev queue.ActivityEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.got = append(c.got, ev)
	return c.fail
}

type countRecorder struct {
	mu       sync.Mutex
	ok, errs int
}

func (r *countRecorder) RecordEventPublished(_ string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.errs++
		return
	}
	r.ok++
}

func TestNotifier_PublishesAndStamps(t *testing.T) {
	pub := &capturePublisher{}
	rec := &countRecorder{}
	n := NewNotifier(pub, zerolog.Nop(), rec)

	n.Notify(queue.ActivityEvent{Type: queue.EventOrderCreated, EntityID: "o1"})
	n.Notify(queue.ActivityEvent{Type: queue.EventPointsGranted, EntityID: "7", Amount: 100})
	n.Wait()

	require.Len(t, pub.got, 2)
	for _, ev := range pub.got {
		assert.False(t, ev.OccurredAt.IsZero())
	}
	assert.Equal(t, 2, rec.ok)
}

func TestNotifier_FailuresAreCounted(t *testing.T) {
	pub := &capturePublisher{fail: errors.New("broker unreachable")}
	rec := &countRecorder{}
	n := NewNotifier(pub, zerolog.Nop(), rec)

	n.Notify(queue.ActivityEvent{Type: queue.EventOrderRefunded})
	n.Wait()

	assert.Equal(t, 1, rec.errs)
}

func TestNotifier_NilPublisher(t *testing.T) {
	n := NewNotifier(nil, zerolog.Nop(), nil)
	n.Notify(queue.ActivityEvent{Type: queue.EventUserSignedUp})
	n.Wait()
}
