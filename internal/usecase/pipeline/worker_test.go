package pipeline

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
	"github.com/johnquangdev/meeting-summarizer/internal/domain/repositories"
)

// fakeConsumer hands tasks to the attached handler synchronously
type fakeConsumer struct {
	mu      sync.Mutex
	handler func(ctx context.Context, task repositories.TaskRequest) error
	stopped bool
}

func (c *fakeConsumer) Consume(_ context.Context, handler func(ctx context.Context, task repositories.TaskRequest) error) (func(), error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handler = handler
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.stopped = true
	}, nil
}

func (c *fakeConsumer) deliver(task repositories.TaskRequest) error {
	c.mu.Lock()
	handler := c.handler
	c.mu.Unlock()
	return handler(context.Background(), task)
}

func TestWorker_ProcessesDeliveries(t *testing.T) {
	f := newPipelineFixture()
	seedPipelineMeeting(f, 42, entities.MeetingStatusTranscribed)

	consumer := &fakeConsumer{}
	worker := NewWorker(consumer, f.service, 2, zap.NewNop())
	require.NoError(t, worker.Start(context.Background()))

	// Redelivery for a finished stage acks without touching the engines
	err := consumer.deliver(repositories.TaskRequest{ID: "t1", Name: repositories.TaskTranscribe, MeetingID: 42})
	require.NoError(t, err)
	assert.Equal(t, 0, f.transcriber.calls)

	worker.Stop()
	assert.True(t, consumer.stopped)
}

func TestWorker_StopIsIdempotent(t *testing.T) {
	consumer := &fakeConsumer{}
	worker := NewWorker(consumer, newPipelineFixture().service, 0, zap.NewNop())
	require.NoError(t, worker.Start(context.Background()))

	worker.Stop()
	worker.Stop()
	assert.True(t, consumer.stopped)
}
