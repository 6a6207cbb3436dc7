package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-summarizer/internal/domain/repositories"
	"github.com/johnquangdev/meeting-summarizer/pkg/config"
)

// NATSQueue implements the task queue on NATS JetStream. Delivery is
// at-least-once: consumers ack explicitly and redelivery is expected
// after a worker crash, so every handler must tolerate re-runs.
type NATSQueue struct {
	conn    *nats.Conn
	js      jetstream.JetStream
	stream  string
	durable string
	logger  *zap.Logger
}

// NewNATSQueue connects to NATS and ensures the task stream exists
func NewNATSQueue(cfg *config.Config, logger *zap.Logger) (*NATSQueue, error) {
	conn, err := nats.Connect(
		cfg.NATS.URL,
		nats.DrainTimeout(10*time.Second),
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			logger.Error("nats async error", zap.Error(err))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create jetstream context: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      cfg.NATS.StreamName,
		Subjects:  []string{"pipeline.>"},
		Retention: jetstream.WorkQueuePolicy,
		Storage:   jetstream.FileStorage,
	})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create stream: %w", err)
	}

	return &NATSQueue{
		conn:    conn,
		js:      js,
		stream:  cfg.NATS.StreamName,
		durable: cfg.NATS.Durable,
		logger:  logger,
	}, nil
}

// Enqueue publishes a task onto the stream. Fire-and-forget from the
// dispatcher's point of view; nothing awaits the result.
func (q *NATSQueue) Enqueue(ctx context.Context, task repositories.TaskRequest) error {
	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	_, err = q.js.Publish(ctx, task.Name, data)
	if err != nil {
		return fmt.Errorf("failed to publish task %s: %w", task.Name, err)
	}

	q.logger.Info("📤 Task enqueued",
		zap.String("task", task.Name),
		zap.String("task_id", task.ID),
		zap.Int64("meeting_id", task.MeetingID))
	return nil
}

// Consume starts a durable queue consumer delivering tasks to handler.
// A handler error naks the message for redelivery; success acks it.
// The returned stop function drains the consumer.
func (q *NATSQueue) Consume(ctx context.Context, handler func(ctx context.Context, task repositories.TaskRequest) error) (func(), error) {
	consumer, err := q.js.CreateOrUpdateConsumer(ctx, q.stream, jetstream.ConsumerConfig{
		Durable:       q.durable,
		AckPolicy:     jetstream.AckExplicitPolicy,
		FilterSubject: "pipeline.>",
		MaxDeliver:    3,
		AckWait:       15 * time.Minute,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer: %w", err)
	}

	consumeCtx, err := consumer.Consume(func(msg jetstream.Msg) {
		var task repositories.TaskRequest
		if err := json.Unmarshal(msg.Data(), &task); err != nil {
			q.logger.Error("dropping undecodable task", zap.Error(err))
			if ackErr := msg.Ack(); ackErr != nil {
				q.logger.Warn("failed to ack undecodable task", zap.Error(ackErr))
			}
			return
		}

		if err := handler(ctx, task); err != nil {
			q.logger.Error("task handler failed, requesting redelivery",
				zap.String("task", task.Name),
				zap.Int64("meeting_id", task.MeetingID),
				zap.Error(err))
			if nakErr := msg.Nak(); nakErr != nil {
				q.logger.Warn("failed to nak task", zap.Error(nakErr))
			}
			return
		}

		if err := msg.Ack(); err != nil {
			q.logger.Warn("failed to ack task", zap.Error(err))
		}
	}, jetstream.ConsumeErrHandler(func(_ jetstream.ConsumeContext, err error) {
		q.logger.Error("consume error", zap.Error(err))
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to start consumer: %w", err)
	}

	return consumeCtx.Stop, nil
}

// Close drains the connection
func (q *NATSQueue) Close() {
	if err := q.conn.Drain(); err != nil {
		q.logger.Warn("failed to drain nats connection", zap.Error(err))
	}
}
