package consumer

import (
	"context"
	"encoding/json"
	"time"

	"go-leave/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// ReviewNotifier tells the employee that a manager decided on their request.
type ReviewNotifier interface {
	NotifyLeaveReviewed(ctx context.Context, event events.LeaveReviewedEvent) error
}

// fetchRetryDelay spaces out FetchMessage retries after a broker error.
const fetchRetryDelay = time.Second

// ConsumeLeaveReviewed runs until ctx is cancelled. Undecodable messages are
// committed and dropped. A failed notification is logged and skipped: the
// next successful commit moves the group offset past it.
func ConsumeLeaveReviewed(
	ctx context.Context,
	reader MessageReader,
	notifier ReviewNotifier,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_reviewed")
	log.Info("leave reviewed consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave reviewed consumer stopped")
				return
			}
			log.Error("fetch leave reviewed message failed", zap.Error(err))
			select {
			case <-ctx.Done():
				log.Info("leave reviewed consumer stopped")
				return
			case <-time.After(fetchRetryDelay):
			}
			continue
		}

		if err := HandleLeaveReviewed(ctx, msg, notifier); err != nil {
			if _, ok := err.(*decodeError); ok {
				log.Error("decode leave_reviewed event failed", zap.Error(err))
				_ = reader.CommitMessages(ctx, msg)
				continue
			}
			log.Error("notify leave reviewed failed, skipping message",
				zap.String("key", string(msg.Key)),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave reviewed message failed", zap.Error(err))
			continue
		}

		log.Info("leave reviewed notification sent", zap.String("leave_id", string(msg.Key)))
	}
}

type decodeError struct{ err error }

func (e *decodeError) Error() string { return "decode: " + e.err.Error() }
func (e *decodeError) Unwrap() error { return e.err }

// HandleLeaveReviewed decodes one message and notifies.
func HandleLeaveReviewed(ctx context.Context, msg kafkago.Message, notifier ReviewNotifier) error {
	var event events.LeaveReviewedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return &decodeError{err: err}
	}
	return notifier.NotifyLeaveReviewed(ctx, event)
}
