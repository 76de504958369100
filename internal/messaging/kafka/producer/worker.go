package producer

import (
	"context"
	"time"

	"go-leave/internal/messaging/kafka"

	"go.uber.org/zap"
)

const batchSize = 50

// BatchResult counts what one ProcessPendingEvents call did.
type BatchResult struct {
	Fetched int
	Sent    int
	Failed  int
}

// ProcessOutboxEvents polls the outbox every pollInterval until ctx is done.
// A full batch is followed straight away by the next one.
func ProcessOutboxEvents(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer MessageWriter,
	logger *zap.Logger,
	pollInterval time.Duration,
) {
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}
	log := logger.Named("kafka.producer.worker")
	log.Info("outbox worker started", zap.Duration("poll_interval", pollInterval))

	timer := time.NewTimer(pollInterval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("outbox worker stopped")
			return
		case <-timer.C:
		}

		next := pollInterval
		res, err := ProcessPendingEvents(ctx, repo, writer, log)
		if err != nil {
			log.Error("process outbox events failed", zap.Error(err))
		} else if res.Fetched == batchSize {
			next = 0
		}
		timer.Reset(next)
	}
}

// ProcessPendingEvents publishes one batch. A failed publish schedules that
// event for retry and the batch carries on.
func ProcessPendingEvents(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer MessageWriter,
	logger *zap.Logger,
) (BatchResult, error) {
	pending, err := repo.ListPending(ctx, batchSize)
	if err != nil {
		return BatchResult{}, err
	}
	res := BatchResult{Fetched: len(pending)}

	for _, event := range pending {
		log := logger.With(
			zap.String("outbox_id", event.ID),
			zap.String("event_type", event.EventType),
			zap.String("request_id", event.RequestID),
		)

		if err := publishEvent(ctx, writer, event); err != nil {
			res.Failed++
			log.Error("publish outbox event failed", zap.Int("retry_count", event.RetryCount), zap.Error(err))
			if event.RetryCount+1 >= kafka.OutboxMaxRetries {
				log.Warn("outbox event exhausted its retries")
			}
			if markErr := repo.MarkFailed(ctx, event.ID, err.Error()); markErr != nil {
				log.Error("mark outbox event failed", zap.Error(markErr))
			}
			continue
		}

		if err := repo.MarkSent(ctx, event.ID); err != nil {
			// published but still pending; the consumer sees it again
			log.Error("mark outbox event sent", zap.Error(err))
			continue
		}
		res.Sent++
		log.Debug("outbox event sent", zap.String("topic", event.Topic))
	}

	return res, nil
}
