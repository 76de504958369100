package app

import (
	"context"
	"errors"

	"go-leave/internal/bootstrap"
	"go-leave/internal/events"
	"go-leave/internal/messaging/kafka/consumer"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const reviewNotifierGroup = "go-leave-review-notifier"

// RunConsumer turns leave_reviewed events into employee notifications,
// recorded through the audit log.
func RunConsumer(cfg Config) error {
	logger := zap.L().Named("app.consumer")

	if cfg.KafkaBroker == "" {
		return errors.New("KAFKA_BROKER is required")
	}

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{cfg.KafkaBroker},
		Topic:       events.LeaveReviewedTopic,
		GroupID:     reviewNotifierGroup,
		StartOffset: kafkago.FirstOffset,
	})
	defer reader.Close()

	notifier := bootstrap.NewAuditReviewNotifier(bootstrap.NewStdoutAuditLogger(zap.L()))
	runUntilSignal(logger, func(ctx context.Context) {
		consumer.ConsumeLeaveReviewed(ctx, reader, notifier, logger)
	})
	return nil
}
