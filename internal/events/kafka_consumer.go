// Package events wires this service's Kafka consumers to the application
// layer. The shared topic and payload contracts live in pkg/events.
package events

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/recharge-travels/service-quotes/internal/application"
	"github.com/recharge-travels/service-quotes/pkg/events"
	"github.com/recharge-travels/service-quotes/pkg/kafka"
)

// PaymentEventConsumer listens to payment events and advances booking state:
// a received deposit confirms the booking, a received balance settles it.
type PaymentEventConsumer struct {
	consumer *kafka.Consumer
	service  *application.BookingService
	logger   *zap.Logger
}

// NewPaymentEventConsumer creates a new PaymentEventConsumer.
func NewPaymentEventConsumer(
	brokers []string,
	groupID string,
	service *application.BookingService,
	logger *zap.Logger,
) *PaymentEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, events.TopicPaymentEvents, logger)
	return &PaymentEventConsumer{
		consumer: consumer,
		service:  service,
		logger:   logger,
	}
}

// Start begins consuming payment events. This blocks until the context is cancelled.
func (c *PaymentEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *PaymentEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *PaymentEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	var cloudEvent kafka.CloudEvent
	if err := json.Unmarshal(msg.Value, &cloudEvent); err != nil {
		c.logger.Error("failed to parse cloud event from payment topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case events.PaymentDepositReceived:
		return c.handleDepositReceived(ctx, cloudEvent)
	case events.PaymentBalanceReceived:
		return c.handleBalanceReceived(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled payment event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *PaymentEventConsumer) handleDepositReceived(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt events.PaymentReceivedEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse deposit received event data",
			zap.Error(err),
		)
		return nil // Don't retry malformed data
	}

	c.logger.Info("processing deposit received event",
		zap.String("booking_id", evt.BookingID.String()),
		zap.Int64("amount_cents", evt.AmountCents),
	)

	if _, err := c.service.ConfirmBooking(ctx, evt.BookingID); err != nil {
		c.logger.Error("failed to confirm booking after deposit",
			zap.String("booking_id", evt.BookingID.String()),
			zap.Error(err),
		)
		return err
	}

	c.logger.Info("booking confirmed after deposit",
		zap.String("booking_id", evt.BookingID.String()),
	)
	return nil
}

func (c *PaymentEventConsumer) handleBalanceReceived(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt events.PaymentReceivedEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse balance received event data",
			zap.Error(err),
		)
		return nil
	}

	c.logger.Info("processing balance received event",
		zap.String("booking_id", evt.BookingID.String()),
		zap.Int64("amount_cents", evt.AmountCents),
	)

	if _, err := c.service.MarkBalancePaid(ctx, evt.BookingID); err != nil {
		c.logger.Error("failed to record balance payment",
			zap.String("booking_id", evt.BookingID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}
