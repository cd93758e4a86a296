// Package events defines the Kafka topics and event payloads shared between
// this service and the rest of the platform.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Topics.
const (
	TopicBookingEvents = "booking.events"
	TopicPaymentEvents = "payment.events"
)

// Booking event types.
const (
	BookingRequested = "booking.requested"
	BookingConfirmed = "booking.confirmed"
	BookingStarted   = "booking.started"
	BookingCompleted = "booking.completed"
	BookingCancelled = "booking.cancelled"
)

// Payment event types consumed from the payments service.
const (
	PaymentDepositReceived = "payment.deposit_received"
	PaymentBalanceReceived = "payment.balance_received"
)

// BookingRequestedEvent is published when a customer turns a quote into a
// booking.
type BookingRequestedEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	BookingNumber string    `json:"booking_number"`
	CustomerID    uuid.UUID `json:"customer_id"`
	QuoteNumber   string    `json:"quote_number"`
	TotalUSDCents int64     `json:"total_usd_cents"`
	DepositCents  int64     `json:"deposit_cents"`
	StartDate     time.Time `json:"start_date"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// BookingConfirmedEvent is published when the deposit lands and the booking
// is confirmed.
type BookingConfirmedEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	BookingNumber string    `json:"booking_number"`
	CustomerID    uuid.UUID `json:"customer_id"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// BookingStartedEvent is published when the trip begins.
type BookingStartedEvent struct {
	BookingID     uuid.UUID  `json:"booking_id"`
	BookingNumber string     `json:"booking_number"`
	DriverID      *uuid.UUID `json:"driver_id,omitempty"`
	OccurredAt    time.Time  `json:"occurred_at"`
}

// BookingCompletedEvent is published when the trip completes; the settlement
// pipeline consumes it downstream.
type BookingCompletedEvent struct {
	BookingID     uuid.UUID  `json:"booking_id"`
	BookingNumber string     `json:"booking_number"`
	DriverID      *uuid.UUID `json:"driver_id,omitempty"`
	TotalUSDCents int64      `json:"total_usd_cents"`
	OccurredAt    time.Time  `json:"occurred_at"`
}

// BookingCancelledEvent is published when a booking is cancelled.
type BookingCancelledEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	BookingNumber string    `json:"booking_number"`
	CancelledBy   uuid.UUID `json:"cancelled_by"`
	Reason        string    `json:"reason"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// PaymentReceivedEvent is consumed from the payments service for both deposit
// and balance payments.
type PaymentReceivedEvent struct {
	BookingID   uuid.UUID `json:"booking_id"`
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency"`
	Reference   string    `json:"reference"`
	OccurredAt  time.Time `json:"occurred_at"`
}
