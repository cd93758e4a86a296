package booking

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/recharge-travels/service-quotes/internal/domain/quote"
	"github.com/recharge-travels/service-quotes/pkg/domain"
)

const bookingNumberChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Booking is the aggregate root for the booking domain. It freezes the quote
// it was created from; later pricing-table changes never alter a saved
// booking.
type Booking struct {
	id            uuid.UUID
	bookingNumber string
	customerID    uuid.UUID
	driverID      *uuid.UUID
	status        BookingStatus
	contact       ContactDetails
	quote         quote.Quote

	startDate       time.Time
	specialRequests string

	depositPaidAt *time.Time
	balancePaidAt *time.Time
	confirmedAt   *time.Time
	startedAt     *time.Time
	completedAt   *time.Time
	cancelledAt   *time.Time
	cancelNote    string

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// generateBookingNumber creates a booking number in the format "TB-XXXXXX".
func generateBookingNumber() (string, error) {
	result := make([]byte, 6)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(bookingNumberChars))))
		if err != nil {
			return "", fmt.Errorf("failed to generate booking number: %w", err)
		}
		result[i] = bookingNumberChars[n.Int64()]
	}
	return "TB-" + string(result), nil
}

// NewBooking creates a new Booking aggregate with status=requested from a
// computed quote and the traveler's contact details.
func NewBooking(
	customerID uuid.UUID,
	q quote.Quote,
	contact ContactDetails,
	startDate time.Time,
	specialRequests string,
) (*Booking, error) {
	if customerID == uuid.Nil {
		return nil, domain.NewValidationError("customer ID is required")
	}
	if err := contact.Validate(); err != nil {
		return nil, err
	}
	if q.QuoteNumber == "" {
		return nil, domain.NewValidationError("quote is required")
	}
	if q.TotalUSDCents <= 0 {
		return nil, domain.NewValidationError("quote total must be positive")
	}
	if startDate.IsZero() {
		return nil, domain.NewValidationError("start date is required")
	}

	bookingNumber, err := generateBookingNumber()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Booking{
		id:              uuid.New(),
		bookingNumber:   bookingNumber,
		customerID:      customerID,
		status:          StatusRequested,
		contact:         contact,
		quote:           q,
		startDate:       startDate,
		specialRequests: specialRequests,
		version:         1,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id uuid.UUID,
	bookingNumber string,
	customerID uuid.UUID,
	driverID *uuid.UUID,
	status BookingStatus,
	contact ContactDetails,
	q quote.Quote,
	startDate time.Time,
	specialRequests string,
	depositPaidAt *time.Time,
	balancePaidAt *time.Time,
	confirmedAt *time.Time,
	startedAt *time.Time,
	completedAt *time.Time,
	cancelledAt *time.Time,
	cancelNote string,
	version int64,
	createdAt time.Time,
	updatedAt time.Time,
) *Booking {
	return &Booking{
		id:              id,
		bookingNumber:   bookingNumber,
		customerID:      customerID,
		driverID:        driverID,
		status:          status,
		contact:         contact,
		quote:           q,
		startDate:       startDate,
		specialRequests: specialRequests,
		depositPaidAt:   depositPaidAt,
		balancePaidAt:   balancePaidAt,
		confirmedAt:     confirmedAt,
		startedAt:       startedAt,
		completedAt:     completedAt,
		cancelledAt:     cancelledAt,
		cancelNote:      cancelNote,
		version:         version,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// BookingNumber returns the human-readable booking number.
func (b *Booking) BookingNumber() string { return b.bookingNumber }

// CustomerID returns the customer's user ID.
func (b *Booking) CustomerID() uuid.UUID { return b.customerID }

// DriverID returns the assigned driver's user ID, or nil if unassigned.
func (b *Booking) DriverID() *uuid.UUID { return b.driverID }

// Status returns the current booking status.
func (b *Booking) Status() BookingStatus { return b.status }

// Contact returns the traveler's contact details.
func (b *Booking) Contact() ContactDetails { return b.contact }

// Quote returns the frozen quote this booking was created from.
func (b *Booking) Quote() quote.Quote { return b.quote }

// StartDate returns the trip start date.
func (b *Booking) StartDate() time.Time { return b.startDate }

// SpecialRequests returns free-form traveler requests.
func (b *Booking) SpecialRequests() string { return b.specialRequests }

// DepositPaidAt returns when the deposit was received, or nil.
func (b *Booking) DepositPaidAt() *time.Time { return b.depositPaidAt }

// BalancePaidAt returns when the balance was received, or nil.
func (b *Booking) BalancePaidAt() *time.Time { return b.balancePaidAt }

// ConfirmedAt returns when the booking was confirmed.
func (b *Booking) ConfirmedAt() *time.Time { return b.confirmedAt }

// StartedAt returns when the trip started.
func (b *Booking) StartedAt() *time.Time { return b.startedAt }

// CompletedAt returns when the trip completed.
func (b *Booking) CompletedAt() *time.Time { return b.completedAt }

// CancelledAt returns when the booking was cancelled.
func (b *Booking) CancelledAt() *time.Time { return b.cancelledAt }

// CancelNote returns the cancellation reason.
func (b *Booking) CancelNote() string { return b.cancelNote }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// --- Behavior ---

// Confirm transitions the booking from requested to confirmed, recording the
// deposit payment that triggered it.
func (b *Booking) Confirm() error {
	if !b.status.CanTransitionTo(StatusConfirmed) {
		return domain.NewInvalidStateError(string(b.status), string(StatusConfirmed))
	}
	now := time.Now().UTC()
	b.status = StatusConfirmed
	b.confirmedAt = &now
	b.depositPaidAt = &now
	b.updatedAt = now
	return nil
}

// AssignDriver attaches a driver to the booking. Allowed until the trip
// completes.
func (b *Booking) AssignDriver(driverID uuid.UUID) error {
	if driverID == uuid.Nil {
		return domain.NewValidationError("driver ID is required")
	}
	if b.status.IsTerminal() {
		return domain.NewInvalidStateError(string(b.status), string(b.status))
	}
	b.driverID = &driverID
	b.updatedAt = time.Now().UTC()
	return nil
}

// Start transitions the booking from confirmed to in_progress.
func (b *Booking) Start() error {
	if !b.status.CanTransitionTo(StatusInProgress) {
		return domain.NewInvalidStateError(string(b.status), string(StatusInProgress))
	}
	now := time.Now().UTC()
	b.status = StatusInProgress
	b.startedAt = &now
	b.updatedAt = now
	return nil
}

// Complete transitions the booking from in_progress to completed.
func (b *Booking) Complete() error {
	if !b.status.CanTransitionTo(StatusCompleted) {
		return domain.NewInvalidStateError(string(b.status), string(StatusCompleted))
	}
	now := time.Now().UTC()
	b.status = StatusCompleted
	b.completedAt = &now
	b.updatedAt = now
	return nil
}

// Cancel transitions the booking to cancelled if it is not in a terminal state.
func (b *Booking) Cancel(reason string) error {
	if !b.status.CanBeCancelled() {
		return domain.NewInvalidStateError(string(b.status), string(StatusCancelled))
	}
	now := time.Now().UTC()
	b.status = StatusCancelled
	b.cancelNote = reason
	b.cancelledAt = &now
	b.updatedAt = now
	return nil
}

// MarkBalancePaid records receipt of the balance payment.
func (b *Booking) MarkBalancePaid() error {
	if b.status == StatusCancelled {
		return domain.NewInvalidStateError(string(b.status), string(b.status))
	}
	now := time.Now().UTC()
	b.balancePaidAt = &now
	b.updatedAt = now
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
