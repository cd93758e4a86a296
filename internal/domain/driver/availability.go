package driver

import (
	"time"

	"github.com/google/uuid"

	"github.com/recharge-travels/service-quotes/pkg/domain"
)

// AvailabilityStatus is the state of a driver's time slot or day.
type AvailabilityStatus string

const (
	StatusAvailable   AvailabilityStatus = "available"
	StatusBooked      AvailabilityStatus = "booked"
	StatusUnavailable AvailabilityStatus = "unavailable"
	StatusTentative   AvailabilityStatus = "tentative"
)

// TimeSlot identifies a bookable portion of a driver's day.
type TimeSlot string

const (
	SlotMorning   TimeSlot = "morning"
	SlotAfternoon TimeSlot = "afternoon"
	SlotEvening   TimeSlot = "evening"
	SlotFullDay   TimeSlot = "full_day"
)

// IsValid returns true for a recognized time slot.
func (s TimeSlot) IsValid() bool {
	switch s {
	case SlotMorning, SlotAfternoon, SlotEvening, SlotFullDay:
		return true
	}
	return false
}

// SlotStates holds the per-slot status of one driver day.
type SlotStates struct {
	Morning   AvailabilityStatus `json:"morning"`
	Afternoon AvailabilityStatus `json:"afternoon"`
	Evening   AvailabilityStatus `json:"evening"`
}

// OpenSlots returns slot states with every slot available.
func OpenSlots() SlotStates {
	return SlotStates{Morning: StatusAvailable, Afternoon: StatusAvailable, Evening: StatusAvailable}
}

// all reports whether every slot has the given status.
func (s SlotStates) all(status AvailabilityStatus) bool {
	return s.Morning == status && s.Afternoon == status && s.Evening == status
}

// any reports whether at least one slot has the given status.
func (s SlotStates) any(status AvailabilityStatus) bool {
	return s.Morning == status || s.Afternoon == status || s.Evening == status
}

// Get returns the status of a single slot. SlotFullDay is not a stored slot.
func (s SlotStates) Get(slot TimeSlot) AvailabilityStatus {
	switch slot {
	case SlotMorning:
		return s.Morning
	case SlotAfternoon:
		return s.Afternoon
	case SlotEvening:
		return s.Evening
	}
	return StatusUnavailable
}

// FullDayStatus derives the day-level status from the slots: all booked is
// booked, all unavailable is unavailable, a partial booking is tentative.
func (s SlotStates) FullDayStatus() AvailabilityStatus {
	switch {
	case s.all(StatusBooked):
		return StatusBooked
	case s.all(StatusUnavailable):
		return StatusUnavailable
	case s.any(StatusBooked):
		return StatusTentative
	}
	return StatusAvailable
}

// expand normalizes a slot request: full_day, or morning+afternoon+evening
// together, covers every slot.
func expand(slots []TimeSlot) []TimeSlot {
	var hasMorning, hasAfternoon, hasEvening bool
	for _, s := range slots {
		switch s {
		case SlotFullDay:
			return []TimeSlot{SlotMorning, SlotAfternoon, SlotEvening}
		case SlotMorning:
			hasMorning = true
		case SlotAfternoon:
			hasAfternoon = true
		case SlotEvening:
			hasEvening = true
		}
	}
	if hasMorning && hasAfternoon && hasEvening {
		return []TimeSlot{SlotMorning, SlotAfternoon, SlotEvening}
	}
	return slots
}

// DayAvailability is one driver's calendar day.
type DayAvailability struct {
	DriverID      uuid.UUID          `json:"driver_id"`
	Date          time.Time          `json:"date"`
	Slots         SlotStates         `json:"slots"`
	FullDayStatus AvailabilityStatus `json:"full_day_status"`
	BookingID     *uuid.UUID         `json:"booking_id,omitempty"`
	Blocked       bool               `json:"blocked"`
	BlockReason   string             `json:"block_reason,omitempty"`
}

// NewDayAvailability returns an open day for the driver.
func NewDayAvailability(driverID uuid.UUID, date time.Time) *DayAvailability {
	return &DayAvailability{
		DriverID:      driverID,
		Date:          date,
		Slots:         OpenSlots(),
		FullDayStatus: StatusAvailable,
	}
}

// BookSlots marks the requested slots as booked for the given booking. Slots
// that are not currently available are rejected.
func (d *DayAvailability) BookSlots(slots []TimeSlot, bookingID uuid.UUID) error {
	for _, slot := range expand(slots) {
		if d.Slots.Get(slot) != StatusAvailable {
			return domain.NewConflictError("slot " + string(slot) + " is not available")
		}
	}
	for _, slot := range expand(slots) {
		d.setSlot(slot, StatusBooked)
	}
	d.BookingID = &bookingID
	d.FullDayStatus = d.Slots.FullDayStatus()
	return nil
}

// ReleaseSlots frees previously booked slots.
func (d *DayAvailability) ReleaseSlots(slots []TimeSlot) {
	for _, slot := range expand(slots) {
		d.setSlot(slot, StatusAvailable)
	}
	d.BookingID = nil
	d.FullDayStatus = d.Slots.FullDayStatus()
}

// Block marks the whole day unavailable with a reason.
func (d *DayAvailability) Block(reason string) {
	d.Slots = SlotStates{Morning: StatusUnavailable, Afternoon: StatusUnavailable, Evening: StatusUnavailable}
	d.FullDayStatus = StatusUnavailable
	d.Blocked = true
	d.BlockReason = reason
}

// Unblock reopens a blocked day.
func (d *DayAvailability) Unblock() {
	d.Slots = OpenSlots()
	d.FullDayStatus = StatusAvailable
	d.Blocked = false
	d.BlockReason = ""
}

func (d *DayAvailability) setSlot(slot TimeSlot, status AvailabilityStatus) {
	switch slot {
	case SlotMorning:
		d.Slots.Morning = status
	case SlotAfternoon:
		d.Slots.Afternoon = status
	case SlotEvening:
		d.Slots.Evening = status
	}
}

// BlockReasonKind classifies why a period is blocked.
type BlockReasonKind string

const (
	BlockVacation    BlockReasonKind = "vacation"
	BlockMaintenance BlockReasonKind = "maintenance"
	BlockPersonal    BlockReasonKind = "personal"
	BlockOther       BlockReasonKind = "other"
)

// BlockedPeriod is an inclusive date range a driver is off the road.
type BlockedPeriod struct {
	ID          uuid.UUID       `json:"id"`
	DriverID    uuid.UUID       `json:"driver_id"`
	StartDate   time.Time       `json:"start_date"`
	EndDate     time.Time       `json:"end_date"`
	Reason      BlockReasonKind `json:"reason"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// NewBlockedPeriod validates and creates a blocked period.
func NewBlockedPeriod(driverID uuid.UUID, start, end time.Time, reason BlockReasonKind, description string) (*BlockedPeriod, error) {
	if driverID == uuid.Nil {
		return nil, domain.NewValidationError("driver ID is required")
	}
	if end.Before(start) {
		return nil, domain.NewValidationError("end date must not precede start date")
	}
	return &BlockedPeriod{
		ID:          uuid.New(),
		DriverID:    driverID,
		StartDate:   start,
		EndDate:     end,
		Reason:      reason,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// Covers reports whether the date falls inside the blocked range, inclusive.
func (p *BlockedPeriod) Covers(date time.Time) bool {
	day := date.Truncate(24 * time.Hour)
	return !day.Before(p.StartDate.Truncate(24*time.Hour)) && !day.After(p.EndDate.Truncate(24*time.Hour))
}

// Dates lists every day in the blocked range.
func (p *BlockedPeriod) Dates() []time.Time {
	var out []time.Time
	for d := p.StartDate; !d.After(p.EndDate); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}
