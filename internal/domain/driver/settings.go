package driver

import (
	"time"

	"github.com/google/uuid"
)

// AvailabilitySettings holds per-driver booking policy.
type AvailabilitySettings struct {
	DriverID            uuid.UUID          `json:"driver_id"`
	DefaultAvailability AvailabilityStatus `json:"default_availability"`
	WorkingDays         []time.Weekday     `json:"working_days"`
	StartTime           string             `json:"start_time"`
	EndTime             string             `json:"end_time"`
	MaxBookingsPerDay   int                `json:"max_bookings_per_day"`
	AdvanceBookingDays  int                `json:"advance_booking_days"`
	MinimumNoticeHours  int                `json:"minimum_notice_hours"`
	AutoConfirm         bool               `json:"auto_confirm"`
	UpdatedAt           time.Time          `json:"updated_at"`
}

// DefaultAvailabilitySettings returns the platform defaults: Monday through
// Saturday, 24 hours notice, bookings up to 60 days out.
func DefaultAvailabilitySettings(driverID uuid.UUID) AvailabilitySettings {
	return AvailabilitySettings{
		DriverID:            driverID,
		DefaultAvailability: StatusAvailable,
		WorkingDays: []time.Weekday{
			time.Monday, time.Tuesday, time.Wednesday,
			time.Thursday, time.Friday, time.Saturday,
		},
		StartTime:          "06:00",
		EndTime:            "22:00",
		MaxBookingsPerDay:  2,
		AdvanceBookingDays: 60,
		MinimumNoticeHours: 24,
		AutoConfirm:        false,
		UpdatedAt:          time.Now().UTC(),
	}
}

// WorksOn reports whether the weekday is one of the driver's working days.
func (s AvailabilitySettings) WorksOn(day time.Weekday) bool {
	for _, d := range s.WorkingDays {
		if d == day {
			return true
		}
	}
	return false
}

// AvailabilityCheck is the outcome of a booking-feasibility query.
type AvailabilityCheck struct {
	Available bool       `json:"available"`
	Conflicts []TimeSlot `json:"conflicts,omitempty"`
	Reason    string     `json:"reason,omitempty"`
}

// CheckAvailability decides whether a driver can take the requested slots on
// a date. day may be nil when no explicit availability record exists, in
// which case the driver's default applies. Pure; the caller supplies the
// clock.
func CheckAvailability(day *DayAvailability, settings AvailabilitySettings, now, date time.Time, slots []TimeSlot) AvailabilityCheck {
	hoursUntil := date.Sub(now).Hours()
	if hoursUntil < float64(settings.MinimumNoticeHours) {
		return AvailabilityCheck{Conflicts: slots, Reason: "minimum notice not met"}
	}
	if hoursUntil/24 > float64(settings.AdvanceBookingDays) {
		return AvailabilityCheck{Conflicts: slots, Reason: "beyond advance booking window"}
	}
	if !settings.WorksOn(date.Weekday()) {
		return AvailabilityCheck{Conflicts: slots, Reason: "outside working days"}
	}

	if day == nil {
		if settings.DefaultAvailability == StatusUnavailable {
			return AvailabilityCheck{Conflicts: slots, Reason: "driver default unavailable"}
		}
		return AvailabilityCheck{Available: true}
	}
	if day.Blocked {
		return AvailabilityCheck{Conflicts: slots, Reason: "blocked: " + day.BlockReason}
	}

	var conflicts []TimeSlot
	for _, slot := range expand(slots) {
		if day.Slots.Get(slot) != StatusAvailable {
			conflicts = append(conflicts, slot)
		}
	}
	if len(conflicts) > 0 {
		return AvailabilityCheck{Conflicts: conflicts, Reason: "slot conflict"}
	}
	return AvailabilityCheck{Available: true}
}
