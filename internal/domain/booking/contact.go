package booking

import (
	"strings"

	"github.com/recharge-travels/service-quotes/pkg/domain"
)

// ContactDetails holds the lead traveler's contact information for a booking.
type ContactDetails struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Country  string `json:"country"`
}

// Validate checks the minimal fields needed to reach the traveler.
func (c ContactDetails) Validate() error {
	if strings.TrimSpace(c.FullName) == "" {
		return domain.NewValidationError("traveler name is required")
	}
	if strings.TrimSpace(c.Email) == "" && strings.TrimSpace(c.Phone) == "" {
		return domain.NewValidationError("an email address or phone number is required")
	}
	return nil
}
