package pricing

import "errors"

// Calculator error taxonomy. All except ErrRouteLookupFailed are caller-input
// errors and are surfaced to the caller unchanged; ErrRouteLookupFailed is
// recovered inside the route resolver by falling back to a default estimate.
var (
	ErrUnknownDestination  = errors.New("unknown destination")
	ErrInvalidTripDuration = errors.New("trip duration must be at least 1 day")
	ErrUnknownLineItem     = errors.New("unknown line item")
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	ErrRouteLookupFailed   = errors.New("route lookup failed")
)
