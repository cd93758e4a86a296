package pricing

import (
	"fmt"
	"math"
	"strings"
)

// Convert converts a USD cent amount into the target currency, rounded to the
// nearest cent. USD is the system of record; conversion is display-only and
// performs no I/O.
func (c *Catalog) Convert(amountCents int64, currency string) (int64, error) {
	rate, ok := c.Rate(currency)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedCurrency, strings.ToUpper(currency))
	}
	return int64(math.Round(float64(amountCents) * rate)), nil
}
