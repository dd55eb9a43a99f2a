package importer

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

func checkDate(s string) error {
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("invalid date %q", s)
	}
	return nil
}

// wholeUnits parses a possibly signed, possibly fractional quantity such as
// "-100.0" and returns its absolute whole part.
func wholeUnits(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid quantity %q", s)
	}
	q := d.Abs().IntPart()
	if q <= 0 {
		return 0, fmt.Errorf("quantity must be positive, got %q", s)
	}
	return q, nil
}
