package cgt

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FinancialYear is an Australian financial year, identified by the calendar
// year in which it starts. FinancialYear(2023) runs 1 July 2023 to 30 June 2024.
type FinancialYear int

// FinancialYearOf returns the financial year containing d.
func FinancialYearOf(d time.Time) FinancialYear {
	if d.Month() >= time.July {
		return FinancialYear(d.Year())
	}
	return FinancialYear(d.Year() - 1)
}

// String renders the year as "2023-2024".
func (fy FinancialYear) String() string {
	return fmt.Sprintf("%04d-%04d", int(fy), int(fy)+1)
}

// Start is 1 July of the starting year.
func (fy FinancialYear) Start() time.Time {
	return time.Date(int(fy), time.July, 1, 0, 0, 0, 0, time.UTC)
}

// End is 30 June of the following year.
func (fy FinancialYear) End() time.Time {
	return time.Date(int(fy)+1, time.June, 30, 0, 0, 0, 0, time.UTC)
}

// Contains reports whether the calendar date of d falls inside the year.
func (fy FinancialYear) Contains(d time.Time) bool {
	return FinancialYearOf(d) == fy
}

// ParseFinancialYear accepts "2023-2024" and the short "2023-24".
func ParseFinancialYear(s string) (FinancialYear, error) {
	start, end, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok || len(start) != 4 {
		return 0, fmt.Errorf("invalid financial year %q: expected YYYY-YYYY", s)
	}
	y, err := strconv.Atoi(start)
	if err != nil || y < 1 {
		return 0, fmt.Errorf("invalid financial year %q: bad start year", s)
	}
	n, err := strconv.Atoi(end)
	if err != nil {
		return 0, fmt.Errorf("invalid financial year %q: bad end year", s)
	}
	switch len(end) {
	case 4:
		if n != y+1 {
			return 0, fmt.Errorf("invalid financial year %q: end must follow start", s)
		}
	case 2:
		if n != (y+1)%100 {
			return 0, fmt.Errorf("invalid financial year %q: end must follow start", s)
		}
	default:
		return 0, fmt.Errorf("invalid financial year %q: expected YYYY-YYYY", s)
	}
	return FinancialYear(y), nil
}
