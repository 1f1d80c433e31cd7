package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidYearRange is returned when a YearRange ends before it starts.
var ErrInvalidYearRange = errors.New("invalid year range")

// YearRange is an inclusive, contiguous span of years.
type YearRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// DefaultYears is the span covered by the generated Korean tables.
var DefaultYears = YearRange{Start: 1989, End: 2023}

// Validate reports whether the range holds at least one year.
func (r YearRange) Validate() error {
	if r.End < r.Start {
		return fmt.Errorf("%w: %d-%d", ErrInvalidYearRange, r.Start, r.End)
	}
	return nil
}

// Len returns the number of years in the range.
func (r YearRange) Len() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start + 1
}

// Contains reports whether year falls inside the range.
func (r YearRange) Contains(year int) bool {
	return year >= r.Start && year <= r.End
}

// Years lists every year in the range in ascending order.
func (r YearRange) Years() []int {
	years := make([]int, 0, r.Len())
	for y := r.Start; y <= r.End; y++ {
		years = append(years, y)
	}
	return years
}
