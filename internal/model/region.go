package model

import (
	"fmt"
	"time"
)

// Region is a named country resolved against a boundary table.
type Region struct {
	// Name is the country name as spelled in the boundary table, e.g. "Germany".
	Name string

	// Boundaries selects the table used to resolve Name.
	Boundaries BoundarySource
}

// String returns the region name.
func (r Region) String() string {
	return r.Name
}

// MonthDay is a calendar day without a year.
type MonthDay struct {
	Month time.Month
	Day   int
}

// ParseMonthDay parses "MM-DD".
func ParseMonthDay(s string) (MonthDay, error) {
	t, err := time.Parse("01-02", s)
	if err != nil {
		return MonthDay{}, fmt.Errorf("%w: %q", ErrInvalidMonthDay, s)
	}
	return MonthDay{Month: t.Month(), Day: t.Day()}, nil
}

// String formats the month-day as "MM-DD".
func (md MonthDay) String() string {
	return fmt.Sprintf("%02d-%02d", int(md.Month), md.Day)
}

// In returns the date of md in the given year (UTC).
func (md MonthDay) In(year int) time.Time {
	return time.Date(year, md.Month, md.Day, 0, 0, 0, 0, time.UTC)
}

func (md MonthDay) before(other MonthDay) bool {
	if md.Month != other.Month {
		return md.Month < other.Month
	}
	return md.Day < other.Day
}

// DateWindow is a seasonal window that repeats every year, e.g. September.
// Start is inclusive and End is exclusive once expanded with Range.
type DateWindow struct {
	Start MonthDay
	End   MonthDay
}

// SeptemberWindow is the window used by the NDVI analyses.
var SeptemberWindow = DateWindow{
	Start: MonthDay{Month: time.September, Day: 1},
	End:   MonthDay{Month: time.September, Day: 30},
}

// Validate reports whether the window is non-empty.
func (w DateWindow) Validate() error {
	if !w.Start.before(w.End) {
		return ErrInvalidWindow
	}
	return nil
}

// Range expands the window into a concrete date range for year.
func (w DateWindow) Range(year int) DateRange {
	return DateRange{Start: w.Start.In(year), End: w.End.In(year)}
}

// MonthName returns the English month name of the window start, or ""
// for the zero window.
func (w DateWindow) MonthName() string {
	if w.Start.Month < time.January || w.Start.Month > time.December {
		return ""
	}
	return w.Start.Month.String()
}

// DateRange is a half-open [Start, End) interval.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Format returns both bounds formatted as YYYY-MM-DD.
func (r DateRange) Format() (string, string) {
	return r.Start.Format(time.DateOnly), r.End.Format(time.DateOnly)
}
