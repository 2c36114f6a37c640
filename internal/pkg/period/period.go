// Package period implements the recurrence frequencies shared by budgets,
// savings plans and projections, and the calendar arithmetic on them.
package period

import (
	"fmt"
	"time"
)

// Frequency is a recurrence step for budgets, installment plans and
// projections.
type Frequency string

const (
	Weekly     Frequency = "WEEKLY"
	Biweekly   Frequency = "BIWEEKLY"
	Monthly    Frequency = "MONTHLY"
	Quarterly  Frequency = "QUARTERLY"
	Semiannual Frequency = "SEMIANNUAL"
	Annual     Frequency = "ANNUAL"
)

// IsValid reports whether f is one of the known frequencies.
func (f Frequency) IsValid() bool {
	switch f {
	case Weekly, Biweekly, Monthly, Quarterly, Semiannual, Annual:
		return true
	}
	return false
}

// Parse converts a raw string into a Frequency.
func Parse(raw string) (Frequency, error) {
	f := Frequency(raw)
	if !f.IsValid() {
		return "", fmt.Errorf("unknown frequency %q", raw)
	}
	return f, nil
}

// Step advances t by one frequency step. Month-based steps use calendar
// months, so stepping from Jan 31 lands on the normalized date Go produces
// for the shorter month.
func (f Frequency) Step(t time.Time) time.Time {
	switch f {
	case Weekly:
		return t.AddDate(0, 0, 7)
	case Biweekly:
		return t.AddDate(0, 0, 14)
	case Monthly:
		return t.AddDate(0, 1, 0)
	case Quarterly:
		return t.AddDate(0, 3, 0)
	case Semiannual:
		return t.AddDate(0, 6, 0)
	case Annual:
		return t.AddDate(1, 0, 0)
	}
	return t
}

// NextWindow returns the window that follows one ending at end: it starts
// the day after end and spans one frequency step, both bounds inclusive.
func (f Frequency) NextWindow(end time.Time) (time.Time, time.Time) {
	start := end.AddDate(0, 0, 1)
	return start, f.Step(start).AddDate(0, 0, -1)
}

// Schedule enumerates the dates from start, stepping by f, up to and
// including deadline. The result is empty if start is after deadline.
func (f Frequency) Schedule(start, deadline time.Time) []time.Time {
	var dates []time.Time
	for d := start; !d.After(deadline); d = f.Step(d) {
		dates = append(dates, d)
	}
	return dates
}

// Date truncates t to a calendar day in UTC. Entry dates and window bounds
// are compared at day precision.
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
