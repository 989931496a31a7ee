// Package schedule turns recurrence descriptors into concrete calendar
// dates. Every function takes an explicit reference date; nothing in here
// reads the wall clock.
package schedule

import (
	"errors"
	"fmt"

	"moneymap/internal/core"
)

var (
	// ErrUnknownFrequency marks a descriptor whose frequency tag reached
	// occurrence computation without being recognized. This is a
	// programmer error, not a data condition.
	ErrUnknownFrequency = errors.New("unknown recurrence frequency")

	// ErrInvalidRange marks an occurrences query whose end precedes its start.
	ErrInvalidRange = errors.New("range end before range start")
)

// NextAfter returns the first occurrence of r strictly after the given
// date. Every returned date is >= r.StartDate.
func NextAfter(r core.Recurrence, after core.Date) (core.Date, error) {
	switch r.Frequency {
	case core.Weekly:
		return nextByDays(r.StartDate, 7, after), nil
	case core.Biweekly:
		return nextByDays(r.StartDate, 14, after), nil
	case core.Semimonthly:
		return nextSemimonthly(r.StartDate, after)
	case core.Monthly:
		return nextByMonths(r.StartDate, 1, after), nil
	case core.Quarterly:
		return nextByMonths(r.StartDate, 3, after), nil
	case core.SemiAnnual:
		return nextByMonths(r.StartDate, 6, after), nil
	case core.Annual:
		return nextByMonths(r.StartDate, 12, after), nil
	case core.Custom:
		return nextCustom(r, after)
	default:
		return core.Date{}, fmt.Errorf("%w: %q", ErrUnknownFrequency, r.Frequency)
	}
}

// OccurrencesInRange returns every occurrence of r within [start, end]
// inclusive, in ascending order.
func OccurrencesInRange(r core.Recurrence, start, end core.Date) ([]core.Date, error) {
	if end.Before(start.Time) {
		return nil, fmt.Errorf("%w: %s .. %s", ErrInvalidRange, start, end)
	}

	// Probe just before the range so an occurrence landing exactly on
	// start is not skipped.
	cur, err := NextAfter(r, start.AddDays(-1))
	if err != nil {
		return nil, err
	}
	if cur.Before(start.Time) {
		cur, err = NextAfter(r, start)
		if err != nil {
			return nil, err
		}
	}

	var out []core.Date
	for !cur.After(end.Time) {
		out = append(out, cur)
		cur, err = NextAfter(r, cur)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// nextByDays advances from start in whole multiples of step days until the
// candidate exceeds after.
func nextByDays(start core.Date, step int, after core.Date) core.Date {
	if after.Before(start.Time) {
		return start
	}
	elapsed := start.DaysBetween(after)
	return start.AddDays((elapsed/step + 1) * step)
}

// nextByMonths repeatedly adds step calendar months to start until the
// candidate exceeds after. Calendar addition clamps to the target month's
// last valid day (Jan 31 + 1 month -> Feb 28/29); anchoring every
// candidate at start keeps the day from drifting after a clamp.
func nextByMonths(start core.Date, step int, after core.Date) core.Date {
	if after.Before(start.Time) {
		return start
	}
	for k := 1; ; k++ {
		if cand := start.AddMonths(k * step); cand.After(after.Time) {
			return cand
		}
	}
}

// nextSemimonthly finds the next of the two monthly paydays derived from
// the start date: day1 = start.Day and day2 = min(day1+14, 28). Candidate
// months run from one before to two after the month containing after,
// because day2 can land in the month following day1's.
func nextSemimonthly(start core.Date, after core.Date) (core.Date, error) {
	if after.Before(start.Time) {
		return start, nil
	}

	day1 := start.Day()
	if day1 < 1 {
		day1 = 1
	}
	day2 := day1 + 14
	if day2 > 28 {
		day2 = 28
	}

	var best core.Date
	for offset := -1; offset <= 2; offset++ {
		anchor := core.NewDate(after.Year(), after.Month(), 1).AddMonths(offset)
		for _, day := range []int{day1, day2} {
			cand := clampedDate(anchor.Year(), anchor.Month(), day)
			if !cand.After(after.Time) || cand.Before(start.Time) {
				continue
			}
			if best.IsZero() || cand.Before(best.Time) {
				best = cand
			}
		}
	}
	if best.IsZero() {
		// The window is proven sufficient for every start day (see the
		// exhaustive test); reaching this means the invariant broke.
		return core.Date{}, fmt.Errorf("no semimonthly candidate after %s for start %s", after, start)
	}
	return best, nil
}

// nextCustom accumulates Every units from start until exceeding after.
// Days and weeks use day arithmetic; months and years use clamped
// calendar-month arithmetic.
func nextCustom(r core.Recurrence, after core.Date) (core.Date, error) {
	if r.Every <= 0 {
		return core.Date{}, core.ErrNonPositiveInterval
	}
	switch r.Unit {
	case core.UnitDays:
		return nextByDays(r.StartDate, r.Every, after), nil
	case core.UnitWeeks:
		return nextByDays(r.StartDate, r.Every*7, after), nil
	case core.UnitMonths:
		return nextByMonths(r.StartDate, r.Every, after), nil
	case core.UnitYears:
		return nextByMonths(r.StartDate, r.Every*12, after), nil
	default:
		return core.Date{}, fmt.Errorf("%w: custom unit %q", ErrUnknownFrequency, r.Unit)
	}
}

// clampedDate builds a date in (year, month) clamping day to the month's
// real last day.
func clampedDate(year, month, day int) core.Date {
	if last := core.DaysInMonth(year, month); day > last {
		day = last
	}
	return core.NewDate(year, month, day)
}
