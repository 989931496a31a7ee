package schedule

import (
	"fmt"

	"moneymap/internal/core"
)

// Describe renders a recurrence as a human-readable schedule string,
// e.g. "Every 2 weeks starting Jan 5, 2026".
func Describe(r core.Recurrence) string {
	start := r.StartDate.Format("Jan 2, 2006")
	switch r.Frequency {
	case core.Weekly:
		return "Weekly starting " + start
	case core.Biweekly:
		return "Every 2 weeks starting " + start
	case core.Semimonthly:
		return "Twice a month starting " + start
	case core.Monthly:
		return "Monthly starting " + start
	case core.Quarterly:
		return "Quarterly starting " + start
	case core.SemiAnnual:
		return "Every 6 months starting " + start
	case core.Annual:
		return "Annually starting " + start
	case core.Custom:
		return fmt.Sprintf("Every %s starting %s", customInterval(r.Every, r.Unit), start)
	default:
		return "Unknown schedule"
	}
}

func customInterval(every int, unit core.IntervalUnit) string {
	singular := map[core.IntervalUnit]string{
		core.UnitDays:   "day",
		core.UnitWeeks:  "week",
		core.UnitMonths: "month",
		core.UnitYears:  "year",
	}[unit]
	if singular == "" {
		singular = string(unit)
	}
	if every == 1 {
		return singular
	}
	return fmt.Sprintf("%d %ss", every, singular)
}
