// Package services orchestrates the engine's moving parts: expanding
// obligations into ledger entries ahead of time and assembling cash-flow
// timelines from what was materialized.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"moneymap/internal/core"
	"moneymap/internal/schedule"
)

// MaterializerStore is the slice of the repository the materializer needs.
type MaterializerStore interface {
	ActiveObligations(ctx context.Context) ([]core.ScheduledObligation, error)
	InsertMissingEntries(ctx context.Context, o core.ScheduledObligation, period core.Period, dates []core.Date) (int, error)
	PeriodEntries(ctx context.Context, period core.Period) ([]core.MaterializedEntry, error)
	SavePeriodSummary(ctx context.Context, s core.PeriodSummary) error
}

// Materializer expands active obligations into concrete ledger entries for
// upcoming months. Runs are idempotent; entries a user has edited are never
// touched again.
type Materializer struct {
	store MaterializerStore
}

func NewMaterializer(store MaterializerStore) *Materializer {
	return &Materializer{store: store}
}

// FailedUnit records one obligation-period pair that could not be
// materialized.
type FailedUnit struct {
	ObligationID string
	Period       core.Period
	Err          error
}

// PeriodResult is the per-month outcome of one run.
type PeriodResult struct {
	Period  core.Period
	Created int
	Failed  int
}

// Report sums up a materialization run.
type Report struct {
	Created int
	Periods []PeriodResult
	Failed  []FailedUnit
}

// Materialize processes the horizonMonths calendar months after reference,
// one obligation-period unit at a time. A failing unit is logged and
// reported; the run keeps going. After each period its summary is
// recomputed from whatever entries that period now holds.
func (m *Materializer) Materialize(ctx context.Context, reference core.Date, horizonMonths int) (Report, error) {
	obligations, err := m.store.ActiveObligations(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("load active obligations: %w", err)
	}

	slog.InfoContext(ctx, "Materializing periods",
		"active_obligations", len(obligations),
		"reference_date", reference.String(),
		"horizon_months", horizonMonths)

	var report Report
	for offset := 1; offset <= horizonMonths; offset++ {
		period := core.PeriodOf(reference.AddMonths(offset))
		result := PeriodResult{Period: period}
		start, end := period.Bounds()

		for _, o := range obligations {
			dates, err := schedule.OccurrencesInRange(o.Recurrence, start, end)
			if err != nil {
				slog.ErrorContext(ctx, "Failed to expand recurrence",
					"obligation_id", o.ID,
					"name", o.Name,
					"period", period.String(),
					"error", err)
				result.Failed++
				report.Failed = append(report.Failed, FailedUnit{ObligationID: o.ID, Period: period, Err: err})
				continue
			}
			if len(dates) == 0 {
				continue
			}

			created, err := m.store.InsertMissingEntries(ctx, o, period, dates)
			if err != nil {
				slog.ErrorContext(ctx, "Failed to insert ledger entries",
					"obligation_id", o.ID,
					"name", o.Name,
					"period", period.String(),
					"error", err)
				result.Failed++
				report.Failed = append(report.Failed, FailedUnit{ObligationID: o.ID, Period: period, Err: err})
				continue
			}
			result.Created += created
		}

		if err := m.refreshSummary(ctx, period); err != nil {
			slog.ErrorContext(ctx, "Failed to refresh period summary",
				"period", period.String(),
				"error", err)
			result.Failed++
			report.Failed = append(report.Failed, FailedUnit{Period: period, Err: err})
		}

		report.Created += result.Created
		report.Periods = append(report.Periods, result)
	}

	slog.InfoContext(ctx, "Materialization complete",
		"created", report.Created,
		"periods", len(report.Periods),
		"failed_units", len(report.Failed))

	return report, nil
}

// refreshSummary recomputes a period's totals from its stored entries.
// Income sums income-direction rows; planned sums all expense rows; spent
// sums only the expense rows a user has confirmed by editing.
func (m *Materializer) refreshSummary(ctx context.Context, period core.Period) error {
	entries, err := m.store.PeriodEntries(ctx, period)
	if err != nil {
		return fmt.Errorf("load period entries: %w", err)
	}

	summary := core.PeriodSummary{
		Period:  period,
		Income:  decimal.Zero,
		Planned: decimal.Zero,
		Spent:   decimal.Zero,
	}
	for _, e := range entries {
		switch e.Direction {
		case core.Income:
			summary.Income = summary.Income.Add(e.Amount)
		case core.Expense:
			summary.Planned = summary.Planned.Add(e.Amount)
			if e.UserEdited {
				summary.Spent = summary.Spent.Add(e.Amount)
			}
		}
	}

	if err := m.store.SavePeriodSummary(ctx, summary); err != nil {
		return fmt.Errorf("save period summary: %w", err)
	}
	return nil
}
