package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"moneymap/internal/core"
	"moneymap/internal/projection"
)

// EntrySource is the slice of the repository the timeline needs.
type EntrySource interface {
	EntriesInRange(ctx context.Context, start, end core.Date) ([]core.MaterializedEntry, error)
}

// TimelineService turns materialized ledger entries into a running-balance
// cash-flow timeline.
type TimelineService struct {
	entries EntrySource
}

func NewTimelineService(entries EntrySource) *TimelineService {
	return &TimelineService{entries: entries}
}

// Timeline loads the entries between from and to and projects them over
// startingBalance. Income entries keep their positive sign; expenses and
// transfers are applied as negative amounts.
func (s *TimelineService) Timeline(ctx context.Context, startingBalance decimal.Decimal, from, to core.Date) (projection.Result, error) {
	entries, err := s.entries.EntriesInRange(ctx, from, to)
	if err != nil {
		return projection.Result{}, fmt.Errorf("load entries in range: %w", err)
	}

	events := make([]projection.Event, 0, len(entries))
	for _, e := range entries {
		amount := e.Amount
		if e.Direction != core.Income {
			amount = amount.Neg()
		}

		events = append(events, projection.Event{
			Date:           e.OccurredOn,
			Name:           e.Name,
			Amount:         amount,
			Type:           eventType(e.Direction),
			Kind:           string(e.Direction),
			Source:         "materialized",
			RecordType:     "ledger_entry",
			RecordID:       e.ID,
			BudgetPeriodID: e.Period.String(),
		})
	}

	return projection.Project(startingBalance, events, from, to)
}

func eventType(d core.Direction) projection.EventType {
	switch d {
	case core.Income:
		return projection.EventIncome
	case core.Transfer:
		return projection.EventTransfer
	default:
		return projection.EventExpense
	}
}
