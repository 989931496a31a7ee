// Package projection merges dated money movements into a chronological,
// running-balance timeline with monthly aggregates. Everything here is
// pure computation over caller-supplied events; results live only for the
// duration of one call.
package projection

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"moneymap/internal/core"
)

const (
	EventIncome     EventType = "income"
	EventExpense    EventType = "expense"
	EventTransfer   EventType = "transfer"
	EventDebtPayoff EventType = "debt_payoff"
)

// ErrInvalidRange marks a projection whose end date precedes its start.
var ErrInvalidRange = errors.New("end date before start date")

type (
	EventType string

	// Event is one dated, signed money movement to be merged into the
	// timeline. Label fields are passed through to the emitted row.
	Event struct {
		Date           core.Date
		Name           string
		Amount         decimal.Decimal // signed
		Type           EventType
		Kind           string // caller-supplied event kind, e.g. "budget_item"
		Source         string
		RecordType     string
		RecordID       string
		FromLabel      string
		ToLabel        string
		BudgetPeriodID string
	}

	// TimelineEntry is an Event annotated with the post-event running
	// balance. The field shape is consumed as-is by reporting collaborators.
	TimelineEntry struct {
		Date           core.Date       `json:"date"`
		Name           string          `json:"name"`
		Amount         decimal.Decimal `json:"amount"`
		Type           EventType       `json:"type"`
		EventType      string          `json:"event_type"`
		Source         string          `json:"source"`
		RecordType     string          `json:"record_type"`
		RecordID       string          `json:"record_id"`
		RunningBalance decimal.Decimal `json:"running_balance"`
		IsNegative     bool            `json:"is_negative"`
		FromLabel      string          `json:"from_label,omitempty"`
		ToLabel        string          `json:"to_label,omitempty"`
		BudgetPeriodID string          `json:"budget_period_id,omitempty"`
	}

	// MonthSummary aggregates one calendar month of the timeline.
	MonthSummary struct {
		Year          int             `json:"year"`
		Month         int             `json:"month"`
		DisplayName   string          `json:"display_name"`
		TotalIncome   decimal.Decimal `json:"total_income"`
		TotalExpenses decimal.Decimal `json:"total_expenses"`
		Surplus       decimal.Decimal `json:"surplus"`
		EndingBalance decimal.Decimal `json:"ending_balance"`
	}

	Result struct {
		Timeline       []TimelineEntry `json:"timeline"`
		NegativeDates  []core.Date     `json:"negative_dates"`
		MonthlySummary []MonthSummary  `json:"monthly_summary"`
		EndingBalance  decimal.Decimal `json:"ending_balance"`
	}
)

// Project merges the given events into a running-balance timeline over
// [start, end]. Events are applied in date order with income first on
// equal dates (same-day deposit-before-withdrawal); the balance is rounded
// to the cent after each step. Events outside the range are ignored.
func Project(startingBalance decimal.Decimal, events []Event, start, end core.Date) (Result, error) {
	if end.Before(start.Time) {
		return Result{}, fmt.Errorf("%w: %s .. %s", ErrInvalidRange, start, end)
	}

	balance := core.RoundCurrency(startingBalance)
	result := Result{EndingBalance: balance}

	sorted := make([]Event, 0, len(events))
	for _, e := range events {
		if e.Date.Before(start.Time) || e.Date.After(end.Time) {
			continue
		}
		sorted = append(sorted, e)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date.Time) {
			return sorted[i].Date.Before(sorted[j].Date.Time)
		}
		return sorted[i].Type == EventIncome && sorted[j].Type != EventIncome
	})

	seenNegative := make(map[string]bool)
	var month *MonthSummary

	for _, e := range sorted {
		balance = core.RoundCurrency(balance.Add(e.Amount))
		negative := balance.Sign() < 0

		result.Timeline = append(result.Timeline, TimelineEntry{
			Date:           e.Date,
			Name:           e.Name,
			Amount:         core.RoundCurrency(e.Amount),
			Type:           e.Type,
			EventType:      e.Kind,
			Source:         e.Source,
			RecordType:     e.RecordType,
			RecordID:       e.RecordID,
			RunningBalance: balance,
			IsNegative:     negative,
			FromLabel:      e.FromLabel,
			ToLabel:        e.ToLabel,
			BudgetPeriodID: e.BudgetPeriodID,
		})

		if negative {
			key := e.Date.String()
			if !seenNegative[key] {
				seenNegative[key] = true
				result.NegativeDates = append(result.NegativeDates, e.Date)
			}
		}

		if month == nil || month.Year != e.Date.Year() || month.Month != e.Date.Month() {
			p := core.PeriodOf(e.Date)
			result.MonthlySummary = append(result.MonthlySummary, MonthSummary{
				Year:          p.Year,
				Month:         p.Month,
				DisplayName:   p.DisplayName(),
				TotalIncome:   decimal.Zero,
				TotalExpenses: decimal.Zero,
			})
			month = &result.MonthlySummary[len(result.MonthlySummary)-1]
		}
		if e.Amount.Sign() >= 0 {
			month.TotalIncome = month.TotalIncome.Add(e.Amount)
		} else {
			month.TotalExpenses = month.TotalExpenses.Add(e.Amount.Abs())
		}
		month.EndingBalance = balance
	}

	for i := range result.MonthlySummary {
		s := &result.MonthlySummary[i]
		s.TotalIncome = core.RoundCurrency(s.TotalIncome)
		s.TotalExpenses = core.RoundCurrency(s.TotalExpenses)
		s.Surplus = s.TotalIncome.Sub(s.TotalExpenses)
	}

	result.EndingBalance = balance
	return result, nil
}
