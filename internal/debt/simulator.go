// Package debt simulates month-by-month amortization of a debt set under
// a payoff strategy. Simulations operate on private copies of the caller's
// debts and always terminate: a run stops when every balance reaches zero
// or when the 600-month safety cap is hit, whichever comes first.
package debt

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"moneymap/internal/core"
)

// MaxSimulationMonths caps every simulation at 50 years so that
// non-converging inputs (payment below monthly interest accrual) cannot
// loop forever. A capped run still returns its partial schedule; callers
// must check the final remaining balance to distinguish payoff from cap
// exhaustion.
const MaxSimulationMonths = 600

const (
	// Snowball orders debts ascending by balance.
	Snowball Strategy = "snowball"
	// Avalanche orders debts descending by annual rate.
	Avalanche Strategy = "avalanche"
)

var (
	ErrUnknownStrategy = errors.New("unknown payoff strategy")
	ErrNegativeExtra   = errors.New("extra payment cannot be negative")
)

type (
	Strategy string

	// PaymentLine is one debt's share of a simulated month.
	PaymentLine struct {
		Name      string          `json:"name"`
		Payment   decimal.Decimal `json:"payment"`
		Principal decimal.Decimal `json:"principal"`
		Interest  decimal.Decimal `json:"interest"`
		Remaining decimal.Decimal `json:"remaining"`
	}

	// ScheduleRow is one simulated month.
	ScheduleRow struct {
		Month          int             `json:"month"`
		Label          string          `json:"label"` // e.g. "Mar 2026"
		Payments       []PaymentLine   `json:"payments"`
		TotalRemaining decimal.Decimal `json:"total_remaining"`
	}

	Result struct {
		Strategy        Strategy        `json:"strategy"`
		PayoffOrder     []string        `json:"payoff_order"`
		MonthsToFreedom int             `json:"months_to_freedom"`
		DebtFreeDate    core.Date       `json:"debt_free_date"`
		TotalInterest   decimal.Decimal `json:"total_interest"`
		TotalPaid       decimal.Decimal `json:"total_paid"`
		Schedule        []ScheduleRow   `json:"schedule"`
	}

	Comparison struct {
		Snowball          Result          `json:"snowball"`
		Avalanche         Result          `json:"avalanche"`
		SavingsDifference decimal.Decimal `json:"savings_difference"`
		MonthsDifference  int             `json:"months_difference"`
	}

	Impact struct {
		BaseMonths    int             `json:"base_months"`
		NewMonths     int             `json:"new_months"`
		MonthsSaved   int             `json:"months_saved"`
		InterestSaved decimal.Decimal `json:"interest_saved"`
		BaseInterest  decimal.Decimal `json:"base_interest"`
		NewInterest   decimal.Decimal `json:"new_interest"`
	}
)

// Simulate runs a full amortization of debts under the given strategy.
// The extra payment goes to the first debt with a positive balance in the
// strategy's fixed initial order, re-scanned every month so the target
// advances as balances clear. reference anchors calendar labels and the
// debt-free date; caller data is never mutated.
func Simulate(debts []core.DebtAccount, extra decimal.Decimal, strategy Strategy, reference core.Date) (Result, error) {
	if extra.Sign() < 0 {
		return Result{}, ErrNegativeExtra
	}

	sim := make([]core.DebtAccount, len(debts))
	copy(sim, debts)
	for i, d := range sim {
		if err := d.Validate(); err != nil {
			return Result{}, fmt.Errorf("debt %d (%s): %w", i, d.Name, err)
		}
	}

	order, err := priorityOrder(sim, strategy)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		Strategy:      strategy,
		DebtFreeDate:  reference,
		TotalInterest: decimal.Zero,
		TotalPaid:     decimal.Zero,
	}

	twelve := decimal.NewFromInt(12)
	for month := 1; anyPositive(sim) && month <= MaxSimulationMonths; month++ {
		target := -1
		for _, i := range order {
			if sim[i].Balance.Sign() > 0 {
				target = i
				break
			}
		}

		row := ScheduleRow{
			Month: month,
			Label: reference.AddMonths(month).Format("Jan 2006"),
		}
		for i := range sim {
			if sim[i].Balance.Sign() <= 0 {
				continue
			}
			interest := core.RoundCurrency(sim[i].Balance.Mul(sim[i].AnnualRate).Div(twelve))
			payment := sim[i].MinimumPayment
			if i == target {
				payment = payment.Add(extra)
			}
			if limit := sim[i].Balance.Add(interest); payment.GreaterThan(limit) {
				payment = limit
			}
			principal := payment.Sub(interest)
			if principal.Sign() < 0 {
				principal = decimal.Zero
			}
			balance := core.RoundCurrency(sim[i].Balance.Sub(principal))
			if balance.Sign() < 0 {
				balance = decimal.Zero
			}
			sim[i].Balance = balance

			if balance.Sign() == 0 {
				result.PayoffOrder = append(result.PayoffOrder, sim[i].Name)
			}
			result.TotalInterest = result.TotalInterest.Add(interest)
			result.TotalPaid = result.TotalPaid.Add(payment)

			row.Payments = append(row.Payments, PaymentLine{
				Name:      sim[i].Name,
				Payment:   core.RoundCurrency(payment),
				Principal: core.RoundCurrency(principal),
				Interest:  interest,
				Remaining: balance,
			})
		}
		row.TotalRemaining = totalBalance(sim)
		result.Schedule = append(result.Schedule, row)
		result.MonthsToFreedom = month
	}

	result.TotalInterest = core.RoundCurrency(result.TotalInterest)
	result.TotalPaid = core.RoundCurrency(result.TotalPaid)
	result.DebtFreeDate = reference.AddMonths(result.MonthsToFreedom)
	return result, nil
}

// Compare runs both strategies over the same inputs. A positive savings
// difference means avalanche pays less interest than snowball.
func Compare(debts []core.DebtAccount, extra decimal.Decimal, reference core.Date) (Comparison, error) {
	snowball, err := Simulate(debts, extra, Snowball, reference)
	if err != nil {
		return Comparison{}, fmt.Errorf("snowball: %w", err)
	}
	avalanche, err := Simulate(debts, extra, Avalanche, reference)
	if err != nil {
		return Comparison{}, fmt.Errorf("avalanche: %w", err)
	}
	return Comparison{
		Snowball:          snowball,
		Avalanche:         avalanche,
		SavingsDifference: snowball.TotalInterest.Sub(avalanche.TotalInterest),
		MonthsDifference:  snowball.MonthsToFreedom - avalanche.MonthsToFreedom,
	}, nil
}

// ExtraPaymentImpact runs avalanche at two extra-payment levels and
// reports the months and interest saved by the higher one.
func ExtraPaymentImpact(debts []core.DebtAccount, baseExtra, newExtra decimal.Decimal, reference core.Date) (Impact, error) {
	base, err := Simulate(debts, baseExtra, Avalanche, reference)
	if err != nil {
		return Impact{}, fmt.Errorf("base run: %w", err)
	}
	next, err := Simulate(debts, newExtra, Avalanche, reference)
	if err != nil {
		return Impact{}, fmt.Errorf("new run: %w", err)
	}
	return Impact{
		BaseMonths:    base.MonthsToFreedom,
		NewMonths:     next.MonthsToFreedom,
		MonthsSaved:   base.MonthsToFreedom - next.MonthsToFreedom,
		InterestSaved: base.TotalInterest.Sub(next.TotalInterest),
		BaseInterest:  base.TotalInterest,
		NewInterest:   next.TotalInterest,
	}, nil
}

// priorityOrder fixes the extra-payment priority once, before the first
// simulated month. Sorting is stable so equal-priority debts keep their
// input order.
func priorityOrder(debts []core.DebtAccount, strategy Strategy) ([]int, error) {
	order := make([]int, len(debts))
	for i := range order {
		order[i] = i
	}
	switch strategy {
	case Snowball:
		sort.SliceStable(order, func(a, b int) bool {
			return debts[order[a]].Balance.LessThan(debts[order[b]].Balance)
		})
	case Avalanche:
		sort.SliceStable(order, func(a, b int) bool {
			return debts[order[a]].AnnualRate.GreaterThan(debts[order[b]].AnnualRate)
		})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
	return order, nil
}

func anyPositive(debts []core.DebtAccount) bool {
	for _, d := range debts {
		if d.Balance.Sign() > 0 {
			return true
		}
	}
	return false
}

func totalBalance(debts []core.DebtAccount) decimal.Decimal {
	total := decimal.Zero
	for _, d := range debts {
		total = total.Add(d.Balance)
	}
	return total
}
