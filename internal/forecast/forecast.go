// Package forecast projects savings, debt, and net worth over a multi-year
// horizon from a small set of monthly assumptions. It reuses the amortization
// arithmetic of the debt package in a simplified single-target form: each
// month the whole extra payment goes to the first debt, in input order, that
// still carries a balance.
package forecast

import (
	"fmt"

	"github.com/shopspring/decimal"

	"moneymap/internal/core"
	"moneymap/internal/debt"
)

var twelve = decimal.NewFromInt(12)

// Assumptions drive the month-by-month projection. Growth rates are annual
// fractions (0.03 for 3%) applied as rate/12 compounding each month.
type Assumptions struct {
	MonthlyIncome     decimal.Decimal `json:"monthly_income"`
	MonthlyExpenses   decimal.Decimal `json:"monthly_expenses"`
	ExtraDebtPayment  decimal.Decimal `json:"extra_debt_payment"`
	IncomeGrowthRate  decimal.Decimal `json:"income_growth_rate"`
	ExpenseGrowthRate decimal.Decimal `json:"expense_growth_rate"`
}

// ProjectionRow is the state at the end of one simulated month. Each row
// depends only on the previous one.
type ProjectionRow struct {
	Month     int             `json:"month"`
	Date      core.Date       `json:"date"`
	Income    decimal.Decimal `json:"income"`
	Expenses  decimal.Decimal `json:"expenses"`
	Surplus   decimal.Decimal `json:"surplus"`
	TotalDebt decimal.Decimal `json:"total_debt"`
	Savings   decimal.Decimal `json:"savings"`
	NetWorth  decimal.Decimal `json:"net_worth"`
}

// Project simulates horizonMonths months starting from reference. The
// horizon is capped at debt.MaxSimulationMonths regardless of the caller's
// request. Caller-supplied debts are never mutated.
func Project(a Assumptions, debts []core.DebtAccount, currentSavings decimal.Decimal, horizonMonths int, reference core.Date) ([]ProjectionRow, error) {
	if a.ExtraDebtPayment.Sign() < 0 {
		return nil, debt.ErrNegativeExtra
	}

	sim := make([]core.DebtAccount, len(debts))
	copy(sim, debts)
	for i, d := range sim {
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("debt %d (%s): %w", i, d.Name, err)
		}
	}

	if horizonMonths > debt.MaxSimulationMonths {
		horizonMonths = debt.MaxSimulationMonths
	}

	income := a.MonthlyIncome
	expenses := a.MonthlyExpenses
	savings := currentSavings

	rows := make([]ProjectionRow, 0, max(horizonMonths, 0))
	for month := 1; month <= horizonMonths; month++ {
		surplus := income.Sub(expenses).Sub(a.ExtraDebtPayment)

		target := -1
		for i := range sim {
			if sim[i].Balance.Sign() > 0 {
				target = i
				break
			}
		}
		for i := range sim {
			if sim[i].Balance.Sign() <= 0 {
				continue
			}
			interest := core.RoundCurrency(sim[i].Balance.Mul(sim[i].AnnualRate.Div(twelve)))
			payment := sim[i].MinimumPayment
			if i == target {
				payment = payment.Add(a.ExtraDebtPayment)
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
		}

		if surplus.Sign() > 0 {
			savings = savings.Add(surplus)
		}

		totalDebt := decimal.Zero
		for i := range sim {
			totalDebt = totalDebt.Add(sim[i].Balance)
		}

		rows = append(rows, ProjectionRow{
			Month:     month,
			Date:      reference.AddMonths(month),
			Income:    core.RoundCurrency(income),
			Expenses:  core.RoundCurrency(expenses),
			Surplus:   core.RoundCurrency(surplus),
			TotalDebt: core.RoundCurrency(totalDebt),
			Savings:   core.RoundCurrency(savings),
			NetWorth:  core.RoundCurrency(savings.Sub(totalDebt)),
		})

		income = income.Mul(decimal.NewFromInt(1).Add(a.IncomeGrowthRate.Div(twelve)))
		expenses = expenses.Mul(decimal.NewFromInt(1).Add(a.ExpenseGrowthRate.Div(twelve)))
	}

	return rows, nil
}

// DebtFreeMonth returns the month index of the first row with no remaining
// debt. The second return is false when debt is never cleared in rows.
func DebtFreeMonth(rows []ProjectionRow) (int, bool) {
	for _, r := range rows {
		if r.TotalDebt.Sign() <= 0 {
			return r.Month, true
		}
	}
	return 0, false
}
