package projection

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"moneymap/internal/core"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestProjectSameDayIncomeFirst(t *testing.T) {
	day := core.NewDate(2026, 3, 15)
	events := []Event{
		{Date: day, Name: "Rent", Amount: dec("-1500"), Type: EventExpense},
		{Date: day, Name: "Paycheck", Amount: dec("2500"), Type: EventIncome},
	}

	result, err := Project(dec("1000"), events, core.NewDate(2026, 3, 1), core.NewDate(2026, 3, 31))
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	if len(result.Timeline) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(result.Timeline))
	}
	if result.Timeline[0].Name != "Paycheck" {
		t.Errorf("expected income first, got %q", result.Timeline[0].Name)
	}
	if !result.Timeline[0].RunningBalance.Equal(dec("3500")) {
		t.Errorf("income running balance = %s, want 3500", result.Timeline[0].RunningBalance)
	}
	if !result.Timeline[1].RunningBalance.Equal(dec("2000")) {
		t.Errorf("expense running balance = %s, want 2000", result.Timeline[1].RunningBalance)
	}
	if !result.EndingBalance.Equal(dec("2000")) {
		t.Errorf("ending balance = %s, want 2000", result.EndingBalance)
	}
}

func TestProjectNegativeDates(t *testing.T) {
	events := []Event{
		{Date: core.NewDate(2026, 1, 5), Name: "Rent", Amount: dec("-800"), Type: EventExpense},
		{Date: core.NewDate(2026, 1, 5), Name: "Groceries", Amount: dec("-300"), Type: EventExpense},
		{Date: core.NewDate(2026, 1, 10), Name: "Paycheck", Amount: dec("2000"), Type: EventIncome},
		{Date: core.NewDate(2026, 1, 20), Name: "Car repair", Amount: dec("-1500"), Type: EventExpense},
	}

	result, err := Project(dec("500"), events, core.NewDate(2026, 1, 1), core.NewDate(2026, 1, 31))
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}

	// balance path: 500 -> -300 -> -600 -> 1400 -> -100
	wantNegative := []core.Date{core.NewDate(2026, 1, 5), core.NewDate(2026, 1, 20)}
	if len(result.NegativeDates) != len(wantNegative) {
		t.Fatalf("negative dates = %v, want %v", result.NegativeDates, wantNegative)
	}
	for i := range wantNegative {
		if !result.NegativeDates[i].Equal(wantNegative[i].Time) {
			t.Errorf("negative date %d = %s, want %s", i, result.NegativeDates[i], wantNegative[i])
		}
	}
	for _, entry := range result.Timeline {
		if entry.IsNegative != (entry.RunningBalance.Sign() < 0) {
			t.Errorf("%s: is_negative=%v with balance %s", entry.Name, entry.IsNegative, entry.RunningBalance)
		}
	}
}

func TestProjectMonthlySummary(t *testing.T) {
	events := []Event{
		{Date: core.NewDate(2026, 1, 10), Name: "Paycheck", Amount: dec("2000"), Type: EventIncome},
		{Date: core.NewDate(2026, 1, 15), Name: "Rent", Amount: dec("-1200"), Type: EventExpense},
		{Date: core.NewDate(2026, 2, 10), Name: "Paycheck", Amount: dec("2000"), Type: EventIncome},
		{Date: core.NewDate(2026, 2, 12), Name: "Utilities", Amount: dec("-150.50"), Type: EventExpense},
		{Date: core.NewDate(2026, 2, 20), Name: "Savings move", Amount: dec("-400"), Type: EventTransfer},
	}

	result, err := Project(dec("100"), events, core.NewDate(2026, 1, 1), core.NewDate(2026, 2, 28))
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	if len(result.MonthlySummary) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(result.MonthlySummary))
	}

	jan := result.MonthlySummary[0]
	if jan.Year != 2026 || jan.Month != 1 || jan.DisplayName != "January 2026" {
		t.Fatalf("january header wrong: %+v", jan)
	}
	if !jan.TotalIncome.Equal(dec("2000")) || !jan.TotalExpenses.Equal(dec("1200")) || !jan.Surplus.Equal(dec("800")) {
		t.Errorf("january totals wrong: %+v", jan)
	}
	if !jan.EndingBalance.Equal(dec("900")) {
		t.Errorf("january ending balance = %s, want 900", jan.EndingBalance)
	}

	feb := result.MonthlySummary[1]
	if !feb.TotalIncome.Equal(dec("2000")) || !feb.TotalExpenses.Equal(dec("550.50")) {
		t.Errorf("february totals wrong: %+v", feb)
	}
	if !feb.Surplus.Equal(dec("1449.50")) {
		t.Errorf("february surplus = %s, want 1449.50", feb.Surplus)
	}
	if !feb.EndingBalance.Equal(dec("2349.50")) {
		t.Errorf("february ending balance = %s, want 2349.50", feb.EndingBalance)
	}
}

func TestProjectEmptyEvents(t *testing.T) {
	result, err := Project(dec("1234.56"), nil, core.NewDate(2026, 1, 1), core.NewDate(2026, 12, 31))
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	if len(result.Timeline) != 0 || len(result.NegativeDates) != 0 || len(result.MonthlySummary) != 0 {
		t.Fatalf("expected empty outputs, got %+v", result)
	}
	if !result.EndingBalance.Equal(dec("1234.56")) {
		t.Fatalf("starting balance changed: %s", result.EndingBalance)
	}
}

func TestProjectFiltersOutsideRange(t *testing.T) {
	events := []Event{
		{Date: core.NewDate(2025, 12, 31), Name: "Old", Amount: dec("-100"), Type: EventExpense},
		{Date: core.NewDate(2026, 1, 10), Name: "Kept", Amount: dec("-100"), Type: EventExpense},
		{Date: core.NewDate(2026, 2, 1), Name: "Future", Amount: dec("-100"), Type: EventExpense},
	}
	result, err := Project(dec("500"), events, core.NewDate(2026, 1, 1), core.NewDate(2026, 1, 31))
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	if len(result.Timeline) != 1 || result.Timeline[0].Name != "Kept" {
		t.Fatalf("expected only in-range event, got %+v", result.Timeline)
	}
}

func TestProjectInvalidRange(t *testing.T) {
	_, err := Project(dec("0"), nil, core.NewDate(2026, 2, 1), core.NewDate(2026, 1, 1))
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestProjectRoundsEachStep(t *testing.T) {
	day := core.NewDate(2026, 1, 2)
	events := []Event{
		{Date: day, Name: "a", Amount: dec("0.005"), Type: EventIncome},
		{Date: day, Name: "b", Amount: dec("0.005"), Type: EventIncome},
	}
	result, err := Project(dec("0"), events, day, day)
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	// each step rounds half-up to the cent: 0.01 then 0.02
	if !result.Timeline[0].RunningBalance.Equal(dec("0.01")) {
		t.Errorf("first step = %s, want 0.01", result.Timeline[0].RunningBalance)
	}
	if !result.Timeline[1].RunningBalance.Equal(dec("0.02")) {
		t.Errorf("second step = %s, want 0.02", result.Timeline[1].RunningBalance)
	}
}
