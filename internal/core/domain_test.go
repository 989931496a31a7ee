package core

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2026, 1, 1), true},
		{NewDate(2026, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestDateAddMonthsClamps(t *testing.T) {
	cases := []struct {
		name   string
		d      Date
		months int
		want   Date
	}{
		{"jan 31 plus one", NewDate(2026, 1, 31), 1, NewDate(2026, 2, 28)},
		{"jan 31 plus one leap", NewDate(2024, 1, 31), 1, NewDate(2024, 2, 29)},
		{"jan 31 plus two", NewDate(2026, 1, 31), 2, NewDate(2026, 3, 31)},
		{"year rollover", NewDate(2026, 11, 15), 3, NewDate(2027, 2, 15)},
		{"multi year", NewDate(2026, 1, 31), 25, NewDate(2028, 2, 29)},
		{"backwards", NewDate(2026, 3, 31), -1, NewDate(2026, 2, 28)},
		{"backwards across year", NewDate(2026, 1, 15), -2, NewDate(2025, 11, 15)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.d.AddMonths(tc.months); !got.Equal(tc.want.Time) {
				t.Fatalf("AddMonths(%d) on %s = %s, want %s", tc.months, tc.d, got, tc.want)
			}
		})
	}
}

func TestDateDaysBetween(t *testing.T) {
	a := NewDate(2026, 1, 1)
	b := NewDate(2026, 2, 1)
	if got := a.DaysBetween(b); got != 31 {
		t.Fatalf("expected 31, got %d", got)
	}
	if got := b.DaysBetween(a); got != -31 {
		t.Fatalf("expected -31, got %d", got)
	}
}

func TestPeriodBounds(t *testing.T) {
	first, last := (Period{Year: 2026, Month: 2}).Bounds()
	if !first.Equal(NewDate(2026, 2, 1).Time) || !last.Equal(NewDate(2026, 2, 28).Time) {
		t.Fatalf("got %s..%s", first, last)
	}
	if name := (Period{Year: 2026, Month: 2}).DisplayName(); name != "February 2026" {
		t.Fatalf("display name %q", name)
	}
}

func TestNewRecurrence(t *testing.T) {
	start := NewDate(2026, 1, 5)

	for _, freq := range []Frequency{Weekly, Biweekly, Semimonthly, Monthly, Quarterly, SemiAnnual, Annual} {
		r, err := NewRecurrence(freq, start)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", freq, err)
		}
		if r.Frequency != freq || !r.StartDate.Equal(start.Time) {
			t.Fatalf("%s: bad descriptor %+v", freq, r)
		}
	}

	if _, err := NewRecurrence(Custom, start); !errors.Is(err, ErrMissingInterval) {
		t.Fatalf("custom via NewRecurrence: got %v", err)
	}
	if _, err := NewRecurrence("fortnightly", start); !errors.Is(err, ErrInvalidFrequency) {
		t.Fatalf("unknown frequency: got %v", err)
	}
	if _, err := NewRecurrence(Weekly, Date{}); err == nil {
		t.Fatal("zero start date accepted")
	}
}

func TestNewCustomRecurrence(t *testing.T) {
	start := NewDate(2026, 1, 5)

	r, err := NewCustomRecurrence(start, 2, UnitWeeks)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if r.Frequency != Custom || r.Every != 2 || r.Unit != UnitWeeks {
		t.Fatalf("bad descriptor %+v", r)
	}

	if _, err := NewCustomRecurrence(start, 0, UnitDays); !errors.Is(err, ErrNonPositiveInterval) {
		t.Fatalf("zero interval: got %v", err)
	}
	if _, err := NewCustomRecurrence(start, -3, UnitMonths); !errors.Is(err, ErrNonPositiveInterval) {
		t.Fatalf("negative interval: got %v", err)
	}
	if _, err := NewCustomRecurrence(start, 2, ""); !errors.Is(err, ErrMissingInterval) {
		t.Fatalf("missing unit: got %v", err)
	}
	if _, err := NewCustomRecurrence(start, 2, "fortnights"); !errors.Is(err, ErrMissingInterval) {
		t.Fatalf("unknown unit: got %v", err)
	}
}

func TestScheduledObligationValidate(t *testing.T) {
	rec, _ := NewRecurrence(Monthly, NewDate(2026, 1, 1))
	good := ScheduledObligation{
		Name:       "Rent",
		Direction:  Expense,
		Amount:     decimal.NewFromInt(1200),
		Recurrence: rec,
		Active:     true,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []ScheduledObligation{
		{Name: "", Direction: Expense, Amount: decimal.NewFromInt(1), Recurrence: rec},
		{Name: "a", Direction: "debit", Amount: decimal.NewFromInt(1), Recurrence: rec},
		{Name: "a", Direction: Income, Amount: decimal.Zero, Recurrence: rec},
		{Name: "a", Direction: Income, Amount: decimal.NewFromInt(1), Recurrence: Recurrence{Frequency: Custom, StartDate: NewDate(2026, 1, 1)}},
	}
	for i, o := range bads {
		if err := o.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestDebtAccountValidate(t *testing.T) {
	good := DebtAccount{
		Name:           "Card",
		Balance:        decimal.NewFromInt(3500),
		AnnualRate:     decimal.RequireFromString("0.1999"),
		MinimumPayment: decimal.NewFromInt(75),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bad := good
	bad.Balance = decimal.NewFromInt(-1)
	if err := bad.Validate(); !errors.Is(err, ErrNegativeBalance) {
		t.Fatalf("negative balance: got %v", err)
	}
}
