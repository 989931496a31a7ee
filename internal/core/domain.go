package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	Income   Direction = "income"
	Expense  Direction = "expense"
	Transfer Direction = "transfer"
)

const (
	Weekly      Frequency = "weekly"
	Biweekly    Frequency = "biweekly"
	Semimonthly Frequency = "semimonthly"
	Monthly     Frequency = "monthly"
	Quarterly   Frequency = "quarterly"
	SemiAnnual  Frequency = "semiannual"
	Annual      Frequency = "annual"
	Custom      Frequency = "custom"
)

const (
	UnitDays   IntervalUnit = "days"
	UnitWeeks  IntervalUnit = "weeks"
	UnitMonths IntervalUnit = "months"
	UnitYears  IntervalUnit = "years"
)

type (
	Direction    string
	Frequency    string
	IntervalUnit string

	// Recurrence describes when an obligation recurs: a frequency tag
	// anchored at a start date. The custom variant carries its own
	// interval and is only constructible complete via NewCustomRecurrence.
	Recurrence struct {
		Frequency Frequency
		StartDate Date
		Every     int          // custom only, > 0
		Unit      IntervalUnit // custom only
	}

	// ScheduledObligation is a standing recurring money movement: a bill,
	// an income source, or a recurring transfer, unified under one schema
	// with a direction tag. The engine reads these; the surrounding CRUD
	// layer owns them.
	ScheduledObligation struct {
		ID         string
		Name       string
		Direction  Direction
		Amount     decimal.Decimal
		Recurrence Recurrence
		Category   string
		AccountID  string
		Active     bool
	}

	// MaterializedEntry is a concrete, period-scoped ledger row generated
	// from an obligation for one occurrence date. Amount and category are
	// snapshots taken at materialization time; once a user edits the
	// amount the row is never touched by a later run.
	MaterializedEntry struct {
		ID            string
		ObligationID  string
		Name          string
		Period        Period
		OccurredOn    Date
		Amount        decimal.Decimal
		Category      string
		Direction     Direction
		AutoGenerated bool
		UserEdited    bool
	}

	// PeriodSummary holds the persisted aggregate totals for one period,
	// recomputed from its materialized entries after each run.
	PeriodSummary struct {
		Period  Period
		Income  decimal.Decimal
		Planned decimal.Decimal
		Spent   decimal.Decimal
	}

	// DebtAccount is a simulation input. Simulators copy it and never
	// mutate caller data.
	DebtAccount struct {
		Name           string
		Balance        decimal.Decimal // >= 0
		AnnualRate     decimal.Decimal // >= 0, e.g. 0.0499 for 4.99%
		MinimumPayment decimal.Decimal // >= 0
	}
)

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrEmptyName           = errors.New("empty name")
	ErrInvalidDirection    = errors.New("invalid direction")
	ErrInvalidFrequency    = errors.New("invalid frequency")
	ErrMissingInterval     = errors.New("custom recurrence requires interval value and unit")
	ErrNonPositiveInterval = errors.New("custom recurrence interval must be positive")
	ErrNegativeBalance     = errors.New("debt balance cannot be negative")
	ErrNegativeRate        = errors.New("debt rate cannot be negative")
	ErrNegativePayment     = errors.New("debt minimum payment cannot be negative")
)

// NewRecurrence builds a descriptor for one of the fixed frequencies.
// The custom variant must go through NewCustomRecurrence so that its
// interval fields can never be missing.
func NewRecurrence(freq Frequency, start Date) (Recurrence, error) {
	switch freq {
	case Weekly, Biweekly, Semimonthly, Monthly, Quarterly, SemiAnnual, Annual:
	case Custom:
		return Recurrence{}, ErrMissingInterval
	default:
		return Recurrence{}, fmt.Errorf("%w: %q", ErrInvalidFrequency, freq)
	}
	if err := start.Validate(); err != nil {
		return Recurrence{}, fmt.Errorf("invalid start date: %w", err)
	}
	return Recurrence{Frequency: freq, StartDate: start}, nil
}

// NewCustomRecurrence builds a custom-interval descriptor. Both interval
// fields are required and the value must be positive; this is checked here,
// before any occurrence computation is ever attempted.
func NewCustomRecurrence(start Date, every int, unit IntervalUnit) (Recurrence, error) {
	if err := start.Validate(); err != nil {
		return Recurrence{}, fmt.Errorf("invalid start date: %w", err)
	}
	if unit == "" {
		return Recurrence{}, ErrMissingInterval
	}
	switch unit {
	case UnitDays, UnitWeeks, UnitMonths, UnitYears:
	default:
		return Recurrence{}, fmt.Errorf("%w: unknown unit %q", ErrMissingInterval, unit)
	}
	if every <= 0 {
		return Recurrence{}, ErrNonPositiveInterval
	}
	return Recurrence{Frequency: Custom, StartDate: start, Every: every, Unit: unit}, nil
}

func (r Recurrence) Validate() error {
	switch r.Frequency {
	case Weekly, Biweekly, Semimonthly, Monthly, Quarterly, SemiAnnual, Annual:
	case Custom:
		if r.Unit == "" {
			return ErrMissingInterval
		}
		switch r.Unit {
		case UnitDays, UnitWeeks, UnitMonths, UnitYears:
		default:
			return fmt.Errorf("%w: unknown unit %q", ErrMissingInterval, r.Unit)
		}
		if r.Every <= 0 {
			return ErrNonPositiveInterval
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFrequency, r.Frequency)
	}
	return r.StartDate.Validate()
}

func (d Direction) Validate() error {
	switch d {
	case Income, Expense, Transfer:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidDirection, d)
	}
}

func (o ScheduledObligation) Validate() error {
	if len(strings.TrimSpace(o.Name)) == 0 {
		return ErrEmptyName
	}
	if len(o.Name) > 200 {
		return errors.New("name too long (max 200 characters)")
	}
	if err := o.Direction.Validate(); err != nil {
		return err
	}
	if o.Amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	return o.Recurrence.Validate()
}

func (d DebtAccount) Validate() error {
	if len(strings.TrimSpace(d.Name)) == 0 {
		return ErrEmptyName
	}
	if d.Balance.Sign() < 0 {
		return ErrNegativeBalance
	}
	if d.AnnualRate.Sign() < 0 {
		return ErrNegativeRate
	}
	if d.MinimumPayment.Sign() < 0 {
		return ErrNegativePayment
	}
	return nil
}
