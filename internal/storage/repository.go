package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"moneymap/internal/core"

	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("not found")

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateObligation persists a new obligation and returns it with its
// generated ID.
func (r *SQLiteRepository) CreateObligation(ctx context.Context, o core.ScheduledObligation) (core.ScheduledObligation, error) {
	if err := o.Validate(); err != nil {
		return core.ScheduledObligation{}, fmt.Errorf("validate obligation: %w", err)
	}

	o.ID = uuid.NewString()

	var every sql.NullInt64
	var unit sql.NullString
	if o.Recurrence.Frequency == core.Custom {
		every = sql.NullInt64{Int64: int64(o.Recurrence.Every), Valid: true}
		unit = sql.NullString{String: string(o.Recurrence.Unit), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO obligations (id, name, direction, amount_cents, frequency, interval_value, interval_unit, start_date, category, account_id, active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.Name, string(o.Direction), core.Cents(o.Amount),
		string(o.Recurrence.Frequency), every, unit, o.Recurrence.StartDate.String(),
		o.Category, o.AccountID, boolToInt(o.Active))
	if err != nil {
		return core.ScheduledObligation{}, fmt.Errorf("create obligation: %w", err)
	}

	slog.InfoContext(ctx, "Obligation saved",
		"id", o.ID,
		"name", o.Name,
		"direction", o.Direction,
		"frequency", o.Recurrence.Frequency)

	return o, nil
}

// ActiveObligations returns every obligation still in the materialization
// pool, oldest first.
func (r *SQLiteRepository) ActiveObligations(ctx context.Context) ([]core.ScheduledObligation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, direction, amount_cents, frequency, interval_value, interval_unit, start_date, category, account_id, active
		FROM obligations
		WHERE active = 1
		ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query active obligations: %w", err)
	}
	defer rows.Close()

	var obligations []core.ScheduledObligation
	for rows.Next() {
		o, err := scanObligation(rows)
		if err != nil {
			return nil, err
		}
		obligations = append(obligations, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate obligations: %w", err)
	}

	return obligations, nil
}

// SetObligationActive flips the active flag. Deactivation is
// non-retroactive: existing ledger entries stay.
func (r *SQLiteRepository) SetObligationActive(ctx context.Context, id string, active bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE obligations SET active = ? WHERE id = ?`, boolToInt(active), id)
	if err != nil {
		return fmt.Errorf("set obligation active: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("obligation %s: %w", id, ErrNotFound)
	}
	return nil
}

// InsertMissingEntries writes one ledger entry per occurrence date that is
// not already stored for the obligation and period, all inside one
// transaction. Existing rows, edited or not, are left untouched, which is
// what makes re-running materialization safe.
func (r *SQLiteRepository) InsertMissingEntries(ctx context.Context, o core.ScheduledObligation, period core.Period, dates []core.Date) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	amount := core.Cents(o.Amount)
	created := 0
	for _, d := range dates {
		var exists int
		err := tx.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM ledger_entries
			WHERE obligation_id = ? AND year = ? AND month = ? AND occurred_on = ?`,
			o.ID, period.Year, period.Month, d.String()).Scan(&exists)
		if err != nil {
			return 0, fmt.Errorf("check existing entry: %w", err)
		}
		if exists > 0 {
			continue
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO ledger_entries (id, obligation_id, name, year, month, occurred_on, amount_cents, category, direction, auto_generated, user_edited)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 1, 0)`,
			uuid.NewString(), o.ID, o.Name, period.Year, period.Month, d.String(),
			amount, o.Category, string(o.Direction))
		if err != nil {
			return 0, fmt.Errorf("insert ledger entry: %w", err)
		}
		created++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}

	return created, nil
}

// PeriodEntries returns all ledger entries of one period, ordered by date.
func (r *SQLiteRepository) PeriodEntries(ctx context.Context, period core.Period) ([]core.MaterializedEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, obligation_id, name, year, month, occurred_on, amount_cents, category, direction, auto_generated, user_edited
		FROM ledger_entries
		WHERE year = ? AND month = ?
		ORDER BY occurred_on, id`,
		period.Year, period.Month)
	if err != nil {
		return nil, fmt.Errorf("query period entries: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

// EntriesInRange returns ledger entries with start <= occurred_on <= end.
func (r *SQLiteRepository) EntriesInRange(ctx context.Context, start, end core.Date) ([]core.MaterializedEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, obligation_id, name, year, month, occurred_on, amount_cents, category, direction, auto_generated, user_edited
		FROM ledger_entries
		WHERE occurred_on >= ? AND occurred_on <= ?
		ORDER BY occurred_on, id`,
		start.String(), end.String())
	if err != nil {
		return nil, fmt.Errorf("query entries in range: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

// UpdateEntryAmount overwrites one entry's amount and marks it user-edited
// so later materialization runs leave it alone.
func (r *SQLiteRepository) UpdateEntryAmount(ctx context.Context, id string, amount decimal.Decimal) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE ledger_entries SET amount_cents = ?, user_edited = 1 WHERE id = ?`,
		core.Cents(amount), id)
	if err != nil {
		return fmt.Errorf("update entry amount: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("ledger entry %s: %w", id, ErrNotFound)
	}

	slog.InfoContext(ctx, "Ledger entry amount updated", "id", id, "amount", amount)
	return nil
}

// SavePeriodSummary upserts the aggregate totals for a period.
func (r *SQLiteRepository) SavePeriodSummary(ctx context.Context, s core.PeriodSummary) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO period_summaries (year, month, income_cents, planned_cents, spent_cents, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (year, month) DO UPDATE SET
			income_cents = excluded.income_cents,
			planned_cents = excluded.planned_cents,
			spent_cents = excluded.spent_cents,
			updated_at = CURRENT_TIMESTAMP`,
		s.Period.Year, s.Period.Month,
		core.Cents(s.Income), core.Cents(s.Planned), core.Cents(s.Spent))
	if err != nil {
		return fmt.Errorf("save period summary: %w", err)
	}
	return nil
}

// PeriodSummaryFor reads the stored summary of one period.
func (r *SQLiteRepository) PeriodSummaryFor(ctx context.Context, period core.Period) (core.PeriodSummary, error) {
	var income, planned, spent int64
	err := r.db.QueryRowContext(ctx, `
		SELECT income_cents, planned_cents, spent_cents
		FROM period_summaries
		WHERE year = ? AND month = ?`,
		period.Year, period.Month).Scan(&income, &planned, &spent)
	if errors.Is(err, sql.ErrNoRows) {
		return core.PeriodSummary{}, fmt.Errorf("summary %s: %w", period, ErrNotFound)
	}
	if err != nil {
		return core.PeriodSummary{}, fmt.Errorf("query period summary: %w", err)
	}

	return core.PeriodSummary{
		Period:  period,
		Income:  core.FromCents(income),
		Planned: core.FromCents(planned),
		Spent:   core.FromCents(spent),
	}, nil
}

func scanObligation(rows *sql.Rows) (core.ScheduledObligation, error) {
	var (
		o         core.ScheduledObligation
		direction string
		cents     int64
		frequency string
		every     sql.NullInt64
		unit      sql.NullString
		startDate string
		active    int
	)
	err := rows.Scan(&o.ID, &o.Name, &direction, &cents, &frequency,
		&every, &unit, &startDate, &o.Category, &o.AccountID, &active)
	if err != nil {
		return core.ScheduledObligation{}, fmt.Errorf("scan obligation: %w", err)
	}

	start, err := core.ParseDate(startDate)
	if err != nil {
		return core.ScheduledObligation{}, fmt.Errorf("obligation %s start date: %w", o.ID, err)
	}

	o.Direction = core.Direction(direction)
	o.Amount = core.FromCents(cents)
	o.Recurrence = core.Recurrence{
		Frequency: core.Frequency(frequency),
		StartDate: start,
	}
	if every.Valid {
		o.Recurrence.Every = int(every.Int64)
	}
	if unit.Valid {
		o.Recurrence.Unit = core.IntervalUnit(unit.String)
	}
	o.Active = active != 0

	return o, nil
}

func collectEntries(rows *sql.Rows) ([]core.MaterializedEntry, error) {
	var entries []core.MaterializedEntry
	for rows.Next() {
		var (
			e          core.MaterializedEntry
			occurredOn string
			cents      int64
			direction  string
			auto       int
			edited     int
		)
		err := rows.Scan(&e.ID, &e.ObligationID, &e.Name, &e.Period.Year, &e.Period.Month,
			&occurredOn, &cents, &e.Category, &direction, &auto, &edited)
		if err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}

		d, err := core.ParseDate(occurredOn)
		if err != nil {
			return nil, fmt.Errorf("entry %s date: %w", e.ID, err)
		}

		e.OccurredOn = d
		e.Amount = core.FromCents(cents)
		e.Direction = core.Direction(direction)
		e.AutoGenerated = auto != 0
		e.UserEdited = edited != 0
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger entries: %w", err)
	}

	return entries, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
