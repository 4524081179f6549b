package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/goamort/internal/domain"
)

// DBTX is the subset of pgxpool.Pool used by ScenarioRepository.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const scenarioColumns = `id, name, principal::text, annual_rate_percent::text, term_months,
	one_time_fees::text, frequency, extra_payment::text, annual_charges::text,
	start_date, currency, borrower_name, borrower_age, borrower_deposit::text, created_at`

const insertScenario = `INSERT INTO scenarios (
	id, name, principal, annual_rate_percent, term_months,
	one_time_fees, frequency, extra_payment, annual_charges,
	start_date, currency, borrower_name, borrower_age, borrower_deposit, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

const selectScenarioByID = `SELECT ` + scenarioColumns + ` FROM scenarios WHERE id = $1`

const listScenarios = `SELECT ` + scenarioColumns +
	` FROM scenarios ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`

const deleteScenario = `DELETE FROM scenarios WHERE id = $1`

// ScenarioRepository implements usecase.ScenarioRepository.
type ScenarioRepository struct {
	db DBTX
}

// NewScenarioRepository creates a new ScenarioRepository.
func NewScenarioRepository(pool *pgxpool.Pool) *ScenarioRepository {
	return newScenarioRepositoryWithDB(pool)
}

func newScenarioRepositoryWithDB(db DBTX) *ScenarioRepository {
	return &ScenarioRepository{db: db}
}

// Create inserts a new scenario.
func (r *ScenarioRepository) Create(ctx context.Context, s *domain.Scenario) error {
	in := s.Inputs

	var startDate pgtype.Date
	if in.StartDate != nil {
		startDate = pgtype.Date{Time: *in.StartDate, Valid: true}
	}

	_, err := r.db.Exec(ctx, insertScenario,
		s.ID,
		s.Name,
		decimalToNumeric(in.Principal),
		decimalToNumeric(in.AnnualInterestRatePercent),
		in.TermMonths,
		decimalToNumeric(in.OneTimeFees),
		string(in.Frequency),
		decimalToNumeric(in.ExtraPayment),
		decimalToNumeric(in.AnnualCharges),
		startDate,
		in.Currency,
		in.Borrower.Name,
		in.Borrower.Age,
		decimalToNumeric(in.Borrower.Deposit),
		timeToPgTimestamptz(s.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert scenario: %w", err)
	}

	return nil
}

// GetByID retrieves a scenario by ID.
func (r *ScenarioRepository) GetByID(ctx context.Context, id string) (*domain.Scenario, error) {
	s, err := scanScenario(r.db.QueryRow(ctx, selectScenarioByID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrScenarioNotFound
		}

		return nil, err
	}

	return s, nil
}

// List returns scenarios, newest first.
func (r *ScenarioRepository) List(ctx context.Context, limit, offset int) ([]*domain.Scenario, error) {
	rows, err := r.db.Query(ctx, listScenarios, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scenarios := make([]*domain.Scenario, 0, limit)
	for rows.Next() {
		s, err := scanScenario(rows)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}

	return scenarios, rows.Err()
}

// Delete removes a scenario.
func (r *ScenarioRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, deleteScenario, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrScenarioNotFound
	}

	return nil
}

func scanScenario(row pgx.Row) (*domain.Scenario, error) {
	var (
		s                                              domain.Scenario
		principal, rate, fees, extra, charges, deposit string
		frequency                                      string
		startDate                                      *time.Time
	)

	err := row.Scan(
		&s.ID,
		&s.Name,
		&principal,
		&rate,
		&s.Inputs.TermMonths,
		&fees,
		&frequency,
		&extra,
		&charges,
		&startDate,
		&s.Inputs.Currency,
		&s.Inputs.Borrower.Name,
		&s.Inputs.Borrower.Age,
		&deposit,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	amounts := []struct {
		dst *decimal.Decimal
		raw string
	}{
		{&s.Inputs.Principal, principal},
		{&s.Inputs.AnnualInterestRatePercent, rate},
		{&s.Inputs.OneTimeFees, fees},
		{&s.Inputs.ExtraPayment, extra},
		{&s.Inputs.AnnualCharges, charges},
		{&s.Inputs.Borrower.Deposit, deposit},
	}
	for _, a := range amounts {
		d, err := decimal.NewFromString(a.raw)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: parse amount %q: %w", s.ID, a.raw, err)
		}
		*a.dst = d
	}

	s.Inputs.Frequency = domain.Frequency(frequency)
	s.Inputs.StartDate = startDate

	return &s, nil
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}
