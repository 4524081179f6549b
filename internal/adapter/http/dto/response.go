package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/goamort/internal/domain"
)

// MoneyPlaces is the rounding applied to money in responses.
const MoneyPlaces = 2

const ratePlaces = 8

// LoanResponse echoes normalized loan inputs.
type LoanResponse struct {
	Principal          decimal.Decimal   `json:"principal"`
	AnnualInterestRate decimal.Decimal   `json:"annual_interest_rate"`
	TermMonths         int               `json:"term_months"`
	OneTimeFees        decimal.Decimal   `json:"one_time_fees"`
	Frequency          string            `json:"frequency"`
	ExtraPayment       decimal.Decimal   `json:"extra_payment"`
	AnnualCharges      decimal.Decimal   `json:"annual_charges"`
	StartDate          string            `json:"start_date,omitempty"`
	Currency           string            `json:"currency,omitempty"`
	Borrower           *BorrowerResponse `json:"borrower,omitempty"`
}

// BorrowerResponse represents borrower details in API responses.
type BorrowerResponse struct {
	Name    string          `json:"name,omitempty"`
	Age     int             `json:"age,omitempty"`
	Deposit decimal.Decimal `json:"deposit"`
}

// LoanFromDomain converts loan inputs to response.
func LoanFromDomain(in domain.LoanInputs) LoanResponse {
	resp := LoanResponse{
		Principal:          in.Principal,
		AnnualInterestRate: in.AnnualInterestRatePercent,
		TermMonths:         in.TermMonths,
		OneTimeFees:        in.OneTimeFees,
		Frequency:          string(in.Frequency),
		ExtraPayment:       in.ExtraPayment,
		AnnualCharges:      in.AnnualCharges,
		Currency:           in.Currency,
	}

	if in.StartDate != nil {
		resp.StartDate = in.StartDate.Format(DateLayout)
	}

	b := in.Borrower
	if b.Name != "" || b.Age != 0 || !b.Deposit.IsZero() {
		resp.Borrower = &BorrowerResponse{Name: b.Name, Age: b.Age, Deposit: b.Deposit}
	}

	return resp
}

// RowResponse represents one installment in API responses.
type RowResponse struct {
	Period              int             `json:"period"`
	DueDate             *string         `json:"due_date,omitempty"`
	Payment             decimal.Decimal `json:"payment"`
	Interest            decimal.Decimal `json:"interest"`
	Principal           decimal.Decimal `json:"principal"`
	Balance             decimal.Decimal `json:"balance"`
	CumulativeInterest  decimal.Decimal `json:"cumulative_interest"`
	CumulativePrincipal decimal.Decimal `json:"cumulative_principal"`
}

// SummaryResponse represents schedule totals in API responses.
type SummaryResponse struct {
	ScheduledPayment decimal.Decimal `json:"scheduled_payment"`
	PeriodicPayment  decimal.Decimal `json:"periodic_payment"`
	PeriodicRate     decimal.Decimal `json:"periodic_rate"`
	Periods          int             `json:"periods"`
	PayoffPeriods    int             `json:"payoff_periods"`
	YearsToPayoff    decimal.Decimal `json:"years_to_payoff"`
	TotalPrincipal   decimal.Decimal `json:"total_principal"`
	TotalInterest    decimal.Decimal `json:"total_interest"`
	TotalPayment     decimal.Decimal `json:"total_payment"`
	TotalCost        decimal.Decimal `json:"total_cost"`
}

// SummaryFromDomain converts a summary to response.
func SummaryFromDomain(s domain.Summary) SummaryResponse {
	return SummaryResponse{
		ScheduledPayment: money(s.ScheduledPayment),
		PeriodicPayment:  money(s.PeriodicPayment),
		PeriodicRate:     s.PeriodicRate.Round(ratePlaces),
		Periods:          s.Periods,
		PayoffPeriods:    s.PayoffPeriods,
		YearsToPayoff:    s.YearsToPayoff,
		TotalPrincipal:   money(s.TotalPrincipal),
		TotalInterest:    money(s.TotalInterestPaid),
		TotalPayment:     money(s.TotalPayment),
		TotalCost:        money(s.TotalCost),
	}
}

// ScheduleResponse represents a full schedule in API responses.
type ScheduleResponse struct {
	Loan    LoanResponse    `json:"loan"`
	Summary SummaryResponse `json:"summary"`
	Rows    []RowResponse   `json:"rows"`
}

// ScheduleFromDomain converts a schedule to response.
func ScheduleFromDomain(s *domain.Schedule) *ScheduleResponse {
	rows := make([]RowResponse, len(s.Rows))
	for i, row := range s.Rows {
		rows[i] = RowResponse{
			Period:              row.PeriodIndex,
			Payment:             money(row.PaymentAmount),
			Interest:            money(row.InterestPortion),
			Principal:           money(row.PrincipalPortion),
			Balance:             money(row.RemainingBalance),
			CumulativeInterest:  money(row.CumulativeInterest),
			CumulativePrincipal: money(row.CumulativePrincipal),
		}
		if !row.DueDate.IsZero() {
			due := row.DueDate.Format(DateLayout)
			rows[i].DueDate = &due
		}
	}

	return &ScheduleResponse{
		Loan:    LoanFromDomain(s.Inputs),
		Summary: SummaryFromDomain(s.Summary),
		Rows:    rows,
	}
}

// ComparisonResponse represents a comparison in API responses.
type ComparisonResponse struct {
	Base                 SummaryResponse `json:"base"`
	Alternative          SummaryResponse `json:"alternative"`
	PeriodicPaymentDelta decimal.Decimal `json:"periodic_payment_delta"`
	TotalInterestDelta   decimal.Decimal `json:"total_interest_delta"`
	TotalCostDelta       decimal.Decimal `json:"total_cost_delta"`
	PayoffPeriodsDelta   int             `json:"payoff_periods_delta"`
}

// ComparisonFromDomain converts a comparison to response.
func ComparisonFromDomain(c *domain.Comparison) *ComparisonResponse {
	return &ComparisonResponse{
		Base:                 SummaryFromDomain(c.Base),
		Alternative:          SummaryFromDomain(c.Alternative),
		PeriodicPaymentDelta: money(c.PeriodicPaymentDelta),
		TotalInterestDelta:   money(c.TotalInterestDelta),
		TotalCostDelta:       money(c.TotalCostDelta),
		PayoffPeriodsDelta:   c.PayoffPeriodsDelta,
	}
}

// ScenarioResponse represents a saved scenario in API responses.
type ScenarioResponse struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Loan      LoanResponse `json:"loan"`
	CreatedAt time.Time    `json:"created_at"`
}

// ScenarioFromDomain converts domain scenario to response.
func ScenarioFromDomain(s *domain.Scenario) *ScenarioResponse {
	return &ScenarioResponse{
		ID:        s.ID,
		Name:      s.Name,
		Loan:      LoanFromDomain(s.Inputs),
		CreatedAt: s.CreatedAt,
	}
}

// ScenariosFromDomain converts domain scenarios to responses.
func ScenariosFromDomain(scenarios []*domain.Scenario) []*ScenarioResponse {
	result := make([]*ScenarioResponse, len(scenarios))
	for i, s := range scenarios {
		result[i] = ScenarioFromDomain(s)
	}
	return result
}

// ScenarioDetailResponse is a scenario with its recomputed schedule.
type ScenarioDetailResponse struct {
	Scenario *ScenarioResponse `json:"scenario"`
	Schedule *ScheduleResponse `json:"schedule"`
}

// ScenarioDetailFromDomain converts a scenario and its schedule to response.
func ScenarioDetailFromDomain(s *domain.Scenario, schedule *domain.Schedule) *ScenarioDetailResponse {
	return &ScenarioDetailResponse{
		Scenario: ScenarioFromDomain(s),
		Schedule: ScheduleFromDomain(schedule),
	}
}

// ListScenariosResponse is a page of scenarios.
type ListScenariosResponse struct {
	Scenarios []*ScenarioResponse `json:"scenarios"`
	Limit     int                 `json:"limit"`
	Offset    int                 `json:"offset"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func money(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}
