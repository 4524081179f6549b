package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/goamort/internal/domain"
	"github.com/iho/goamort/internal/usecase"
)

// DateLayout is the wire format of start dates.
const DateLayout = "2006-01-02"

// BorrowerRequest carries optional borrower details.
type BorrowerRequest struct {
	Name    string          `json:"name,omitempty"`
	Age     int             `json:"age,omitempty"`
	Deposit decimal.Decimal `json:"deposit"`
}

// LoanRequest represents the inputs of one schedule calculation.
// Amounts accept JSON numbers or strings.
type LoanRequest struct {
	Principal          decimal.Decimal  `json:"principal"`
	AnnualInterestRate decimal.Decimal  `json:"annual_interest_rate"`
	TermMonths         int              `json:"term_months"`
	OneTimeFees        decimal.Decimal  `json:"one_time_fees"`
	Frequency          string           `json:"frequency,omitempty"`
	ExtraPayment       decimal.Decimal  `json:"extra_payment"`
	AnnualCharges      decimal.Decimal  `json:"annual_charges"`
	StartDate          string           `json:"start_date,omitempty"`
	Currency           string           `json:"currency,omitempty"`
	Borrower           *BorrowerRequest `json:"borrower,omitempty"`
}

// ToDomain converts the request into loan inputs. Only the wire format is
// checked here; range validation belongs to the engine.
func (r *LoanRequest) ToDomain() (domain.LoanInputs, error) {
	freq, err := domain.ParseFrequency(r.Frequency)
	if err != nil {
		return domain.LoanInputs{}, err
	}

	in := domain.LoanInputs{
		Principal:                 r.Principal,
		AnnualInterestRatePercent: r.AnnualInterestRate,
		TermMonths:                r.TermMonths,
		OneTimeFees:               r.OneTimeFees,
		Frequency:                 freq,
		ExtraPayment:              r.ExtraPayment,
		AnnualCharges:             r.AnnualCharges,
		Currency:                  strings.TrimSpace(r.Currency),
	}

	if r.StartDate != "" {
		start, err := time.Parse(DateLayout, r.StartDate)
		if err != nil {
			return domain.LoanInputs{}, fmt.Errorf("%w: start_date must be YYYY-MM-DD", domain.ErrInvalidInput)
		}
		in.StartDate = &start
	}

	if r.Borrower != nil {
		in.Borrower = domain.Borrower{
			Name:    strings.TrimSpace(r.Borrower.Name),
			Age:     r.Borrower.Age,
			Deposit: r.Borrower.Deposit,
		}
	}

	return in, nil
}

// CompareRequest compares two ad-hoc loans.
type CompareRequest struct {
	Base        LoanRequest `json:"base"`
	Alternative LoanRequest `json:"alternative"`
}

// ToDomain converts both sides.
func (r *CompareRequest) ToDomain() (domain.LoanInputs, domain.LoanInputs, error) {
	base, err := r.Base.ToDomain()
	if err != nil {
		return domain.LoanInputs{}, domain.LoanInputs{}, fmt.Errorf("base: %w", err)
	}

	alt, err := r.Alternative.ToDomain()
	if err != nil {
		return domain.LoanInputs{}, domain.LoanInputs{}, fmt.Errorf("alternative: %w", err)
	}

	return base, alt, nil
}

// SaveScenarioRequest represents a request to save a scenario.
type SaveScenarioRequest struct {
	Name string      `json:"name"`
	Loan LoanRequest `json:"loan"`
}

// ToUseCaseInput converts to use case input.
func (r *SaveScenarioRequest) ToUseCaseInput() (usecase.SaveScenarioInput, error) {
	in, err := r.Loan.ToDomain()
	if err != nil {
		return usecase.SaveScenarioInput{}, err
	}

	return usecase.SaveScenarioInput{
		Name:   r.Name,
		Inputs: in,
	}, nil
}
