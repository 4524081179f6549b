package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Frequency is how often an installment is due.
type Frequency string

const (
	FrequencyMonthly  Frequency = "monthly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyWeekly   Frequency = "weekly"
)

// ParseFrequency accepts the canonical names plus a few spellings users type.
// An empty string means monthly.
func ParseFrequency(s string) (Frequency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "monthly", "month":
		return FrequencyMonthly, nil
	case "biweekly", "bi-weekly", "fortnightly":
		return FrequencyBiweekly, nil
	case "weekly", "week":
		return FrequencyWeekly, nil
	default:
		return "", fmt.Errorf("%w: unknown repayment frequency %q", ErrInvalidInput, s)
	}
}

// PeriodsPerYear returns the number of installments in one year.
func (f Frequency) PeriodsPerYear() int {
	switch f {
	case FrequencyBiweekly:
		return 26
	case FrequencyWeekly:
		return 52
	default:
		return 12
	}
}

// Periods converts a term in months into a number of installments.
// Non-monthly frequencies round to the nearest whole period.
func (f Frequency) Periods(termMonths int) int {
	ppy := f.PeriodsPerYear()
	if ppy == 12 {
		return termMonths
	}
	return (termMonths*ppy + 6) / 12
}

// DueDate returns the date of the given 1-based period counted from start.
func (f Frequency) DueDate(start time.Time, period int) time.Time {
	switch f {
	case FrequencyBiweekly:
		return start.AddDate(0, 0, 14*period)
	case FrequencyWeekly:
		return start.AddDate(0, 0, 7*period)
	default:
		return addMonthsClamped(start, period)
	}
}

// addMonthsClamped moves start forward by months, keeping the day of month
// but clamping it to the last day of the target month (Jan 31 -> Feb 28).
func addMonthsClamped(start time.Time, months int) time.Time {
	first := time.Date(start.Year(), start.Month(), 1,
		start.Hour(), start.Minute(), start.Second(), start.Nanosecond(), start.Location())
	target := first.AddDate(0, months, 0)
	lastDay := target.AddDate(0, 1, -1).Day()

	return time.Date(target.Year(), target.Month(), min(start.Day(), lastDay),
		start.Hour(), start.Minute(), start.Second(), start.Nanosecond(), start.Location())
}

// Borrower is descriptive metadata. None of it affects the calculation.
type Borrower struct {
	Name    string
	Age     int
	Deposit decimal.Decimal
}

// LoanInputs holds everything a single schedule calculation needs.
type LoanInputs struct {
	Principal                 decimal.Decimal
	AnnualInterestRatePercent decimal.Decimal
	TermMonths                int
	OneTimeFees               decimal.Decimal

	Frequency     Frequency
	ExtraPayment  decimal.Decimal
	AnnualCharges decimal.Decimal
	StartDate     *time.Time
	Currency      string

	Borrower Borrower
}

// Validate checks the inputs against the calculation constraints.
func (in LoanInputs) Validate() error {
	if !in.Principal.IsPositive() {
		return fmt.Errorf("%w: principal must be positive", ErrInvalidInput)
	}
	if in.Principal.GreaterThan(decimal.RequireFromString(MaxPrincipal)) {
		return fmt.Errorf("%w: principal exceeds %s", ErrInvalidInput, MaxPrincipal)
	}
	if in.TermMonths <= 0 {
		return fmt.Errorf("%w: term must be at least one month", ErrInvalidInput)
	}
	if in.TermMonths > MaxTermMonths {
		return fmt.Errorf("%w: term exceeds %d months", ErrInvalidInput, MaxTermMonths)
	}
	if in.AnnualInterestRatePercent.IsNegative() {
		return fmt.Errorf("%w: interest rate cannot be negative", ErrInvalidInput)
	}
	if in.AnnualInterestRatePercent.GreaterThan(decimal.NewFromInt(MaxAnnualRatePercent)) {
		return fmt.Errorf("%w: interest rate exceeds %d%%", ErrInvalidInput, MaxAnnualRatePercent)
	}

	if err := validateNonNegative("one-time fees", in.OneTimeFees); err != nil {
		return err
	}
	if err := validateNonNegative("extra payment", in.ExtraPayment); err != nil {
		return err
	}
	if err := validateNonNegative("annual charges", in.AnnualCharges); err != nil {
		return err
	}

	freq, err := ParseFrequency(string(in.Frequency))
	if err != nil {
		return err
	}
	if freq.Periods(in.TermMonths) <= 0 {
		return fmt.Errorf("%w: term is shorter than one %s period", ErrInvalidInput, freq)
	}

	if err := ValidateBorrower(in.Borrower); err != nil {
		return err
	}

	if in.Currency != "" {
		if err := ValidateCurrency(in.Currency); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	return nil
}

// Normalized returns a copy with the frequency and currency in canonical form.
// It assumes Validate passed.
func (in LoanInputs) Normalized() LoanInputs {
	out := in
	if freq, err := ParseFrequency(string(in.Frequency)); err == nil {
		out.Frequency = freq
	}
	out.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	return out
}

func validateNonNegative(field string, v decimal.Decimal) error {
	if v.IsNegative() {
		return fmt.Errorf("%w: %s cannot be negative", ErrInvalidInput, field)
	}
	return nil
}
