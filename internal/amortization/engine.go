// Package amortization expands loan inputs into a fixed-payment schedule.
//
// Everything here is a pure function of its arguments: no I/O, no logging,
// no shared state. Money is carried as decimal.Decimal and intermediate
// values are rounded to InternalScale places so digit counts stay bounded
// over long terms.
package amortization

import (
	"github.com/shopspring/decimal"

	"github.com/iho/goamort/internal/domain"
)

const (
	// InternalScale is the number of decimal places kept for money values
	// between periods. Display rounding happens at the edges.
	InternalScale = 10

	rateScale   = 16
	growthScale = 24
)

var one = decimal.NewFromInt(1)

// Compute validates in and returns its amortization schedule.
//
// The final row always absorbs rounding drift: its principal portion is the
// whole remaining balance, so the balance ends at exactly zero and the
// principal portions sum to the principal exactly.
func Compute(in domain.LoanInputs) (*domain.Schedule, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	in = in.Normalized()

	periods := in.Frequency.Periods(in.TermMonths)
	rate := PeriodicRate(in.AnnualInterestRatePercent, in.Frequency)
	scheduled := Payment(in.Principal, rate, periods)
	gross := scheduled.Add(in.ExtraPayment)

	rows := make([]domain.AmortizationRow, 0, periods)
	balance := in.Principal
	cumInterest := decimal.Zero
	cumPrincipal := decimal.Zero
	totalPayment := decimal.Zero

	for period := 1; period <= periods && balance.IsPositive(); period++ {
		interest := balance.Mul(rate).Round(InternalScale)
		principal := gross.Sub(interest)
		if period == periods || principal.GreaterThanOrEqual(balance) {
			principal = balance
		}
		payment := interest.Add(principal)
		balance = balance.Sub(principal)

		cumInterest = cumInterest.Add(interest)
		cumPrincipal = cumPrincipal.Add(principal)
		totalPayment = totalPayment.Add(payment)

		row := domain.AmortizationRow{
			PeriodIndex:         period,
			PaymentAmount:       payment,
			InterestPortion:     interest,
			PrincipalPortion:    principal,
			RemainingBalance:    balance,
			CumulativeInterest:  cumInterest,
			CumulativePrincipal: cumPrincipal,
		}
		if in.StartDate != nil {
			row.DueDate = in.Frequency.DueDate(*in.StartDate, period)
		}
		rows = append(rows, row)
	}

	ppy := decimal.NewFromInt(int64(in.Frequency.PeriodsPerYear()))
	termYears := decimal.NewFromInt(int64(in.TermMonths)).DivRound(decimal.NewFromInt(12), InternalScale)

	summary := domain.Summary{
		ScheduledPayment:  scheduled,
		PeriodicPayment:   gross,
		PeriodicRate:      rate,
		Periods:           periods,
		PayoffPeriods:     len(rows),
		YearsToPayoff:     decimal.NewFromInt(int64(len(rows))).DivRound(ppy, 2),
		TotalPrincipal:    cumPrincipal,
		TotalInterestPaid: cumInterest,
		TotalPayment:      totalPayment,
		TotalCost: totalPayment.
			Add(in.OneTimeFees).
			Add(in.AnnualCharges.Mul(termYears).Round(InternalScale)),
	}

	return &domain.Schedule{
		Inputs:  in,
		Rows:    rows,
		Summary: summary,
	}, nil
}

// PeriodicRate converts an annual percentage into the rate applied per period.
func PeriodicRate(annualPercent decimal.Decimal, freq domain.Frequency) decimal.Decimal {
	divisor := decimal.NewFromInt(int64(100 * freq.PeriodsPerYear()))
	return annualPercent.DivRound(divisor, rateScale)
}

// Payment returns the fixed installment that retires principal over periods
// at the given periodic rate.
func Payment(principal, rate decimal.Decimal, periods int) decimal.Decimal {
	n := decimal.NewFromInt(int64(periods))
	if rate.IsZero() {
		return principal.DivRound(n, InternalScale)
	}

	growth := compound(rate, periods)
	return principal.Mul(rate).Mul(growth).DivRound(growth.Sub(one), InternalScale)
}

// compound returns (1+rate)^periods by repeated squaring.
func compound(rate decimal.Decimal, periods int) decimal.Decimal {
	base := one.Add(rate)
	result := one
	for n := periods; n > 0; n >>= 1 {
		if n&1 == 1 {
			result = result.Mul(base).Round(growthScale)
		}
		base = base.Mul(base).Round(growthScale)
	}
	return result
}
