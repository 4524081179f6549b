package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AmortizationRow is one installment of a schedule.
type AmortizationRow struct {
	PeriodIndex         int
	DueDate             time.Time
	PaymentAmount       decimal.Decimal
	InterestPortion     decimal.Decimal
	PrincipalPortion    decimal.Decimal
	RemainingBalance    decimal.Decimal
	CumulativeInterest  decimal.Decimal
	CumulativePrincipal decimal.Decimal
}

// Summary aggregates a schedule.
type Summary struct {
	ScheduledPayment  decimal.Decimal
	PeriodicPayment   decimal.Decimal
	PeriodicRate      decimal.Decimal
	Periods           int
	PayoffPeriods     int
	YearsToPayoff     decimal.Decimal
	TotalPrincipal    decimal.Decimal
	TotalInterestPaid decimal.Decimal
	TotalPayment      decimal.Decimal
	TotalCost         decimal.Decimal
}

// Schedule is the result of amortizing a loan.
type Schedule struct {
	Inputs  LoanInputs
	Rows    []AmortizationRow
	Summary Summary
}

// FinalBalance returns the balance after the last row.
func (s *Schedule) FinalBalance() decimal.Decimal {
	if len(s.Rows) == 0 {
		return s.Inputs.Principal
	}
	return s.Rows[len(s.Rows)-1].RemainingBalance
}

// Comparison holds two summaries and the alternative-minus-base deltas.
type Comparison struct {
	Base        Summary
	Alternative Summary

	PeriodicPaymentDelta decimal.Decimal
	TotalInterestDelta   decimal.Decimal
	TotalCostDelta       decimal.Decimal
	PayoffPeriodsDelta   int
}

// Compare builds a Comparison of alt against base.
func Compare(base, alt Summary) *Comparison {
	return &Comparison{
		Base:                 base,
		Alternative:          alt,
		PeriodicPaymentDelta: alt.PeriodicPayment.Sub(base.PeriodicPayment),
		TotalInterestDelta:   alt.TotalInterestPaid.Sub(base.TotalInterestPaid),
		TotalCostDelta:       alt.TotalCost.Sub(base.TotalCost),
		PayoffPeriodsDelta:   alt.PayoffPeriods - base.PayoffPeriods,
	}
}
