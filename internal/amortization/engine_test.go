package amortization

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/goamort/internal/domain"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func loan(principal, rate string, term int) domain.LoanInputs {
	return domain.LoanInputs{
		Principal:                 d(principal),
		AnnualInterestRatePercent: d(rate),
		TermMonths:                term,
	}
}

func assertScheduleInvariants(t *testing.T, s *domain.Schedule) {
	t.Helper()

	require.NotEmpty(t, s.Rows)

	tolerance := d("0.000001")
	previous := s.Inputs.Principal
	sumPrincipal := decimal.Zero

	for i, row := range s.Rows {
		assert.Equal(t, i+1, row.PeriodIndex)

		diff := row.PaymentAmount.Sub(row.InterestPortion.Add(row.PrincipalPortion)).Abs()
		assert.True(t, diff.LessThanOrEqual(tolerance),
			"row %d: payment %s != interest %s + principal %s", row.PeriodIndex,
			row.PaymentAmount, row.InterestPortion, row.PrincipalPortion)

		assert.True(t, row.RemainingBalance.Equal(previous.Sub(row.PrincipalPortion)),
			"row %d: balance %s does not follow %s - %s", row.PeriodIndex,
			row.RemainingBalance, previous, row.PrincipalPortion)

		previous = row.RemainingBalance
		sumPrincipal = sumPrincipal.Add(row.PrincipalPortion)
	}

	assert.True(t, s.FinalBalance().IsZero(), "final balance %s", s.FinalBalance())
	assert.True(t, sumPrincipal.Equal(s.Inputs.Principal),
		"principal portions sum to %s, want %s", sumPrincipal, s.Inputs.Principal)
}

func TestCompute_TwelveMonthLoan(t *testing.T) {
	s, err := Compute(loan("120000", "6", 12))
	require.NoError(t, err)

	assert.True(t, s.Summary.PeriodicRate.Equal(d("0.005")), "rate %s", s.Summary.PeriodicRate)
	assert.Len(t, s.Rows, 12)
	assert.Equal(t, "10327.97", s.Summary.ScheduledPayment.StringFixed(2))

	first := s.Rows[0]
	assert.Equal(t, "600.00", first.InterestPortion.StringFixed(2))
	assert.Equal(t, "9727.97", first.PrincipalPortion.StringFixed(2))
	assert.Equal(t, "110272.03", first.RemainingBalance.StringFixed(2))

	last := s.Rows[11]
	assert.True(t, last.RemainingBalance.IsZero())
	assert.Equal(t, "10327.97", last.PaymentAmount.StringFixed(2))

	assertScheduleInvariants(t, s)
}

func TestCompute_Totals(t *testing.T) {
	in := loan("120000", "6", 12)
	in.OneTimeFees = d("5000")

	s, err := Compute(in)
	require.NoError(t, err)

	sumPayment := decimal.Zero
	sumInterest := decimal.Zero
	for _, row := range s.Rows {
		sumPayment = sumPayment.Add(row.PaymentAmount)
		sumInterest = sumInterest.Add(row.InterestPortion)
	}

	assert.True(t, s.Summary.TotalPayment.Equal(sumPayment))
	assert.True(t, s.Summary.TotalInterestPaid.Equal(sumInterest))
	assert.True(t, s.Summary.TotalCost.Equal(sumPayment.Add(d("5000"))))
	assert.True(t, s.Summary.TotalPrincipal.Equal(d("120000")))
	assert.True(t, s.Summary.TotalPayment.Equal(s.Summary.TotalInterestPaid.Add(s.Summary.TotalPrincipal)))
	assert.Equal(t, "3935.66", s.Summary.TotalInterestPaid.StringFixed(2))
	assert.True(t, s.Rows[len(s.Rows)-1].CumulativeInterest.Equal(s.Summary.TotalInterestPaid))
}

func TestCompute_ThirtyYearMortgage(t *testing.T) {
	s, err := Compute(loan("100000", "8", 360))
	require.NoError(t, err)

	assert.Len(t, s.Rows, 360)
	assert.Equal(t, "733.76", s.Summary.ScheduledPayment.StringFixed(2))
	assertScheduleInvariants(t, s)
}

func TestCompute_ZeroInterest(t *testing.T) {
	s, err := Compute(loan("1200", "0", 12))
	require.NoError(t, err)

	require.Len(t, s.Rows, 12)
	for _, row := range s.Rows {
		assert.True(t, row.PrincipalPortion.Equal(d("100")), "row %d principal %s", row.PeriodIndex, row.PrincipalPortion)
		assert.True(t, row.InterestPortion.IsZero(), "row %d interest %s", row.PeriodIndex, row.InterestPortion)
	}
	assert.True(t, s.Summary.TotalInterestPaid.IsZero())
	assertScheduleInvariants(t, s)
}

func TestCompute_ZeroInterestUnevenSplit(t *testing.T) {
	s, err := Compute(loan("1000", "0", 3))
	require.NoError(t, err)

	require.Len(t, s.Rows, 3)
	assert.Equal(t, "333.33", s.Rows[0].PrincipalPortion.StringFixed(2))
	assertScheduleInvariants(t, s)
}

func TestCompute_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		in   domain.LoanInputs
	}{
		{"zero principal", loan("0", "6", 12)},
		{"negative principal", loan("-100", "6", 12)},
		{"zero term", loan("1000", "6", 0)},
		{"negative term", loan("1000", "6", -12)},
		{"negative rate", loan("1000", "-1", 12)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Compute(tt.in)
			require.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Nil(t, s)
		})
	}
}

func TestCompute_Idempotent(t *testing.T) {
	in := loan("250000", "9.5", 240)

	a, err := Compute(in)
	require.NoError(t, err)
	b, err := Compute(in)
	require.NoError(t, err)

	require.Len(t, b.Rows, len(a.Rows))
	for i := range a.Rows {
		assert.True(t, a.Rows[i].PaymentAmount.Equal(b.Rows[i].PaymentAmount))
		assert.True(t, a.Rows[i].RemainingBalance.Equal(b.Rows[i].RemainingBalance))
	}
	assertScheduleInvariants(t, a)
}

func TestCompute_ExtraPaymentShortensLoan(t *testing.T) {
	base, err := Compute(loan("100000", "8", 360))
	require.NoError(t, err)

	in := loan("100000", "8", 360)
	in.ExtraPayment = d("200")
	faster, err := Compute(in)
	require.NoError(t, err)

	assert.Less(t, faster.Summary.PayoffPeriods, base.Summary.PayoffPeriods)
	assert.Equal(t, 360, faster.Summary.Periods)
	assert.True(t, faster.Summary.TotalInterestPaid.LessThan(base.Summary.TotalInterestPaid))
	assert.True(t, faster.Summary.PeriodicPayment.Equal(faster.Summary.ScheduledPayment.Add(d("200"))))
	assertScheduleInvariants(t, faster)
}

func TestCompute_ExtraPaymentLargerThanLoan(t *testing.T) {
	in := loan("1000", "12", 12)
	in.ExtraPayment = d("5000")

	s, err := Compute(in)
	require.NoError(t, err)

	require.Len(t, s.Rows, 1)
	assert.True(t, s.Rows[0].PrincipalPortion.Equal(d("1000")))
	assert.Equal(t, "10.00", s.Rows[0].InterestPortion.StringFixed(2))
	assertScheduleInvariants(t, s)
}

func TestCompute_Biweekly(t *testing.T) {
	in := loan("120000", "6", 12)
	in.Frequency = domain.FrequencyBiweekly

	s, err := Compute(in)
	require.NoError(t, err)

	assert.Len(t, s.Rows, 26)
	assert.Equal(t, "1.00", s.Summary.YearsToPayoff.StringFixed(2))
	assert.True(t, s.Summary.PeriodicRate.Equal(d("6").DivRound(d("2600"), rateScale)))
	assertScheduleInvariants(t, s)
}

func TestCompute_AnnualChargesAndDueDates(t *testing.T) {
	start := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	in := loan("800000", "9.5", 24)
	in.OneTimeFees = d("5000")
	in.AnnualCharges = d("3000")
	in.StartDate = &start

	s, err := Compute(in)
	require.NoError(t, err)

	want := s.Summary.TotalPayment.Add(d("5000")).Add(d("6000"))
	assert.True(t, s.Summary.TotalCost.Equal(want), "total cost %s, want %s", s.Summary.TotalCost, want)

	assert.Equal(t, time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC), s.Rows[0].DueDate)
	assert.Equal(t, time.Date(2028, time.March, 1, 0, 0, 0, 0, time.UTC), s.Rows[23].DueDate)
}

func TestCompute_MonthEndStartDate(t *testing.T) {
	start := time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)
	in := loan("1200", "5", 3)
	in.StartDate = &start

	s, err := Compute(in)
	require.NoError(t, err)
	require.Len(t, s.Rows, 3)

	assert.Equal(t, time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC), s.Rows[0].DueDate)
	assert.Equal(t, time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC), s.Rows[1].DueDate)
	assert.Equal(t, time.Date(2026, time.April, 30, 0, 0, 0, 0, time.UTC), s.Rows[2].DueDate)
}

func TestCompute_NegativeDepositRejected(t *testing.T) {
	in := loan("1200", "5", 3)
	in.Borrower = domain.Borrower{Deposit: d("-1")}

	s, err := Compute(in)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, s)
}

func TestCompute_NoStartDateLeavesDueDateZero(t *testing.T) {
	s, err := Compute(loan("5000", "5", 6))
	require.NoError(t, err)

	for _, row := range s.Rows {
		assert.True(t, row.DueDate.IsZero())
	}
}

func TestPayment(t *testing.T) {
	assert.True(t, Payment(d("1200"), decimal.Zero, 12).Equal(d("100")))
	assert.Equal(t, "10327.97", Payment(d("120000"), d("0.005"), 12).StringFixed(2))
}

func TestCompound(t *testing.T) {
	assert.True(t, compound(d("0.1"), 0).Equal(one))
	assert.True(t, compound(d("0.1"), 1).Equal(d("1.1")))
	assert.True(t, compound(d("0.1"), 3).Equal(d("1.331")))
	assert.Equal(t, "1.061677811864", compound(d("0.005"), 12).StringFixed(12))
}
