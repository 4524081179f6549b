package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func validInputs() LoanInputs {
	return LoanInputs{
		Principal:                 decimal.NewFromInt(120000),
		AnnualInterestRatePercent: decimal.NewFromInt(6),
		TermMonths:                12,
	}
}

func TestLoanInputs_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*LoanInputs)
		expectError bool
	}{
		{
			name:   "valid inputs",
			mutate: func(in *LoanInputs) {},
		},
		{
			name:        "zero principal",
			mutate:      func(in *LoanInputs) { in.Principal = decimal.Zero },
			expectError: true,
		},
		{
			name:        "negative principal",
			mutate:      func(in *LoanInputs) { in.Principal = decimal.NewFromInt(-1) },
			expectError: true,
		},
		{
			name:        "principal too large",
			mutate:      func(in *LoanInputs) { in.Principal = decimal.RequireFromString(MaxPrincipal).Add(decimal.NewFromInt(1)) },
			expectError: true,
		},
		{
			name:        "zero term",
			mutate:      func(in *LoanInputs) { in.TermMonths = 0 },
			expectError: true,
		},
		{
			name:        "term too long",
			mutate:      func(in *LoanInputs) { in.TermMonths = MaxTermMonths + 1 },
			expectError: true,
		},
		{
			name:        "negative rate",
			mutate:      func(in *LoanInputs) { in.AnnualInterestRatePercent = decimal.NewFromFloat(-0.5) },
			expectError: true,
		},
		{
			name:   "zero rate allowed",
			mutate: func(in *LoanInputs) { in.AnnualInterestRatePercent = decimal.Zero },
		},
		{
			name:        "rate above limit",
			mutate:      func(in *LoanInputs) { in.AnnualInterestRatePercent = decimal.NewFromInt(101) },
			expectError: true,
		},
		{
			name:        "negative fees",
			mutate:      func(in *LoanInputs) { in.OneTimeFees = decimal.NewFromInt(-5) },
			expectError: true,
		},
		{
			name:        "negative extra payment",
			mutate:      func(in *LoanInputs) { in.ExtraPayment = decimal.NewFromInt(-5) },
			expectError: true,
		},
		{
			name:        "negative annual charges",
			mutate:      func(in *LoanInputs) { in.AnnualCharges = decimal.NewFromInt(-5) },
			expectError: true,
		},
		{
			name:        "unknown frequency",
			mutate:      func(in *LoanInputs) { in.Frequency = "daily" },
			expectError: true,
		},
		{
			name:        "unknown currency",
			mutate:      func(in *LoanInputs) { in.Currency = "XYZ" },
			expectError: true,
		},
		{
			name:        "negative borrower deposit",
			mutate:      func(in *LoanInputs) { in.Borrower = Borrower{Deposit: decimal.NewFromInt(-1)} },
			expectError: true,
		},
		{
			name:        "borrower age out of range",
			mutate:      func(in *LoanInputs) { in.Borrower = Borrower{Age: MaxBorrowerAge + 1} },
			expectError: true,
		},
		{
			name:   "lowercase currency accepted",
			mutate: func(in *LoanInputs) { in.Currency = "inr" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInputs()
			tt.mutate(&in)

			err := in.Validate()
			if tt.expectError {
				if !errors.Is(err, ErrInvalidInput) {
					t.Fatalf("expected ErrInvalidInput, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoanInputs_Normalized(t *testing.T) {
	in := validInputs()
	in.Frequency = "Bi-Weekly"
	in.Currency = " usd "

	out := in.Normalized()
	if out.Frequency != FrequencyBiweekly {
		t.Errorf("expected biweekly, got %q", out.Frequency)
	}
	if out.Currency != "USD" {
		t.Errorf("expected USD, got %q", out.Currency)
	}
	if in.Currency != " usd " {
		t.Errorf("Normalized must not modify the receiver")
	}
}

func TestFrequency_Periods(t *testing.T) {
	tests := []struct {
		freq       Frequency
		termMonths int
		want       int
	}{
		{FrequencyMonthly, 12, 12},
		{FrequencyMonthly, 7, 7},
		{FrequencyBiweekly, 12, 26},
		{FrequencyWeekly, 24, 104},
		{FrequencyWeekly, 1, 4},
		{FrequencyBiweekly, 1, 2},
	}

	for _, tt := range tests {
		if got := tt.freq.Periods(tt.termMonths); got != tt.want {
			t.Errorf("%s.Periods(%d) = %d, want %d", tt.freq, tt.termMonths, got, tt.want)
		}
	}
}

func TestFrequency_DueDate(t *testing.T) {
	start := time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)

	if got := FrequencyWeekly.DueDate(start, 2); !got.Equal(start.AddDate(0, 0, 14)) {
		t.Errorf("weekly period 2 = %s", got)
	}
	if got := FrequencyBiweekly.DueDate(start, 1); !got.Equal(start.AddDate(0, 0, 14)) {
		t.Errorf("biweekly period 1 = %s", got)
	}
	if got := FrequencyMonthly.DueDate(start, 12); got.Year() != 2027 || got.Month() != time.January {
		t.Errorf("monthly period 12 = %s", got)
	}
}

func TestFrequency_DueDateMonthEnd(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		period int
		want   time.Time
	}{
		{"jan 31 to feb", time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC), 1, time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC)},
		{"jan 31 to mar", time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC), 2, time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC)},
		{"jan 31 to apr", time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC), 3, time.Date(2026, time.April, 30, 0, 0, 0, 0, time.UTC)},
		{"leap february", time.Date(2028, time.January, 30, 0, 0, 0, 0, time.UTC), 1, time.Date(2028, time.February, 29, 0, 0, 0, 0, time.UTC)},
		{"year rollover", time.Date(2026, time.October, 31, 0, 0, 0, 0, time.UTC), 4, time.Date(2027, time.February, 28, 0, 0, 0, 0, time.UTC)},
		{"mid month unchanged", time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC), 1, time.Date(2026, time.February, 15, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FrequencyMonthly.DueDate(tt.start, tt.period); !got.Equal(tt.want) {
				t.Errorf("DueDate(%s, %d) = %s, want %s", tt.start.Format("2006-01-02"), tt.period, got.Format("2006-01-02"), tt.want.Format("2006-01-02"))
			}
		})
	}
}

func TestParseFrequency(t *testing.T) {
	if f, err := ParseFrequency(""); err != nil || f != FrequencyMonthly {
		t.Fatalf("expected empty to mean monthly, got %q %v", f, err)
	}
	if f, err := ParseFrequency("fortnightly"); err != nil || f != FrequencyBiweekly {
		t.Fatalf("expected fortnightly to mean biweekly, got %q %v", f, err)
	}
	if _, err := ParseFrequency("yearly"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
