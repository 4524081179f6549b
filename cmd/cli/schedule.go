package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/goamort/internal/adapter/export"
	"github.com/iho/goamort/internal/adapter/http/dto"
	"github.com/iho/goamort/internal/amortization"
	"github.com/iho/goamort/internal/domain"
)

const (
	formatTable = "table"
	formatCSV   = "csv"
	formatJSON  = "json"
)

// loanFlags binds the loan inputs shared by schedule and scenario save.
type loanFlags struct {
	principal string
	rate      string
	term      int
	fees      string
	frequency string
	extra     string
	charges   string
	startDate string
	currency  string
}

func (f *loanFlags) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.principal, "principal", "", "Loan principal")
	flags.StringVar(&f.rate, "rate", "", "Annual interest rate in percent, e.g. 6.5")
	flags.IntVar(&f.term, "term", 0, "Term in months")
	flags.StringVar(&f.fees, "fees", "0", "One-time fees added to total cost")
	flags.StringVar(&f.frequency, "frequency", string(domain.FrequencyMonthly), "Payment frequency: monthly, biweekly or weekly")
	flags.StringVar(&f.extra, "extra", "0", "Extra principal paid every period")
	flags.StringVar(&f.charges, "charges", "0", "Recurring annual charges added to total cost")
	flags.StringVar(&f.startDate, "start-date", "", "First period start date (YYYY-MM-DD)")
	flags.StringVar(&f.currency, "currency", "", "ISO currency code")

	_ = cmd.MarkFlagRequired("principal")
	_ = cmd.MarkFlagRequired("rate")
	_ = cmd.MarkFlagRequired("term")
}

func (f *loanFlags) request() (dto.LoanRequest, error) {
	values := map[string]string{
		"principal": f.principal,
		"rate":      f.rate,
		"fees":      f.fees,
		"extra":     f.extra,
		"charges":   f.charges,
	}
	parsed := make(map[string]decimal.Decimal, len(values))
	for name, raw := range values {
		if raw == "" {
			parsed[name] = decimal.Zero
			continue
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return dto.LoanRequest{}, fmt.Errorf("--%s: %q is not a number", name, raw)
		}
		parsed[name] = d
	}

	return dto.LoanRequest{
		Principal:          parsed["principal"],
		AnnualInterestRate: parsed["rate"],
		TermMonths:         f.term,
		OneTimeFees:        parsed["fees"],
		Frequency:          f.frequency,
		ExtraPayment:       parsed["extra"],
		AnnualCharges:      parsed["charges"],
		StartDate:          f.startDate,
		Currency:           f.currency,
	}, nil
}

func scheduleCmd() *cobra.Command {
	var (
		loan   loanFlags
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Compute an amortization schedule locally",
		Example: `  goamort schedule --principal 120000 --rate 6 --term 12
  goamort schedule --principal 250000 --rate 7.25 --term 360 --extra 150 --format csv --output plan.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := loan.request()
			if err != nil {
				return err
			}
			in, err := req.ToDomain()
			if err != nil {
				return err
			}

			schedule, err := amortization.Compute(in)
			if err != nil {
				return err
			}

			return withOutput(cmd, output, func(w io.Writer) error {
				return renderSchedule(w, schedule, format)
			})
		},
	}

	loan.bind(cmd)
	cmd.Flags().StringVar(&format, "format", formatTable, "Output format: table, csv or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")

	return cmd
}

func renderSchedule(w io.Writer, s *domain.Schedule, format string) error {
	switch format {
	case formatTable:
		return printScheduleTable(w, s)
	case formatCSV:
		return export.WriteCSV(w, s)
	case formatJSON:
		return printJSON(w, dto.ScheduleFromDomain(s))
	default:
		return fmt.Errorf("unknown format %q (want table, csv or json)", format)
	}
}

func printScheduleTable(w io.Writer, s *domain.Schedule) error {
	sum := dto.SummaryFromDomain(s.Summary)

	fmt.Fprintf(w, "Periodic payment:  %s\n", sum.PeriodicPayment.StringFixed(dto.MoneyPlaces))
	fmt.Fprintf(w, "Payoff periods:    %d of %d (%s years)\n", sum.PayoffPeriods, sum.Periods, sum.YearsToPayoff.StringFixed(2))
	fmt.Fprintf(w, "Total interest:    %s\n", sum.TotalInterest.StringFixed(dto.MoneyPlaces))
	fmt.Fprintf(w, "Total cost:        %s\n\n", sum.TotalCost.StringFixed(dto.MoneyPlaces))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Period\tDue\tPayment\tInterest\tPrincipal\tBalance\t")
	for _, row := range s.Rows {
		due := "-"
		if !row.DueDate.IsZero() {
			due = row.DueDate.Format(dto.DateLayout)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t\n",
			row.PeriodIndex,
			due,
			row.PaymentAmount.StringFixed(dto.MoneyPlaces),
			row.InterestPortion.StringFixed(dto.MoneyPlaces),
			row.PrincipalPortion.StringFixed(dto.MoneyPlaces),
			row.RemainingBalance.StringFixed(dto.MoneyPlaces),
		)
	}

	return tw.Flush()
}

// withOutput runs fn against the --output file, or stdout when none is set.
func withOutput(cmd *cobra.Command, path string, fn func(io.Writer) error) error {
	if path == "" {
		return fn(cmd.OutOrStdout())
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := fn(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", path)
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
