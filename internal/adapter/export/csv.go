package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/iho/goamort/internal/domain"
)

// CSVFilename is the suggested download name for an exported schedule.
const CSVFilename = "amortization_schedule.csv"

// CSVContentType is the media type written by WriteCSV.
const CSVContentType = "text/csv; charset=utf-8"

var csvHeader = []string{"Period", "Payment", "Interest", "Principal", "Balance"}

// WriteCSV writes one header row and one row per period, money fixed to 2 places.
func WriteCSV(w io.Writer, s *domain.Schedule) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, row := range s.Rows {
		record := []string{
			strconv.Itoa(row.PeriodIndex),
			row.PaymentAmount.StringFixed(2),
			row.InterestPortion.StringFixed(2),
			row.PrincipalPortion.StringFixed(2),
			row.RemainingBalance.StringFixed(2),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %d: %w", row.PeriodIndex, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
