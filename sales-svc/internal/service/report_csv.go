package service

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"

	"kantin-dashboard/sales-svc/internal/domain"
)

var reportHeader = []string{"Bulan", "Total Pendapatan", "Total Asli", "Koin Digunakan", "Jumlah Pesanan"}

// WriteReportCSV writes the report as UTF-8 CSV with a byte order mark so
// spreadsheet apps pick the right encoding.
func WriteReportCSV(w io.Writer, report domain.Report) error {
	if _, err := io.WriteString(w, "\ufeff"); err != nil {
		return err
	}
	out := csv.NewWriter(w)
	if err := out.Write(reportHeader); err != nil {
		return err
	}
	for _, row := range report.Rows {
		record := []string{
			row.Label,
			wholeNumber(row.Total),
			wholeNumber(row.OriginalTotal),
			wholeNumber(row.UsedCoin),
			strconv.Itoa(row.OrderCount),
		}
		if err := out.Write(record); err != nil {
			return err
		}
	}
	out.Flush()
	return out.Error()
}

func wholeNumber(v float64) string {
	return strconv.FormatFloat(math.Round(v), 'f', 0, 64)
}
