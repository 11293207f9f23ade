package domain

import "time"

// Summary is the dashboard's sales card for one reference month.
type Summary struct {
	Month            string  `json:"month"`
	MonthLabel       string  `json:"month_label"`
	CurrentTotal     float64 `json:"current_total"`
	PreviousTotal    float64 `json:"previous_total"`
	GrowthPercentage string  `json:"growth_percentage"`
	DailyTotal       float64 `json:"daily_total"`
	DailyOrderCount  int     `json:"daily_order_count"`
}

type Daily struct {
	Date       string  `json:"date"`
	Total      float64 `json:"total"`
	OrderCount int     `json:"order_count"`
}

// CompletedOrder carries the raw amount columns of a completed order. The
// columns are free-form text upstream, so parsing happens in the service.
type CompletedOrder struct {
	CreatedAt     time.Time
	Total         string
	OriginalTotal string
	UsedCoin      string
}

type MonthlyRow struct {
	Month         string  `json:"month"`
	Label         string  `json:"label"`
	Total         float64 `json:"total"`
	OriginalTotal float64 `json:"original_total"`
	UsedCoin      float64 `json:"used_coin"`
	OrderCount    int     `json:"order_count"`
}

type Report struct {
	GeneratedAt time.Time    `json:"generated_at"`
	Rows        []MonthlyRow `json:"rows"`
}

// Filename is the attachment name of the exported report.
func (r Report) Filename() string {
	return "Laporan_Pendapatan_Bulanan_" + r.GeneratedAt.Format("2006-01-02") + ".csv"
}
