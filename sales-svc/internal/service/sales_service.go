package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"kantin-dashboard/sales-svc/internal/domain"
	"kantin-dashboard/session"

	"go.uber.org/zap"
)

const reportMonths = 6

var monthNames = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

type SalesService struct {
	orders   OrderReader
	counters DailyCounters
	loc      *time.Location
	logger   *zap.Logger
	// Now is the clock used for "today" and the default reference month.
	Now func() time.Time
}

func NewSalesService(orders OrderReader, counters DailyCounters, loc *time.Location, logger *zap.Logger) *SalesService {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SalesService{orders: orders, counters: counters, loc: loc, logger: logger, Now: time.Now}
}

// MonthWindow returns the first instant of t's calendar month in loc and the
// first instant of the following month.
func MonthWindow(t time.Time, loc *time.Location) (time.Time, time.Time) {
	t = t.In(loc)
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}

// MonthLabel renders "<Indonesian month> <year>".
func MonthLabel(t time.Time) string {
	return monthNames[t.Month()-1] + " " + strconv.Itoa(t.Year())
}

// Growth formats the month-over-month change, or "N/A" without a baseline.
func Growth(current, previous float64) string {
	if previous == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%+.2f%%", (current-previous)/previous*100)
}

// parseAmount treats empty and non-numeric values as zero.
func parseAmount(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func (s *SalesService) Summary(ctx context.Context, id session.Identity, month time.Time) (domain.Summary, error) {
	if month.IsZero() {
		month = s.Now()
	}
	start, end := MonthWindow(month, s.loc)
	summary := domain.Summary{
		Month:            start.Format("2006-01"),
		MonthLabel:       MonthLabel(start),
		GrowthPercentage: "N/A",
	}
	if !id.HasRestaurant() {
		return summary, nil
	}

	current, err := s.total(ctx, id.RestaurantID, start, end)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("current month total: %w", err)
	}
	previous, err := s.total(ctx, id.RestaurantID, start.AddDate(0, -1, 0), start)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("previous month total: %w", err)
	}
	daily, err := s.Daily(ctx, id)
	if err != nil {
		return domain.Summary{}, err
	}

	summary.CurrentTotal = current
	summary.PreviousTotal = previous
	summary.GrowthPercentage = Growth(current, previous)
	summary.DailyTotal = daily.Total
	summary.DailyOrderCount = daily.OrderCount
	return summary, nil
}

func (s *SalesService) total(ctx context.Context, restaurantID int, from, to time.Time) (float64, error) {
	orders, err := s.orders.CompletedOrders(ctx, restaurantID, from, to)
	if err != nil {
		return 0, err
	}
	var sum float64
	for _, o := range orders {
		sum += parseAmount(o.Total)
	}
	return sum, nil
}

// Daily reports today's completed sales, preferring the aggregator's
// counters and falling back to the order table.
func (s *SalesService) Daily(ctx context.Context, id session.Identity) (domain.Daily, error) {
	now := s.Now().In(s.loc)
	day := now.Format("2006-01-02")
	if !id.HasRestaurant() {
		return domain.Daily{Date: day}, nil
	}

	if s.counters != nil {
		daily, found, err := s.counters.DailyCounter(ctx, id.RestaurantID, day)
		switch {
		case err != nil:
			s.logger.Warn("daily counter read failed", zap.Int("restaurant_id", id.RestaurantID), zap.Error(err))
		case found:
			daily.Date = day
			return daily, nil
		}
	}

	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	orders, err := s.orders.CompletedOrders(ctx, id.RestaurantID, start, start.AddDate(0, 0, 1))
	if err != nil {
		return domain.Daily{}, fmt.Errorf("daily total: %w", err)
	}
	daily := domain.Daily{Date: day, OrderCount: len(orders)}
	for _, o := range orders {
		daily.Total += parseAmount(o.Total)
	}
	return daily, nil
}

// Report aggregates the current and five prior months, newest first. Months
// without sales are present with zero figures.
func (s *SalesService) Report(ctx context.Context, id session.Identity) (domain.Report, error) {
	now := s.Now().In(s.loc)
	currentStart, end := MonthWindow(now, s.loc)
	start := currentStart.AddDate(0, -(reportMonths - 1), 0)

	rows := make([]domain.MonthlyRow, reportMonths)
	index := make(map[string]int, reportMonths)
	for i := range rows {
		month := currentStart.AddDate(0, -i, 0)
		rows[i] = domain.MonthlyRow{Month: month.Format("2006-01"), Label: MonthLabel(month)}
		index[rows[i].Month] = i
	}
	report := domain.Report{GeneratedAt: now, Rows: rows}
	if !id.HasRestaurant() {
		return report, nil
	}

	orders, err := s.orders.CompletedOrders(ctx, id.RestaurantID, start, end)
	if err != nil {
		return domain.Report{}, fmt.Errorf("report orders: %w", err)
	}
	for _, o := range orders {
		i, ok := index[o.CreatedAt.In(s.loc).Format("2006-01")]
		if !ok {
			continue
		}
		rows[i].Total += parseAmount(o.Total)
		rows[i].OriginalTotal += parseAmount(o.OriginalTotal)
		rows[i].UsedCoin += parseAmount(o.UsedCoin)
		rows[i].OrderCount++
	}

	s.logger.Info("sales report built",
		zap.Int("restaurant_id", id.RestaurantID),
		zap.Int("orders", len(orders)))
	return report, nil
}
