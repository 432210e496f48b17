package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"carshine/internal/app/store/entity"
	"carshine/internal/app/store/repository"
)

const topProductsLimit = 5

// DashboardService computes the admin reporting aggregates. It is
// strictly read-only and all-or-nothing: any underlying query failure
// fails the whole call, partial results are never returned.
type DashboardService struct {
	statsRepo repository.StatsRepository
}

// NewDashboardService creates the dashboard service.
func NewDashboardService(statsRepo repository.StatsRepository) *DashboardService {
	return &DashboardService{statsRepo: statsRepo}
}

// GetStats compares the current calendar month against the previous
// one. Windows are half-open [start, end) so a row on a boundary is
// counted exactly once.
func (s *DashboardService) GetStats(ctx context.Context, now time.Time) (*entity.DashboardStats, error) {
	curStart := startOfMonth(now)
	curEnd := curStart.AddDate(0, 1, 0)
	prevStart := curStart.AddDate(0, -1, 0)

	current, err := s.statsRepo.GetPeriodTotals(ctx, curStart, curEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate current period: %w", err)
	}

	previous, err := s.statsRepo.GetPeriodTotals(ctx, prevStart, curStart)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate previous period: %w", err)
	}

	// "Active" products are a point-in-time count, so the previous
	// window compares against the stock present before this month began.
	activeCur, err := s.statsRepo.CountActiveProducts(ctx, curEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to count active products: %w", err)
	}

	activePrev, err := s.statsRepo.CountActiveProducts(ctx, curStart)
	if err != nil {
		return nil, fmt.Errorf("failed to count previous active products: %w", err)
	}

	breakdown, err := s.statsRepo.GetStatusBreakdown(ctx, curStart, curEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to get status breakdown: %w", err)
	}

	topProducts, err := s.statsRepo.GetTopProducts(ctx, curStart, curEnd, topProductsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top products: %w", err)
	}
	if topProducts == nil {
		topProducts = []entity.TopProduct{}
	}

	return &entity.DashboardStats{
		Orders:          delta(float64(current.Orders), float64(previous.Orders)),
		NewUsers:        delta(float64(current.NewUsers), float64(previous.NewUsers)),
		ActiveProducts:  delta(float64(activeCur), float64(activePrev)),
		Revenue:         delta(current.Revenue, previous.Revenue),
		StatusBreakdown: fillStatusBreakdown(breakdown),
		TopProducts:     topProducts,
		PeriodStart:     curStart,
		PeriodEnd:       curEnd,
	}, nil
}

// GetMonthlyRevenueChart returns one bucket per calendar month for the
// last months buckets, ending with the current month. Months without
// revenue are present with zero so the series stays contiguous.
func (s *DashboardService) GetMonthlyRevenueChart(ctx context.Context, now time.Time, months int) ([]entity.RevenueBucket, error) {
	if months < 1 {
		months = 1
	}

	// Bucket keys are matched against to_char output the store computes
	// in UTC, so the cursor must walk in UTC too.
	now = now.UTC()

	end := startOfMonth(now).AddDate(0, 1, 0)
	start := startOfMonth(now).AddDate(0, -(months - 1), 0)

	series, err := s.statsRepo.GetRevenueByMonth(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get revenue series: %w", err)
	}

	buckets := make([]entity.RevenueBucket, 0, months)
	for cursor := start; cursor.Before(end); cursor = cursor.AddDate(0, 1, 0) {
		buckets = append(buckets, entity.RevenueBucket{
			Label:   cursor.Format("Jan 2006"),
			Start:   cursor,
			Revenue: series[cursor.Format("2006-01")],
		})
	}

	return buckets, nil
}

// GetDailyRevenueChart is the daily variant covering the last days
// buckets, ending today.
func (s *DashboardService) GetDailyRevenueChart(ctx context.Context, now time.Time, days int) ([]entity.RevenueBucket, error) {
	if days < 1 {
		days = 1
	}

	// Same UTC alignment as the monthly variant.
	now = now.UTC()

	end := startOfDay(now).AddDate(0, 0, 1)
	start := startOfDay(now).AddDate(0, 0, -(days - 1))

	series, err := s.statsRepo.GetRevenueByDay(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get revenue series: %w", err)
	}

	buckets := make([]entity.RevenueBucket, 0, days)
	for cursor := start; cursor.Before(end); cursor = cursor.AddDate(0, 0, 1) {
		buckets = append(buckets, entity.RevenueBucket{
			Label:   cursor.Format("Jan 2"),
			Start:   cursor,
			Revenue: series[cursor.Format("2006-01-02")],
		})
	}

	return buckets, nil
}

func (s *DashboardService) GetRecentOrders(ctx context.Context, limit int) ([]entity.RecentOrder, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}

	orders, err := s.statsRepo.GetRecentOrders(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent orders: %w", err)
	}

	return orders, nil
}

// delta builds the comparison for one metric. The percentage is always
// finite: an empty previous window reports 100 when the current window
// has activity and 0 when both are empty.
func delta(current, previous float64) entity.MetricDelta {
	var change float64
	switch {
	case previous == 0 && current == 0:
		change = 0
	case previous == 0:
		change = 100
	default:
		change = math.Round((current-previous)/previous*100*100) / 100
	}

	return entity.MetricDelta{
		Current:   current,
		Previous:  previous,
		ChangePct: change,
	}
}

// fillStatusBreakdown zero-fills so every known status appears.
func fillStatusBreakdown(counts map[entity.OrderStatus]int) []entity.StatusCount {
	breakdown := make([]entity.StatusCount, 0, len(entity.AllOrderStatuses))
	for _, status := range entity.AllOrderStatuses {
		breakdown = append(breakdown, entity.StatusCount{
			Status: status,
			Count:  counts[status],
		})
	}
	return breakdown
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
