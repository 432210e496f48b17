package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"carshine/internal/app/store/entity"
	"carshine/internal/app/store/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// ===================== GetStats Tests =====================

func TestGetStats_MonthOverMonth(t *testing.T) {
	// Arrange
	statsRepo := new(mocks.MockStatsRepository)
	service := NewDashboardService(statsRepo)

	ctx := context.Background()
	now := time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)
	curStart := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	curEnd := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	prevStart := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)

	statsRepo.On("GetPeriodTotals", ctx, curStart, curEnd).
		Return(&entity.PeriodTotals{Orders: 30, NewUsers: 10, Revenue: 1500.0}, nil)
	statsRepo.On("GetPeriodTotals", ctx, prevStart, curStart).
		Return(&entity.PeriodTotals{Orders: 20, NewUsers: 8, Revenue: 1000.0}, nil)
	statsRepo.On("CountActiveProducts", ctx, curEnd).Return(12, nil)
	statsRepo.On("CountActiveProducts", ctx, curStart).Return(12, nil)
	statsRepo.On("GetStatusBreakdown", ctx, curStart, curEnd).
		Return(map[entity.OrderStatus]int{entity.OrderStatusPaid: 25, entity.OrderStatusPending: 5}, nil)
	statsRepo.On("GetTopProducts", ctx, curStart, curEnd, 5).
		Return([]entity.TopProduct{{Name: "Ceramic Wax", QuantitySold: 40}}, nil)

	// Act
	stats, err := service.GetStats(ctx, now)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, 50.0, stats.Orders.ChangePct)
	assert.Equal(t, 25.0, stats.NewUsers.ChangePct)
	assert.Equal(t, 0.0, stats.ActiveProducts.ChangePct)
	assert.Equal(t, 50.0, stats.Revenue.ChangePct)
	assert.Equal(t, curStart, stats.PeriodStart)
	assert.Equal(t, curEnd, stats.PeriodEnd)

	statsRepo.AssertExpectations(t)
}

func TestGetStats_EmptyPreviousPeriod(t *testing.T) {
	// Arrange
	statsRepo := new(mocks.MockStatsRepository)
	service := NewDashboardService(statsRepo)

	ctx := context.Background()
	now := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)

	statsRepo.On("GetPeriodTotals", ctx, mock.Anything, mock.Anything).
		Return(&entity.PeriodTotals{Orders: 5, NewUsers: 0, Revenue: 250.0}, nil).Once()
	statsRepo.On("GetPeriodTotals", ctx, mock.Anything, mock.Anything).
		Return(&entity.PeriodTotals{}, nil).Once()
	statsRepo.On("CountActiveProducts", ctx, mock.Anything).Return(0, nil)
	statsRepo.On("GetStatusBreakdown", ctx, mock.Anything, mock.Anything).
		Return(map[entity.OrderStatus]int{}, nil)
	statsRepo.On("GetTopProducts", ctx, mock.Anything, mock.Anything, 5).
		Return([]entity.TopProduct{}, nil)

	// Act
	stats, err := service.GetStats(ctx, now)

	// Assert: growth from nothing reports 100, no activity at all reports 0.
	assert.NoError(t, err)
	assert.Equal(t, 100.0, stats.Orders.ChangePct)
	assert.Equal(t, 0.0, stats.NewUsers.ChangePct)
	assert.Equal(t, 100.0, stats.Revenue.ChangePct)
}

func TestGetStats_StatusBreakdownZeroFilled(t *testing.T) {
	// Arrange
	statsRepo := new(mocks.MockStatsRepository)
	service := NewDashboardService(statsRepo)

	ctx := context.Background()
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	statsRepo.On("GetPeriodTotals", ctx, mock.Anything, mock.Anything).
		Return(&entity.PeriodTotals{}, nil)
	statsRepo.On("CountActiveProducts", ctx, mock.Anything).Return(0, nil)
	statsRepo.On("GetStatusBreakdown", ctx, mock.Anything, mock.Anything).
		Return(map[entity.OrderStatus]int{entity.OrderStatusCompleted: 3}, nil)
	statsRepo.On("GetTopProducts", ctx, mock.Anything, mock.Anything, 5).
		Return([]entity.TopProduct{}, nil)

	// Act
	stats, err := service.GetStats(ctx, now)

	// Assert: every known status appears exactly once.
	assert.NoError(t, err)
	assert.Len(t, stats.StatusBreakdown, len(entity.AllOrderStatuses))
	counts := make(map[entity.OrderStatus]int)
	for _, sc := range stats.StatusBreakdown {
		counts[sc.Status] = sc.Count
	}
	assert.Equal(t, 3, counts[entity.OrderStatusCompleted])
	assert.Equal(t, 0, counts[entity.OrderStatusPending])
	assert.Equal(t, 0, counts[entity.OrderStatusCancelled])
}

func TestGetStats_RepositoryError(t *testing.T) {
	// Arrange
	statsRepo := new(mocks.MockStatsRepository)
	service := NewDashboardService(statsRepo)

	ctx := context.Background()
	statsRepo.On("GetPeriodTotals", ctx, mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused"))

	// Act
	stats, err := service.GetStats(ctx, time.Now())

	// Assert: no partial results.
	assert.Error(t, err)
	assert.Nil(t, stats)
}

// ===================== Revenue Chart Tests =====================

func TestGetMonthlyRevenueChart_ZeroFillsGaps(t *testing.T) {
	// Arrange
	statsRepo := new(mocks.MockStatsRepository)
	service := NewDashboardService(statsRepo)

	ctx := context.Background()
	now := time.Date(2025, time.April, 20, 0, 0, 0, 0, time.UTC)

	// Only January and April had revenue.
	statsRepo.On("GetRevenueByMonth", ctx, mock.Anything, mock.Anything).
		Return(map[string]float64{"2025-01": 500.0, "2025-04": 900.0}, nil)

	// Act
	buckets, err := service.GetMonthlyRevenueChart(ctx, now, 4)

	// Assert: four contiguous buckets, gaps present with zero.
	assert.NoError(t, err)
	assert.Len(t, buckets, 4)
	assert.Equal(t, "Jan 2025", buckets[0].Label)
	assert.Equal(t, 500.0, buckets[0].Revenue)
	assert.Equal(t, 0.0, buckets[1].Revenue)
	assert.Equal(t, 0.0, buckets[2].Revenue)
	assert.Equal(t, "Apr 2025", buckets[3].Label)
	assert.Equal(t, 900.0, buckets[3].Revenue)
}

func TestGetDailyRevenueChart_EndsToday(t *testing.T) {
	// Arrange
	statsRepo := new(mocks.MockStatsRepository)
	service := NewDashboardService(statsRepo)

	ctx := context.Background()
	now := time.Date(2025, time.March, 10, 18, 30, 0, 0, time.UTC)

	statsRepo.On("GetRevenueByDay", ctx, mock.Anything, mock.Anything).
		Return(map[string]float64{"2025-03-10": 120.0}, nil)

	// Act
	buckets, err := service.GetDailyRevenueChart(ctx, now, 7)

	// Assert
	assert.NoError(t, err)
	assert.Len(t, buckets, 7)
	assert.Equal(t, time.Date(2025, time.March, 4, 0, 0, 0, 0, time.UTC), buckets[0].Start)
	assert.Equal(t, 120.0, buckets[6].Revenue)
}

func TestGetDailyRevenueChart_NonUTCReference(t *testing.T) {
	// Arrange: local midnight is already the next day relative to UTC.
	statsRepo := new(mocks.MockStatsRepository)
	service := NewDashboardService(statsRepo)

	ctx := context.Background()
	loc := time.FixedZone("UTC+13", 13*3600)
	now := time.Date(2025, time.March, 10, 1, 0, 0, 0, loc) // March 9, 12:00 UTC

	statsRepo.On("GetRevenueByDay", ctx, mock.Anything, mock.Anything).
		Return(map[string]float64{"2025-03-09": 75.0}, nil)

	// Act
	buckets, err := service.GetDailyRevenueChart(ctx, now, 3)

	// Assert: buckets are keyed in UTC, so the revenue lands in the
	// March 9 bucket instead of shifting into a neighbor.
	assert.NoError(t, err)
	assert.Len(t, buckets, 3)
	last := buckets[2]
	assert.Equal(t, time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC), last.Start)
	assert.Equal(t, 75.0, last.Revenue)
}

func TestGetRecentOrders_LimitClamped(t *testing.T) {
	// Arrange
	statsRepo := new(mocks.MockStatsRepository)
	service := NewDashboardService(statsRepo)

	ctx := context.Background()
	statsRepo.On("GetRecentOrders", ctx, 10).Return([]entity.RecentOrder{}, nil)

	// Act: out-of-range limits fall back to the default.
	_, err := service.GetRecentOrders(ctx, -5)

	// Assert
	assert.NoError(t, err)
	statsRepo.AssertExpectations(t)
}
