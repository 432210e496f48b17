package repository

import (
	"context"
	"time"

	"carshine/internal/app/store/entity"

	"github.com/google/uuid"
)

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	GetAll(ctx context.Context) ([]entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	// UpdateRating writes the derived rating fields; nothing else on the
	// row is touched.
	UpdateRating(ctx context.Context, id uuid.UUID, rating float64, reviewsCount int) error
	CountByCategory(ctx context.Context, categoryName string) (int64, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	GetAll(ctx context.Context) ([]entity.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type OrderRepository interface {
	// CreateWithItems persists the order, its items and the stock
	// decrements in one transaction.
	CreateWithItems(ctx context.Context, order *entity.Order, items []entity.OrderItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.OrderWithItems, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]entity.Order, error)
	GetAll(ctx context.Context) ([]entity.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.OrderStatus) error
	// ExpireStalePending cancels pending orders older than the cutoff and
	// returns how many were affected.
	ExpireStalePending(ctx context.Context, olderThan time.Time) (int64, error)
}

type OrderItemRepository interface {
	GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]entity.OrderItem, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetAll(ctx context.Context) ([]entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Review, error)
	GetByProductID(ctx context.Context, productID uuid.UUID) ([]entity.Review, error)
	GetByProductAndUser(ctx context.Context, productID, userID uuid.UUID) (*entity.Review, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// GetRatingsByProduct returns only the rating values, which is all
	// the recalculator needs.
	GetRatingsByProduct(ctx context.Context, productID uuid.UUID) ([]int, error)
}

// StatsRepository serves the dashboard aggregates with raw SQL over the
// pgx pool; everything is read-only.
type StatsRepository interface {
	// GetPeriodTotals aggregates one half-open window [from, to).
	GetPeriodTotals(ctx context.Context, from, to time.Time) (*entity.PeriodTotals, error)
	// CountActiveProducts counts in-stock products created before the
	// cutoff, so the same query serves both windows.
	CountActiveProducts(ctx context.Context, before time.Time) (int, error)
	GetStatusBreakdown(ctx context.Context, from, to time.Time) (map[entity.OrderStatus]int, error)
	GetTopProducts(ctx context.Context, from, to time.Time, limit int) ([]entity.TopProduct, error)
	// GetRevenueByDay returns paid/completed revenue keyed by day
	// ("2006-01-02"); days without orders are absent and zero-filled by
	// the service.
	GetRevenueByDay(ctx context.Context, from, to time.Time) (map[string]float64, error)
	// GetRevenueByMonth is GetRevenueByDay at month granularity
	// ("2006-01").
	GetRevenueByMonth(ctx context.Context, from, to time.Time) (map[string]float64, error)
	GetRecentOrders(ctx context.Context, limit int) ([]entity.RecentOrder, error)
}
