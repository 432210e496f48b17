package repository

import (
	"context"
	"fmt"
	"time"

	"carshine/internal/app/store/entity"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Order statuses that count towards revenue.
const revenueStatuses = `('paid', 'completed')`

type statsRepository struct {
	db *pgxpool.Pool
}

// NewStatsRepository creates the reporting repository. It runs raw
// aggregate SQL over the pgx pool instead of going through gorm; the
// dashboard only ever reads.
func NewStatsRepository(db *pgxpool.Pool) StatsRepository {
	return &statsRepository{db: db}
}

// GetPeriodTotals aggregates order count, new user count and revenue
// for one half-open window [from, to).
func (r *statsRepository) GetPeriodTotals(ctx context.Context, from, to time.Time) (*entity.PeriodTotals, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM orders WHERE created_at >= $1 AND created_at < $2),
			(SELECT COUNT(*) FROM users WHERE created_at >= $1 AND created_at < $2),
			(SELECT COALESCE(SUM(total_amount), 0) FROM orders
				WHERE created_at >= $1 AND created_at < $2 AND status IN ` + revenueStatuses + `)
	`

	var totals entity.PeriodTotals
	err := r.db.QueryRow(ctx, query, from, to).Scan(
		&totals.Orders,
		&totals.NewUsers,
		&totals.Revenue,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get period totals: %w", err)
	}

	return &totals, nil
}

func (r *statsRepository) CountActiveProducts(ctx context.Context, before time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM products WHERE stock > 0 AND created_at < $1`

	var count int
	if err := r.db.QueryRow(ctx, query, before).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count active products: %w", err)
	}

	return count, nil
}

func (r *statsRepository) GetStatusBreakdown(ctx context.Context, from, to time.Time) (map[entity.OrderStatus]int, error) {
	query := `
		SELECT status, COUNT(*)
		FROM orders
		WHERE created_at >= $1 AND created_at < $2
		GROUP BY status
	`

	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get status breakdown: %w", err)
	}
	defer rows.Close()

	breakdown := make(map[entity.OrderStatus]int)
	for rows.Next() {
		var status entity.OrderStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		breakdown[status] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating status breakdown: %w", err)
	}

	return breakdown, nil
}

// GetTopProducts ranks products by quantity sold within the window,
// joining order_items to orders so only in-window orders count.
func (r *statsRepository) GetTopProducts(ctx context.Context, from, to time.Time, limit int) ([]entity.TopProduct, error) {
	query := `
		SELECT p.id, p.name,
			SUM(oi.quantity) AS quantity_sold,
			SUM(oi.quantity * oi.unit_price) AS revenue
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN products p ON p.id = oi.product_id
		WHERE o.created_at >= $1 AND o.created_at < $2
		GROUP BY p.id, p.name
		ORDER BY quantity_sold DESC, p.name ASC
		LIMIT $3
	`

	rows, err := r.db.Query(ctx, query, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top products: %w", err)
	}
	defer rows.Close()

	var top []entity.TopProduct
	for rows.Next() {
		var tp entity.TopProduct
		if err := rows.Scan(&tp.ProductID, &tp.Name, &tp.QuantitySold, &tp.Revenue); err != nil {
			return nil, fmt.Errorf("failed to scan top product: %w", err)
		}
		top = append(top, tp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating top products: %w", err)
	}

	return top, nil
}

// Revenue series keys are formatted from UTC so they line up with the
// dashboard service, which walks its bucket cursor in UTC.
func (r *statsRepository) GetRevenueByDay(ctx context.Context, from, to time.Time) (map[string]float64, error) {
	query := `
		SELECT to_char(date_trunc('day', created_at AT TIME ZONE 'UTC'), 'YYYY-MM-DD'), COALESCE(SUM(total_amount), 0)
		FROM orders
		WHERE created_at >= $1 AND created_at < $2 AND status IN ` + revenueStatuses + `
		GROUP BY 1
	`

	return r.revenueSeries(ctx, query, from, to)
}

func (r *statsRepository) GetRevenueByMonth(ctx context.Context, from, to time.Time) (map[string]float64, error) {
	query := `
		SELECT to_char(date_trunc('month', created_at AT TIME ZONE 'UTC'), 'YYYY-MM'), COALESCE(SUM(total_amount), 0)
		FROM orders
		WHERE created_at >= $1 AND created_at < $2 AND status IN ` + revenueStatuses + `
		GROUP BY 1
	`

	return r.revenueSeries(ctx, query, from, to)
}

func (r *statsRepository) revenueSeries(ctx context.Context, query string, from, to time.Time) (map[string]float64, error) {
	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get revenue series: %w", err)
	}
	defer rows.Close()

	series := make(map[string]float64)
	for rows.Next() {
		var key string
		var revenue float64
		if err := rows.Scan(&key, &revenue); err != nil {
			return nil, fmt.Errorf("failed to scan revenue bucket: %w", err)
		}
		series[key] = revenue
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating revenue series: %w", err)
	}

	return series, nil
}

func (r *statsRepository) GetRecentOrders(ctx context.Context, limit int) ([]entity.RecentOrder, error) {
	query := `
		SELECT o.id, o.user_id,
			COALESCE(u.first_name || ' ' || u.last_name, ''),
			COALESCE(u.email, ''),
			o.total_amount, o.status, o.created_at
		FROM orders o
		LEFT JOIN users u ON u.id = o.user_id
		ORDER BY o.created_at DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent orders: %w", err)
	}
	defer rows.Close()

	var orders []entity.RecentOrder
	for rows.Next() {
		var ro entity.RecentOrder
		if err := rows.Scan(&ro.ID, &ro.UserID, &ro.CustomerName, &ro.CustomerEmail,
			&ro.TotalAmount, &ro.Status, &ro.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recent order: %w", err)
		}
		orders = append(orders, ro)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recent orders: %w", err)
	}

	return orders, nil
}
