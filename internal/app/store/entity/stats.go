package entity

import (
	"time"

	"github.com/google/uuid"
)

// MetricDelta compares one KPI between the current and previous window.
// ChangePct is always finite: 0 when both windows are empty, 100 when
// only the previous window is empty.
type MetricDelta struct {
	Current   float64 `json:"current"`
	Previous  float64 `json:"previous"`
	ChangePct float64 `json:"change_pct"`
}

// StatusCount is one slice of the order status breakdown. Every known
// status is present, zero-filled when no orders carry it.
type StatusCount struct {
	Status OrderStatus `json:"status"`
	Count  int         `json:"count"`
}

// TopProduct is one row of the top-sellers list, ranked by quantity
// sold within the reporting window.
type TopProduct struct {
	ProductID    uuid.UUID `json:"product_id"`
	Name         string    `json:"name"`
	QuantitySold int       `json:"quantity_sold"`
	Revenue      float64   `json:"revenue"`
}

// DashboardStats is the admin dashboard KPI payload: current calendar
// month compared against the immediately preceding month.
type DashboardStats struct {
	Orders          MetricDelta   `json:"orders"`
	NewUsers        MetricDelta   `json:"new_users"`
	ActiveProducts  MetricDelta   `json:"active_products"`
	Revenue         MetricDelta   `json:"revenue"`
	StatusBreakdown []StatusCount `json:"status_breakdown"`
	TopProducts     []TopProduct  `json:"top_products"`
	PeriodStart     time.Time     `json:"period_start"`
	PeriodEnd       time.Time     `json:"period_end"`
}

// RevenueBucket is one point of the revenue chart. Buckets with no
// orders report zero so the series stays contiguous.
type RevenueBucket struct {
	Label   string    `json:"label"`
	Start   time.Time `json:"start"`
	Revenue float64   `json:"revenue"`
}

// RecentOrder is one row of the admin recent-orders table.
type RecentOrder struct {
	ID            uuid.UUID   `json:"id"`
	UserID        uuid.UUID   `json:"user_id"`
	CustomerName  string      `json:"customer_name"`
	CustomerEmail string      `json:"customer_email"`
	TotalAmount   float64     `json:"total_amount"`
	Status        OrderStatus `json:"status"`
	CreatedAt     time.Time   `json:"created_at"`
}

// PeriodTotals are the raw window aggregates the stats repository
// returns for one half-open interval [From, To).
type PeriodTotals struct {
	Orders   int
	NewUsers int
	Revenue  float64
}
