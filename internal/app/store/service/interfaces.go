package service

import (
	"context"
	"time"

	"carshine/internal/app/store/entity"

	"github.com/google/uuid"
)

type CatalogServiceInterface interface {
	CreateProduct(ctx context.Context, req *entity.CreateProductRequest) (*entity.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	GetAllProducts(ctx context.Context) ([]entity.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *entity.UpdateProductRequest) (*entity.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	SetProductImage(ctx context.Context, id uuid.UUID, imagePath string) (*entity.Product, error)
	CreateCategory(ctx context.Context, req *entity.CreateCategoryRequest) (*entity.Category, error)
	GetAllCategories(ctx context.Context) ([]entity.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type UserServiceInterface interface {
	Register(ctx context.Context, req *entity.RegisterRequest) (*entity.AuthResponse, error)
	Login(ctx context.Context, req *entity.LoginRequest) (*entity.AuthResponse, error)
	GetUser(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetAllUsers(ctx context.Context, actorIsAdmin bool) ([]entity.User, error)
	UpdateUser(ctx context.Context, actorIsAdmin bool, id uuid.UUID, req *entity.UpdateUserRequest) (*entity.User, error)
	DeleteUser(ctx context.Context, actorIsAdmin bool, id uuid.UUID) error
}

type OrderServiceInterface interface {
	CreateOrder(ctx context.Context, userID uuid.UUID, req *entity.CreateOrderRequest) (*entity.OrderWithItems, error)
	GetOrder(ctx context.Context, orderID, userID uuid.UUID, isAdmin bool) (*entity.OrderWithItems, error)
	GetUserOrders(ctx context.Context, userID uuid.UUID) ([]entity.Order, error)
	GetAllOrders(ctx context.Context) ([]entity.Order, error)
	GetOrderItems(ctx context.Context, orderID, userID uuid.UUID, isAdmin bool) ([]entity.OrderItem, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status entity.OrderStatus) (*entity.Order, error)
	CancelOrder(ctx context.Context, orderID, userID uuid.UUID) (*entity.Order, error)
	HandlePaymentWebhook(ctx context.Context, req *entity.PaymentWebhookRequest) (*entity.Order, error)
	ExpireStaleOrders(ctx context.Context, olderThan time.Time) (int64, error)
}

type ReviewServiceInterface interface {
	CreateReview(ctx context.Context, productID, userID uuid.UUID, req *entity.CreateReviewRequest) (*entity.Review, error)
	GetReviewsByProduct(ctx context.Context, productID uuid.UUID) ([]entity.Review, error)
	DeleteReview(ctx context.Context, reviewID, userID uuid.UUID) error
}

type DashboardServiceInterface interface {
	GetStats(ctx context.Context, now time.Time) (*entity.DashboardStats, error)
	GetMonthlyRevenueChart(ctx context.Context, now time.Time, months int) ([]entity.RevenueBucket, error)
	GetDailyRevenueChart(ctx context.Context, now time.Time, days int) ([]entity.RevenueBucket, error)
	GetRecentOrders(ctx context.Context, limit int) ([]entity.RecentOrder, error)
}

type ReservationServiceInterface interface {
	CreateReservation(ctx context.Context, req *entity.CreateReservationRequest) (*entity.ReservationResponse, error)
	ListReservations(ctx context.Context) ([]entity.ReservationRecord, error)
}
