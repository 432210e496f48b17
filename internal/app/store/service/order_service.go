package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"carshine/internal/app/store/entity"
	"carshine/internal/app/store/infrastructure"
	"carshine/internal/app/store/repository"
	"carshine/pkg/logger"
	"carshine/pkg/metrics"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrOrderAccessDenied   = errors.New("access to order denied")
	ErrInvalidOrderStatus  = errors.New("invalid order status")
	ErrOrderNotCancellable = errors.New("only pending orders can be cancelled")
	ErrOutOfStock          = errors.New("insufficient stock for one or more products")
)

// OrderService owns checkout and the order lifecycle.
type OrderService struct {
	orderRepo     repository.OrderRepository
	orderItemRepo repository.OrderItemRepository
	productRepo   repository.ProductRepository
	publisher     infrastructure.MessagePublisher
}

// NewOrderService creates the order service with its dependencies.
func NewOrderService(
	orderRepo repository.OrderRepository,
	orderItemRepo repository.OrderItemRepository,
	productRepo repository.ProductRepository,
	publisher infrastructure.MessagePublisher,
) *OrderService {
	return &OrderService{
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		productRepo:   productRepo,
		publisher:     publisher,
	}
}

// CreateOrder runs checkout:
// 1. price every item from the product row, never from the client
// 2. write order, items and stock decrements in one transaction
// 3. publish ORDER_CREATED (failure logged, not propagated)
func (s *OrderService) CreateOrder(ctx context.Context, userID uuid.UUID, req *entity.CreateOrderRequest) (*entity.OrderWithItems, error) {
	order := &entity.Order{
		ID:        uuid.New(),
		UserID:    userID,
		Status:    entity.OrderStatusPending,
		CreatedAt: time.Now(),
	}

	var totalAmount float64
	items := make([]entity.OrderItem, 0, len(req.Items))

	for _, itemReq := range req.Items {
		product, err := s.productRepo.GetByID(ctx, itemReq.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return nil, ErrProductNotFound
			}
			return nil, fmt.Errorf("failed to get product: %w", err)
		}

		items = append(items, entity.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: product.ID,
			Quantity:  itemReq.Quantity,
			UnitPrice: product.Price,
		})
		totalAmount += product.Price * float64(itemReq.Quantity)
	}

	order.TotalAmount = totalAmount

	if err := s.orderRepo.CreateWithItems(ctx, order, items); err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			return nil, ErrOutOfStock
		}
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	metrics.OrdersCreated.Inc()
	metrics.OrdersRevenue.Add(totalAmount)

	s.publishOrderEvent(ctx, "ORDER_CREATED", order, len(items))

	return &entity.OrderWithItems{Order: *order, Items: items}, nil
}

// GetOrder returns the order if the caller owns it or is an admin.
func (s *OrderService) GetOrder(ctx context.Context, orderID, userID uuid.UUID, isAdmin bool) (*entity.OrderWithItems, error) {
	order, err := s.orderRepo.GetWithItems(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order.UserID != userID && !isAdmin {
		return nil, ErrOrderAccessDenied
	}

	return order, nil
}

func (s *OrderService) GetUserOrders(ctx context.Context, userID uuid.UUID) ([]entity.Order, error) {
	orders, err := s.orderRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}

	return orders, nil
}

func (s *OrderService) GetAllOrders(ctx context.Context) ([]entity.Order, error) {
	orders, err := s.orderRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}

	return orders, nil
}

// GetOrderItems returns the items of an order the caller may see.
func (s *OrderService) GetOrderItems(ctx context.Context, orderID, userID uuid.UUID, isAdmin bool) ([]entity.OrderItem, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order.UserID != userID && !isAdmin {
		return nil, ErrOrderAccessDenied
	}

	items, err := s.orderItemRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order items: %w", err)
	}

	return items, nil
}

// UpdateOrderStatus transitions an order (admin path). Repeating the
// same transition is a no-op that returns the unchanged order and
// publishes nothing, so retries cause no duplicate side effects.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status entity.OrderStatus) (*entity.Order, error) {
	if !status.IsValid() {
		return nil, ErrInvalidOrderStatus
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order.Status == status {
		return order, nil
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	order.Status = status

	s.publishOrderEvent(ctx, "ORDER_STATUS_CHANGED", order, 0)

	return order, nil
}

// CancelOrder is the customer's self-cancel. Only pending orders can be
// cancelled; cancelling twice is a no-op.
func (s *OrderService) CancelOrder(ctx context.Context, orderID, userID uuid.UUID) (*entity.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order.UserID != userID {
		return nil, ErrOrderAccessDenied
	}

	if order.Status == entity.OrderStatusCancelled {
		return order, nil
	}

	if order.Status != entity.OrderStatusPending {
		return nil, ErrOrderNotCancellable
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, entity.OrderStatusCancelled); err != nil {
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}
	order.Status = entity.OrderStatusCancelled

	s.publishOrderEvent(ctx, "ORDER_STATUS_CHANGED", order, 0)

	return order, nil
}

// HandlePaymentWebhook maps the provider result onto the order status.
// Replays of the same result are no-ops.
func (s *OrderService) HandlePaymentWebhook(ctx context.Context, req *entity.PaymentWebhookRequest) (*entity.Order, error) {
	status := entity.OrderStatusPaid
	if req.Result == "failed" {
		status = entity.OrderStatusFailed
	}

	return s.UpdateOrderStatus(ctx, req.OrderID, status)
}

// ExpireStaleOrders cancels pending orders older than the cutoff; the
// cron scheduler calls this.
func (s *OrderService) ExpireStaleOrders(ctx context.Context, olderThan time.Time) (int64, error) {
	expired, err := s.orderRepo.ExpireStalePending(ctx, olderThan)
	if err != nil {
		return 0, fmt.Errorf("failed to expire stale orders: %w", err)
	}

	if expired > 0 {
		metrics.OrdersExpired.Add(float64(expired))
		logger.Info().Int64("expired", expired).Msg("cancelled stale pending orders")
	}

	return expired, nil
}

// publishOrderEvent sends the event to Kafka. The order is already
// written; a publish failure is logged and swallowed.
func (s *OrderService) publishOrderEvent(ctx context.Context, eventType string, order *entity.Order, itemsCount int) {
	event := entity.OrderEvent{
		EventType:   eventType,
		OrderID:     order.ID,
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount,
		Status:      order.Status,
		ItemsCount:  itemsCount,
		Timestamp:   time.Now(),
	}

	eventData, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Msg("failed to marshal order event")
		return
	}

	if err := s.publisher.PublishMessage(ctx, event.OrderID.String(), eventData); err != nil {
		metrics.RecordKafkaError("store", "order_events", "produce")
		logger.Error().Err(err).Str("event_type", eventType).Msg("failed to publish order event")
		return
	}

	metrics.RecordKafkaMessageProduced("store", "order_events")
}
