package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"carshine/internal/app/store/entity"
	"carshine/internal/app/store/service"
	"carshine/pkg/logger"
)

type OrderHandler struct {
	orderService service.OrderServiceInterface
	validator    *validator.Validate
}

func NewOrderHandler(orderService service.OrderServiceInterface) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		validator:    validator.New(),
	}
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, entity.CodeUnauthorized, "Unauthorized")
		return
	}

	var req entity.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, entity.CodeValidation, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(c, http.StatusBadRequest, entity.CodeValidation, formatValidationError(err))
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			respondError(c, http.StatusNotFound, entity.CodeNotFound, "One or more products not found")
		case errors.Is(err, service.ErrOutOfStock):
			respondError(c, http.StatusConflict, entity.CodeConflict, "Insufficient stock for one or more products")
		default:
			logger.Error().Err(err).Msg("failed to create order")
			respondError(c, http.StatusInternalServerError, entity.CodeInternal, "Failed to create order")
		}
		return
	}

	respondData(c, http.StatusCreated, order)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, entity.CodeUnauthorized, "Unauthorized")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, entity.CodeValidation, "Invalid order ID")
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), orderID, userID, isAdmin(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, http.StatusNotFound, entity.CodeNotFound, "Order not found")
		case errors.Is(err, service.ErrOrderAccessDenied):
			respondError(c, http.StatusForbidden, entity.CodeForbidden, "Access denied")
		default:
			logger.Error().Err(err).Msg("failed to get order")
			respondError(c, http.StatusInternalServerError, entity.CodeInternal, "Failed to get order")
		}
		return
	}

	respondData(c, http.StatusOK, order)
}

// GetMyOrders lists the caller's own orders.
func (h *OrderHandler) GetMyOrders(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, entity.CodeUnauthorized, "Unauthorized")
		return
	}

	orders, err := h.orderService.GetUserOrders(c.Request.Context(), userID)
	if err != nil {
		logger.Error().Err(err).Msg("failed to list user orders")
		respondError(c, http.StatusInternalServerError, entity.CodeInternal, "Failed to get orders")
		return
	}

	respondData(c, http.StatusOK, orders)
}

// GetAllOrders is the admin listing.
func (h *OrderHandler) GetAllOrders(c *gin.Context) {
	orders, err := h.orderService.GetAllOrders(c.Request.Context())
	if err != nil {
		logger.Error().Err(err).Msg("failed to list orders")
		respondError(c, http.StatusInternalServerError, entity.CodeInternal, "Failed to get orders")
		return
	}

	respondData(c, http.StatusOK, orders)
}

func (h *OrderHandler) GetOrderItems(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, entity.CodeUnauthorized, "Unauthorized")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, entity.CodeValidation, "Invalid order ID")
		return
	}

	items, err := h.orderService.GetOrderItems(c.Request.Context(), orderID, userID, isAdmin(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, http.StatusNotFound, entity.CodeNotFound, "Order not found")
		case errors.Is(err, service.ErrOrderAccessDenied):
			respondError(c, http.StatusForbidden, entity.CodeForbidden, "Access denied")
		default:
			logger.Error().Err(err).Msg("failed to get order items")
			respondError(c, http.StatusInternalServerError, entity.CodeInternal, "Failed to get order items")
		}
		return
	}

	respondData(c, http.StatusOK, items)
}

// UpdateOrderStatus is the admin transition endpoint.
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, entity.CodeValidation, "Invalid order ID")
		return
	}

	var req entity.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, entity.CodeValidation, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(c, http.StatusBadRequest, entity.CodeValidation, formatValidationError(err))
		return
	}

	order, err := h.orderService.UpdateOrderStatus(c.Request.Context(), orderID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, http.StatusNotFound, entity.CodeNotFound, "Order not found")
		case errors.Is(err, service.ErrInvalidOrderStatus):
			respondError(c, http.StatusBadRequest, entity.CodeValidation, "Invalid order status")
		default:
			logger.Error().Err(err).Msg("failed to update order status")
			respondError(c, http.StatusInternalServerError, entity.CodeInternal, "Failed to update order status")
		}
		return
	}

	respondData(c, http.StatusOK, order)
}

// CancelOrder is the customer self-cancel endpoint.
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, entity.CodeUnauthorized, "Unauthorized")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, entity.CodeValidation, "Invalid order ID")
		return
	}

	order, err := h.orderService.CancelOrder(c.Request.Context(), orderID, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, http.StatusNotFound, entity.CodeNotFound, "Order not found")
		case errors.Is(err, service.ErrOrderAccessDenied):
			respondError(c, http.StatusForbidden, entity.CodeForbidden, "Access denied")
		case errors.Is(err, service.ErrOrderNotCancellable):
			respondError(c, http.StatusConflict, entity.CodeConflict, "Only pending orders can be cancelled")
		default:
			logger.Error().Err(err).Msg("failed to cancel order")
			respondError(c, http.StatusInternalServerError, entity.CodeInternal, "Failed to cancel order")
		}
		return
	}

	respondData(c, http.StatusOK, order)
}

// PaymentWebhook receives the provider's settlement callback. It is
// unauthenticated by design; the order id acts as the capability.
func (h *OrderHandler) PaymentWebhook(c *gin.Context) {
	var req entity.PaymentWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, entity.CodeValidation, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(c, http.StatusBadRequest, entity.CodeValidation, formatValidationError(err))
		return
	}

	order, err := h.orderService.HandlePaymentWebhook(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, http.StatusNotFound, entity.CodeNotFound, "Order not found")
			return
		}
		logger.Error().Err(err).Msg("failed to process payment webhook")
		respondError(c, http.StatusInternalServerError, entity.CodeInternal, "Failed to process payment result")
		return
	}

	respondData(c, http.StatusOK, order)
}
