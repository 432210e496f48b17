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

type ReviewHandler struct {
	reviewService service.ReviewServiceInterface
	validator     *validator.Validate
}

func NewReviewHandler(reviewService service.ReviewServiceInterface) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		validator:     validator.New(),
	}
}

// CreateReview posts a review on the product in the path.
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, entity.CodeUnauthorized, "Unauthorized")
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, entity.CodeValidation, "Invalid product ID")
		return
	}

	var req entity.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, entity.CodeValidation, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(c, http.StatusBadRequest, entity.CodeValidation, formatValidationError(err))
		return
	}

	review, err := h.reviewService.CreateReview(c.Request.Context(), productID, userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReviewBadProduct):
			respondError(c, http.StatusNotFound, entity.CodeNotFound, "Product not found")
		case errors.Is(err, service.ErrReviewExists):
			respondError(c, http.StatusConflict, entity.CodeConflict, "You have already reviewed this product")
		default:
			logger.Error().Err(err).Msg("failed to create review")
			respondError(c, http.StatusInternalServerError, entity.CodeInternal, "Failed to create review")
		}
		return
	}

	respondData(c, http.StatusCreated, review)
}

func (h *ReviewHandler) GetReviewsByProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, entity.CodeValidation, "Invalid product ID")
		return
	}

	reviews, err := h.reviewService.GetReviewsByProduct(c.Request.Context(), productID)
	if err != nil {
		logger.Error().Err(err).Msg("failed to list reviews")
		respondError(c, http.StatusInternalServerError, entity.CodeInternal, "Failed to get reviews")
		return
	}

	respondData(c, http.StatusOK, reviews)
}

func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, entity.CodeUnauthorized, "Unauthorized")
		return
	}

	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, entity.CodeValidation, "Invalid review ID")
		return
	}

	if err := h.reviewService.DeleteReview(c.Request.Context(), reviewID, userID); err != nil {
		switch {
		case errors.Is(err, service.ErrReviewNotFound):
			respondError(c, http.StatusNotFound, entity.CodeNotFound, "Review not found")
		case errors.Is(err, service.ErrReviewNotOwner):
			respondError(c, http.StatusForbidden, entity.CodeForbidden, "Access denied")
		default:
			logger.Error().Err(err).Msg("failed to delete review")
			respondError(c, http.StatusInternalServerError, entity.CodeInternal, "Failed to delete review")
		}
		return
	}

	respondMessage(c, http.StatusOK, "Review deleted successfully")
}
