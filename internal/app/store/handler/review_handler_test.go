package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"carshine/internal/app/store/entity"
	"carshine/internal/app/store/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) CreateReview(ctx context.Context, productID, userID uuid.UUID, req *entity.CreateReviewRequest) (*entity.Review, error) {
	args := m.Called(ctx, productID, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

func (m *MockReviewService) GetReviewsByProduct(ctx context.Context, productID uuid.UUID) ([]entity.Review, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Review), args.Error(1)
}

func (m *MockReviewService) DeleteReview(ctx context.Context, reviewID, userID uuid.UUID) error {
	args := m.Called(ctx, reviewID, userID)
	return args.Error(0)
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// withIdentity simulates the auth middleware for tests.
func withIdentity(userID uuid.UUID, admin bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("is_admin", admin)
		c.Next()
	}
}

func TestCreateReviewHandler_Success(t *testing.T) {
	router := setupTestRouter()
	userID := uuid.New()
	productID := uuid.New()

	mockService := new(MockReviewService)
	mockService.On("CreateReview", mock.Anything, productID, userID, mock.AnythingOfType("*entity.CreateReviewRequest")).
		Return(&entity.Review{ID: uuid.New(), ProductID: productID, UserID: userID, Rating: 5}, nil)

	h := NewReviewHandler(mockService)
	router.POST("/products/:id/reviews", withIdentity(userID, false), h.CreateReview)

	body, _ := json.Marshal(entity.CreateReviewRequest{Rating: 5, Comment: "Excellent shine"})
	req, _ := http.NewRequest(http.MethodPost, "/products/"+productID.String()+"/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockService.AssertExpectations(t)
}

func TestCreateReviewHandler_RatingOutOfRange(t *testing.T) {
	router := setupTestRouter()
	userID := uuid.New()
	productID := uuid.New()

	mockService := new(MockReviewService)
	h := NewReviewHandler(mockService)
	router.POST("/products/:id/reviews", withIdentity(userID, false), h.CreateReview)

	body, _ := json.Marshal(entity.CreateReviewRequest{Rating: 6})
	req, _ := http.NewRequest(http.MethodPost, "/products/"+productID.String()+"/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// Validation rejects before the service is ever reached.
	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "CreateReview", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	var resp entity.APIResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, entity.CodeValidation, resp.Code)
}

func TestCreateReviewHandler_Duplicate(t *testing.T) {
	router := setupTestRouter()
	userID := uuid.New()
	productID := uuid.New()

	mockService := new(MockReviewService)
	mockService.On("CreateReview", mock.Anything, productID, userID, mock.AnythingOfType("*entity.CreateReviewRequest")).
		Return(nil, service.ErrReviewExists)

	h := NewReviewHandler(mockService)
	router.POST("/products/:id/reviews", withIdentity(userID, false), h.CreateReview)

	body, _ := json.Marshal(entity.CreateReviewRequest{Rating: 4})
	req, _ := http.NewRequest(http.MethodPost, "/products/"+productID.String()+"/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDeleteReviewHandler_NotOwner(t *testing.T) {
	router := setupTestRouter()
	userID := uuid.New()
	reviewID := uuid.New()

	mockService := new(MockReviewService)
	mockService.On("DeleteReview", mock.Anything, reviewID, userID).
		Return(service.ErrReviewNotOwner)

	h := NewReviewHandler(mockService)
	router.DELETE("/reviews/:id", withIdentity(userID, false), h.DeleteReview)

	req, _ := http.NewRequest(http.MethodDelete, "/reviews/"+reviewID.String(), nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
