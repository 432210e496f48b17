package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"carshine/internal/app/store/config"
	"carshine/internal/app/store/entity"
	"carshine/internal/app/store/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) CreateProduct(ctx context.Context, req *entity.CreateProductRequest) (*entity.Product, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Product), args.Error(1)
}

func (m *MockCatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Product), args.Error(1)
}

func (m *MockCatalogService) GetAllProducts(ctx context.Context) ([]entity.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Product), args.Error(1)
}

func (m *MockCatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, req *entity.UpdateProductRequest) (*entity.Product, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Product), args.Error(1)
}

func (m *MockCatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCatalogService) SetProductImage(ctx context.Context, id uuid.UUID, imagePath string) (*entity.Product, error) {
	args := m.Called(ctx, id, imagePath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Product), args.Error(1)
}

func (m *MockCatalogService) CreateCategory(ctx context.Context, req *entity.CreateCategoryRequest) (*entity.Category, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Category), args.Error(1)
}

func (m *MockCatalogService) GetAllCategories(ctx context.Context) ([]entity.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Category), args.Error(1)
}

func (m *MockCatalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func testUploadConfig() config.UploadConfig {
	return config.UploadConfig{Dir: "./uploads", MaxSizeBytes: 5 << 20}
}

func TestGetAllProductsHandler(t *testing.T) {
	router := setupTestRouter()

	mockService := new(MockCatalogService)
	mockService.On("GetAllProducts", mock.Anything).
		Return([]entity.Product{
			{ID: uuid.New(), Name: "Shampoo", Price: 12.5},
			{ID: uuid.New(), Name: "Microfiber Cloth", Price: 6.0},
		}, nil)

	h := NewCatalogHandler(mockService, testUploadConfig())
	router.GET("/products", h.GetAllProducts)

	req, _ := http.NewRequest(http.MethodGet, "/products", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp entity.APIResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(2), data["total"])
}

func TestCreateProductHandler_MissingName(t *testing.T) {
	router := setupTestRouter()

	mockService := new(MockCatalogService)
	h := NewCatalogHandler(mockService, testUploadConfig())
	router.POST("/admin/products", withIdentity(uuid.New(), true), h.CreateProduct)

	body, _ := json.Marshal(map[string]interface{}{"price": 9.99, "category": "Interior"})
	req, _ := http.NewRequest(http.MethodPost, "/admin/products", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
}

func TestDeleteCategoryHandler_StillInUse(t *testing.T) {
	router := setupTestRouter()
	categoryID := uuid.New()

	mockService := new(MockCatalogService)
	mockService.On("DeleteCategory", mock.Anything, categoryID).Return(service.ErrCategoryInUse)

	h := NewCatalogHandler(mockService, testUploadConfig())
	router.DELETE("/admin/categories/:id", withIdentity(uuid.New(), true), h.DeleteCategory)

	req, _ := http.NewRequest(http.MethodDelete, "/admin/categories/"+categoryID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	var resp entity.APIResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, entity.CodeConflict, resp.Code)
}

func TestGetProductHandler_BadID(t *testing.T) {
	router := setupTestRouter()

	mockService := new(MockCatalogService)
	h := NewCatalogHandler(mockService, testUploadConfig())
	router.GET("/products/:id", h.GetProduct)

	req, _ := http.NewRequest(http.MethodGet, "/products/not-a-uuid", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "GetProduct", mock.Anything, mock.Anything)
}
