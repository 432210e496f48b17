package handler

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"carshine/internal/app/store/config"
	"carshine/internal/app/store/entity"
	"carshine/internal/app/store/service"
	"carshine/pkg/logger"
)

type CatalogHandler struct {
	catalogService service.CatalogServiceInterface
	upload         config.UploadConfig
	validator      *validator.Validate
}

func NewCatalogHandler(catalogService service.CatalogServiceInterface, upload config.UploadConfig) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		upload:         upload,
		validator:      validator.New(),
	}
}

// === PRODUCTS ===

func (h *CatalogHandler) GetAllProducts(c *gin.Context) {
	products, err := h.catalogService.GetAllProducts(c.Request.Context())
	if err != nil {
		logger.Error().Err(err).Msg("failed to list products")
		respondError(c, http.StatusInternalServerError, entity.CodeInternal, "Failed to get products")
		return
	}

	respondData(c, http.StatusOK, entity.ProductListResponse{
		Products: products,
		Total:    len(products),
	})
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, entity.CodeValidation, "Invalid product ID")
		return
	}

	product, err := h.catalogService.GetProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, http.StatusNotFound, entity.CodeNotFound, "Product not found")
			return
		}
		logger.Error().Err(err).Msg("failed to get product")
		respondError(c, http.StatusInternalServerError, entity.CodeInternal, "Failed to get product")
		return
	}

	respondData(c, http.StatusOK, product)
}

func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req entity.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, entity.CodeValidation, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(c, http.StatusBadRequest, entity.CodeValidation, formatValidationError(err))
		return
	}

	product, err := h.catalogService.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		logger.Error().Err(err).Msg("failed to create product")
		respondError(c, http.StatusInternalServerError, entity.CodeInternal, "Failed to create product")
		return
	}

	respondData(c, http.StatusCreated, product)
}

func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, entity.CodeValidation, "Invalid product ID")
		return
	}

	var req entity.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, entity.CodeValidation, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(c, http.StatusBadRequest, entity.CodeValidation, formatValidationError(err))
		return
	}

	product, err := h.catalogService.UpdateProduct(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, http.StatusNotFound, entity.CodeNotFound, "Product not found")
			return
		}
		logger.Error().Err(err).Msg("failed to update product")
		respondError(c, http.StatusInternalServerError, entity.CodeInternal, "Failed to update product")
		return
	}

	respondData(c, http.StatusOK, product)
}

func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, entity.CodeValidation, "Invalid product ID")
		return
	}

	if err := h.catalogService.DeleteProduct(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, http.StatusNotFound, entity.CodeNotFound, "Product not found")
			return
		}
		logger.Error().Err(err).Msg("failed to delete product")
		respondError(c, http.StatusInternalServerError, entity.CodeInternal, "Failed to delete product")
		return
	}

	respondMessage(c, http.StatusOK, "Product deleted successfully")
}

// UploadProductImage accepts a multipart image, stores it under the
// upload dir with a fresh name and records the path on the product.
func (h *CatalogHandler) UploadProductImage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, entity.CodeValidation, "Invalid product ID")
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, entity.CodeValidation, "Image file is required")
		return
	}

	if file.Size > h.upload.MaxSizeBytes {
		respondError(c, http.StatusBadRequest, entity.CodeValidation,
			fmt.Sprintf("Image exceeds the %d byte limit", h.upload.MaxSizeBytes))
		return
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		respondError(c, http.StatusBadRequest, entity.CodeValidation, "File must be an image")
		return
	}

	if err := os.MkdirAll(h.upload.Dir, 0o755); err != nil {
		logger.Error().Err(err).Msg("failed to create upload dir")
		respondError(c, http.StatusInternalServerError, entity.CodeInternal, "Failed to store image")
		return
	}

	filename := uuid.NewString() + filepath.Ext(file.Filename)
	dst := filepath.Join(h.upload.Dir, filename)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		logger.Error().Err(err).Msg("failed to save uploaded image")
		respondError(c, http.StatusInternalServerError, entity.CodeInternal, "Failed to store image")
		return
	}

	product, err := h.catalogService.SetProductImage(c.Request.Context(), id, "/uploads/"+filename)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, http.StatusNotFound, entity.CodeNotFound, "Product not found")
			return
		}
		logger.Error().Err(err).Msg("failed to set product image")
		respondError(c, http.StatusInternalServerError, entity.CodeInternal, "Failed to update product image")
		return
	}

	respondData(c, http.StatusOK, product)
}

// === CATEGORIES ===

func (h *CatalogHandler) GetAllCategories(c *gin.Context) {
	categories, err := h.catalogService.GetAllCategories(c.Request.Context())
	if err != nil {
		logger.Error().Err(err).Msg("failed to list categories")
		respondError(c, http.StatusInternalServerError, entity.CodeInternal, "Failed to get categories")
		return
	}

	respondData(c, http.StatusOK, entity.CategoryListResponse{
		Categories: categories,
		Total:      len(categories),
	})
}

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req entity.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, entity.CodeValidation, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(c, http.StatusBadRequest, entity.CodeValidation, formatValidationError(err))
		return
	}

	category, err := h.catalogService.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrCategoryExists) {
			respondError(c, http.StatusConflict, entity.CodeConflict, "Category already exists")
			return
		}
		logger.Error().Err(err).Msg("failed to create category")
		respondError(c, http.StatusInternalServerError, entity.CodeInternal, "Failed to create category")
		return
	}

	respondData(c, http.StatusCreated, category)
}

func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, entity.CodeValidation, "Invalid category ID")
		return
	}

	if err := h.catalogService.DeleteCategory(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryNotFound):
			respondError(c, http.StatusNotFound, entity.CodeNotFound, "Category not found")
		case errors.Is(err, service.ErrCategoryInUse):
			respondError(c, http.StatusConflict, entity.CodeConflict, "Category still has products")
		default:
			logger.Error().Err(err).Msg("failed to delete category")
			respondError(c, http.StatusInternalServerError, entity.CodeInternal, "Failed to delete category")
		}
		return
	}

	respondMessage(c, http.StatusOK, "Category deleted successfully")
}
