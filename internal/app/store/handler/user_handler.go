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

type UserHandler struct {
	userService service.UserServiceInterface
	validator   *validator.Validate
}

func NewUserHandler(userService service.UserServiceInterface) *UserHandler {
	return &UserHandler{
		userService: userService,
		validator:   validator.New(),
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req entity.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, entity.CodeValidation, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(c, http.StatusBadRequest, entity.CodeValidation, formatValidationError(err))
		return
	}

	auth, err := h.userService.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			respondError(c, http.StatusConflict, entity.CodeConflict, "Email already registered")
			return
		}
		logger.Error().Err(err).Msg("failed to register user")
		respondError(c, http.StatusInternalServerError, entity.CodeInternal, "Failed to register")
		return
	}

	respondData(c, http.StatusCreated, auth)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req entity.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, entity.CodeValidation, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(c, http.StatusBadRequest, entity.CodeValidation, formatValidationError(err))
		return
	}

	auth, err := h.userService.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, entity.CodeUnauthorized, "Invalid email or password")
			return
		}
		logger.Error().Err(err).Msg("failed to login user")
		respondError(c, http.StatusInternalServerError, entity.CodeInternal, "Failed to login")
		return
	}

	respondData(c, http.StatusOK, auth)
}

// GetMe returns the authenticated caller's own profile.
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, entity.CodeUnauthorized, "Unauthorized")
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, entity.CodeNotFound, "User not found")
			return
		}
		logger.Error().Err(err).Msg("failed to get user")
		respondError(c, http.StatusInternalServerError, entity.CodeInternal, "Failed to get user")
		return
	}

	respondData(c, http.StatusOK, user)
}

// === ADMIN ===

func (h *UserHandler) GetAllUsers(c *gin.Context) {
	users, err := h.userService.GetAllUsers(c.Request.Context(), isAdmin(c))
	if err != nil {
		if errors.Is(err, service.ErrAdminRequired) {
			respondError(c, http.StatusForbidden, entity.CodeForbidden, "Admin privileges required")
			return
		}
		logger.Error().Err(err).Msg("failed to list users")
		respondError(c, http.StatusInternalServerError, entity.CodeInternal, "Failed to get users")
		return
	}

	respondData(c, http.StatusOK, users)
}

func (h *UserHandler) GetUserByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, entity.CodeValidation, "Invalid user ID")
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, entity.CodeNotFound, "User not found")
			return
		}
		logger.Error().Err(err).Msg("failed to get user")
		respondError(c, http.StatusInternalServerError, entity.CodeInternal, "Failed to get user")
		return
	}

	respondData(c, http.StatusOK, user)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, entity.CodeValidation, "Invalid user ID")
		return
	}

	var req entity.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, entity.CodeValidation, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(c, http.StatusBadRequest, entity.CodeValidation, formatValidationError(err))
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), isAdmin(c), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAdminRequired):
			respondError(c, http.StatusForbidden, entity.CodeForbidden, "Admin privileges required")
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, http.StatusNotFound, entity.CodeNotFound, "User not found")
		default:
			logger.Error().Err(err).Msg("failed to update user")
			respondError(c, http.StatusInternalServerError, entity.CodeInternal, "Failed to update user")
		}
		return
	}

	respondData(c, http.StatusOK, user)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, entity.CodeValidation, "Invalid user ID")
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), isAdmin(c), id); err != nil {
		switch {
		case errors.Is(err, service.ErrAdminRequired):
			respondError(c, http.StatusForbidden, entity.CodeForbidden, "Admin privileges required")
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, http.StatusNotFound, entity.CodeNotFound, "User not found")
		default:
			logger.Error().Err(err).Msg("failed to delete user")
			respondError(c, http.StatusInternalServerError, entity.CodeInternal, "Failed to delete user")
		}
		return
	}

	respondMessage(c, http.StatusOK, "User deleted successfully")
}
