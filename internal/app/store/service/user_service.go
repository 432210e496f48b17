package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carshine/internal/app/store/entity"
	"carshine/internal/app/store/repository"
	"carshine/internal/app/store/util"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAdminRequired      = errors.New("admin privileges required")
)

// UserService owns accounts and token issuance. Admin checks are
// explicit equality checks here, never delegated to the store.
type UserService struct {
	userRepo repository.UserRepository
	jwt      *util.JWTManager
}

// NewUserService creates the user service.
func NewUserService(userRepo repository.UserRepository, jwt *util.JWTManager) *UserService {
	return &UserService{
		userRepo: userRepo,
		jwt:      jwt,
	}
}

// Register creates an account and returns a signed token.
func (s *UserService) Register(ctx context.Context, req *entity.RegisterRequest) (*entity.AuthResponse, error) {
	hash, err := util.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserAlreadyExists) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.jwt.GenerateAccessToken(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &entity.AuthResponse{Token: token, User: user}, nil
}

// Login verifies credentials and returns a signed token. Not-found and
// wrong-password collapse into one error so the response does not leak
// which emails exist.
func (s *UserService) Login(ctx context.Context, req *entity.LoginRequest) (*entity.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !util.CheckPassword(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateAccessToken(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &entity.AuthResponse{Token: token, User: user}, nil
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// GetAllUsers is admin-only.
func (s *UserService) GetAllUsers(ctx context.Context, actorIsAdmin bool) ([]entity.User, error) {
	if !actorIsAdmin {
		return nil, ErrAdminRequired
	}

	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}

	return users, nil
}

// UpdateUser is admin-only; it covers profile fields and the is_admin
// flag.
func (s *UserService) UpdateUser(ctx context.Context, actorIsAdmin bool, id uuid.UUID, req *entity.UpdateUserRequest) (*entity.User, error) {
	if !actorIsAdmin {
		return nil, ErrAdminRequired
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.IsAdmin != nil {
		user.IsAdmin = *req.IsAdmin
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// DeleteUser removes the profile row. Only admins may delete accounts;
// the external identity cascade belongs to the identity provider.
func (s *UserService) DeleteUser(ctx context.Context, actorIsAdmin bool, id uuid.UUID) error {
	if !actorIsAdmin {
		return ErrAdminRequired
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}
