package service

import (
	"context"
	"errors"
	"testing"

	"carshine/internal/app/store/entity"
	"carshine/internal/app/store/repository"
	"carshine/internal/app/store/repository/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// ===================== CreateReview Tests =====================

func TestCreateReview_RecalculatesRating(t *testing.T) {
	// Arrange
	reviewRepo := new(mocks.MockReviewRepository)
	productRepo := new(mocks.MockProductRepository)
	publisher := new(mocks.MockMessagePublisher)

	service := NewReviewService(reviewRepo, productRepo, publisher)

	ctx := context.Background()
	productID := uuid.New()
	userID := uuid.New()
	req := &entity.CreateReviewRequest{Rating: 5, Comment: "Spotless finish"}

	productRepo.On("GetByID", ctx, productID).
		Return(&entity.Product{ID: productID, Name: "Wheel Cleaner"}, nil)
	reviewRepo.On("GetByProductAndUser", ctx, productID, userID).
		Return(nil, repository.ErrReviewNotFound)
	reviewRepo.On("Create", ctx, mock.AnythingOfType("*entity.Review")).Return(nil)
	// 4 + 3 + 5 = 12, mean 4.0 over 3 reviews
	reviewRepo.On("GetRatingsByProduct", ctx, productID).Return([]int{4, 3, 5}, nil)
	productRepo.On("UpdateRating", ctx, productID, 4.0, 3).Return(nil)
	publisher.On("PublishMessage", ctx, mock.AnythingOfType("string"), mock.Anything).Return(nil)

	// Act
	review, err := service.CreateReview(ctx, productID, userID, req)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, 5, review.Rating)
	productRepo.AssertExpectations(t)
	reviewRepo.AssertExpectations(t)
}

func TestCreateReview_RatingRoundedToTwoDecimals(t *testing.T) {
	// Arrange
	reviewRepo := new(mocks.MockReviewRepository)
	productRepo := new(mocks.MockProductRepository)
	publisher := new(mocks.MockMessagePublisher)

	service := NewReviewService(reviewRepo, productRepo, publisher)

	ctx := context.Background()
	productID := uuid.New()
	userID := uuid.New()

	productRepo.On("GetByID", ctx, productID).Return(&entity.Product{ID: productID}, nil)
	reviewRepo.On("GetByProductAndUser", ctx, productID, userID).
		Return(nil, repository.ErrReviewNotFound)
	reviewRepo.On("Create", ctx, mock.AnythingOfType("*entity.Review")).Return(nil)
	// (5 + 4 + 4) / 3 = 4.333... -> 4.33
	reviewRepo.On("GetRatingsByProduct", ctx, productID).Return([]int{5, 4, 4}, nil)
	productRepo.On("UpdateRating", ctx, productID, 4.33, 3).Return(nil)
	publisher.On("PublishMessage", ctx, mock.AnythingOfType("string"), mock.Anything).Return(nil)

	// Act
	_, err := service.CreateReview(ctx, productID, userID, &entity.CreateReviewRequest{Rating: 4})

	// Assert
	assert.NoError(t, err)
	productRepo.AssertExpectations(t)
}

func TestCreateReview_ProductMissing(t *testing.T) {
	// Arrange
	reviewRepo := new(mocks.MockReviewRepository)
	productRepo := new(mocks.MockProductRepository)
	publisher := new(mocks.MockMessagePublisher)

	service := NewReviewService(reviewRepo, productRepo, publisher)

	ctx := context.Background()
	productID := uuid.New()

	productRepo.On("GetByID", ctx, productID).Return(nil, repository.ErrProductNotFound)

	// Act
	review, err := service.CreateReview(ctx, productID, uuid.New(), &entity.CreateReviewRequest{Rating: 3})

	// Assert
	assert.ErrorIs(t, err, ErrReviewBadProduct)
	assert.Nil(t, review)
	reviewRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateReview_Duplicate(t *testing.T) {
	// Arrange
	reviewRepo := new(mocks.MockReviewRepository)
	productRepo := new(mocks.MockProductRepository)
	publisher := new(mocks.MockMessagePublisher)

	service := NewReviewService(reviewRepo, productRepo, publisher)

	ctx := context.Background()
	productID := uuid.New()
	userID := uuid.New()

	productRepo.On("GetByID", ctx, productID).Return(&entity.Product{ID: productID}, nil)
	reviewRepo.On("GetByProductAndUser", ctx, productID, userID).
		Return(&entity.Review{ID: uuid.New()}, nil)

	// Act
	review, err := service.CreateReview(ctx, productID, userID, &entity.CreateReviewRequest{Rating: 4})

	// Assert
	assert.ErrorIs(t, err, ErrReviewExists)
	assert.Nil(t, review)
}

func TestCreateReview_DuplicateLostRace(t *testing.T) {
	// Arrange: the pre-read sees nothing but the insert hits the unique
	// index, which still surfaces as a conflict.
	reviewRepo := new(mocks.MockReviewRepository)
	productRepo := new(mocks.MockProductRepository)
	publisher := new(mocks.MockMessagePublisher)

	service := NewReviewService(reviewRepo, productRepo, publisher)

	ctx := context.Background()
	productID := uuid.New()
	userID := uuid.New()

	productRepo.On("GetByID", ctx, productID).Return(&entity.Product{ID: productID}, nil)
	reviewRepo.On("GetByProductAndUser", ctx, productID, userID).
		Return(nil, repository.ErrReviewNotFound)
	reviewRepo.On("Create", ctx, mock.AnythingOfType("*entity.Review")).
		Return(repository.ErrDuplicateReview)

	// Act
	review, err := service.CreateReview(ctx, productID, userID, &entity.CreateReviewRequest{Rating: 4})

	// Assert
	assert.ErrorIs(t, err, ErrReviewExists)
	assert.Nil(t, review)
}

func TestCreateReview_RecalcFailureDoesNotFailCreate(t *testing.T) {
	// Arrange
	reviewRepo := new(mocks.MockReviewRepository)
	productRepo := new(mocks.MockProductRepository)
	publisher := new(mocks.MockMessagePublisher)

	service := NewReviewService(reviewRepo, productRepo, publisher)

	ctx := context.Background()
	productID := uuid.New()
	userID := uuid.New()

	productRepo.On("GetByID", ctx, productID).Return(&entity.Product{ID: productID}, nil)
	reviewRepo.On("GetByProductAndUser", ctx, productID, userID).
		Return(nil, repository.ErrReviewNotFound)
	reviewRepo.On("Create", ctx, mock.AnythingOfType("*entity.Review")).Return(nil)
	reviewRepo.On("GetRatingsByProduct", ctx, productID).
		Return(nil, errors.New("connection reset"))
	publisher.On("PublishMessage", ctx, mock.AnythingOfType("string"), mock.Anything).Return(nil)

	// Act
	review, err := service.CreateReview(ctx, productID, userID, &entity.CreateReviewRequest{Rating: 5})

	// Assert: the committed review still comes back.
	assert.NoError(t, err)
	assert.NotNil(t, review)
	productRepo.AssertNotCalled(t, "UpdateRating", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// ===================== DeleteReview Tests =====================

func TestDeleteReview_LastReviewResetsRating(t *testing.T) {
	// Arrange
	reviewRepo := new(mocks.MockReviewRepository)
	productRepo := new(mocks.MockProductRepository)
	publisher := new(mocks.MockMessagePublisher)

	service := NewReviewService(reviewRepo, productRepo, publisher)

	ctx := context.Background()
	reviewID := uuid.New()
	productID := uuid.New()
	userID := uuid.New()

	reviewRepo.On("GetByID", ctx, reviewID).
		Return(&entity.Review{ID: reviewID, ProductID: productID, UserID: userID, Rating: 5}, nil)
	reviewRepo.On("Delete", ctx, reviewID).Return(nil)
	reviewRepo.On("GetRatingsByProduct", ctx, productID).Return([]int{}, nil)
	productRepo.On("UpdateRating", ctx, productID, 0.0, 0).Return(nil)
	publisher.On("PublishMessage", ctx, mock.AnythingOfType("string"), mock.Anything).Return(nil)

	// Act
	err := service.DeleteReview(ctx, reviewID, userID)

	// Assert
	assert.NoError(t, err)
	productRepo.AssertExpectations(t)
}

func TestDeleteReview_NotOwner(t *testing.T) {
	// Arrange
	reviewRepo := new(mocks.MockReviewRepository)
	productRepo := new(mocks.MockProductRepository)
	publisher := new(mocks.MockMessagePublisher)

	service := NewReviewService(reviewRepo, productRepo, publisher)

	ctx := context.Background()
	reviewID := uuid.New()

	reviewRepo.On("GetByID", ctx, reviewID).
		Return(&entity.Review{ID: reviewID, UserID: uuid.New()}, nil)

	// Act
	err := service.DeleteReview(ctx, reviewID, uuid.New())

	// Assert
	assert.ErrorIs(t, err, ErrReviewNotOwner)
	reviewRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
