package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"carshine/internal/app/store/entity"
	"carshine/internal/app/store/infrastructure"
	"carshine/internal/app/store/repository"
	"carshine/pkg/logger"
	"carshine/pkg/metrics"

	"github.com/google/uuid"
)

var (
	ErrReviewNotFound   = errors.New("review not found")
	ErrReviewExists     = errors.New("user already reviewed this product")
	ErrReviewNotOwner   = errors.New("review belongs to another user")
	ErrReviewBadProduct = errors.New("product for review not found")
)

// ReviewService owns reviews and the derived product rating. The
// rating recalculation runs synchronously after every review mutation;
// its own failure never fails the review operation.
type ReviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
	publisher   infrastructure.MessagePublisher
}

// NewReviewService creates the review service with its dependencies.
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	productRepo repository.ProductRepository,
	publisher infrastructure.MessagePublisher,
) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		publisher:   publisher,
	}
}

// CreateReview inserts the review and recomputes the product rating.
// The unique index on (product_id, user_id) is the authority on
// duplicates; the pre-read only produces a friendlier conflict before
// the insert races.
func (s *ReviewService) CreateReview(ctx context.Context, productID, userID uuid.UUID, req *entity.CreateReviewRequest) (*entity.Review, error) {
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrReviewBadProduct
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if _, err := s.reviewRepo.GetByProductAndUser(ctx, productID, userID); err == nil {
		return nil, ErrReviewExists
	} else if !errors.Is(err, repository.ErrReviewNotFound) {
		return nil, fmt.Errorf("failed to check existing review: %w", err)
	}

	review := &entity.Review{
		ID:        uuid.New(),
		ProductID: productID,
		UserID:    userID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: time.Now(),
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicateReview) {
			return nil, ErrReviewExists
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	metrics.ReviewsCreated.Inc()
	metrics.ReviewsRating.Observe(float64(review.Rating))

	// The review is committed; rating recalculation and the event are
	// best-effort from here on.
	s.recalculateProductRating(ctx, productID)
	s.publishReviewEvent(ctx, "REVIEW_CREATED", review)

	return review, nil
}

func (s *ReviewService) GetReviewsByProduct(ctx context.Context, productID uuid.UUID) ([]entity.Review, error) {
	reviews, err := s.reviewRepo.GetByProductID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews: %w", err)
	}

	return reviews, nil
}

// DeleteReview removes a review after the author check, then
// recomputes the product rating.
func (s *ReviewService) DeleteReview(ctx context.Context, reviewID, userID uuid.UUID) error {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return ErrReviewNotFound
		}
		return fmt.Errorf("failed to get review: %w", err)
	}

	if review.UserID != userID {
		return ErrReviewNotOwner
	}

	if err := s.reviewRepo.Delete(ctx, reviewID); err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	s.recalculateProductRating(ctx, review.ProductID)
	s.publishReviewEvent(ctx, "REVIEW_DELETED", review)

	return nil
}

// recalculateProductRating refetches all ratings for the product and
// rewrites the derived fields: arithmetic mean rounded to 2 decimal
// places, or 0/0 when the last review is gone. Failures are logged and
// swallowed — the review mutation already succeeded.
func (s *ReviewService) recalculateProductRating(ctx context.Context, productID uuid.UUID) {
	ratings, err := s.reviewRepo.GetRatingsByProduct(ctx, productID)
	if err != nil {
		logger.Error().Err(err).Str("product_id", productID.String()).
			Msg("failed to refetch ratings for recalculation")
		return
	}

	var rating float64
	if len(ratings) > 0 {
		var sum int
		for _, r := range ratings {
			sum += r
		}
		rating = math.Round(float64(sum)/float64(len(ratings))*100) / 100
	}

	if err := s.productRepo.UpdateRating(ctx, productID, rating, len(ratings)); err != nil {
		logger.Error().Err(err).Str("product_id", productID.String()).
			Msg("failed to write recalculated rating")
	}
}

func (s *ReviewService) publishReviewEvent(ctx context.Context, eventType string, review *entity.Review) {
	event := entity.ReviewEvent{
		EventType: eventType,
		ReviewID:  review.ID,
		ProductID: review.ProductID,
		UserID:    review.UserID,
		Rating:    review.Rating,
		Timestamp: time.Now(),
	}

	eventData, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Msg("failed to marshal review event")
		return
	}

	if err := s.publisher.PublishMessage(ctx, event.ReviewID.String(), eventData); err != nil {
		metrics.RecordKafkaError("store", "order_events", "produce")
		logger.Error().Err(err).Str("event_type", eventType).Msg("failed to publish review event")
		return
	}

	metrics.RecordKafkaMessageProduced("store", "order_events")
}
