package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/linemk/retail-shop/internal/domain/models"
	"github.com/linemk/retail-shop/internal/storage"
)

// ErrInvalidRating оценка вне диапазона 1..5
var ErrInvalidRating = errors.New("rating must be between 1 and 5")

type ReviewService interface {
	ListReviews(ctx context.Context, productID int64) ([]models.Review, error)
	AddReview(ctx context.Context, userID, productID int64, rating int, comment string) (int64, error)
}

type reviewService struct {
	log         *slog.Logger
	reviewRepo  storage.ReviewStorage
	productRepo storage.ProductStorage
}

func NewReviewService(log *slog.Logger, reviewRepo storage.ReviewStorage, productRepo storage.ProductStorage) ReviewService {
	return &reviewService{log: log, reviewRepo: reviewRepo, productRepo: productRepo}
}

// ListReviews для несуществующего товара вернет пустой список
func (s *reviewService) ListReviews(ctx context.Context, productID int64) ([]models.Review, error) {
	const op = "service.ReviewService.ListReviews"

	reviews, err := s.reviewRepo.ListProductReviews(ctx, productID)
	if err != nil {
		s.log.Error("failed to list reviews", slog.String("op", op), slog.Int64("productID", productID), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return reviews, nil
}

// AddReview пустой комментарий сохраняется как NULL
func (s *reviewService) AddReview(ctx context.Context, userID, productID int64, rating int, comment string) (int64, error) {
	const op = "service.ReviewService.AddReview"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID), slog.Int64("productID", productID))

	if rating < models.MinRating || rating > models.MaxRating {
		return 0, fmt.Errorf("%s: %w", op, ErrInvalidRating)
	}
	if _, err := s.productRepo.GetProductByID(ctx, productID); err != nil {
		if !errors.Is(err, storage.ErrProductNotFound) {
			logger.Error("failed to get product", slog.Any("error", err))
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	review := &models.Review{UserID: userID, ProductID: productID, Rating: rating}
	if c := strings.TrimSpace(comment); c != "" {
		review.Comment = &c
	}

	id, err := s.reviewRepo.AddReview(ctx, review)
	if err != nil {
		if !errors.Is(err, storage.ErrProductNotFound) {
			logger.Error("failed to add review", slog.Any("error", err))
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("review added", slog.Int64("reviewID", id), slog.Int("rating", rating))
	return id, nil
}
