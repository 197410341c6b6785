package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/linemk/retail-shop/internal/domain/models"
	"github.com/linemk/retail-shop/internal/storage"
)

// WishlistService список желаний; к корзине и оформлению отношения не имеет
type WishlistService interface {
	List(ctx context.Context, userID int64) ([]models.WishlistItem, error)
	Add(ctx context.Context, userID, productID int64) error
	Remove(ctx context.Context, userID, productID int64) error
}

type wishlistService struct {
	log          *slog.Logger
	wishlistRepo storage.WishlistStorage
	productRepo  storage.ProductStorage
}

func NewWishlistService(log *slog.Logger, wishlistRepo storage.WishlistStorage, productRepo storage.ProductStorage) WishlistService {
	return &wishlistService{log: log, wishlistRepo: wishlistRepo, productRepo: productRepo}
}

func (s *wishlistService) List(ctx context.Context, userID int64) ([]models.WishlistItem, error) {
	const op = "service.WishlistService.List"

	items, err := s.wishlistRepo.ListWishlist(ctx, userID)
	if err != nil {
		s.log.Error("failed to list wishlist", slog.String("op", op), slog.Int64("userID", userID), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}

func (s *wishlistService) Add(ctx context.Context, userID, productID int64) error {
	const op = "service.WishlistService.Add"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID), slog.Int64("productID", productID))

	if productID <= 0 {
		return fmt.Errorf("%s: %w", op, ErrInvalidInput)
	}
	if _, err := s.productRepo.GetProductByID(ctx, productID); err != nil {
		if !errors.Is(err, storage.ErrProductNotFound) {
			logger.Error("failed to get product", slog.Any("error", err))
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.wishlistRepo.AddToWishlist(ctx, userID, productID); err != nil {
		if !errors.Is(err, storage.ErrProductNotFound) {
			logger.Error("failed to add to wishlist", slog.Any("error", err))
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("product added to wishlist")
	return nil
}

func (s *wishlistService) Remove(ctx context.Context, userID, productID int64) error {
	const op = "service.WishlistService.Remove"

	if productID <= 0 {
		return fmt.Errorf("%s: %w", op, ErrInvalidInput)
	}
	if err := s.wishlistRepo.RemoveFromWishlist(ctx, userID, productID); err != nil {
		s.log.Error("failed to remove from wishlist", slog.String("op", op), slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
