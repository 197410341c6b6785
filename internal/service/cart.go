package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/linemk/retail-shop/internal/domain/models"
	"github.com/linemk/retail-shop/internal/storage"
)

// CartService операции над OPEN корзиной. Каждая - отдельный запрос без общей транзакции.
type CartService interface {
	GetCart(ctx context.Context, userID int64) (*models.CartView, error)
	AddItem(ctx context.Context, userID, productID int64, quantity int) (*models.CartView, error)
	UpdateItem(ctx context.Context, userID, itemID int64, quantity int) (*models.CartView, error)
	RemoveItem(ctx context.Context, userID, itemID int64) (*models.CartView, error)
}

type cartService struct {
	log         *slog.Logger
	cartRepo    storage.CartStorage
	productRepo storage.ProductStorage
}

func NewCartService(log *slog.Logger, cartRepo storage.CartStorage, productRepo storage.ProductStorage) CartService {
	return &cartService{
		log:         log,
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// openCart ищет OPEN корзину, при отсутствии создает новую
func (s *cartService) openCart(ctx context.Context, userID int64) (*models.Cart, error) {
	cart, err := s.cartRepo.FindOpenCart(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, storage.ErrCartNotFound) {
		return nil, err
	}
	s.log.Debug("creating open cart", slog.Int64("userID", userID))
	return s.cartRepo.CreateCart(ctx, userID)
}

func (s *cartService) view(ctx context.Context, cartID int64) (*models.CartView, error) {
	lines, err := s.cartRepo.ListCartLines(ctx, cartID)
	if err != nil {
		return nil, err
	}
	return models.NewCartView(cartID, lines), nil
}

func (s *cartService) GetCart(ctx context.Context, userID int64) (*models.CartView, error) {
	const op = "service.CartService.GetCart"

	cart, err := s.openCart(ctx, userID)
	if err != nil {
		s.log.Error("failed to resolve cart", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	v, err := s.view(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return v, nil
}

func (s *cartService) AddItem(ctx context.Context, userID, productID int64, quantity int) (*models.CartView, error) {
	const op = "service.CartService.AddItem"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID), slog.Int64("productID", productID))

	if productID <= 0 || quantity <= 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidInput)
	}

	if _, err := s.productRepo.GetProductByID(ctx, productID); err != nil {
		if !errors.Is(err, storage.ErrProductNotFound) {
			logger.Error("failed to get product", slog.Any("error", err))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cart, err := s.openCart(ctx, userID)
	if err != nil {
		logger.Error("failed to resolve cart", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	err = s.cartRepo.AddItem(ctx, cart.ID, productID, quantity)
	if errors.Is(err, storage.ErrCartNotFound) {
		// корзину оформили параллельно, товар кладем в новую
		logger.Warn("cart converted during add, retrying with a new cart", slog.Int64("cartID", cart.ID))
		if cart, err = s.openCart(ctx, userID); err == nil {
			err = s.cartRepo.AddItem(ctx, cart.ID, productID, quantity)
		}
	}
	if err != nil {
		logger.Error("failed to add item", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("item added to cart", slog.Int("quantity", quantity))
	v, err := s.view(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return v, nil
}

// UpdateItem количество <= 0 удаляет позицию
func (s *cartService) UpdateItem(ctx context.Context, userID, itemID int64, quantity int) (*models.CartView, error) {
	const op = "service.CartService.UpdateItem"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID), slog.Int64("itemID", itemID))

	cart, err := s.openCart(ctx, userID)
	if err != nil {
		logger.Error("failed to resolve cart", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if quantity <= 0 {
		err = s.cartRepo.DeleteItem(ctx, cart.ID, itemID)
	} else {
		err = s.cartRepo.UpdateItemQuantity(ctx, cart.ID, itemID, quantity)
	}
	if err != nil {
		if !errors.Is(err, storage.ErrCartItemNotFound) {
			logger.Error("failed to update item", slog.Any("error", err))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	v, err := s.view(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return v, nil
}

func (s *cartService) RemoveItem(ctx context.Context, userID, itemID int64) (*models.CartView, error) {
	return s.UpdateItem(ctx, userID, itemID, 0)
}
