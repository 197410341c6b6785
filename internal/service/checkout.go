package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/linemk/retail-shop/internal/domain/models"
	"github.com/linemk/retail-shop/internal/metrics"
	"github.com/linemk/retail-shop/internal/storage"
)

// CheckoutRecorder принимает исход оформления (см. metrics.Outcome*)
type CheckoutRecorder interface {
	ObserveCheckout(outcome string, d time.Duration)
}

type noopRecorder struct{}

func (noopRecorder) ObserveCheckout(string, time.Duration) {}

type CheckoutService interface {
	Checkout(ctx context.Context, userID int64, deliveryAddress, paymentMethod string) (*models.CheckoutResult, error)
}

type checkoutService struct {
	log         *slog.Logger
	db          *sql.DB
	cartRepo    storage.CartStorage
	productRepo storage.ProductStorage
	orderRepo   storage.OrderStorage
	recorder    CheckoutRecorder
}

func NewCheckoutService(
	log *slog.Logger,
	db *sql.DB,
	cartRepo storage.CartStorage,
	productRepo storage.ProductStorage,
	orderRepo storage.OrderStorage,
	recorder CheckoutRecorder,
) CheckoutService {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &checkoutService{
		log:         log,
		db:          db,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		recorder:    recorder,
	}
}

// Checkout превращает OPEN корзину пользователя в заказ.
// Все шаги идут в одной транзакции: блокировка корзины и строк товаров,
// проверка остатков, списание, заказ с позициями, закрытие корзины.
// Любая ошибка откатывает транзакцию целиком.
func (s *checkoutService) Checkout(ctx context.Context, userID int64, deliveryAddress, paymentMethod string) (*models.CheckoutResult, error) {
	const op = "service.CheckoutService.Checkout"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID))
	start := time.Now()

	deliveryAddress = strings.TrimSpace(deliveryAddress)
	paymentMethod = strings.TrimSpace(paymentMethod)
	if deliveryAddress == "" || paymentMethod == "" {
		s.recorder.ObserveCheckout(metrics.OutcomeInvalid, time.Since(start))
		logger.Warn("delivery address and payment method required")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidInput)
	}

	logger.Info("starting checkout transaction")

	var result *models.CheckoutResult
	err := storage.WithinTx(ctx, s.db, func(tx *sql.Tx) error {
		cart, err := s.cartRepo.LockOpenCartTx(ctx, tx, userID)
		if err != nil {
			if errors.Is(err, storage.ErrCartNotFound) {
				return ErrEmptyCart
			}
			return fmt.Errorf("failed to lock cart: %w", err)
		}

		lines, err := s.cartRepo.LockCartLinesTx(ctx, tx, cart.ID)
		if err != nil {
			return fmt.Errorf("failed to lock cart items: %w", err)
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		// сначала проверяем все позиции, списываем только если хватает на всё
		total := models.Money{}
		for _, l := range lines {
			if l.Stock < l.Quantity {
				return &InsufficientStockError{
					ProductID:   l.ProductID,
					ProductName: l.Name,
					Requested:   l.Quantity,
					Available:   l.Stock,
				}
			}
			total = total.Add(l.Subtotal())
		}

		for _, l := range lines {
			if err := s.productRepo.DecrementStockTx(ctx, tx, l.ProductID, l.Quantity); err != nil {
				return fmt.Errorf("failed to decrement stock: %w", err)
			}
		}

		orderID, err := s.orderRepo.CreateOrderTx(ctx, tx, &models.Order{
			UserID:          userID,
			TotalAmount:     total,
			Status:          models.OrderStatusPlaced,
			PaymentMethod:   paymentMethod,
			DeliveryAddress: deliveryAddress,
		})
		if err != nil {
			return err
		}

		for _, l := range lines {
			item := models.OrderItem{OrderID: orderID, ProductID: l.ProductID, Quantity: l.Quantity, Price: l.Price}
			if err := s.orderRepo.CreateOrderItemTx(ctx, tx, item); err != nil {
				return err
			}
		}

		if err := s.cartRepo.MarkConvertedTx(ctx, tx, cart.ID); err != nil {
			return err
		}
		if err := s.cartRepo.ClearItemsTx(ctx, tx, cart.ID); err != nil {
			return err
		}

		result = &models.CheckoutResult{OrderID: orderID, TotalAmount: total, Status: models.OrderStatusPlaced}
		return nil
	})
	if err != nil {
		var stockErr *InsufficientStockError
		switch {
		case errors.Is(err, ErrEmptyCart):
			s.recorder.ObserveCheckout(metrics.OutcomeEmptyCart, time.Since(start))
			logger.Warn("checkout rejected: cart is empty")
		case errors.As(err, &stockErr):
			s.recorder.ObserveCheckout(metrics.OutcomeInsufficientStock, time.Since(start))
			logger.Warn("checkout rejected: insufficient stock",
				slog.Int64("productID", stockErr.ProductID),
				slog.Int("requested", stockErr.Requested),
				slog.Int("available", stockErr.Available),
			)
		default:
			s.recorder.ObserveCheckout(metrics.OutcomeError, time.Since(start))
			logger.Error("checkout failed", slog.Any("error", err))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.recorder.ObserveCheckout(metrics.OutcomePlaced, time.Since(start))
	logger.Info("order placed",
		slog.Int64("orderID", result.OrderID),
		slog.String("total", result.TotalAmount.String()),
	)
	return result, nil
}
