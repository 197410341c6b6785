package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/linemk/retail-shop/internal/domain/models"
	"github.com/linemk/retail-shop/internal/storage"
)

// OrderService история заказов пользователя
type OrderService interface {
	ListMyOrders(ctx context.Context, userID int64) ([]*models.Order, error)
	GetMyOrder(ctx context.Context, userID, orderID int64) (*models.Order, error)
	// SearchMyOrders история с фильтром; используется и для выгрузки в CSV
	SearchMyOrders(ctx context.Context, userID int64, filter models.OrderFilter) ([]*models.Order, error)
}

type orderService struct {
	log       *slog.Logger
	orderRepo storage.OrderStorage
}

func NewOrderService(log *slog.Logger, orderRepo storage.OrderStorage) OrderService {
	return &orderService{log: log, orderRepo: orderRepo}
}

func (s *orderService) ListMyOrders(ctx context.Context, userID int64) ([]*models.Order, error) {
	const op = "service.OrderService.ListMyOrders"

	orders, err := s.orderRepo.GetOrdersByUserID(ctx, userID)
	if err != nil {
		s.log.Error("failed to get orders", slog.String("op", op), slog.Int64("userID", userID), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}

func (s *orderService) GetMyOrder(ctx context.Context, userID, orderID int64) (*models.Order, error) {
	const op = "service.OrderService.GetMyOrder"

	order, err := s.orderRepo.GetUserOrder(ctx, userID, orderID)
	if err != nil {
		if !errors.Is(err, storage.ErrOrderNotFound) {
			s.log.Error("failed to get order", slog.String("op", op), slog.Int64("orderID", orderID), slog.Any("error", err))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return order, nil
}

func (s *orderService) SearchMyOrders(ctx context.Context, userID int64, filter models.OrderFilter) ([]*models.Order, error) {
	const op = "service.OrderService.SearchMyOrders"

	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidInput)
	}

	orders, err := s.orderRepo.ListOrdersFiltered(ctx, userID, filter)
	if err != nil {
		s.log.Error("failed to search orders", slog.String("op", op), slog.Int64("userID", userID), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}
