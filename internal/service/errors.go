package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput не заполнены обязательные поля, транзакция не открывалась
	ErrInvalidInput = errors.New("invalid input")
	// ErrEmptyCart в OPEN корзине нет позиций
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidCredentials неверный логин или пароль
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// InsufficientStockError первая позиция, на которую не хватило остатка
type InsufficientStockError struct {
	ProductID   int64
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s", e.ProductName)
}
