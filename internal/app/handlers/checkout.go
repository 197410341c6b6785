package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/linemk/retail-shop/internal/service"
)

// CheckoutRequest тело POST /api/orders/checkout
type CheckoutRequest struct {
	DeliveryAddress string `json:"deliveryAddress" validate:"required"`
	PaymentMethod   string `json:"paymentMethod" validate:"required"`
}

// CheckoutHandler оформляет OPEN корзину пользователя в заказ.
// 400 - не заполнены поля или пустая корзина, 409 - не хватает остатка, 500 - всё остальное.
func CheckoutHandler(log *slog.Logger, checkoutService service.CheckoutService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CheckoutHandler"
		logger := log.With(slog.String("op", op))

		uid, ok := userID(w, r, logger)
		if !ok {
			return
		}

		var req CheckoutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Warn("invalid request: decoding error", slog.Any("error", err))
			writeMessage(w, logger, http.StatusBadRequest, "Invalid request")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeMessage(w, logger, http.StatusBadRequest, "Delivery address and payment method required")
			return
		}

		res, err := checkoutService.Checkout(r.Context(), uid, req.DeliveryAddress, req.PaymentMethod)
		if err != nil {
			var stockErr *service.InsufficientStockError
			switch {
			case errors.Is(err, service.ErrInvalidInput):
				writeMessage(w, logger, http.StatusBadRequest, "Delivery address and payment method required")
			case errors.Is(err, service.ErrEmptyCart):
				writeMessage(w, logger, http.StatusBadRequest, "Cart is empty")
			case errors.As(err, &stockErr):
				productID := stockErr.ProductID
				writeJSON(w, logger, http.StatusConflict, ErrorResponse{
					Message:   "Insufficient stock for " + stockErr.ProductName,
					ProductID: &productID,
				})
			default:
				logger.Error("checkout failed", slog.Any("error", err))
				writeMessage(w, logger, http.StatusInternalServerError, msgInternalError)
			}
			return
		}

		writeJSON(w, logger, http.StatusOK, res)
	}
}
