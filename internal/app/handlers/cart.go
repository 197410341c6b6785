package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/linemk/retail-shop/internal/domain/models"
	"github.com/linemk/retail-shop/internal/service"
	"github.com/linemk/retail-shop/internal/storage"
)

// AddToCartRequest quantity по умолчанию 1
type AddToCartRequest struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
	Quantity  *int  `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

func writeCartResult(w http.ResponseWriter, logger *slog.Logger, view *models.CartView, err error) {
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			writeMessage(w, logger, http.StatusBadRequest, "Invalid quantity")
		case errors.Is(err, storage.ErrProductNotFound):
			writeMessage(w, logger, http.StatusNotFound, "Product not found")
		case errors.Is(err, storage.ErrCartItemNotFound):
			writeMessage(w, logger, http.StatusNotFound, "Cart item not found")
		case errors.Is(err, storage.ErrCartNotFound):
			// корзину оформили параллельно дважды подряд
			writeMessage(w, logger, http.StatusConflict, "Cart was checked out, please retry")
		default:
			logger.Error("cart operation failed", slog.Any("error", err))
			writeMessage(w, logger, http.StatusInternalServerError, msgInternalError)
		}
		return
	}
	writeJSON(w, logger, http.StatusOK, view)
}

// GetCartHandler GET /api/cart
func GetCartHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.GetCartHandler"))

		uid, ok := userID(w, r, logger)
		if !ok {
			return
		}
		view, err := cartService.GetCart(r.Context(), uid)
		writeCartResult(w, logger, view, err)
	}
}

// AddToCartHandler POST /api/cart/add
func AddToCartHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.AddToCartHandler"))

		uid, ok := userID(w, r, logger)
		if !ok {
			return
		}

		var req AddToCartRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, logger, http.StatusBadRequest, "Invalid request")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeMessage(w, logger, http.StatusBadRequest, "productId required")
			return
		}
		quantity := 1
		if req.Quantity != nil {
			quantity = *req.Quantity
		}

		view, err := cartService.AddItem(r.Context(), uid, req.ProductID, quantity)
		writeCartResult(w, logger, view, err)
	}
}

// UpdateCartItemHandler PUT /api/cart/item/{itemId}, quantity <= 0 удаляет позицию
func UpdateCartItemHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.UpdateCartItemHandler"))

		uid, ok := userID(w, r, logger)
		if !ok {
			return
		}
		itemID, ok := pathID(r, "itemId")
		if !ok {
			writeMessage(w, logger, http.StatusBadRequest, "Invalid item id")
			return
		}

		var req UpdateCartItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, logger, http.StatusBadRequest, "Invalid request")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeMessage(w, logger, http.StatusBadRequest, "quantity required")
			return
		}

		view, err := cartService.UpdateItem(r.Context(), uid, itemID, *req.Quantity)
		writeCartResult(w, logger, view, err)
	}
}

// RemoveCartItemHandler DELETE /api/cart/item/{itemId}
func RemoveCartItemHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.RemoveCartItemHandler"))

		uid, ok := userID(w, r, logger)
		if !ok {
			return
		}
		itemID, ok := pathID(r, "itemId")
		if !ok {
			writeMessage(w, logger, http.StatusBadRequest, "Invalid item id")
			return
		}

		view, err := cartService.RemoveItem(r.Context(), uid, itemID)
		writeCartResult(w, logger, view, err)
	}
}
