package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/linemk/retail-shop/internal/service"
	"github.com/linemk/retail-shop/internal/storage"
)

type AddToWishlistRequest struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
}

// GetWishlistHandler GET /api/wishlist
func GetWishlistHandler(log *slog.Logger, wishlist service.WishlistService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.GetWishlistHandler"))

		uid, ok := userID(w, r, logger)
		if !ok {
			return
		}
		items, err := wishlist.List(r.Context(), uid)
		if err != nil {
			writeMessage(w, logger, http.StatusInternalServerError, msgInternalError)
			return
		}
		writeJSON(w, logger, http.StatusOK, items)
	}
}

// AddToWishlistHandler POST /api/wishlist
func AddToWishlistHandler(log *slog.Logger, wishlist service.WishlistService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.AddToWishlistHandler"))

		uid, ok := userID(w, r, logger)
		if !ok {
			return
		}

		var req AddToWishlistRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, logger, http.StatusBadRequest, "Invalid request")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeMessage(w, logger, http.StatusBadRequest, "productId is required")
			return
		}

		if err := wishlist.Add(r.Context(), uid, req.ProductID); err != nil {
			if errors.Is(err, storage.ErrProductNotFound) {
				writeMessage(w, logger, http.StatusNotFound, "Product not found")
				return
			}
			writeMessage(w, logger, http.StatusInternalServerError, msgInternalError)
			return
		}
		writeMessage(w, logger, http.StatusCreated, "Added to wishlist")
	}
}

// RemoveFromWishlistHandler DELETE /api/wishlist/{productId}
func RemoveFromWishlistHandler(log *slog.Logger, wishlist service.WishlistService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.RemoveFromWishlistHandler"))

		uid, ok := userID(w, r, logger)
		if !ok {
			return
		}
		productID, ok := pathID(r, "productId")
		if !ok {
			writeMessage(w, logger, http.StatusBadRequest, "Invalid product id")
			return
		}

		if err := wishlist.Remove(r.Context(), uid, productID); err != nil {
			writeMessage(w, logger, http.StatusInternalServerError, msgInternalError)
			return
		}
		writeMessage(w, logger, http.StatusOK, "Removed from wishlist")
	}
}
