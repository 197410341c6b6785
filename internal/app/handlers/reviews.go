package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/linemk/retail-shop/internal/service"
	"github.com/linemk/retail-shop/internal/storage"
)

type AddReviewRequest struct {
	Rating  int    `json:"rating" validate:"min=1,max=5"`
	Comment string `json:"comment"`
}

const msgInvalidRating = "rating must be between 1 and 5"

// ListReviewsHandler GET /api/products/{id}/reviews, без токена
func ListReviewsHandler(log *slog.Logger, reviews service.ReviewService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.ListReviewsHandler"))

		productID, ok := pathID(r, "id")
		if !ok {
			writeMessage(w, logger, http.StatusBadRequest, "Invalid product id")
			return
		}
		list, err := reviews.ListReviews(r.Context(), productID)
		if err != nil {
			writeMessage(w, logger, http.StatusInternalServerError, msgInternalError)
			return
		}
		writeJSON(w, logger, http.StatusOK, list)
	}
}

// AddReviewHandler POST /api/products/{id}/reviews
func AddReviewHandler(log *slog.Logger, reviews service.ReviewService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.AddReviewHandler"))

		uid, ok := userID(w, r, logger)
		if !ok {
			return
		}
		productID, ok := pathID(r, "id")
		if !ok {
			writeMessage(w, logger, http.StatusBadRequest, "Invalid product id")
			return
		}

		var req AddReviewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, logger, http.StatusBadRequest, "Invalid request")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeMessage(w, logger, http.StatusBadRequest, msgInvalidRating)
			return
		}

		if _, err := reviews.AddReview(r.Context(), uid, productID, req.Rating, req.Comment); err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidRating):
				writeMessage(w, logger, http.StatusBadRequest, msgInvalidRating)
			case errors.Is(err, storage.ErrProductNotFound):
				writeMessage(w, logger, http.StatusNotFound, "Product not found")
			default:
				writeMessage(w, logger, http.StatusInternalServerError, msgInternalError)
			}
			return
		}
		writeMessage(w, logger, http.StatusCreated, "Review added")
	}
}
