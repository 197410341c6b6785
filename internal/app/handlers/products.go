package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/linemk/retail-shop/internal/domain/models"
	"github.com/linemk/retail-shop/internal/service"
	"github.com/linemk/retail-shop/internal/storage"
)

// ListProductsHandler GET /api/products?search=&category=&sort=
func ListProductsHandler(log *slog.Logger, catalog service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.ListProductsHandler"))

		q := r.URL.Query()
		products, err := catalog.ListProducts(r.Context(), models.ProductFilter{
			Search:   q.Get("search"),
			Category: q.Get("category"),
			Sort:     q.Get("sort"),
		})
		if err != nil {
			logger.Error("failed to list products", slog.Any("error", err))
			writeMessage(w, logger, http.StatusInternalServerError, msgInternalError)
			return
		}
		writeJSON(w, logger, http.StatusOK, products)
	}
}

// GetProductHandler GET /api/products/{id}
func GetProductHandler(log *slog.Logger, catalog service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.GetProductHandler"))

		id, ok := pathID(r, "id")
		if !ok {
			writeMessage(w, logger, http.StatusBadRequest, "Invalid product id")
			return
		}

		p, err := catalog.GetProduct(r.Context(), id)
		if err != nil {
			if errors.Is(err, storage.ErrProductNotFound) {
				writeMessage(w, logger, http.StatusNotFound, "Product not found")
				return
			}
			logger.Error("failed to get product", slog.Any("error", err))
			writeMessage(w, logger, http.StatusInternalServerError, msgInternalError)
			return
		}
		writeJSON(w, logger, http.StatusOK, p)
	}
}
