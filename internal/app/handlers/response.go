package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/linemk/retail-shop/internal/jwt-new/jwtmiddleware"
)

const msgInternalError = "Internal server error"

var validate = validator.New()

// ErrorResponse тело ответа при ошибке; productId только для нехватки остатка
type ErrorResponse struct {
	Message   string `json:"message"`
	ProductID *int64 `json:"productId,omitempty"`
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response", slog.Any("error", err))
	}
}

func writeMessage(w http.ResponseWriter, log *slog.Logger, status int, msg string) {
	writeJSON(w, log, status, ErrorResponse{Message: msg})
}

// userID достает id пользователя, положенный JWT middleware
func userID(w http.ResponseWriter, r *http.Request, log *slog.Logger) (int64, bool) {
	id, ok := jwtmiddleware.FromContext(r.Context())
	if !ok {
		log.Error("userID not found in context")
		writeMessage(w, log, http.StatusUnauthorized, "Unauthorized")
		return 0, false
	}
	return id, true
}

// pathID разбирает числовой параметр пути
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
