package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/linemk/retail-shop/internal/service"
	"github.com/linemk/retail-shop/internal/storage"
)

// UpdateAddressRequest null или пустая строка очищают адрес
type UpdateAddressRequest struct {
	DefaultAddress *string `json:"defaultAddress"`
}

// GetProfileHandler GET /api/me
func GetProfileHandler(log *slog.Logger, profiles service.ProfileService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.GetProfileHandler"))

		uid, ok := userID(w, r, logger)
		if !ok {
			return
		}
		profile, err := profiles.GetProfile(r.Context(), uid)
		if err != nil {
			if errors.Is(err, storage.ErrUserNotFound) {
				writeMessage(w, logger, http.StatusNotFound, "User not found")
				return
			}
			writeMessage(w, logger, http.StatusInternalServerError, msgInternalError)
			return
		}
		writeJSON(w, logger, http.StatusOK, profile)
	}
}

// UpdateAddressHandler PUT /api/me/address
func UpdateAddressHandler(log *slog.Logger, profiles service.ProfileService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.UpdateAddressHandler"))

		uid, ok := userID(w, r, logger)
		if !ok {
			return
		}

		var req UpdateAddressRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, logger, http.StatusBadRequest, "Invalid request")
			return
		}
		var address string
		if req.DefaultAddress != nil {
			address = *req.DefaultAddress
		}

		if err := profiles.UpdateAddress(r.Context(), uid, address); err != nil {
			if errors.Is(err, storage.ErrUserNotFound) {
				writeMessage(w, logger, http.StatusNotFound, "User not found")
				return
			}
			writeMessage(w, logger, http.StatusInternalServerError, msgInternalError)
			return
		}
		writeMessage(w, logger, http.StatusOK, "Address updated")
	}
}
