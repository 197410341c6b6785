package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/linemk/retail-shop/internal/service"
)

// AuthRequest представляет структуру запроса для аутентификации с тегами валидации
type AuthRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthUser struct {
	ID             int64   `json:"id"`
	Username       string  `json:"username"`
	IsAdmin        bool    `json:"isAdmin"`
	DefaultAddress *string `json:"defaultAddress"`
}

// AuthResponse представляет структуру ответа с JWT-токеном
type AuthResponse struct {
	Token string   `json:"token"`
	User  AuthUser `json:"user"`
}

// AuthHandler – HTTP-обработчик для аутентификации, принимает логгер и экземпляр AuthService
func AuthHandler(log *slog.Logger, authService service.AuthServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AuthHandler"
		logger := log.With(slog.String("op", op))

		var req AuthRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeMessage(w, logger, http.StatusBadRequest, "Invalid request")
			return
		}

		// Валидация структуры запроса с использованием validator
		if err := validate.Struct(req); err != nil {
			logger.Warn("invalid request: validation error", slog.Any("error", err))
			writeMessage(w, logger, http.StatusBadRequest, "Username and password required")
			return
		}

		res, err := authService.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			if errors.Is(err, service.ErrInvalidCredentials) {
				writeMessage(w, logger, http.StatusUnauthorized, "Invalid credentials")
				return
			}
			logger.Error("login failed", slog.Any("error", err))
			writeMessage(w, logger, http.StatusInternalServerError, msgInternalError)
			return
		}

		writeJSON(w, logger, http.StatusOK, AuthResponse{
			Token: res.Token,
			User: AuthUser{
				ID:             res.User.ID,
				Username:       res.User.Username,
				IsAdmin:        res.User.IsAdmin,
				DefaultAddress: res.User.DefaultAddress,
			},
		})
	}
}

// LogoutHandler POST /api/auth/logout. Токены не отзываются, клиент просто удаляет свой.
func LogoutHandler(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.LogoutHandler"))

		uid, ok := userID(w, r, logger)
		if !ok {
			return
		}
		logger.Info("user logged out", slog.Int64("userID", uid))
		writeMessage(w, logger, http.StatusOK, "Logged out")
	}
}
