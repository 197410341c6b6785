package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Pinger проверка доступности БД, *sql.DB подходит
type Pinger interface {
	PingContext(ctx context.Context) error
}

type healthResponse struct {
	Status string `json:"status"`
}

func LiveHandler(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, log, http.StatusOK, healthResponse{Status: "ok"})
	}
}

func ReadyHandler(log *slog.Logger, db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			log.Error("readiness check failed", slog.String("op", "handlers.ReadyHandler"), slog.Any("error", err))
			writeJSON(w, log, http.StatusInternalServerError, healthResponse{Status: "not_ready"})
			return
		}
		writeJSON(w, log, http.StatusOK, healthResponse{Status: "ready"})
	}
}
