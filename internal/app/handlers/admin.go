package handlers

import (
	"log/slog"
	"net/http"

	"github.com/linemk/retail-shop/internal/service"
)

// AdminMetricsHandler GET /api/admin/metrics, только для админов
func AdminMetricsHandler(log *slog.Logger, admin service.AdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.AdminMetricsHandler"))

		m, err := admin.Metrics(r.Context())
		if err != nil {
			writeMessage(w, logger, http.StatusInternalServerError, msgInternalError)
			return
		}
		writeJSON(w, logger, http.StatusOK, m)
	}
}

// LoginTrendHandler GET /api/admin/login-trend-12h
func LoginTrendHandler(log *slog.Logger, admin service.AdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.LoginTrendHandler"))

		buckets, err := admin.LoginTrend(r.Context())
		if err != nil {
			writeMessage(w, logger, http.StatusInternalServerError, msgInternalError)
			return
		}
		writeJSON(w, logger, http.StatusOK, buckets)
	}
}
