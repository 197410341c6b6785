package handlers

import (
	"encoding/csv"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/linemk/retail-shop/internal/domain/models"
	"github.com/linemk/retail-shop/internal/service"
	"github.com/linemk/retail-shop/internal/storage"
)

const (
	dateLayout      = "2006-01-02"
	csvTimeLayout   = "2006-01-02T15:04:05.000Z07:00"
	ordersCSVHeader = "id,total_amount,status,payment_method,created_at"
)

var errBadDate = errors.New("bad date")

// parseBound принимает RFC3339 или дату; дата в верхней границе означает конец дня
func parseBound(v string, upper bool) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, nil
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return nil, errBadDate
	}
	if upper {
		// postgres хранит микросекунды
		t = t.AddDate(0, 0, 1).Add(-time.Microsecond)
	}
	return &t, nil
}

// orderFilterFromQuery ?status=&from=&to=
func orderFilterFromQuery(r *http.Request) (models.OrderFilter, error) {
	q := r.URL.Query()
	filter := models.OrderFilter{Status: strings.ToUpper(strings.TrimSpace(q.Get("status")))}

	var err error
	if filter.From, err = parseBound(q.Get("from"), false); err != nil {
		return filter, err
	}
	if filter.To, err = parseBound(q.Get("to"), true); err != nil {
		return filter, err
	}
	return filter, nil
}

// searchOrders общая часть advanced и export; при ошибке ответ уже записан
func searchOrders(w http.ResponseWriter, r *http.Request, logger *slog.Logger, orders service.OrderService) ([]*models.Order, bool) {
	uid, ok := userID(w, r, logger)
	if !ok {
		return nil, false
	}
	filter, err := orderFilterFromQuery(r)
	if err != nil {
		writeMessage(w, logger, http.StatusBadRequest, "Invalid date filter")
		return nil, false
	}

	list, err := orders.SearchMyOrders(r.Context(), uid, filter)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			writeMessage(w, logger, http.StatusBadRequest, "Invalid date range")
			return nil, false
		}
		writeMessage(w, logger, http.StatusInternalServerError, msgInternalError)
		return nil, false
	}
	return list, true
}

// MyOrdersHandler GET /api/orders/my
func MyOrdersHandler(log *slog.Logger, orders service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.MyOrdersHandler"))

		uid, ok := userID(w, r, logger)
		if !ok {
			return
		}

		list, err := orders.ListMyOrders(r.Context(), uid)
		if err != nil {
			logger.Error("failed to list orders", slog.Any("error", err))
			writeMessage(w, logger, http.StatusInternalServerError, msgInternalError)
			return
		}
		writeJSON(w, logger, http.StatusOK, list)
	}
}

// GetOrderHandler GET /api/orders/{orderId}; чужой заказ отдается как 404
func GetOrderHandler(log *slog.Logger, orders service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.GetOrderHandler"))

		uid, ok := userID(w, r, logger)
		if !ok {
			return
		}
		orderID, ok := pathID(r, "orderId")
		if !ok {
			writeMessage(w, logger, http.StatusBadRequest, "Invalid order id")
			return
		}

		order, err := orders.GetMyOrder(r.Context(), uid, orderID)
		if err != nil {
			if errors.Is(err, storage.ErrOrderNotFound) {
				writeMessage(w, logger, http.StatusNotFound, "Order not found")
				return
			}
			logger.Error("failed to get order", slog.Any("error", err))
			writeMessage(w, logger, http.StatusInternalServerError, msgInternalError)
			return
		}
		writeJSON(w, logger, http.StatusOK, order)
	}
}

// AdvancedOrdersHandler GET /api/orders/advanced?status=&from=&to=
func AdvancedOrdersHandler(log *slog.Logger, orders service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.AdvancedOrdersHandler"))

		list, ok := searchOrders(w, r, logger, orders)
		if !ok {
			return
		}
		writeJSON(w, logger, http.StatusOK, list)
	}
}

// ExportOrdersCSVHandler GET /api/orders/advanced/export, те же фильтры, что и у advanced
func ExportOrdersCSVHandler(log *slog.Logger, orders service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.ExportOrdersCSVHandler"))

		list, ok := searchOrders(w, r, logger, orders)
		if !ok {
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="orders.csv"`)
		w.WriteHeader(http.StatusOK)

		writer := csv.NewWriter(w)
		_ = writer.Write(strings.Split(ordersCSVHeader, ","))
		for _, o := range list {
			_ = writer.Write([]string{
				strconv.FormatInt(o.ID, 10),
				o.TotalAmount.String(),
				o.Status,
				o.PaymentMethod,
				o.CreatedAt.UTC().Format(csvTimeLayout),
			})
		}
		writer.Flush()
		if err := writer.Error(); err != nil {
			// заголовки уже отправлены, остается только лог
			logger.Error("failed to write csv", slog.Any("error", err))
		}
	}
}
