package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/linemk/retail-shop/internal/domain/models"
)

// AdminStorage агрегаты для админки. Только чтение.
type AdminStorage interface {
	// DashboardMetrics activeSince - начало окна для подсчета активных пользователей
	DashboardMetrics(ctx context.Context, activeSince time.Time, topLimit int) (*models.DashboardMetrics, error)
	// LoginsPerHour непустые часовые корзины входов начиная с since
	LoginsPerHour(ctx context.Context, since time.Time) ([]models.LoginBucket, error)
}

type adminRepository struct {
	db *sql.DB
}

func NewAdminRepository(db *sql.DB) AdminStorage {
	return &adminRepository{db: db}
}

func (r *adminRepository) DashboardMetrics(ctx context.Context, activeSince time.Time, topLimit int) (*models.DashboardMetrics, error) {
	m := &models.DashboardMetrics{}

	// счетчики одним запросом, чтобы цифры были из одного снимка
	query := `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM orders),
			(SELECT COALESCE(SUM(total_amount), 0) FROM orders),
			(SELECT COUNT(*) FROM login_events),
			(SELECT COUNT(DISTINCT user_id) FROM login_events WHERE created_at >= $1)`
	err := r.db.QueryRowContext(ctx, query, activeSince).
		Scan(&m.TotalUsers, &m.TotalOrders, &m.TotalRevenue, &m.TotalLogins, &m.ActiveUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to query dashboard counters: %w", err)
	}

	top := `
		SELECT p.id, p.name, SUM(oi.quantity) AS units_sold
		FROM order_items oi
		JOIN products p ON oi.product_id = p.id
		GROUP BY p.id, p.name
		ORDER BY units_sold DESC, p.id
		LIMIT $1`
	rows, err := r.db.QueryContext(ctx, top, topLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top products: %w", err)
	}
	defer rows.Close()

	m.TopProducts = make([]models.TopProduct, 0, topLimit)
	for rows.Next() {
		var tp models.TopProduct
		if err := rows.Scan(&tp.ID, &tp.Name, &tp.UnitsSold); err != nil {
			return nil, fmt.Errorf("failed to scan top product: %w", err)
		}
		m.TopProducts = append(m.TopProducts, tp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

func (r *adminRepository) LoginsPerHour(ctx context.Context, since time.Time) ([]models.LoginBucket, error) {
	query := `
		SELECT date_trunc('hour', created_at) AS hour_bucket, COUNT(*)
		FROM login_events
		WHERE created_at >= $1
		GROUP BY hour_bucket
		ORDER BY hour_bucket`
	rows, err := r.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query login trend: %w", err)
	}
	defer rows.Close()

	buckets := make([]models.LoginBucket, 0)
	for rows.Next() {
		var b models.LoginBucket
		if err := rows.Scan(&b.HourStart, &b.LoginCount); err != nil {
			return nil, fmt.Errorf("failed to scan login bucket: %w", err)
		}
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return buckets, nil
}
