package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/linemk/retail-shop/internal/domain/models"
	"github.com/linemk/retail-shop/internal/storage"
)

const (
	// activeWindow вход за это время считается "пользователь онлайн"
	activeWindow    = 5 * time.Minute
	topProductLimit = 5
	loginTrendHours = 12
)

// AdminService показатели для админки
type AdminService interface {
	Metrics(ctx context.Context) (*models.DashboardMetrics, error)
	// LoginTrend входы по часам за последние 12 часов, пустые часы с нулем
	LoginTrend(ctx context.Context) ([]models.LoginBucket, error)
}

type adminService struct {
	log       *slog.Logger
	adminRepo storage.AdminStorage
	now       func() time.Time
}

func NewAdminService(log *slog.Logger, adminRepo storage.AdminStorage) AdminService {
	return NewAdminServiceWithClock(log, adminRepo, time.Now)
}

func NewAdminServiceWithClock(log *slog.Logger, adminRepo storage.AdminStorage, now func() time.Time) AdminService {
	return &adminService{log: log, adminRepo: adminRepo, now: now}
}

func (s *adminService) Metrics(ctx context.Context) (*models.DashboardMetrics, error) {
	const op = "service.AdminService.Metrics"

	m, err := s.adminRepo.DashboardMetrics(ctx, s.now().Add(-activeWindow), topProductLimit)
	if err != nil {
		s.log.Error("failed to collect dashboard metrics", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return m, nil
}

func (s *adminService) LoginTrend(ctx context.Context) ([]models.LoginBucket, error) {
	const op = "service.AdminService.LoginTrend"

	// текущий час входит в окно, всего loginTrendHours корзин
	current := s.now().UTC().Truncate(time.Hour)
	start := current.Add(-(loginTrendHours - 1) * time.Hour)

	rows, err := s.adminRepo.LoginsPerHour(ctx, start)
	if err != nil {
		s.log.Error("failed to get login trend", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	counts := make(map[int64]int64, len(rows))
	for _, r := range rows {
		counts[r.HourStart.UTC().Truncate(time.Hour).Unix()] = r.LoginCount
	}

	buckets := make([]models.LoginBucket, 0, loginTrendHours)
	for h := start; !h.After(current); h = h.Add(time.Hour) {
		buckets = append(buckets, models.LoginBucket{
			HourStart:  h,
			Label:      h.Format(time.RFC3339),
			LoginCount: counts[h.Unix()],
		})
	}
	return buckets, nil
}
