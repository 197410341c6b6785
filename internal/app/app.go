package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"
	"github.com/linemk/retail-shop/internal/config"
	"github.com/linemk/retail-shop/internal/metrics"
	"github.com/linemk/retail-shop/internal/service"
	"github.com/linemk/retail-shop/internal/storage"
)

type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	DB      *sql.DB
	Metrics *metrics.Metrics

	Auth     *service.AuthService
	Catalog  service.CatalogService
	Cart     service.CartService
	Checkout service.CheckoutService
	Orders   service.OrderService
	Wishlist service.WishlistService
	Reviews  service.ReviewService
	Profiles service.ProfileService
	Admin    service.AdminService
}

// NewApp создаёт новый экземпляр App: подключение к БД, репозитории и сервисы
func NewApp(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return newApp(log, cfg, db), nil
}

func newApp(log *slog.Logger, cfg *config.Config, db *sql.DB) *App {
	m := metrics.New()

	userRepo := storage.NewUserRepository(db)
	productRepo := storage.NewProductRepository(db)
	cartRepo := storage.NewCartRepository(db)
	orderRepo := storage.NewOrderRepository(db)
	wishlistRepo := storage.NewWishlistRepository(db)
	reviewRepo := storage.NewReviewRepository(db)
	adminRepo := storage.NewAdminRepository(db)

	return &App{
		Config:  cfg,
		Logger:  log,
		DB:      db,
		Metrics: m,

		Auth:     service.NewAuthService(log, userRepo, cfg.JWT.TTL(), cfg.JWT.Secret),
		Catalog:  service.NewCatalogService(log, productRepo),
		Cart:     service.NewCartService(log, cartRepo, productRepo),
		Checkout: service.NewCheckoutService(log, db, cartRepo, productRepo, orderRepo, m),
		Orders:   service.NewOrderService(log, orderRepo),
		Wishlist: service.NewWishlistService(log, wishlistRepo, productRepo),
		Reviews:  service.NewReviewService(log, reviewRepo, productRepo),
		Profiles: service.NewProfileService(log, userRepo),
		Admin:    service.NewAdminService(log, adminRepo),
	}
}

func (a *App) Close() error {
	return a.DB.Close()
}
