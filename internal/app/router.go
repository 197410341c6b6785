package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/linemk/retail-shop/internal/app/handlers"
	"github.com/linemk/retail-shop/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/retail-shop/internal/lib/logger/handlers/urllog"
)

// Router собирает все маршруты приложения
func (a *App) Router() http.Handler {
	log := a.Logger
	router := chi.NewRouter()

	// настройка middleware
	router.Use(middleware.RequestID)
	router.Use(urllog.CustomLoggerMiddleware(log))
	router.Use(middleware.Recoverer)
	if a.Config.Metrics.IsEnabled() {
		router.Use(a.Metrics.Middleware)
		router.Method(http.MethodGet, a.Config.Metrics.Path, a.Metrics.Handler())
	}

	router.Get("/health/live", handlers.LiveHandler(log))
	router.Get("/health/ready", handlers.ReadyHandler(log, a.DB))

	// эндпоинт для аутентификации
	router.Post("/api/auth/login", handlers.AuthHandler(log, a.Auth))

	// каталог и отзывы открыты без токена
	router.Get("/api/products", handlers.ListProductsHandler(log, a.Catalog))
	router.Get("/api/products/{id}", handlers.GetProductHandler(log, a.Catalog))
	router.Get("/api/products/{id}/reviews", handlers.ListReviewsHandler(log, a.Reviews))

	router.Group(func(r chi.Router) {
		r.Use(jwtmiddleware.NewJWTMiddleware(a.Config.JWT.Secret))

		r.Post("/api/auth/logout", handlers.LogoutHandler(log))

		r.Get("/api/cart", handlers.GetCartHandler(log, a.Cart))
		r.Post("/api/cart/add", handlers.AddToCartHandler(log, a.Cart))
		r.Put("/api/cart/item/{itemId}", handlers.UpdateCartItemHandler(log, a.Cart))
		r.Delete("/api/cart/item/{itemId}", handlers.RemoveCartItemHandler(log, a.Cart))

		r.Post("/api/orders/checkout", handlers.CheckoutHandler(log, a.Checkout))
		r.Get("/api/orders/my", handlers.MyOrdersHandler(log, a.Orders))
		r.Get("/api/orders/advanced", handlers.AdvancedOrdersHandler(log, a.Orders))
		r.Get("/api/orders/advanced/export", handlers.ExportOrdersCSVHandler(log, a.Orders))
		r.Get("/api/orders/{orderId}", handlers.GetOrderHandler(log, a.Orders))

		r.Get("/api/wishlist", handlers.GetWishlistHandler(log, a.Wishlist))
		r.Post("/api/wishlist", handlers.AddToWishlistHandler(log, a.Wishlist))
		r.Delete("/api/wishlist/{productId}", handlers.RemoveFromWishlistHandler(log, a.Wishlist))

		r.Post("/api/products/{id}/reviews", handlers.AddReviewHandler(log, a.Reviews))

		r.Get("/api/me", handlers.GetProfileHandler(log, a.Profiles))
		r.Put("/api/me/address", handlers.UpdateAddressHandler(log, a.Profiles))

		r.Group(func(r chi.Router) {
			r.Use(jwtmiddleware.AdminOnly)

			r.Get("/api/admin/metrics", handlers.AdminMetricsHandler(log, a.Admin))
			r.Get("/api/admin/login-trend-12h", handlers.LoginTrendHandler(log, a.Admin))
		})
	})

	return router
}
