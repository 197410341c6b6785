package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/linemk/retail-shop/internal/domain/models"
)

// WishlistStorage список желаний пользователя. Товар в списке не более одного раза.
type WishlistStorage interface {
	ListWishlist(ctx context.Context, userID int64) ([]models.WishlistItem, error)
	// AddToWishlist повторное добавление ничего не меняет
	AddToWishlist(ctx context.Context, userID, productID int64) error
	// RemoveFromWishlist удаление отсутствующего товара не ошибка
	RemoveFromWishlist(ctx context.Context, userID, productID int64) error
}

type wishlistRepository struct {
	db *sql.DB
}

func NewWishlistRepository(db *sql.DB) WishlistStorage {
	return &wishlistRepository{db: db}
}

func (r *wishlistRepository) ListWishlist(ctx context.Context, userID int64) ([]models.WishlistItem, error) {
	query := `
		SELECT wi.id, p.id, p.name, p.price, COALESCE(p.image_url, ''), COALESCE(p.category, ''), wi.created_at
		FROM wishlist_items wi
		JOIN products p ON wi.product_id = p.id
		WHERE wi.user_id = $1
		ORDER BY wi.created_at DESC, wi.id DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query wishlist: %w", err)
	}
	defer rows.Close()

	items := make([]models.WishlistItem, 0)
	for rows.Next() {
		var it models.WishlistItem
		if err := rows.Scan(&it.WishlistItemID, &it.ProductID, &it.Name, &it.Price, &it.ImageURL, &it.Category, &it.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan wishlist item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *wishlistRepository) AddToWishlist(ctx context.Context, userID, productID int64) error {
	query := `INSERT INTO wishlist_items (user_id, product_id) VALUES ($1, $2)
	          ON CONFLICT (user_id, product_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, userID, productID); err != nil {
		if isForeignKeyViolation(err) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to add wishlist item: %w", err)
	}
	return nil
}

func (r *wishlistRepository) RemoveFromWishlist(ctx context.Context, userID, productID int64) error {
	query := `DELETE FROM wishlist_items WHERE user_id = $1 AND product_id = $2`
	if _, err := r.db.ExecContext(ctx, query, userID, productID); err != nil {
		return fmt.Errorf("failed to remove wishlist item: %w", err)
	}
	return nil
}
