package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/linemk/retail-shop/internal/domain/models"
)

var (
	ErrCartNotFound     = errors.New("open cart not found")
	ErrCartItemNotFound = errors.New("cart item not found")
)

// CartStorage описывает методы для работы с корзиной и ее позициями.
type CartStorage interface {
	// FindOpenCart последняя OPEN корзина пользователя.
	FindOpenCart(ctx context.Context, userID int64) (*models.Cart, error)
	CreateCart(ctx context.Context, userID int64) (*models.Cart, error)
	ListCartLines(ctx context.Context, cartID int64) ([]models.CartLine, error)
	// AddItem добавляет товар или увеличивает количество уже добавленного.
	AddItem(ctx context.Context, cartID, productID int64, quantity int) error
	UpdateItemQuantity(ctx context.Context, cartID, itemID int64, quantity int) error
	DeleteItem(ctx context.Context, cartID, itemID int64) error

	// LockOpenCartTx блокирует OPEN корзину пользователя до конца транзакции.
	LockOpenCartTx(ctx context.Context, tx *sql.Tx, userID int64) (*models.Cart, error)
	// LockCartLinesTx блокирует позиции корзины и строки товаров (FOR UPDATE).
	LockCartLinesTx(ctx context.Context, tx *sql.Tx, cartID int64) ([]models.CartLine, error)
	MarkConvertedTx(ctx context.Context, tx *sql.Tx, cartID int64) error
	ClearItemsTx(ctx context.Context, tx *sql.Tx, cartID int64) error
}

type cartRepository struct {
	db *sql.DB
}

func NewCartRepository(db *sql.DB) CartStorage {
	return &cartRepository{db: db}
}

const selectOpenCart = `SELECT id, user_id, status FROM carts WHERE user_id = $1 AND status = 'OPEN' ORDER BY id DESC LIMIT 1`

func scanCart(row *sql.Row) (*models.Cart, error) {
	cart := &models.Cart{}
	var status string
	if err := row.Scan(&cart.ID, &cart.UserID, &status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}
	cart.Status = models.CartStatus(status)
	return cart, nil
}

func (r *cartRepository) FindOpenCart(ctx context.Context, userID int64) (*models.Cart, error) {
	return scanCart(r.db.QueryRowContext(ctx, selectOpenCart, userID))
}

func (r *cartRepository) CreateCart(ctx context.Context, userID int64) (*models.Cart, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO carts (user_id, status) VALUES ($1, 'OPEN') RETURNING id", userID,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}
	return &models.Cart{ID: id, UserID: userID, Status: models.CartStatusOpen}, nil
}

const selectCartLines = `
	SELECT ci.id, ci.quantity, p.id, p.name, p.price, COALESCE(p.image_url, ''), p.stock
	FROM cart_items ci
	JOIN products p ON ci.product_id = p.id
	WHERE ci.cart_id = $1`

func queryCartLines(ctx context.Context, q interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}, query string, cartID int64) ([]models.CartLine, error) {
	rows, err := q.QueryContext(ctx, query, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart items: %w", classify(err))
	}
	defer rows.Close()

	var lines []models.CartLine
	for rows.Next() {
		var l models.CartLine
		if err := rows.Scan(&l.CartItemID, &l.Quantity, &l.ProductID, &l.Name, &l.Price, &l.ImageURL, &l.Stock); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *cartRepository) ListCartLines(ctx context.Context, cartID int64) ([]models.CartLine, error) {
	return queryCartLines(ctx, r.db, selectCartLines+" ORDER BY ci.id", cartID)
}

// openCartCTE блокирует корзину на чтение: запись ждет идущее оформление
// и после него не находит корзину, если та уже CONVERTED
const openCartCTE = `WITH open_cart AS (SELECT id FROM carts WHERE id = $1 AND status = 'OPEN' FOR SHARE) `

func (r *cartRepository) AddItem(ctx context.Context, cartID, productID int64, quantity int) error {
	query := openCartCTE + `INSERT INTO cart_items (cart_id, product_id, quantity)
	          SELECT id, $2, $3 FROM open_cart
	          ON CONFLICT (cart_id, product_id) DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`
	res, err := r.db.ExecContext(ctx, query, cartID, productID, quantity)
	if err != nil {
		return fmt.Errorf("failed to add cart item: %w", err)
	}
	return expectOneRow(res, ErrCartNotFound)
}

func (r *cartRepository) UpdateItemQuantity(ctx context.Context, cartID, itemID int64, quantity int) error {
	query := openCartCTE + `UPDATE cart_items SET quantity = $3
	          WHERE id = $2 AND cart_id IN (SELECT id FROM open_cart)`
	res, err := r.db.ExecContext(ctx, query, cartID, itemID, quantity)
	if err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}
	return expectOneRow(res, ErrCartItemNotFound)
}

func (r *cartRepository) DeleteItem(ctx context.Context, cartID, itemID int64) error {
	query := openCartCTE + `DELETE FROM cart_items
	          WHERE id = $2 AND cart_id IN (SELECT id FROM open_cart)`
	res, err := r.db.ExecContext(ctx, query, cartID, itemID)
	if err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}
	return expectOneRow(res, ErrCartItemNotFound)
}

func (r *cartRepository) LockOpenCartTx(ctx context.Context, tx *sql.Tx, userID int64) (*models.Cart, error) {
	cart, err := scanCart(tx.QueryRowContext(ctx, selectOpenCart+" FOR UPDATE", userID))
	if err != nil && !errors.Is(err, ErrCartNotFound) {
		return nil, classify(err)
	}
	return cart, err
}

// порядок по id товара - чтобы параллельные оформления брали блокировки в одном порядке
func (r *cartRepository) LockCartLinesTx(ctx context.Context, tx *sql.Tx, cartID int64) ([]models.CartLine, error) {
	return queryCartLines(ctx, tx, selectCartLines+" ORDER BY p.id FOR UPDATE", cartID)
}

func (r *cartRepository) MarkConvertedTx(ctx context.Context, tx *sql.Tx, cartID int64) error {
	res, err := tx.ExecContext(ctx, "UPDATE carts SET status = 'CONVERTED' WHERE id = $1 AND status = 'OPEN'", cartID)
	if err != nil {
		return fmt.Errorf("failed to convert cart: %w", err)
	}
	return expectOneRow(res, ErrCartNotFound)
}

func (r *cartRepository) ClearItemsTx(ctx context.Context, tx *sql.Tx, cartID int64) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM cart_items WHERE cart_id = $1", cartID); err != nil {
		return fmt.Errorf("failed to clear cart items: %w", err)
	}
	return nil
}

func expectOneRow(res sql.Result, notFound error) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return notFound
	}
	return nil
}
