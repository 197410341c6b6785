package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/linemk/retail-shop/internal/domain/models"
)

var (
	ErrProductNotFound = errors.New("product not found")
	// ErrStockConflict остаток ушел в минус при списании
	ErrStockConflict = errors.New("stock conflict")
)

// ProductStorage описывает методы для работы с каталогом.
type ProductStorage interface {
	// ListProducts выборка каталога с поиском, фильтром по категории и сортировкой.
	ListProducts(ctx context.Context, filter models.ProductFilter) ([]*models.Product, error)
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	// DecrementStockTx списывает остаток; строка должна быть заблокирована вызывающим.
	DecrementStockTx(ctx context.Context, tx *sql.Tx, productID int64, quantity int) error
}

type productRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) ProductStorage {
	return &productRepository{db: db}
}

const selectProduct = `SELECT id, name, COALESCE(description, ''), COALESCE(category, ''), price, stock, COALESCE(image_url, ''), rating FROM products`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	p := &models.Product{}
	var rating sql.NullFloat64
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.Price, &p.Stock, &p.ImageURL, &rating); err != nil {
		return nil, err
	}
	if rating.Valid {
		p.Rating = &rating.Float64
	}
	return p, nil
}

func (r *productRepository) ListProducts(ctx context.Context, filter models.ProductFilter) ([]*models.Product, error) {
	var sb strings.Builder
	sb.WriteString(selectProduct)
	sb.WriteString(" WHERE 1=1")

	var args []any
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+strings.ToLower(search)+"%")
		fmt.Fprintf(&sb, " AND (LOWER(name) LIKE $%d OR LOWER(description) LIKE $%d)", len(args), len(args))
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		args = append(args, category)
		fmt.Fprintf(&sb, " AND category = $%d", len(args))
	}

	switch filter.Sort {
	case models.SortPriceAsc:
		sb.WriteString(" ORDER BY price ASC")
	case models.SortPriceDesc:
		sb.WriteString(" ORDER BY price DESC")
	case models.SortRatingDesc:
		sb.WriteString(" ORDER BY rating DESC NULLS LAST")
	default:
		sb.WriteString(" ORDER BY id ASC")
	}

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := make([]*models.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx, selectProduct+" WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *productRepository) DecrementStockTx(ctx context.Context, tx *sql.Tx, productID int64, quantity int) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE products SET stock = stock - $1 WHERE id = $2 AND stock >= $1",
		quantity, productID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqCheckViolation {
			return fmt.Errorf("product %d: %w", productID, ErrStockConflict)
		}
		return fmt.Errorf("failed to decrement stock: %w", classify(err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("product %d: %w", productID, ErrStockConflict)
	}
	return nil
}
