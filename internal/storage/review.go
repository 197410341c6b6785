package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/linemk/retail-shop/internal/domain/models"
)

// ReviewStorage отзывы о товарах
type ReviewStorage interface {
	// ListProductReviews новые первыми, с логином автора
	ListProductReviews(ctx context.Context, productID int64) ([]models.Review, error)
	AddReview(ctx context.Context, review *models.Review) (int64, error)
}

type reviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) ReviewStorage {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) ListProductReviews(ctx context.Context, productID int64) ([]models.Review, error) {
	query := `
		SELECT r.id, r.product_id, r.user_id, u.username, r.rating, r.comment, r.created_at
		FROM product_reviews r
		JOIN users u ON r.user_id = u.id
		WHERE r.product_id = $1
		ORDER BY r.created_at DESC, r.id DESC`
	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]models.Review, 0)
	for rows.Next() {
		var rv models.Review
		var comment sql.NullString
		if err := rows.Scan(&rv.ID, &rv.ProductID, &rv.UserID, &rv.Username, &rv.Rating, &comment, &rv.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		if comment.Valid {
			rv.Comment = &comment.String
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) AddReview(ctx context.Context, review *models.Review) (int64, error) {
	query := `INSERT INTO product_reviews (user_id, product_id, rating, comment)
	          VALUES ($1, $2, $3, $4) RETURNING id`
	var id int64
	err := r.db.QueryRowContext(ctx, query, review.UserID, review.ProductID, review.Rating, review.Comment).Scan(&id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, ErrProductNotFound
		}
		return 0, fmt.Errorf("failed to add review: %w", err)
	}
	return id, nil
}
