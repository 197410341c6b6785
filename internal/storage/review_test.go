package storage_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/linemk/retail-shop/internal/domain/models"
	"github.com/linemk/retail-shop/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListProductReviews(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "product_id", "user_id", "username", "rating", "comment", "created_at"}).
		AddRow(2, 5, 7, "alice", 5, "great", created).
		AddRow(1, 5, 8, "bob", 3, nil, created.Add(-time.Hour))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE r.product_id = $1 ORDER BY r.created_at DESC, r.id DESC")).
		WithArgs(int64(5)).WillReturnRows(rows)

	reviews, err := storage.NewReviewRepository(db).ListProductReviews(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "alice", reviews[0].Username)
	require.NotNil(t, reviews[0].Comment)
	assert.Equal(t, "great", *reviews[0].Comment)
	assert.Nil(t, reviews[1].Comment)
	assert.Equal(t, 3, reviews[1].Rating)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddReview(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := storage.NewReviewRepository(db)
	query := regexp.QuoteMeta("INSERT INTO product_reviews (user_id, product_id, rating, comment) VALUES ($1, $2, $3, $4) RETURNING id")
	comment := "ok"

	mock.ExpectQuery(query).WithArgs(int64(7), int64(5), 4, "ok").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))
	id, err := repo.AddReview(context.Background(), &models.Review{UserID: 7, ProductID: 5, Rating: 4, Comment: &comment})
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	// товар удалили между проверкой и вставкой
	mock.ExpectQuery(query).WithArgs(int64(7), int64(404), 4, nil).
		WillReturnError(&pq.Error{Code: "23503"})
	_, err = repo.AddReview(context.Background(), &models.Review{UserID: 7, ProductID: 404, Rating: 4})
	assert.True(t, errors.Is(err, storage.ErrProductNotFound))

	assert.NoError(t, mock.ExpectationsWereMet())
}
