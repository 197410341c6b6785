package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/linemk/retail-shop/internal/domain/models"
)

var ErrUserNotFound = errors.New("user not found")

type UserStorage interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	RecordLogin(ctx context.Context, userID int64) error
	// UpdateDefaultAddress nil очищает адрес
	UpdateDefaultAddress(ctx context.Context, userID int64, address *string) error
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserStorage {
	return &userRepository{db: db}
}

const selectUser = "SELECT id, username, password_hash, default_address, is_admin, created_at FROM users"

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var passHash string
	var address sql.NullString
	if err := row.Scan(&user.ID, &user.Username, &passHash, &address, &user.IsAdmin, &user.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.PassHash = []byte(passHash)
	if address.Valid {
		user.DefaultAddress = &address.String
	}
	return user, nil
}

// GetUserByUsername получение пользователя по логину
func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, selectUser+" WHERE username = $1", username))
}

func (r *userRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, selectUser+" WHERE id = $1", id))
}

// RecordLogin пишет событие входа
func (r *userRepository) RecordLogin(ctx context.Context, userID int64) error {
	if _, err := r.db.ExecContext(ctx, "INSERT INTO login_events (user_id) VALUES ($1)", userID); err != nil {
		return fmt.Errorf("failed to record login: %w", err)
	}
	return nil
}

func (r *userRepository) UpdateDefaultAddress(ctx context.Context, userID int64, address *string) error {
	res, err := r.db.ExecContext(ctx, "UPDATE users SET default_address = $1 WHERE id = $2", address, userID)
	if err != nil {
		return fmt.Errorf("failed to update address: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}
