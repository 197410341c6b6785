package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/linemk/retail-shop/internal/domain/models"
	"github.com/linemk/retail-shop/internal/storage"
)

// ProfileService профиль текущего пользователя
type ProfileService interface {
	GetProfile(ctx context.Context, userID int64) (*models.Profile, error)
	// UpdateAddress пустая строка очищает адрес по умолчанию
	UpdateAddress(ctx context.Context, userID int64, address string) error
}

type profileService struct {
	log      *slog.Logger
	userRepo storage.UserStorage
}

func NewProfileService(log *slog.Logger, userRepo storage.UserStorage) ProfileService {
	return &profileService{log: log, userRepo: userRepo}
}

func (s *profileService) GetProfile(ctx context.Context, userID int64) (*models.Profile, error) {
	const op = "service.ProfileService.GetProfile"

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, storage.ErrUserNotFound) {
			s.log.Error("failed to get user", slog.String("op", op), slog.Int64("userID", userID), slog.Any("error", err))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user.Profile(), nil
}

func (s *profileService) UpdateAddress(ctx context.Context, userID int64, address string) error {
	const op = "service.ProfileService.UpdateAddress"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID))

	var addr *string
	if a := strings.TrimSpace(address); a != "" {
		addr = &a
	}
	if err := s.userRepo.UpdateDefaultAddress(ctx, userID, addr); err != nil {
		if !errors.Is(err, storage.ErrUserNotFound) {
			logger.Error("failed to update address", slog.Any("error", err))
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("default address updated", slog.Bool("cleared", addr == nil))
	return nil
}
