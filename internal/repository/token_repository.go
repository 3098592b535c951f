package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tasktracker/internal/model"
)

// TokenRepository handles device push-token registrations. The scheduler
// only reads this set; registration and revocation happen through the API.
type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Register stores a token for the user, reviving it if it was revoked.
func (r *TokenRepository) Register(ctx context.Context, userID, token string) (*model.DeviceToken, error) {
	var existing model.DeviceToken
	db := r.db.WithContext(ctx)
	err := db.Where("user_id = ? AND token = ?", userID, token).First(&existing).Error
	switch {
	case err == nil:
		if existing.Revoked {
			if err := db.Model(&existing).Update("revoked", false).Error; err != nil {
				return nil, fmt.Errorf("revive token: %w", err)
			}
			existing.Revoked = false
		}
		return &existing, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		existing = model.DeviceToken{
			ID:     uuid.NewString(),
			UserID: userID,
			Token:  token,
		}
		if err := db.Create(&existing).Error; err != nil {
			return nil, fmt.Errorf("create token: %w", err)
		}
		return &existing, nil
	default:
		return nil, fmt.Errorf("find token: %w", err)
	}
}

func (r *TokenRepository) Revoke(ctx context.Context, userID, token string) error {
	if err := r.db.WithContext(ctx).Model(&model.DeviceToken{}).
		Where("user_id = ? AND token = ?", userID, token).
		Update("revoked", true).Error; err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// ActiveTokens returns the user's non-revoked token values.
func (r *TokenRepository) ActiveTokens(ctx context.Context, userID string) ([]string, error) {
	var tokens []model.DeviceToken
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND revoked = ?", userID, false).
		Find(&tokens).Error; err != nil {
		return nil, err
	}
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, t.Token)
	}
	return out, nil
}
