package repository

import (
	"context"

	"github.com/laker77/PointsStoreService-main/internal/models"
)

type AccountRepository interface {
	// GetByHandle is always a live read so balances stay current.
	GetByHandle(ctx context.Context, handle string) (*models.UserAccount, error)
	// UpdateSpentPoints writes the new spent-points value into the account's
	// cell in place.
	UpdateSpentPoints(ctx context.Context, account *models.UserAccount, newSpent int) error
}
