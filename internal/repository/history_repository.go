package repository

import (
	"context"

	"github.com/laker77/PointsStoreService-main/internal/models"
)

type HistoryRepository interface {
	AppendPurchase(ctx context.Context, record *models.PurchaseRecord) error
}
