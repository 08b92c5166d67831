package repository

import (
	"context"

	"github.com/laker77/PointsStoreService-main/internal/models"
)

type ProductRepository interface {
	// List returns every sellable product (price > 0) in store order.
	List(ctx context.Context) ([]models.Product, error)
}
