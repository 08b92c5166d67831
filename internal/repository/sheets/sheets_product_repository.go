package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/laker77/PointsStoreService-main/internal/infrastructure/sheets"
	"github.com/laker77/PointsStoreService-main/internal/models"
)

type SheetsProductRepository struct {
	store sheets.Store
}

func NewSheetsProductRepository(store sheets.Store) *SheetsProductRepository {
	return &SheetsProductRepository{store: store}
}

// List maps every data row of the products sheet and keeps only rows with a
// positive price.
func (r *SheetsProductRepository) List(ctx context.Context) ([]models.Product, error) {
	start := time.Now()
	rows, err := r.store.ReadTable(ctx, productsSheet)
	observe("product_list", start, err)
	if err != nil {
		slog.Error("failed to read products sheet", "error", err)
		return nil, err
	}
	if len(rows) < 2 {
		return []models.Product{}, nil
	}

	cols := resolveProductColumns(rows[0])
	products := make([]models.Product, 0, len(rows)-1)
	for i, row := range rows[1:] {
		product := mapProductRow(cols, row, i+1)
		if product.Price > 0 {
			products = append(products, product)
		}
	}
	return products, nil
}

// mapProductRow applies the defensive defaults: a non-digit ID cell falls
// back to the 1-based data-row index, which makes product identity unstable
// across row reorders. Kept as-is; re-keying stored IDs would be worse.
func mapProductRow(cols productColumns, row []string, index int) models.Product {
	product := models.Product{
		ID:          index,
		Name:        fmt.Sprintf("Товар %d", index),
		Description: "Опис відсутній",
		Category:    "other",
	}
	if s := cellAt(row, cols.id); isDigits(s) {
		product.ID = parseCellInt(s)
	}
	if cols.name >= 0 && cols.name < len(row) {
		product.Name = row[cols.name]
	}
	if cols.description >= 0 && cols.description < len(row) {
		product.Description = row[cols.description]
	}
	product.Price = parseCellInt(cellAt(row, cols.price))
	if cols.category >= 0 && cols.category < len(row) && row[cols.category] != "" {
		product.Category = row[cols.category]
	}
	if img := strings.TrimSpace(cellAt(row, cols.image)); img != "" {
		product.ImageURL = img
	}
	return product
}
