package repository

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/laker77/PointsStoreService-main/internal/infrastructure/sheets"
	"github.com/laker77/PointsStoreService-main/internal/models"
)

var historyHeader = []string{
	"Дата", "Ім'я", "Static ID", "Telegram", "Товар", "Ціна",
	"Загальні бали", "Витрачені бали", "Актуальний баланс",
}

type SheetsHistoryRepository struct {
	store    sheets.Store
	location *time.Location
}

func NewSheetsHistoryRepository(store sheets.Store, location *time.Location) *SheetsHistoryRepository {
	return &SheetsHistoryRepository{store: store, location: location}
}

// AppendPurchase lazily creates the history sheet with its header, then
// appends the record in the fixed nine-column order.
func (r *SheetsHistoryRepository) AppendPurchase(ctx context.Context, record *models.PurchaseRecord) error {
	start := time.Now()
	err := r.append(ctx, record)
	observe("history_append", start, err)
	if err != nil {
		slog.Error("failed to append purchase history",
			"handle", record.Handle,
			"product", record.ProductName,
			"error", err)
		return err
	}
	return nil
}

func (r *SheetsHistoryRepository) append(ctx context.Context, record *models.PurchaseRecord) error {
	if err := r.store.EnsureTable(ctx, historySheet, historyHeader); err != nil {
		return err
	}
	row := []string{
		record.Timestamp.In(r.location).Format("02.01.2006 15:04"),
		record.Name,
		record.StaticID,
		record.Handle,
		record.ProductName,
		strconv.Itoa(record.Price),
		strconv.Itoa(record.TotalPoints),
		strconv.Itoa(record.SpentAfter),
		strconv.Itoa(record.ActualAfter),
	}
	return r.store.AppendRow(ctx, historySheet, row)
}
