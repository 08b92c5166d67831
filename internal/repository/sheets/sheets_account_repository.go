package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/laker77/PointsStoreService-main/internal/infrastructure/observability"
	"github.com/laker77/PointsStoreService-main/internal/infrastructure/sheets"
	"github.com/laker77/PointsStoreService-main/internal/models"
	pkgerrors "github.com/laker77/PointsStoreService-main/pkg/errors"
)

type SheetsAccountRepository struct {
	store sheets.Store
}

func NewSheetsAccountRepository(store sheets.Store) *SheetsAccountRepository {
	return &SheetsAccountRepository{store: store}
}

// GetByHandle scans the balances sheet in store order and returns the first
// row whose normalized handle matches. Accounts are never cached.
func (r *SheetsAccountRepository) GetByHandle(ctx context.Context, handle string) (*models.UserAccount, error) {
	start := time.Now()
	query := models.NormalizeHandle(handle)

	rows, err := r.store.ReadTable(ctx, balancesSheet)
	observe("account_get", start, err)
	if err != nil {
		slog.Error("failed to read balances sheet", "error", err)
		return nil, err
	}
	if len(rows) < 2 {
		return nil, pkgerrors.ErrAccountNotFound
	}

	cols := resolveAccountColumns(rows[0])
	for i, row := range rows[1:] {
		if models.NormalizeHandle(cellAt(row, cols.handle)) != query {
			continue
		}
		return &models.UserAccount{
			Row:          i + 2, // 1-based, row 1 is the header
			SpentCol:     cols.spent + 1,
			Name:         cellAt(row, cols.name),
			StaticID:     cellAt(row, cols.staticID),
			Handle:       cellAt(row, cols.handle),
			TotalPoints:  parseCellInt(cellAt(row, cols.total)),
			SpentPoints:  parseCellInt(cellAt(row, cols.spent)),
			ActualPoints: parseCellInt(cellAt(row, cols.actual)),
		}, nil
	}
	return nil, pkgerrors.ErrAccountNotFound
}

func (r *SheetsAccountRepository) UpdateSpentPoints(ctx context.Context, account *models.UserAccount, newSpent int) error {
	if account.Row <= 0 || account.SpentCol <= 0 {
		return fmt.Errorf("%w: account has no spent-points cell location", pkgerrors.ErrStoreWrite)
	}

	start := time.Now()
	err := r.store.WriteCell(ctx, balancesSheet, account.Row, account.SpentCol, strconv.Itoa(newSpent))
	observe("account_update_spent", start, err)
	if err != nil {
		slog.Error("failed to update spent points",
			"handle", account.Handle,
			"row", account.Row,
			"error", err)
		return err
	}

	slog.Info("spent points updated",
		"handle", account.Handle,
		"row", account.Row,
		"new_spent", newSpent)
	return nil
}

func observe(method string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	observability.StoreCalls.WithLabelValues(method, status).Inc()
	observability.StoreDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
}
