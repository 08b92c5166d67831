package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	stderrors "errors"

	"github.com/laker77/PointsStoreService-main/internal/catalog"
	"github.com/laker77/PointsStoreService-main/internal/infrastructure/kafka"
	"github.com/laker77/PointsStoreService-main/internal/infrastructure/observability"
	"github.com/laker77/PointsStoreService-main/internal/infrastructure/telegram"
	"github.com/laker77/PointsStoreService-main/internal/models"
	"github.com/laker77/PointsStoreService-main/internal/render"
	"github.com/laker77/PointsStoreService-main/internal/repository"
	pkgerrors "github.com/laker77/PointsStoreService-main/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

type StoreService interface {
	GetBalance(ctx context.Context, handle string) (*models.UserAccount, error)
	GetCatalog(ctx context.Context) []models.Product
	FindProduct(ctx context.Context, productID int) (*models.Product, error)
	Purchase(ctx context.Context, handle string, productID int) (*models.PurchaseResult, error)
}

type storeService struct {
	accounts repository.AccountRepository
	history  repository.HistoryRepository
	catalog  *catalog.Cache
	notifier telegram.Notifier
	locker   AccountLocker
	producer kafka.KafkaProducer
	location *time.Location
	now      func() time.Time
}

// NewStoreService wires the purchase engine. producer may be nil when no
// broker is configured; every other dependency is required.
func NewStoreService(
	accounts repository.AccountRepository,
	history repository.HistoryRepository,
	catalogCache *catalog.Cache,
	notifier telegram.Notifier,
	locker AccountLocker,
	producer kafka.KafkaProducer,
	location *time.Location,
) *storeService {
	return &storeService{
		accounts: accounts,
		history:  history,
		catalog:  catalogCache,
		notifier: notifier,
		locker:   locker,
		producer: producer,
		location: location,
		now:      time.Now,
	}
}

func (s *storeService) GetBalance(ctx context.Context, handle string) (*models.UserAccount, error) {
	tracer := otel.Tracer("points-store")
	ctx, span := tracer.Start(ctx, "GetBalance")
	defer span.End()

	if strings.TrimSpace(handle) == "" {
		span.SetStatus(codes.Error, "missing handle")
		return nil, pkgerrors.ErrAccountMissingHandle
	}

	account, err := s.accounts.GetByHandle(ctx, handle)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "account lookup failed")
		return nil, err
	}
	return account, nil
}

func (s *storeService) GetCatalog(ctx context.Context) []models.Product {
	tracer := otel.Tracer("points-store")
	ctx, span := tracer.Start(ctx, "GetCatalog")
	defer span.End()

	return s.catalog.GetProducts(ctx)
}

func (s *storeService) FindProduct(ctx context.Context, productID int) (*models.Product, error) {
	for _, product := range s.catalog.GetProducts(ctx) {
		if product.ID == productID {
			return &product, nil
		}
	}
	return nil, pkgerrors.ErrProductNotFound
}

// Purchase runs the ordered saga: verify funds, debit, audit, notify, re-read.
// Only a debit failure aborts; audit and notification failures are logged and
// the debit stands. The ordering prefers "never take points without recording
// it happened" over a momentarily stale confirmation balance.
func (s *storeService) Purchase(ctx context.Context, handle string, productID int) (*models.PurchaseResult, error) {
	tracer := otel.Tracer("points-store")
	ctx, span := tracer.Start(ctx, "Purchase")
	defer span.End()

	product, err := s.FindProduct(ctx, productID)
	if err != nil {
		observability.Purchases.WithLabelValues("product_not_found").Inc()
		span.SetStatus(codes.Error, "product not found")
		slog.Warn("purchase for unknown product", "product_id", productID, "handle", handle)
		return nil, err
	}

	if strings.TrimSpace(handle) == "" {
		observability.Purchases.WithLabelValues("missing_handle").Inc()
		span.SetStatus(codes.Error, "missing handle")
		return nil, pkgerrors.ErrAccountMissingHandle
	}

	// The lock covers the read as well: a balance observed outside the
	// critical section could already be debited by a concurrent purchase.
	lockKey := models.NormalizeHandle(handle)
	release, err := s.locker.Lock(ctx, lockKey)
	if err != nil {
		observability.Purchases.WithLabelValues("locked").Inc()
		span.SetStatus(codes.Error, "balance locked")
		slog.Warn("concurrent purchase for account", "handle", lockKey)
		return nil, pkgerrors.ErrBalanceLocked
	}

	account, err := s.accounts.GetByHandle(ctx, handle)
	if err != nil {
		release()
		if stderrors.Is(err, pkgerrors.ErrAccountNotFound) {
			observability.Purchases.WithLabelValues("account_not_found").Inc()
		} else {
			observability.Purchases.WithLabelValues("store_error").Inc()
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "account lookup failed")
		return nil, err
	}

	if account.ActualPoints < product.Price {
		release()
		observability.Purchases.WithLabelValues("insufficient_funds").Inc()
		span.SetStatus(codes.Error, "insufficient funds")
		slog.Info("insufficient funds",
			"handle", lockKey,
			"balance", account.ActualPoints,
			"price", product.Price)
		return nil, pkgerrors.NewInsufficientFunds(account.ActualPoints, product.Price)
	}

	newSpent := account.SpentPoints + product.Price
	err = s.accounts.UpdateSpentPoints(ctx, account, newSpent)
	release()
	if err != nil {
		observability.Purchases.WithLabelValues("debit_failed").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "debit failed")
		slog.Error("debit failed, purchase aborted",
			"handle", lockKey,
			"product", product.Name,
			"error", err)
		return nil, fmt.Errorf("%w: %v", pkgerrors.ErrDebitFailed, err)
	}

	now := s.now().In(s.location)
	record := &models.PurchaseRecord{
		Timestamp:   now,
		Name:        account.Name,
		StaticID:    account.StaticID,
		Handle:      account.Handle,
		ProductName: product.Name,
		Price:       product.Price,
		TotalPoints: account.TotalPoints,
		SpentAfter:  newSpent,
		ActualAfter: account.ActualPoints - product.Price,
	}
	if err := s.history.AppendPurchase(ctx, record); err != nil {
		// Debit already landed; the purchase stands even without its audit row.
		observability.AuditFailures.Inc()
		span.RecordError(err)
		slog.Error("purchase debited but history append failed",
			"handle", lockKey,
			"product", product.Name,
			"error", err)
	}

	s.publishEvent(ctx, account, product, newSpent)
	s.notify(ctx, account, product, now)

	result := &models.PurchaseResult{
		Product: *product,
		Debited: product.Price,
	}
	if updated, err := s.accounts.GetByHandle(ctx, handle); err == nil {
		result.NewBalance = updated.ActualPoints
	} else {
		result.NewBalance = account.ActualPoints - product.Price
		result.Estimated = true
		slog.Warn("post-purchase re-read failed, using estimated balance",
			"handle", lockKey,
			"error", err)
	}

	observability.Purchases.WithLabelValues("ok").Inc()
	slog.Info("purchase completed",
		"handle", lockKey,
		"product", product.Name,
		"price", product.Price,
		"new_balance", result.NewBalance,
		"estimated", result.Estimated)
	return result, nil
}

func (s *storeService) publishEvent(ctx context.Context, account *models.UserAccount, product *models.Product, newSpent int) {
	if s.producer == nil {
		return
	}
	event := map[string]interface{}{
		"handle":       models.NormalizeHandle(account.Handle),
		"product_id":   product.ID,
		"product_name": product.Name,
		"price":        product.Price,
		"spent_after":  newSpent,
		"actual_after": account.ActualPoints - product.Price,
		"created_at":   time.Now().UTC().Format(time.RFC3339),
	}
	eventBytes, err := json.Marshal(event)
	if err != nil {
		slog.Error("failed to marshal purchase event", "error", err)
		return
	}
	eventID := time.Now().UnixNano()
	if err := s.producer.Send(ctx, "purchases", eventID, eventBytes); err != nil {
		slog.Error("failed to send purchase event", "event_id", eventID, "error", err)
	}
}

// notify sends the staff broadcast; on failure exactly one admin fallback is
// attempted with the original error embedded. Neither failure blocks the
// customer-facing success path.
func (s *storeService) notify(ctx context.Context, account *models.UserAccount, product *models.Product, now time.Time) {
	orderText := render.OrderMessage(account, *product, now)
	err := s.notifier.SendOrder(ctx, orderText, product.ImageURL)
	if err == nil {
		slog.Info("order notification sent", "handle", account.Handle, "product", product.Name)
		return
	}

	observability.NotifyFailures.WithLabelValues("primary").Inc()
	slog.Error("failed to send order to staff channel", "error", err)

	alert := render.FallbackAlert(account, *product, err)
	if fallbackErr := s.notifier.SendAdminAlert(ctx, alert); fallbackErr != nil {
		observability.NotifyFailures.WithLabelValues("fallback").Inc()
		slog.Error("failed to send fallback alert to admin", "error", fallbackErr)
	}
}
