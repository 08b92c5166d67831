package repository

import (
	"context"
	"testing"
	"time"

	"github.com/laker77/PointsStoreService-main/internal/models"
	pkgerrors "github.com/laker77/PointsStoreService-main/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type writeCall struct {
	sheet    string
	row, col int
	value    string
}

type fakeStore struct {
	tables    map[string][][]string
	readErr   error
	writeErr  error
	appendErr error
	ensureErr error

	writes   []writeCall
	appended map[string][][]string
	ensured  []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tables:   make(map[string][][]string),
		appended: make(map[string][][]string),
	}
}

func (f *fakeStore) ReadTable(_ context.Context, sheet string) ([][]string, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.tables[sheet], nil
}

func (f *fakeStore) WriteCell(_ context.Context, sheet string, row, col int, value string) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.writes = append(f.writes, writeCall{sheet, row, col, value})
	return nil
}

func (f *fakeStore) AppendRow(_ context.Context, sheet string, values []string) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended[sheet] = append(f.appended[sheet], values)
	return nil
}

func (f *fakeStore) EnsureTable(_ context.Context, sheet string, header []string) error {
	if f.ensureErr != nil {
		return f.ensureErr
	}
	f.ensured = append(f.ensured, sheet)
	return nil
}

func balancesFixture() [][]string {
	return [][]string{
		{"Ім'я", "Static ID", "Telegram", "Загальні бали", "Витрачені бали", "Актуальні бали"},
		{"Перший", "100", "@other_user", "50", "10", "40"},
		{"Олег", "123", " @Foo_Bar ", "200", "30", "170"},
	}
}

func TestSheetsAccountRepository_GetByHandle(t *testing.T) {
	ctx := context.Background()

	t.Run("finds account case and sigil insensitively", func(t *testing.T) {
		store := newFakeStore()
		store.tables[balancesSheet] = balancesFixture()
		repo := NewSheetsAccountRepository(store)

		account, err := repo.GetByHandle(ctx, "foo_bar")
		require.NoError(t, err)
		assert.Equal(t, "Олег", account.Name)
		assert.Equal(t, "123", account.StaticID)
		assert.Equal(t, " @Foo_Bar ", account.Handle)
		assert.Equal(t, 200, account.TotalPoints)
		assert.Equal(t, 30, account.SpentPoints)
		assert.Equal(t, 170, account.ActualPoints)
		assert.Equal(t, 3, account.Row, "row location is 1-based including the header")
		assert.Equal(t, 5, account.SpentCol, "spent column is 1-based")
	})

	t.Run("not found fails closed", func(t *testing.T) {
		store := newFakeStore()
		store.tables[balancesSheet] = balancesFixture()
		repo := NewSheetsAccountRepository(store)

		account, err := repo.GetByHandle(ctx, "@nobody")
		assert.ErrorIs(t, err, pkgerrors.ErrAccountNotFound)
		assert.Nil(t, account)
	})

	t.Run("non-numeric balances default to zero", func(t *testing.T) {
		store := newFakeStore()
		store.tables[balancesSheet] = [][]string{
			{"Name", "Telegram", "Total", "Spent", "Actual"},
			{"X", "@u", "abc", "", "1 000"},
		}
		repo := NewSheetsAccountRepository(store)

		account, err := repo.GetByHandle(ctx, "u")
		require.NoError(t, err)
		assert.Equal(t, 0, account.TotalPoints)
		assert.Equal(t, 0, account.SpentPoints)
		assert.Equal(t, 0, account.ActualPoints)
	})

	t.Run("tolerates short rows", func(t *testing.T) {
		store := newFakeStore()
		store.tables[balancesSheet] = [][]string{
			{"Name", "Telegram", "Total", "Spent", "Actual"},
			{"X", "@short"},
		}
		repo := NewSheetsAccountRepository(store)

		account, err := repo.GetByHandle(ctx, "short")
		require.NoError(t, err)
		assert.Equal(t, 0, account.TotalPoints)
	})

	t.Run("header-only sheet yields not found", func(t *testing.T) {
		store := newFakeStore()
		store.tables[balancesSheet] = [][]string{{"Name", "Telegram"}}
		repo := NewSheetsAccountRepository(store)

		_, err := repo.GetByHandle(ctx, "anyone")
		assert.ErrorIs(t, err, pkgerrors.ErrAccountNotFound)
	})

	t.Run("read error is propagated", func(t *testing.T) {
		store := newFakeStore()
		store.readErr = pkgerrors.ErrStoreRead
		repo := NewSheetsAccountRepository(store)

		_, err := repo.GetByHandle(ctx, "foo_bar")
		assert.ErrorIs(t, err, pkgerrors.ErrStoreRead)
	})
}

func TestSheetsAccountRepository_UpdateSpentPoints(t *testing.T) {
	ctx := context.Background()

	t.Run("writes the spent cell in place", func(t *testing.T) {
		store := newFakeStore()
		store.tables[balancesSheet] = balancesFixture()
		repo := NewSheetsAccountRepository(store)

		account, err := repo.GetByHandle(ctx, "foo_bar")
		require.NoError(t, err)

		require.NoError(t, repo.UpdateSpentPoints(ctx, account, 80))
		require.Len(t, store.writes, 1)
		assert.Equal(t, writeCall{balancesSheet, 3, 5, "80"}, store.writes[0])
	})

	t.Run("refuses accounts without a cell location", func(t *testing.T) {
		repo := NewSheetsAccountRepository(newFakeStore())
		err := repo.UpdateSpentPoints(ctx, &models.UserAccount{}, 80)
		assert.ErrorIs(t, err, pkgerrors.ErrStoreWrite)
	})
}

func TestSheetsProductRepository_List(t *testing.T) {
	ctx := context.Background()

	t.Run("maps rows and filters unsellable prices", func(t *testing.T) {
		store := newFakeStore()
		store.tables[productsSheet] = [][]string{
			{"ID", "Назва", "Опис", "Ціна", "Категорія", "Фото"},
			{"7", "Кепка", "Синя", "150", "clothing", "https://img/cap.png"},
			{"8", "Безкоштовне", "", "0", "other", ""},
			{"9", "Зламане", "", "abc", "other", ""},
			{"xx", "Брелок", "", "20", "", "  "},
		}
		repo := NewSheetsProductRepository(store)

		products, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, products, 2, `price "0" and "abc" never appear`)

		assert.Equal(t, models.Product{
			ID: 7, Name: "Кепка", Description: "Синя", Price: 150,
			Category: "clothing", ImageURL: "https://img/cap.png",
		}, products[0])

		// non-numeric ID falls back to the 1-based data-row index
		assert.Equal(t, 4, products[1].ID)
		assert.Equal(t, "other", products[1].Category)
		assert.Equal(t, "", products[1].ImageURL, "blank image is empty")
	})

	t.Run("missing columns substitute defaults", func(t *testing.T) {
		store := newFakeStore()
		store.tables[productsSheet] = [][]string{
			{"Ціна"},
			{"50"},
		}
		repo := NewSheetsProductRepository(store)

		products, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "Товар 1", products[0].Name)
		assert.Equal(t, "Опис відсутній", products[0].Description)
		assert.Equal(t, "other", products[0].Category)
	})

	t.Run("empty sheet yields an empty catalog", func(t *testing.T) {
		store := newFakeStore()
		repo := NewSheetsProductRepository(store)
		products, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, products)
	})
}

func TestSheetsHistoryRepository_AppendPurchase(t *testing.T) {
	ctx := context.Background()
	kyiv, err := time.LoadLocation("Europe/Kiev")
	require.NoError(t, err)

	t.Run("ensures the sheet then appends the fixed column order", func(t *testing.T) {
		store := newFakeStore()
		repo := NewSheetsHistoryRepository(store, kyiv)

		ts := time.Date(2025, 3, 7, 12, 30, 0, 0, time.UTC)
		err := repo.AppendPurchase(ctx, &models.PurchaseRecord{
			Timestamp:   ts,
			Name:        "Олег",
			StaticID:    "123",
			Handle:      "@foo_bar",
			ProductName: "Кепка",
			Price:       50,
			TotalPoints: 200,
			SpentAfter:  80,
			ActualAfter: 150,
		})
		require.NoError(t, err)

		assert.Equal(t, []string{historySheet}, store.ensured)
		require.Len(t, store.appended[historySheet], 1)
		row := store.appended[historySheet][0]
		require.Len(t, row, 9)
		assert.Equal(t, ts.In(kyiv).Format("02.01.2006 15:04"), row[0])
		assert.Equal(t, []string{"Олег", "123", "@foo_bar", "Кепка", "50", "200", "80", "150"}, row[1:])
	})

	t.Run("ensure failure aborts the append", func(t *testing.T) {
		store := newFakeStore()
		store.ensureErr = pkgerrors.ErrStoreWrite
		repo := NewSheetsHistoryRepository(store, kyiv)

		err := repo.AppendPurchase(ctx, &models.PurchaseRecord{})
		assert.ErrorIs(t, err, pkgerrors.ErrStoreWrite)
		assert.Empty(t, store.appended[historySheet])
	})
}
