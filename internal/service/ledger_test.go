package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/catatuang/catatuang-gateway/internal/domain"
	"github.com/catatuang/catatuang-gateway/internal/infra/cache"
	"github.com/catatuang/catatuang-gateway/internal/infra/catatuang"
	"github.com/catatuang/catatuang-gateway/internal/infra/observability"

	"go.uber.org/zap"
)

func newLedger(txAPI *mockTransactionAPI, catAPI *mockCatalogAPI, c *cache.InMemory[any]) *LedgerService {
	if c == nil {
		c = cache.New[any](time.Minute)
	}
	return NewLedgerService(txAPI, catAPI, c, observability.NewMetrics(), zap.NewNop())
}

func TestGroupedTransactions(t *testing.T) {
	today := time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)
	txAPI := &mockTransactionAPI{byType: map[string][]domain.Transaction{
		"": {
			statsTx(1, 10, 1000, "2025-08-31", domain.TypeExpense),
			statsTx(2, 10, 2000, "2025-09-01", domain.TypeExpense),
		},
	}}

	svc := newLedger(txAPI, &mockCatalogAPI{}, nil)
	svc.now = fixedNow(today)

	groups, err := svc.GroupedTransactions(context.Background(), domain.TransactionFilter{Page: 3})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Label != "Hari Ini" || groups[1].Label != "Kemarin" {
		t.Errorf("unexpected labels: %q, %q", groups[0].Label, groups[1].Label)
	}

	// Grouping always walks the full window, never a single page.
	if len(txAPI.filters) != 1 || txAPI.filters[0].Page != 0 {
		t.Errorf("expected the page filter to be cleared, got %+v", txAPI.filters)
	}
}

func TestCreateTransaction_RejectsUnknownType(t *testing.T) {
	svc := newLedger(&mockTransactionAPI{}, &mockCatalogAPI{}, nil)

	_, err := svc.CreateTransaction(context.Background(), &domain.TransactionInput{Type: "transfer"})

	var ve *domain.ErrValidation
	if !errors.As(err, &ve) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestWalletsOverview(t *testing.T) {
	catAPI := &mockCatalogAPI{
		wallets: []domain.Wallet{
			{ID: 1, Name: "Dompet", Balance: domain.Amount(150000), TypeID: 7},
			{ID: 2, Name: "Bank", Balance: domain.Amount(850000), TypeID: 8},
		},
		walletTypes: []domain.WalletType{
			{ID: 7, Name: "Cash"},
			{ID: 8, Name: "Bank"},
		},
	}

	svc := newLedger(&mockTransactionAPI{}, catAPI, nil)

	overview, err := svc.WalletsOverview(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if overview.Total != 1000000 {
		t.Errorf("expected total 1000000, got %v", overview.Total)
	}
	if overview.Wallets[0].WalletType == nil || overview.Wallets[0].WalletType.Name != "Cash" {
		t.Errorf("expected wallet type attached, got %+v", overview.Wallets[0].WalletType)
	}
}

func TestCategoryMutationInvalidatesCache(t *testing.T) {
	c := cache.New[any](time.Minute)
	c.Set("sess-1:categories", []domain.Category{{ID: 1, Name: "Stale"}})

	svc := newLedger(&mockTransactionAPI{}, &mockCatalogAPI{}, c)

	ctx := catatuang.WithAuth(context.Background(), "sess-1", "tok")
	if _, err := svc.CreateCategory(ctx, &domain.CategoryInput{Name: "Baru", Type: domain.TypeExpense}); err != nil {
		t.Fatalf("create category: %v", err)
	}

	if _, ok := c.Get("sess-1:categories"); ok {
		t.Error("expected the cached categories to be dropped")
	}
}

func TestCategoryMutationFailureKeepsCache(t *testing.T) {
	c := cache.New[any](time.Minute)
	c.Set("sess-1:categories", []domain.Category{{ID: 1, Name: "Tetap"}})

	catAPI := &mockCatalogAPI{err: errors.New("upstream down")}
	svc := newLedger(&mockTransactionAPI{}, catAPI, c)

	ctx := catatuang.WithAuth(context.Background(), "sess-1", "tok")
	if _, err := svc.CreateCategory(ctx, &domain.CategoryInput{Name: "Baru"}); err == nil {
		t.Fatal("expected an error")
	}

	if _, ok := c.Get("sess-1:categories"); !ok {
		t.Error("a failed mutation must not drop the cache")
	}
}
