package service

import (
	"context"
	"fmt"
	"time"

	"github.com/catatuang/catatuang-gateway/internal/domain"
	"github.com/catatuang/catatuang-gateway/internal/infra/catatuang"
	"github.com/catatuang/catatuang-gateway/internal/infra/observability"
	"github.com/catatuang/catatuang-gateway/internal/port"
	"github.com/catatuang/catatuang-gateway/internal/stats"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var ledgerTracer = otel.Tracer("service/ledger")

// LedgerService proxies the bookkeeping resources (transactions, wallets,
// categories, wallet types) and adds the gateway-side derivations: date
// grouping for list display and the coerced total balance.
type LedgerService struct {
	txns    port.TransactionAPI
	catalog port.CatalogAPI
	cache   port.Cache[any]
	metrics *observability.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewLedgerService creates the ledger service.
func NewLedgerService(
	txns port.TransactionAPI,
	catalog port.CatalogAPI,
	cache port.Cache[any],
	metrics *observability.Metrics,
	logger *zap.Logger,
) *LedgerService {
	return &LedgerService{
		txns:    txns,
		catalog: catalog,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// ListTransactions returns one upstream paginator page unchanged.
func (s *LedgerService) ListTransactions(ctx context.Context, filter domain.TransactionFilter) (*domain.Page[domain.Transaction], error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.ListTransactions")
	defer span.End()

	return s.txns.ListTransactions(ctx, filter)
}

// GroupedTransactions fetches the whole window and groups it by day,
// newest first, ready for the transaction list screen.
func (s *LedgerService) GroupedTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.DateGroup, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.GroupedTransactions")
	defer span.End()

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("transactions_grouped", time.Since(start))
	}()

	filter.Page = 0
	txns, err := s.txns.ListAllTransactions(ctx, filter)
	if err != nil {
		s.metrics.IncrUpstreamError("transactions")
		return nil, fmt.Errorf("transactions fetch: %w", err)
	}
	return stats.GroupByDay(txns, s.now()), nil
}

func (s *LedgerService) GetTransaction(ctx context.Context, id int64) (*domain.Transaction, error) {
	return s.txns.GetTransaction(ctx, id)
}

func (s *LedgerService) CreateTransaction(ctx context.Context, in *domain.TransactionInput) (*domain.Transaction, error) {
	if in.Type != domain.TypeIncome && in.Type != domain.TypeExpense {
		return nil, &domain.ErrValidation{Field: "type", Message: "type harus income atau expense"}
	}
	return s.txns.CreateTransaction(ctx, in)
}

func (s *LedgerService) UpdateTransaction(ctx context.Context, id int64, in *domain.TransactionInput) (*domain.Transaction, error) {
	return s.txns.UpdateTransaction(ctx, id, in)
}

func (s *LedgerService) DeleteTransaction(ctx context.Context, id int64) error {
	return s.txns.DeleteTransaction(ctx, id)
}

// Summary passes through the upstream pre-aggregated totals.
func (s *LedgerService) Summary(ctx context.Context, startDate, endDate string) (*domain.TransactionSummary, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.Summary")
	defer span.End()

	return s.txns.GetSummary(ctx, startDate, endDate)
}

// WalletsOverview fetches wallets and wallet types concurrently, attaches
// type records when the upstream omitted them, and totals the coerced
// balances. A wallet with a malformed balance counts as 0, never poisons
// the total.
func (s *LedgerService) WalletsOverview(ctx context.Context) (*domain.WalletsOverview, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.WalletsOverview")
	defer span.End()

	var (
		wallets []domain.Wallet
		types   []domain.WalletType
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		list, err := s.catalog.ListWallets(gCtx)
		if err != nil {
			s.metrics.IncrUpstreamError("wallets")
			return fmt.Errorf("wallets fetch: %w", err)
		}
		wallets = list
		return nil
	})

	g.Go(func() error {
		list, err := s.catalog.ListWalletTypes(gCtx)
		if err != nil {
			s.metrics.IncrUpstreamError("wallet-types")
			return fmt.Errorf("wallet types fetch: %w", err)
		}
		types = list
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	byID := make(map[int64]*domain.WalletType, len(types))
	for i := range types {
		byID[types[i].ID] = &types[i]
	}

	overview := &domain.WalletsOverview{Wallets: wallets}
	for i := range overview.Wallets {
		w := &overview.Wallets[i]
		if w.WalletType == nil && w.TypeID != 0 {
			w.WalletType = byID[w.TypeID]
		}
		overview.Total += w.Balance.Float64()
	}
	return overview, nil
}

// --- Catalog passthroughs. Category mutations drop the per-session
// categories cache so the statistics pipeline sees fresh names. ---

func (s *LedgerService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.catalog.ListCategories(ctx)
}

func (s *LedgerService) CreateCategory(ctx context.Context, in *domain.CategoryInput) (*domain.Category, error) {
	cat, err := s.catalog.CreateCategory(ctx, in)
	if err == nil {
		s.invalidateCategories(ctx)
	}
	return cat, err
}

func (s *LedgerService) UpdateCategory(ctx context.Context, id int64, in *domain.CategoryInput) (*domain.Category, error) {
	cat, err := s.catalog.UpdateCategory(ctx, id, in)
	if err == nil {
		s.invalidateCategories(ctx)
	}
	return cat, err
}

func (s *LedgerService) DeleteCategory(ctx context.Context, id int64) error {
	err := s.catalog.DeleteCategory(ctx, id)
	if err == nil {
		s.invalidateCategories(ctx)
	}
	return err
}

func (s *LedgerService) ListWalletTypes(ctx context.Context) ([]domain.WalletType, error) {
	return s.catalog.ListWalletTypes(ctx)
}

func (s *LedgerService) CreateWalletType(ctx context.Context, in *domain.WalletTypeInput) (*domain.WalletType, error) {
	return s.catalog.CreateWalletType(ctx, in)
}

func (s *LedgerService) UpdateWalletType(ctx context.Context, id int64, in *domain.WalletTypeInput) (*domain.WalletType, error) {
	return s.catalog.UpdateWalletType(ctx, id, in)
}

func (s *LedgerService) DeleteWalletType(ctx context.Context, id int64) error {
	return s.catalog.DeleteWalletType(ctx, id)
}

func (s *LedgerService) ListWallets(ctx context.Context) ([]domain.Wallet, error) {
	return s.catalog.ListWallets(ctx)
}

func (s *LedgerService) CreateWallet(ctx context.Context, in *domain.WalletInput) (*domain.Wallet, error) {
	return s.catalog.CreateWallet(ctx, in)
}

func (s *LedgerService) UpdateWallet(ctx context.Context, id int64, in *domain.WalletInput) (*domain.Wallet, error) {
	return s.catalog.UpdateWallet(ctx, id, in)
}

func (s *LedgerService) DeleteWallet(ctx context.Context, id int64) error {
	return s.catalog.DeleteWallet(ctx, id)
}

func (s *LedgerService) invalidateCategories(ctx context.Context) {
	sessionID, _ := catatuang.AuthFromContext(ctx)
	if sessionID != "" {
		s.cache.Delete(sessionID + ":categories")
	}
}
