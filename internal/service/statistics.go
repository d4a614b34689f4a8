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
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var statsTracer = otel.Tracer("service/statistics")

// StatisticsService computes the chart-ready reports: per-category
// breakdown, daily series and month-over-month comparison. It fetches
// transactions and categories from the upstream (categories cached per
// session) and hands the aggregation to the stats package.
type StatisticsService struct {
	txns    port.TransactionAPI
	catalog port.CatalogAPI
	cache   port.Cache[any]
	metrics *observability.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewStatisticsService creates the statistics service.
func NewStatisticsService(
	txns port.TransactionAPI,
	catalog port.CatalogAPI,
	cache port.Cache[any],
	metrics *observability.Metrics,
	logger *zap.Logger,
) *StatisticsService {
	return &StatisticsService{
		txns:    txns,
		catalog: catalog,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// Overview builds the statistics screen payload for one transaction type
// ("income" or "expense") and period ("week" or "month").
func (s *StatisticsService) Overview(ctx context.Context, txType, period string) (*domain.StatisticsOverview, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, span := statsTracer.Start(ctx, "StatisticsService.Overview")
	defer span.End()
	span.SetAttributes(attribute.String("type", txType), attribute.String("period", period))

	if txType != domain.TypeIncome && txType != domain.TypeExpense {
		return nil, &domain.ErrValidation{Field: "type", Message: "type harus income atau expense"}
	}
	if period != stats.PeriodWeek && period != stats.PeriodMonth {
		return nil, &domain.ErrValidation{Field: "period", Message: "period harus week atau month"}
	}

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("statistics", time.Since(start))
	}()

	today := s.now()
	startDate, endDate := stats.FetchRange(period, today)

	var (
		txns []domain.Transaction
		cats []domain.Category
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		list, err := s.txns.ListAllTransactions(gCtx, domain.TransactionFilter{
			StartDate: startDate,
			EndDate:   endDate,
			Type:      txType,
		})
		if err != nil {
			s.metrics.IncrUpstreamError("transactions")
			return fmt.Errorf("transactions fetch: %w", err)
		}
		txns = list
		return nil
	})

	g.Go(func() error {
		list, err := s.categories(gCtx)
		if err != nil {
			s.metrics.IncrUpstreamError("categories")
			return fmt.Errorf("categories fetch: %w", err)
		}
		cats = list
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	slices := stats.CategoryTotals(txns, cats)

	return &domain.StatisticsOverview{
		Type:      txType,
		Period:    period,
		StartDate: startDate,
		EndDate:   endDate,
		Total:     stats.Total(slices),
		Pie:       stats.BuildPieDataset(slices),
		Series:    stats.DailySeries(txns, period, today),
	}, nil
}

// Compare builds the month-over-month comparison against the month given
// as "yyyy-MM", which must be one of the last 12 months.
func (s *StatisticsService) Compare(ctx context.Context, month string) (*domain.ComparisonResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, span := statsTracer.Start(ctx, "StatisticsService.Compare")
	defer span.End()
	span.SetAttributes(attribute.String("month", month))

	today := s.now()
	past, err := time.ParseInLocation("2006-01", month, today.Location())
	if err != nil {
		return nil, &domain.ErrValidation{Field: "month", Message: "format bulan harus yyyy-MM"}
	}

	currentFirst := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	monthsBack := (currentFirst.Year()-past.Year())*12 + int(currentFirst.Month()) - int(past.Month())
	if monthsBack < 1 || monthsBack > 12 {
		return nil, &domain.ErrValidation{Field: "month", Message: "bulan perbandingan harus dalam 12 bulan terakhir"}
	}

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("comparison", time.Since(start))
	}()

	curStart, curEnd := stats.MonthRange(today)
	pastStart, pastEnd := stats.MonthRange(past)

	fetch := func(gCtx context.Context, startDate, endDate, txType string, out *[]domain.Transaction) func() error {
		return func() error {
			list, err := s.txns.ListAllTransactions(gCtx, domain.TransactionFilter{
				StartDate: startDate,
				EndDate:   endDate,
				Type:      txType,
			})
			if err != nil {
				s.metrics.IncrUpstreamError("transactions")
				return fmt.Errorf("transactions fetch %s %s: %w", txType, startDate, err)
			}
			*out = list
			return nil
		}
	}

	var curExpenses, curIncome, pastExpenses, pastIncome []domain.Transaction

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(fetch(gCtx, curStart, curEnd, domain.TypeExpense, &curExpenses))
	g.Go(fetch(gCtx, curStart, curEnd, domain.TypeIncome, &curIncome))
	g.Go(fetch(gCtx, pastStart, pastEnd, domain.TypeExpense, &pastExpenses))
	g.Go(fetch(gCtx, pastStart, pastEnd, domain.TypeIncome, &pastIncome))

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return stats.BuildComparison(curExpenses, curIncome, pastExpenses, pastIncome, today, past), nil
}

// Months lists the selectable comparison months, newest first.
func (s *StatisticsService) Months() []domain.MonthOption {
	return stats.AvailableMonths(s.now())
}

// categories returns the session's categories, cached per session so the
// repeated statistics calls do not hammer the upstream.
func (s *StatisticsService) categories(ctx context.Context) ([]domain.Category, error) {
	sessionID, _ := catatuang.AuthFromContext(ctx)
	key := sessionID + ":categories"

	if cached, ok := s.cache.Get(key); ok {
		if cats, ok := cached.([]domain.Category); ok {
			s.metrics.IncrCacheHit("categories")
			return cats, nil
		}
	}
	s.metrics.IncrCacheMiss("categories")

	cats, err := s.catalog.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, cats)
	return cats, nil
}
