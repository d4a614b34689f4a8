package catatuang

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/catatuang/catatuang-gateway/internal/domain"
)

// maxPageWalk caps how many paginator pages ListAllTransactions will
// follow, so a misreported last_page cannot loop forever.
const maxPageWalk = 100

type filterQuery domain.TransactionFilter

func (f filterQuery) values() url.Values {
	q := url.Values{}
	if f.StartDate != "" {
		q.Set("start_date", f.StartDate)
	}
	if f.EndDate != "" {
		q.Set("end_date", f.EndDate)
	}
	if f.Type != "" {
		q.Set("type", f.Type)
	}
	if f.WalletID > 0 {
		q.Set("wallet_id", strconv.FormatInt(f.WalletID, 10))
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	return q
}

// ListTransactions fetches one paginator page of transactions.
func (c *Client) ListTransactions(ctx context.Context, filter domain.TransactionFilter) (*domain.Page[domain.Transaction], error) {
	ctx, end := span(ctx, "catatuang.ListTransactions", "/transactions")
	defer end()

	var page domain.Page[domain.Transaction]
	if err := c.get(ctx, "/transactions", filterQuery(filter).values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ListAllTransactions walks the paginator until last_page and returns the
// concatenated result. The aggregation pipeline needs the full window, not
// one page of it.
func (c *Client) ListAllTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	ctx, end := span(ctx, "catatuang.ListAllTransactions", "/transactions")
	defer end()

	var all []domain.Transaction
	filter.Page = 1
	for filter.Page <= maxPageWalk {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := c.ListTransactions(ctx, filter)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Data...)
		if page.CurrentPage >= page.LastPage || len(page.Data) == 0 {
			break
		}
		filter.Page++
	}
	return all, nil
}

func (c *Client) GetTransaction(ctx context.Context, id int64) (*domain.Transaction, error) {
	path := fmt.Sprintf("/transactions/%d", id)
	ctx, end := span(ctx, "catatuang.GetTransaction", path)
	defer end()

	var txn domain.Transaction
	if err := c.get(ctx, path, nil, &txn); err != nil {
		return nil, err
	}
	return &txn, nil
}

func (c *Client) CreateTransaction(ctx context.Context, in *domain.TransactionInput) (*domain.Transaction, error) {
	ctx, end := span(ctx, "catatuang.CreateTransaction", "/transactions")
	defer end()

	var txn domain.Transaction
	if err := c.send(ctx, http.MethodPost, "/transactions", in, &txn); err != nil {
		return nil, err
	}
	return &txn, nil
}

func (c *Client) UpdateTransaction(ctx context.Context, id int64, in *domain.TransactionInput) (*domain.Transaction, error) {
	path := fmt.Sprintf("/transactions/%d", id)
	ctx, end := span(ctx, "catatuang.UpdateTransaction", path)
	defer end()

	var txn domain.Transaction
	if err := c.send(ctx, http.MethodPut, path, in, &txn); err != nil {
		return nil, err
	}
	return &txn, nil
}

func (c *Client) DeleteTransaction(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/transactions/%d", id)
	ctx, end := span(ctx, "catatuang.DeleteTransaction", path)
	defer end()

	return c.send(ctx, http.MethodDelete, path, nil, nil)
}

// GetSummary fetches the upstream pre-aggregated totals for a period.
func (c *Client) GetSummary(ctx context.Context, startDate, endDate string) (*domain.TransactionSummary, error) {
	ctx, end := span(ctx, "catatuang.GetSummary", "/transactions-summary")
	defer end()

	q := url.Values{}
	if startDate != "" {
		q.Set("start_date", startDate)
	}
	if endDate != "" {
		q.Set("end_date", endDate)
	}

	var summary domain.TransactionSummary
	if err := c.get(ctx, "/transactions-summary", q, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}
