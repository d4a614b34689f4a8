package catatuang

import (
	"context"
	"fmt"
	"net/http"

	"github.com/catatuang/catatuang-gateway/internal/domain"
)

// Categories, wallet types and wallets: straight proxies of the upstream
// CRUD endpoints.

func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	ctx, end := span(ctx, "catatuang.ListCategories", "/categories")
	defer end()

	var cats []domain.Category
	if err := c.get(ctx, "/categories", nil, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

func (c *Client) CreateCategory(ctx context.Context, in *domain.CategoryInput) (*domain.Category, error) {
	ctx, end := span(ctx, "catatuang.CreateCategory", "/categories")
	defer end()

	var cat domain.Category
	if err := c.send(ctx, http.MethodPost, "/categories", in, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

func (c *Client) UpdateCategory(ctx context.Context, id int64, in *domain.CategoryInput) (*domain.Category, error) {
	path := fmt.Sprintf("/categories/%d", id)
	ctx, end := span(ctx, "catatuang.UpdateCategory", path)
	defer end()

	var cat domain.Category
	if err := c.send(ctx, http.MethodPut, path, in, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/categories/%d", id)
	ctx, end := span(ctx, "catatuang.DeleteCategory", path)
	defer end()

	return c.send(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) ListWalletTypes(ctx context.Context) ([]domain.WalletType, error) {
	ctx, end := span(ctx, "catatuang.ListWalletTypes", "/wallet-types")
	defer end()

	var types []domain.WalletType
	if err := c.get(ctx, "/wallet-types", nil, &types); err != nil {
		return nil, err
	}
	return types, nil
}

func (c *Client) CreateWalletType(ctx context.Context, in *domain.WalletTypeInput) (*domain.WalletType, error) {
	ctx, end := span(ctx, "catatuang.CreateWalletType", "/wallet-types")
	defer end()

	var wt domain.WalletType
	if err := c.send(ctx, http.MethodPost, "/wallet-types", in, &wt); err != nil {
		return nil, err
	}
	return &wt, nil
}

func (c *Client) UpdateWalletType(ctx context.Context, id int64, in *domain.WalletTypeInput) (*domain.WalletType, error) {
	path := fmt.Sprintf("/wallet-types/%d", id)
	ctx, end := span(ctx, "catatuang.UpdateWalletType", path)
	defer end()

	var wt domain.WalletType
	if err := c.send(ctx, http.MethodPut, path, in, &wt); err != nil {
		return nil, err
	}
	return &wt, nil
}

func (c *Client) DeleteWalletType(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/wallet-types/%d", id)
	ctx, end := span(ctx, "catatuang.DeleteWalletType", path)
	defer end()

	return c.send(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) ListWallets(ctx context.Context) ([]domain.Wallet, error) {
	ctx, end := span(ctx, "catatuang.ListWallets", "/wallets")
	defer end()

	var wallets []domain.Wallet
	if err := c.get(ctx, "/wallets", nil, &wallets); err != nil {
		return nil, err
	}
	return wallets, nil
}

func (c *Client) CreateWallet(ctx context.Context, in *domain.WalletInput) (*domain.Wallet, error) {
	ctx, end := span(ctx, "catatuang.CreateWallet", "/wallets")
	defer end()

	var w domain.Wallet
	if err := c.send(ctx, http.MethodPost, "/wallets", in, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (c *Client) UpdateWallet(ctx context.Context, id int64, in *domain.WalletInput) (*domain.Wallet, error) {
	path := fmt.Sprintf("/wallets/%d", id)
	ctx, end := span(ctx, "catatuang.UpdateWallet", path)
	defer end()

	var w domain.Wallet
	if err := c.send(ctx, http.MethodPut, path, in, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (c *Client) DeleteWallet(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/wallets/%d", id)
	ctx, end := span(ctx, "catatuang.DeleteWallet", path)
	defer end()

	return c.send(ctx, http.MethodDelete, path, nil, nil)
}
