package bankapi

import (
	"context"
	"net/http"
)

func (c *Client) CreateAccount(ctx context.Context) (*Account, error) {
	var account Account
	if err := c.do(ctx, http.MethodPost, PathAccounts, nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (c *Client) Deposit(ctx context.Context, op AccountOperation) (*Account, error) {
	var account Account
	if err := c.do(ctx, http.MethodPost, PathAccountDeposit, op, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (c *Client) Withdraw(ctx context.Context, op AccountOperation) (*Account, error) {
	var account Account
	if err := c.do(ctx, http.MethodPost, PathAccountWithdraw, op, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// GetAccountByUser returns the account of the user owning the bearer token
func (c *Client) GetAccountByUser(ctx context.Context) (*Account, error) {
	var account Account
	if err := c.do(ctx, http.MethodGet, PathAccountByUser, nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}
