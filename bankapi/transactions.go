package bankapi

import (
	"context"
	"fmt"
	"net/http"
)

const (
	DefaultPage     = 0
	DefaultPageSize = 10
)

func (c *Client) Transfer(ctx context.Context, request TransactionRequest) (*TransactionResponse, error) {
	var tx TransactionResponse
	if err := c.do(ctx, http.MethodPost, PathTransfer, request, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// GetUserTransactions returns one page of the user's transactions. A negative
// page or non-positive size falls back to the defaults.
func (c *Client) GetUserTransactions(ctx context.Context, page, size int) (*Page[TransactionResponse], error) {
	if page < 0 {
		page = DefaultPage
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	var result Page[TransactionResponse]
	path := fmt.Sprintf("%s?page=%d&size=%d", PathUserTransactions, page, size)
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
