package bankapi

import (
	"context"
	"fmt"
	"net/http"
)

func (c *Client) CreateCard(ctx context.Context, creation CardCreation) (*Card, error) {
	var card Card
	if err := c.do(ctx, http.MethodPost, PathCards, creation, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

func (c *Client) GetCardsByUser(ctx context.Context) ([]Card, error) {
	var cards []Card
	if err := c.do(ctx, http.MethodGet, PathCardsByUser, nil, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

func (c *Client) GetCard(ctx context.Context, id int64) (*Card, error) {
	var card Card
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("%s/%d", PathCards, id), nil, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

func (c *Client) Purchase(ctx context.Context, purchase CardPurchase) (*TransactionResponse, error) {
	var tx TransactionResponse
	if err := c.do(ctx, http.MethodPost, PathCardPurchase, purchase, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}
