package bankapi

import (
	"context"
	"fmt"
	"net/http"
)

func (c *Client) GetCardInvoices(ctx context.Context, cardID int64) ([]Invoice, error) {
	var invoices []Invoice
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("%s/%d", PathCardInvoices, cardID), nil, &invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

func (c *Client) PayInvoice(ctx context.Context, invoiceID int64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("%s/%d/pay", PathInvoices, invoiceID), nil, nil)
}

func (c *Client) CloseInvoice(ctx context.Context, invoiceID int64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("%s/%d/close", PathInvoices, invoiceID), nil, nil)
}
