package client

import (
	"context"
	"net/http"

	"ims-client/model"
)

func (c *Client) ListSuppliers(ctx context.Context) ([]model.Supplier, error) {
	out := []model.Supplier{}
	if err := c.do(ctx, request{method: http.MethodGet, url: c.api("/api/suppliers"), auth: true, out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateSupplier(ctx context.Context, in model.SupplierInput) error {
	return c.do(ctx, request{method: http.MethodPost, url: c.api("/api/suppliers"), auth: true, body: in})
}

func (c *Client) UpdateSupplier(ctx context.Context, id int64, in model.SupplierInput) error {
	return c.do(ctx, request{method: http.MethodPut, url: c.api("/api/suppliers/%d", id), auth: true, body: in})
}

func (c *Client) DeleteSupplier(ctx context.Context, id int64) error {
	return c.do(ctx, request{method: http.MethodDelete, url: c.api("/api/suppliers/%d", id), auth: true})
}
