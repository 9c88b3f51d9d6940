package client

import (
	"context"
	"net/http"

	"ims-client/model"
)

func (c *Client) ListProducts(ctx context.Context) ([]model.Product, error) {
	out := []model.Product{}
	if err := c.do(ctx, request{method: http.MethodGet, url: c.api("/api/products"), auth: true, out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateProduct(ctx context.Context, in model.ProductInput) error {
	return c.do(ctx, request{method: http.MethodPost, url: c.api("/api/products"), auth: true, body: in})
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, in model.ProductInput) error {
	return c.do(ctx, request{method: http.MethodPut, url: c.api("/api/products/%d", id), auth: true, body: in})
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, request{method: http.MethodDelete, url: c.api("/api/products/%d", id), auth: true})
}
