package client

import (
	"context"
	"net/http"

	"ims-client/model"
)

// ListOrders returns orders as the backend sends them, without price
// enrichment.
func (c *Client) ListOrders(ctx context.Context) ([]model.Order, error) {
	out := []model.Order{}
	if err := c.do(ctx, request{method: http.MethodGet, url: c.api("/api/orders"), auth: true, out: &out}); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Status = model.NormalizeStatus(out[i].Status)
	}
	return out, nil
}

func (c *Client) CreateOrder(ctx context.Context, in model.OrderInput) error {
	return c.do(ctx, request{method: http.MethodPost, url: c.api("/api/orders"), auth: true, body: in})
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id int64, status model.OrderStatus) error {
	return c.do(ctx, request{
		method: http.MethodPut,
		url:    c.api("/api/orders/%d/status", id),
		auth:   true,
		body:   model.StatusUpdate{Status: status},
	})
}

func (c *Client) DeleteOrder(ctx context.Context, id int64) error {
	return c.do(ctx, request{method: http.MethodDelete, url: c.api("/api/orders/%d", id), auth: true})
}

// ProductPrice returns the unit price of the product on order id.
func (c *Client) ProductPrice(ctx context.Context, id int64) (float64, error) {
	var price float64
	err := c.do(ctx, request{method: http.MethodGet, url: c.api("/api/orders/%d/product-price", id), auth: true, out: &price})
	return price, err
}

// TotalPrice returns unit price times quantity for order id.
func (c *Client) TotalPrice(ctx context.Context, id int64) (float64, error) {
	var total float64
	err := c.do(ctx, request{method: http.MethodGet, url: c.api("/api/orders/%d/total-price", id), auth: true, out: &total})
	return total, err
}
