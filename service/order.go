package service

import (
	"context"
	"fmt"
	"log"
	"sync"

	"ims-client/client"
	"ims-client/enrich"
	"ims-client/model"
)

// UnknownProduct stands in for a missing product name when an order's
// prices could not be looked up.
const UnknownProduct = "Unknown Product"

// OrderView is the orders screen. Every fetched order is enriched with
// its unit and total price; a failed lookup leaves that row at zero.
type OrderView struct {
	*listView[model.Order]
	api    client.OrderAPI
	limit  int
	logger *log.Logger

	dmu       sync.Mutex
	defaulted map[int64]bool
}

// NewOrderView returns an order screen running at most limit price
// lookups at a time; limit <= 0 selects enrich.DefaultLimit.
func NewOrderView(api client.OrderAPI, sessions Sessions, logger *log.Logger, limit int) *OrderView {
	if logger == nil {
		logger = log.Default()
	}
	v := &OrderView{api: api, limit: limit, logger: logger, defaulted: map[int64]bool{}}
	v.listView = newListView("orders", sessions, logger, v.load, MatchOrder)
	return v
}

type prices struct {
	unit, total float64
}

func (v *OrderView) load(ctx context.Context) ([]model.Order, error) {
	orders, err := v.api.ListOrders(ctx)
	if err != nil {
		return nil, err
	}

	results := enrich.Map(ctx, orders, v.limit,
		func(ctx context.Context, o model.Order) (model.Order, error) {
			unit, err := v.api.ProductPrice(ctx, o.OrderID)
			if err != nil {
				return o, fmt.Errorf("product price: %w", err)
			}
			total, err := v.api.TotalPrice(ctx, o.OrderID)
			if err != nil {
				return o, fmt.Errorf("total price: %w", err)
			}
			o.ProductPrice, o.TotalPrice = unit, total
			return o, nil
		},
		func(o model.Order, err error) model.Order {
			v.logger.Printf("orders: order %d details: %v", o.OrderID, err)
			o.ProductPrice, o.TotalPrice = 0, 0
			if o.ProductName == "" {
				o.ProductName = UnknownProduct
			}
			return o
		})

	defaulted := make(map[int64]bool, enrich.Defaulted(results))
	for _, r := range results {
		if r.Defaulted {
			defaulted[r.Value.OrderID] = true
		}
	}
	v.dmu.Lock()
	v.defaulted = defaulted
	v.dmu.Unlock()
	return enrich.Values(results), nil
}

// Defaulted reports whether the prices shown for order id are the
// fallback zeros rather than backend values.
func (v *OrderView) Defaulted(id int64) bool {
	v.dmu.Lock()
	defer v.dmu.Unlock()
	return v.defaulted[id]
}

func validateOrder(in model.OrderInput) *ValidationError {
	switch {
	case in.CustomerID <= 0:
		return invalid("customerId", "Please enter a valid customer ID.")
	case in.ProductID <= 0:
		return invalid("productId", "Please enter a valid product ID.")
	case in.Quantity <= 0:
		return invalid("quantity", "Quantity must be at least 1.")
	case !in.Status.Known():
		return invalid("status", "Please select a valid status.")
	}
	return nil
}

// Create places an order and reloads the list. A blank date or status is
// filled in from model.NewOrderInput.
func (v *OrderView) Create(ctx context.Context, in model.OrderInput) error {
	if in.OrderDate == "" || in.Status == "" {
		def := model.NewOrderInput(nowFunc())
		if in.OrderDate == "" {
			in.OrderDate = def.OrderDate
		}
		if in.Status == "" {
			in.Status = def.Status
		}
	}
	if verr := validateOrder(in); verr != nil {
		return v.reject(verr)
	}
	return v.submit(ctx, mutation[model.Order]{
		call:    func(ctx context.Context) error { return v.api.CreateOrder(ctx, in) },
		okMsg:   "Order created successfully!",
		failMsg: "Failed to create order. Try again.",
	})
}

// UpdateStatus moves order id to status and patches the row in place.
func (v *OrderView) UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) error {
	if !status.Known() {
		return v.reject(invalid("status", "Please select a valid status."))
	}
	if _, ok := v.find(func(o model.Order) bool { return o.OrderID == id }); !ok {
		return ErrUnknownItem
	}
	return v.submit(ctx, mutation[model.Order]{
		call:    func(ctx context.Context) error { return v.api.UpdateOrderStatus(ctx, id, status) },
		okMsg:   fmt.Sprintf("Order status updated to %q", status),
		failMsg: "Failed to update order status. Try again.",
		patch: func(items []model.Order) []model.Order {
			out := append([]model.Order(nil), items...)
			for i := range out {
				if out[i].OrderID == id {
					out[i].Status = status
				}
			}
			return out
		},
	})
}

// Cancel deletes order id. Only a Pending order can be cancelled; any
// other status returns ErrNotPending and nothing is sent.
func (v *OrderView) Cancel(ctx context.Context, id int64) error {
	o, ok := v.find(func(o model.Order) bool { return o.OrderID == id })
	if !ok {
		return ErrUnknownItem
	}
	if !o.Cancellable() {
		v.mu.Lock()
		v.note = failure("Only pending orders can be cancelled.")
		v.mu.Unlock()
		return ErrNotPending
	}
	return v.submit(ctx, mutation[model.Order]{
		call:    func(ctx context.Context) error { return v.api.DeleteOrder(ctx, id) },
		okMsg:   "Order canceled successfully!",
		failMsg: "Failed to cancel order. Try again.",
		patch: func(items []model.Order) []model.Order {
			out := items[:0:0]
			for _, o := range items {
				if o.OrderID != id {
					out = append(out, o)
				}
			}
			return out
		},
	})
}
