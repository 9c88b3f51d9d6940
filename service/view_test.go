package service

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"ims-client/client"
	"ims-client/model"
)

var sampleProducts = []model.Product{
	{ID: 1, Name: "Steel Bolt", Price: 0.5, Description: "M8 zinc", ImageURL: "bolt.png"},
	{ID: 2, Name: "Hex Nut", Price: 0.2, Description: "fits the steel bolt", ImageURL: "nut.png"},
	{ID: 3, Name: "Washer", Price: 0.1, Description: "flat", ImageURL: "washer.png"},
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not reached")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestMountWithoutSessionRedirectsBeforeFetch(t *testing.T) {
	sessions, _ := newSessions(t, "")
	v := NewProductView(&fakeAPI{
		ListProductsFn: func() ([]model.Product, error) {
			t.Fatalf("fetch must not run without a session")
			return nil, nil
		},
	}, sessions, quiet)

	if err := v.Mount(context.Background()); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if r := v.Redirect(); r == nil || r.To != RouteLogin {
		t.Fatalf("expected redirect to login, got %+v", r)
	}
}

func TestLogoutWhileMountedRedirects(t *testing.T) {
	sessions, _ := newSessions(t, "tok")
	v := NewProductView(&fakeAPI{
		ListProductsFn: func() ([]model.Product, error) { return sampleProducts, nil },
	}, sessions, quiet)
	if err := v.Mount(context.Background()); err != nil {
		t.Fatalf("Mount: %v", err)
	}

	if err := sessions.Clear(context.Background()); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if r := v.Redirect(); r == nil || r.To != RouteLogin {
		t.Fatalf("expected redirect after logout")
	}
	if err := v.Refresh(context.Background()); !errors.Is(err, ErrNotMounted) {
		t.Fatalf("expected ErrNotMounted, got %v", err)
	}
}

func TestFilteredViewIsMatchingSubset(t *testing.T) {
	sessions, _ := newSessions(t, "tok")
	v := NewProductView(&fakeAPI{
		ListProductsFn: func() ([]model.Product, error) { return sampleProducts, nil },
	}, sessions, quiet)
	if err := v.Mount(context.Background()); err != nil {
		t.Fatalf("Mount: %v", err)
	}

	v.SetQuery("STEEL")
	got := v.Visible()
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %+v", got)
	}
	for _, p := range got {
		if !MatchProduct(p, "steel") {
			t.Fatalf("%q does not match", p.Name)
		}
	}

	v.SetQuery("")
	if len(v.Visible()) != len(sampleProducts) {
		t.Fatalf("empty query should keep everything")
	}
	if len(v.Items()) != len(sampleProducts) {
		t.Fatalf("filtering must not touch the fetched list")
	}
}

func TestQueryMatchedAsTyped(t *testing.T) {
	for _, q := range []string{" steel", "bolt ", "  "} {
		got := Filter(sampleProducts, q, MatchProduct)
		lq := strings.ToLower(q)
		for _, p := range got {
			if !strings.Contains(strings.ToLower(p.Name), lq) && !strings.Contains(strings.ToLower(p.Description), lq) {
				t.Fatalf("query %q matched %q", q, p.Name)
			}
		}
	}
	if got := Filter(sampleProducts, " steel", MatchProduct); len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("expected only the nut (\"fits the steel bolt\"), got %+v", got)
	}
}

func TestProductWithoutImageURLBlockedLocally(t *testing.T) {
	sessions, _ := newSessions(t, "tok")
	v := NewProductView(&fakeAPI{
		ListProductsFn: func() ([]model.Product, error) { return nil, nil },
		CreateProductFn: func(model.ProductInput) error {
			t.Fatalf("create must not be sent")
			return nil
		},
	}, sessions, quiet)
	if err := v.Mount(context.Background()); err != nil {
		t.Fatalf("Mount: %v", err)
	}

	err := v.Create(context.Background(), model.ProductInput{Name: "Bolt", Price: 1})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "imageUrl" {
		t.Fatalf("expected imageUrl validation error, got %v", err)
	}
	if n := v.Notification(); n == nil || n.Kind != KindError {
		t.Fatalf("expected error notification, got %+v", n)
	}
}

func TestProductCreateRefetchesDeletePatches(t *testing.T) {
	sessions, _ := newSessions(t, "tok")
	var lists int32
	v := NewProductView(&fakeAPI{
		ListProductsFn: func() ([]model.Product, error) {
			atomic.AddInt32(&lists, 1)
			return sampleProducts, nil
		},
		CreateProductFn: func(model.ProductInput) error { return nil },
		DeleteProductFn: func(int64) error { return nil },
	}, sessions, quiet)
	ctx := context.Background()
	if err := v.Mount(ctx); err != nil {
		t.Fatalf("Mount: %v", err)
	}

	if err := v.Create(ctx, model.ProductInput{Name: "Rivet", Price: 0.3, ImageURL: "r.png"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if atomic.LoadInt32(&lists) != 2 {
		t.Fatalf("create should refetch, lists=%d", lists)
	}

	if err := v.Delete(ctx, 2); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if atomic.LoadInt32(&lists) != 2 {
		t.Fatalf("delete should patch locally, lists=%d", lists)
	}
	for _, p := range v.Items() {
		if p.ID == 2 {
			t.Fatalf("deleted product still listed")
		}
	}
	if v.Phase() != Loaded || v.Notification().Message != "Product deleted successfully!" {
		t.Fatalf("unexpected state %s %+v", v.Phase(), v.Notification())
	}
}

func TestFailedRefreshKeepsStaleList(t *testing.T) {
	sessions, _ := newSessions(t, "tok")
	var calls int32
	v := NewProductView(&fakeAPI{
		ListProductsFn: func() ([]model.Product, error) {
			if atomic.AddInt32(&calls, 1) > 1 {
				return nil, &client.APIError{StatusCode: 500}
			}
			return sampleProducts, nil
		},
	}, sessions, quiet)
	ctx := context.Background()
	if err := v.Mount(ctx); err != nil {
		t.Fatalf("Mount: %v", err)
	}

	if err := v.Refresh(ctx); err == nil {
		t.Fatalf("expected refresh error")
	}
	if len(v.Items()) != len(sampleProducts) || v.Phase() != Loaded {
		t.Fatalf("stale list should survive, phase=%s", v.Phase())
	}
	if n := v.Notification(); n == nil || n.Kind != KindError {
		t.Fatalf("expected error notification")
	}
}

func TestFailedInitialLoad(t *testing.T) {
	sessions, _ := newSessions(t, "tok")
	v := NewProductView(&fakeAPI{
		ListProductsFn: func() ([]model.Product, error) {
			return nil, &client.APIError{StatusCode: 503, Message: "down for maintenance"}
		},
	}, sessions, quiet)

	if err := v.Mount(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
	if v.Phase() != Failed || v.Error() != "down for maintenance" {
		t.Fatalf("unexpected state %s %q", v.Phase(), v.Error())
	}
}

func TestSecondSubmitWhileBusyRejected(t *testing.T) {
	sessions, _ := newSessions(t, "tok")
	release := make(chan struct{})
	var creates int32
	v := NewProductView(&fakeAPI{
		ListProductsFn: func() ([]model.Product, error) { return nil, nil },
		CreateProductFn: func(model.ProductInput) error {
			atomic.AddInt32(&creates, 1)
			<-release
			return nil
		},
	}, sessions, quiet)
	ctx := context.Background()
	if err := v.Mount(ctx); err != nil {
		t.Fatalf("Mount: %v", err)
	}

	in := model.ProductInput{Name: "Rivet", Price: 1, ImageURL: "r.png"}
	done := make(chan error, 1)
	go func() { done <- v.Create(ctx, in) }()
	waitFor(t, func() bool { return v.Phase() == Submitting })

	if err := v.Create(ctx, in); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first create: %v", err)
	}
	if atomic.LoadInt32(&creates) != 1 {
		t.Fatalf("expected a single create, got %d", creates)
	}
}

func TestRefreshDuringSubmitKeepsBusy(t *testing.T) {
	sessions, _ := newSessions(t, "tok")
	release := make(chan struct{})
	var creates int32
	v := NewProductView(&fakeAPI{
		ListProductsFn: func() ([]model.Product, error) { return sampleProducts, nil },
		CreateProductFn: func(model.ProductInput) error {
			atomic.AddInt32(&creates, 1)
			<-release
			return nil
		},
	}, sessions, quiet)
	ctx := context.Background()
	if err := v.Mount(ctx); err != nil {
		t.Fatalf("Mount: %v", err)
	}

	in := model.ProductInput{Name: "Rivet", Price: 1, ImageURL: "r.png"}
	done := make(chan error, 1)
	go func() { done <- v.Create(ctx, in) }()
	waitFor(t, func() bool { return atomic.LoadInt32(&creates) == 1 })

	if err := v.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if v.Phase() != Submitting {
		t.Fatalf("refresh ended the write early, phase=%s", v.Phase())
	}
	if err := v.Create(ctx, in); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy after refresh, got %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first create: %v", err)
	}
	if atomic.LoadInt32(&creates) != 1 || v.Phase() != Loaded {
		t.Fatalf("creates=%d phase=%s", creates, v.Phase())
	}
}

func TestLateResponseAfterUnmountDiscarded(t *testing.T) {
	sessions, _ := newSessions(t, "tok")
	started := make(chan struct{})
	release := make(chan struct{})
	v := NewProductView(&fakeAPI{
		ListProductsFn: func() ([]model.Product, error) {
			close(started)
			<-release
			return sampleProducts, nil
		},
	}, sessions, quiet)

	done := make(chan error, 1)
	go func() { done <- v.Mount(context.Background()) }()
	<-started
	v.Unmount()
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if len(v.Items()) != 0 {
		t.Fatalf("late response was applied")
	}
}

func TestOrderPriceLookupFailureDefaultsRow(t *testing.T) {
	sessions, _ := newSessions(t, "tok")
	v := NewOrderView(&fakeAPI{
		ListOrdersFn: func() ([]model.Order, error) {
			return []model.Order{
				{OrderID: 1, ProductName: "Bolt", Quantity: 2, Status: model.StatusPending},
				{OrderID: 2, Quantity: 1, Status: model.StatusShipped},
				{OrderID: 3, ProductName: "Washer", Quantity: 10, Status: model.StatusCompleted},
			}, nil
		},
		ProductPriceFn: func(id int64) (float64, error) {
			if id == 2 {
				return 0, &client.APIError{StatusCode: 404}
			}
			return float64(id), nil
		},
		TotalPriceFn: func(id int64) (float64, error) { return float64(id) * 10, nil },
	}, sessions, quiet, 2)

	if err := v.Mount(context.Background()); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	orders := v.Items()
	if len(orders) != 3 {
		t.Fatalf("expected 3 orders, got %d", len(orders))
	}
	if got := model.FormatMoney(orders[1].ProductPrice); got != "$0.00" {
		t.Fatalf("defaulted price = %s", got)
	}
	if orders[1].ProductName != UnknownProduct || !v.Defaulted(2) {
		t.Fatalf("expected defaulted row, got %+v", orders[1])
	}
	if orders[0].ProductPrice != 1 || orders[2].TotalPrice != 30 || v.Defaulted(3) {
		t.Fatalf("other rows should be unaffected: %+v", orders)
	}
	if orders[0].OrderID != 1 || orders[2].OrderID != 3 {
		t.Fatalf("input order not kept")
	}
}

func newOrderView(t *testing.T, api *fakeAPI) *OrderView {
	t.Helper()
	sessions, _ := newSessions(t, "tok")
	api.ListOrdersFn = func() ([]model.Order, error) {
		return []model.Order{
			{OrderID: 1, ProductName: "Bolt", Status: model.StatusPending},
			{OrderID: 2, ProductName: "Nut", Status: model.StatusShipped},
		}, nil
	}
	api.ProductPriceFn = func(int64) (float64, error) { return 1, nil }
	api.TotalPriceFn = func(int64) (float64, error) { return 2, nil }
	v := NewOrderView(api, sessions, quiet, 0)
	if err := v.Mount(context.Background()); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	return v
}

func TestCancelOnlyPendingOrders(t *testing.T) {
	var deleted []int64
	v := newOrderView(t, &fakeAPI{
		DeleteOrderFn: func(id int64) error {
			deleted = append(deleted, id)
			return nil
		},
	})
	ctx := context.Background()

	if err := v.Cancel(ctx, 2); !errors.Is(err, ErrNotPending) {
		t.Fatalf("expected ErrNotPending, got %v", err)
	}
	if len(deleted) != 0 {
		t.Fatalf("no request should be sent for a shipped order")
	}
	if err := v.Cancel(ctx, 1); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if len(deleted) != 1 || deleted[0] != 1 || len(v.Items()) != 1 {
		t.Fatalf("pending order not cancelled: %v %+v", deleted, v.Items())
	}
	if err := v.Cancel(ctx, 99); !errors.Is(err, ErrUnknownItem) {
		t.Fatalf("expected ErrUnknownItem, got %v", err)
	}
}

func TestUpdateStatusPatchesRow(t *testing.T) {
	v := newOrderView(t, &fakeAPI{
		UpdateOrderStatusFn: func(int64, model.OrderStatus) error { return nil },
	})
	if err := v.UpdateStatus(context.Background(), 1, model.StatusShipped); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if v.Items()[0].Status != model.StatusShipped {
		t.Fatalf("status not patched")
	}
	if !strings.Contains(v.Notification().Message, "Shipped") {
		t.Fatalf("unexpected notification %q", v.Notification().Message)
	}
	if err := v.UpdateStatus(context.Background(), 1, "Lost"); err == nil {
		t.Fatalf("unknown status accepted")
	}
}

func TestOrderCreateDefaultsAndFailure(t *testing.T) {
	var got model.OrderInput
	v := newOrderView(t, &fakeAPI{
		CreateOrderFn: func(in model.OrderInput) error {
			got = in
			return errors.New("connection refused")
		},
	})
	nowFunc = func() time.Time { return time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { nowFunc = time.Now })

	err := v.Create(context.Background(), model.OrderInput{CustomerID: 7, ProductID: 1, Quantity: 3})
	if err == nil {
		t.Fatalf("expected error")
	}
	if got.OrderDate != "2026-05-01" || got.Status != model.StatusPending {
		t.Fatalf("defaults not applied: %+v", got)
	}
	if n := v.Notification(); n.Message != "Failed to create order. Try again." || v.Phase() != Loaded {
		t.Fatalf("unexpected state %s %+v", v.Phase(), n)
	}
	if len(v.Items()) != 2 {
		t.Fatalf("list should be untouched")
	}
}

func TestSupplierCreateParsesProductIDs(t *testing.T) {
	sessions, _ := newSessions(t, "tok")
	var got model.SupplierInput
	var lists int32
	v := NewSupplierView(&fakeAPI{
		ListSuppliersFn: func() ([]model.Supplier, error) {
			atomic.AddInt32(&lists, 1)
			return []model.Supplier{{
				SupplierID: 4, Name: "Acme", ProvidedProductIDs: []int64{1, 5},
				SuppliedProducts: []model.Product{{ID: 1, Name: "Steel Bolt"}},
			}}, nil
		},
		CreateSupplierFn: func(in model.SupplierInput) error {
			got = in
			return nil
		},
	}, sessions, quiet)
	ctx := context.Background()
	if err := v.Mount(ctx); err != nil {
		t.Fatalf("Mount: %v", err)
	}

	if err := v.Create(ctx, SupplierForm{Name: "Globex", ProductIDs: "1, 5, abc, 10"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	want := []int64{1, 5, 10}
	if len(got.ProvidedProductIDs) != len(want) {
		t.Fatalf("ids = %v, want %v", got.ProvidedProductIDs, want)
	}
	for i := range want {
		if got.ProvidedProductIDs[i] != want[i] {
			t.Fatalf("ids = %v, want %v", got.ProvidedProductIDs, want)
		}
	}
	if atomic.LoadInt32(&lists) != 2 {
		t.Fatalf("create should refetch")
	}

	v.SetQuery("bolt")
	if len(v.Visible()) != 1 {
		t.Fatalf("supplier should match by supplied product name")
	}
	form, err := v.EditForm(4)
	if err != nil || form.ProductIDs != "1, 5" {
		t.Fatalf("unexpected edit form %+v %v", form, err)
	}
	if err := v.Create(ctx, SupplierForm{ProductIDs: "1"}); err == nil {
		t.Fatalf("expected name validation error")
	}
}
