package service

import (
	"context"
	"io"
	"log"
	"testing"

	"ims-client/model"
	"ims-client/session"
	"ims-client/store"
)

// ---- fakeAPI implementing client.API for tests ----
type fakeAPI struct {
	LoginFn         func(req model.LoginRequest) (*model.LoginResponse, error)
	RegisterFn      func(req model.RegisterRequest) (string, error)
	UpdateProfileFn func(upd model.ProfileUpdate) (string, error)

	ListProductsFn  func() ([]model.Product, error)
	CreateProductFn func(in model.ProductInput) error
	UpdateProductFn func(id int64, in model.ProductInput) error
	DeleteProductFn func(id int64) error

	ListOrdersFn        func() ([]model.Order, error)
	CreateOrderFn       func(in model.OrderInput) error
	UpdateOrderStatusFn func(id int64, status model.OrderStatus) error
	DeleteOrderFn       func(id int64) error
	ProductPriceFn      func(id int64) (float64, error)
	TotalPriceFn        func(id int64) (float64, error)

	ListSuppliersFn  func() ([]model.Supplier, error)
	CreateSupplierFn func(in model.SupplierInput) error
	UpdateSupplierFn func(id int64, in model.SupplierInput) error
	DeleteSupplierFn func(id int64) error

	GenerateReportFn func(req model.ReportRequest) (*model.Report, error)
}

func (f *fakeAPI) Login(_ context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	return f.LoginFn(req)
}
func (f *fakeAPI) Register(_ context.Context, req model.RegisterRequest) (string, error) {
	return f.RegisterFn(req)
}
func (f *fakeAPI) UpdateProfile(_ context.Context, upd model.ProfileUpdate) (string, error) {
	return f.UpdateProfileFn(upd)
}
func (f *fakeAPI) ListProducts(context.Context) ([]model.Product, error) { return f.ListProductsFn() }
func (f *fakeAPI) CreateProduct(_ context.Context, in model.ProductInput) error {
	return f.CreateProductFn(in)
}
func (f *fakeAPI) UpdateProduct(_ context.Context, id int64, in model.ProductInput) error {
	return f.UpdateProductFn(id, in)
}
func (f *fakeAPI) DeleteProduct(_ context.Context, id int64) error { return f.DeleteProductFn(id) }
func (f *fakeAPI) ListOrders(context.Context) ([]model.Order, error) { return f.ListOrdersFn() }
func (f *fakeAPI) CreateOrder(_ context.Context, in model.OrderInput) error {
	return f.CreateOrderFn(in)
}
func (f *fakeAPI) UpdateOrderStatus(_ context.Context, id int64, status model.OrderStatus) error {
	return f.UpdateOrderStatusFn(id, status)
}
func (f *fakeAPI) DeleteOrder(_ context.Context, id int64) error { return f.DeleteOrderFn(id) }
func (f *fakeAPI) ProductPrice(_ context.Context, id int64) (float64, error) {
	return f.ProductPriceFn(id)
}
func (f *fakeAPI) TotalPrice(_ context.Context, id int64) (float64, error) {
	return f.TotalPriceFn(id)
}
func (f *fakeAPI) ListSuppliers(context.Context) ([]model.Supplier, error) {
	return f.ListSuppliersFn()
}
func (f *fakeAPI) CreateSupplier(_ context.Context, in model.SupplierInput) error {
	return f.CreateSupplierFn(in)
}
func (f *fakeAPI) UpdateSupplier(_ context.Context, id int64, in model.SupplierInput) error {
	return f.UpdateSupplierFn(id, in)
}
func (f *fakeAPI) DeleteSupplier(_ context.Context, id int64) error { return f.DeleteSupplierFn(id) }
func (f *fakeAPI) GenerateReport(_ context.Context, req model.ReportRequest) (*model.Report, error) {
	return f.GenerateReportFn(req)
}

var quiet = log.New(io.Discard, "", 0)

// newSessions returns a session store over memory, signed in when token
// is non-empty.
func newSessions(t *testing.T, token string) (*session.Store, *store.MemoryStore) {
	t.Helper()
	mem := store.NewMemoryStore()
	s := session.New(mem, quiet)
	if token != "" {
		if err := s.Set(context.Background(), &model.Session{Username: "alice", Token: token}); err != nil {
			t.Fatalf("seed session: %v", err)
		}
	}
	return s, mem
}
