package client

import (
	"context"

	"ims-client/model"
)

type AuthAPI interface {
	Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error)
	Register(ctx context.Context, req model.RegisterRequest) (string, error)
	UpdateProfile(ctx context.Context, upd model.ProfileUpdate) (string, error)
}

type ProductAPI interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	CreateProduct(ctx context.Context, in model.ProductInput) error
	UpdateProduct(ctx context.Context, id int64, in model.ProductInput) error
	DeleteProduct(ctx context.Context, id int64) error
}

type OrderAPI interface {
	ListOrders(ctx context.Context) ([]model.Order, error)
	CreateOrder(ctx context.Context, in model.OrderInput) error
	UpdateOrderStatus(ctx context.Context, id int64, status model.OrderStatus) error
	DeleteOrder(ctx context.Context, id int64) error
	ProductPrice(ctx context.Context, id int64) (float64, error)
	TotalPrice(ctx context.Context, id int64) (float64, error)
}

type SupplierAPI interface {
	ListSuppliers(ctx context.Context) ([]model.Supplier, error)
	CreateSupplier(ctx context.Context, in model.SupplierInput) error
	UpdateSupplier(ctx context.Context, id int64, in model.SupplierInput) error
	DeleteSupplier(ctx context.Context, id int64) error
}

type ReportAPI interface {
	GenerateReport(ctx context.Context, req model.ReportRequest) (*model.Report, error)
}

// API is everything the backend offers.
type API interface {
	AuthAPI
	ProductAPI
	OrderAPI
	SupplierAPI
	ReportAPI
}

var _ API = (*Client)(nil)
