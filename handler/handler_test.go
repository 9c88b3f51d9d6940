package handler

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ims-client/client"
	"ims-client/model"
	"ims-client/service"
	"ims-client/session"
	"ims-client/store"
)

var quiet = log.New(io.Discard, "", 0)

type harness struct {
	srv      *httptest.Server
	backend  *Backend
	sessions *session.Store
	api      *client.Client
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	b := NewBackend()
	b.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }
	r := mux.NewRouter()
	NewHandler(b, NewTokens("test-secret"), quiet).RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	sessions := session.New(store.NewMemoryStore(), quiet)
	api := client.New(client.Options{AuthURL: srv.URL, APIURL: srv.URL, Logger: quiet}, sessions)
	return &harness{srv: srv, backend: b, sessions: sessions, api: api}
}

func (h *harness) login(t *testing.T) {
	t.Helper()
	require.NoError(t, h.backend.Register("alice", "alice@example.com", "password1"))
	auth := service.NewAuthView(h.api, h.sessions, "", quiet)
	out, err := auth.Login(context.Background(), "alice", "password1")
	require.NoError(t, err)
	require.Equal(t, service.RouteHome, out.Redirect.To)
}

func TestAPIRequiresBearerToken(t *testing.T) {
	h := newHarness(t)

	res, err := http.Get(h.srv.URL + "/api/products")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	req, _ := http.NewRequest(http.MethodGet, h.srv.URL+"/api/products", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	res, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestRegisterAndLoginThroughClient(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	msg, err := h.api.Register(ctx, model.RegisterRequest{Username: "bob", EmailID: "bob@x.io", Password: "Passw0rd!"})
	require.NoError(t, err)
	assert.Equal(t, "User registered successfully", msg)

	_, err = h.api.Register(ctx, model.RegisterRequest{Username: "bob", Password: "Passw0rd!"})
	require.Error(t, err)
	assert.Equal(t, "username already exists", client.Message(err, ""))

	_, err = h.api.Login(ctx, model.LoginRequest{Username: "bob", Password: "wrong-pass"})
	require.True(t, client.IsAuthError(err))

	resp, err := h.api.Login(ctx, model.LoginRequest{Username: "bob", Password: "Passw0rd!"})
	require.NoError(t, err)
	assert.Equal(t, "bob@x.io", resp.Email)

	claims, err := NewTokens("test-secret").Parse(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "bob", claims.Username)
	assert.NotEmpty(t, claims.ID)
}

func TestProfileUpdateChecksCurrentPassword(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	ctx := context.Background()

	_, err := h.api.UpdateProfile(ctx, model.ProfileUpdate{Username: "alice", Email: "a@x.io", CurrentPassword: "nope", NewPassword: "newpassword"})
	require.Error(t, err)

	msg, err := h.api.UpdateProfile(ctx, model.ProfileUpdate{Username: "alicia", Email: "a@x.io", CurrentPassword: "password1", NewPassword: "newpassword"})
	require.NoError(t, err)
	assert.Equal(t, "Profile updated successfully!", msg)

	_, err = h.backend.Authenticate("alicia", "newpassword")
	require.NoError(t, err)
}

func TestOrderFlowAndReports(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	ctx := context.Background()

	products := service.NewProductView(h.api, h.sessions, quiet)
	require.NoError(t, products.Mount(ctx))
	require.NoError(t, products.Create(ctx, model.ProductInput{Name: "Bolt", Price: 2.5, ImageURL: "bolt.png"}))
	require.Len(t, products.Items(), 1)
	bolt := products.Items()[0]
	assert.Equal(t, DefaultStock, bolt.Quantity())

	orders := service.NewOrderView(h.api, h.sessions, quiet, 2)
	require.NoError(t, orders.Mount(ctx))
	require.NoError(t, orders.Create(ctx, model.OrderInput{CustomerID: 1, ProductID: bolt.ID, Quantity: 4, OrderDate: "2026-03-10"}))
	require.Len(t, orders.Items(), 1)
	o := orders.Items()[0]
	assert.Equal(t, "Bolt", o.ProductName)
	assert.Equal(t, "$2.50", model.FormatMoney(o.ProductPrice))
	assert.Equal(t, "$10.00", model.FormatMoney(o.TotalPrice))
	assert.False(t, orders.Defaulted(o.OrderID))

	suppliers := service.NewSupplierView(h.api, h.sessions, quiet)
	require.NoError(t, suppliers.Mount(ctx))
	require.NoError(t, suppliers.Create(ctx, service.SupplierForm{Name: "Acme", ProductIDs: "1, abc"}))
	require.Len(t, suppliers.Items(), 1)
	require.Len(t, suppliers.Items()[0].SuppliedProducts, 1)

	reports := service.NewReportView(h.api, h.sessions, quiet)
	require.NoError(t, reports.Mount())
	reports.SetRange("2026-03-01", "2026-03-31")

	reports.SetType(model.ReportOrder)
	r, err := reports.Generate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Orders.TotalOrders)
	assert.Equal(t, 1, r.Orders.PendingOrders)
	assert.Equal(t, 10.0, r.Orders.TotalRevenue)
	require.Len(t, r.Orders.TopSellingProducts, 1)

	reports.SetType(model.ReportInventory)
	r, err = reports.Generate(ctx)
	require.NoError(t, err)
	require.Len(t, r.Inventory, 1)
	assert.Equal(t, DefaultStock, r.Inventory[0].StockAdded)
	assert.Equal(t, 4, r.Inventory[0].StockRemoved)
	assert.Equal(t, DefaultStock-4, r.Inventory[0].FinalStock)

	reports.SetType(model.ReportSupplier)
	r, err = reports.Generate(ctx)
	require.NoError(t, err)
	require.Len(t, r.Suppliers, 1)
	assert.Equal(t, DefaultStock-4, r.Suppliers[0].TotalQuantitySupplied)

	require.NoError(t, orders.UpdateStatus(ctx, o.OrderID, model.StatusShipped))
	require.ErrorIs(t, orders.Cancel(ctx, o.OrderID), service.ErrNotPending)
}

func TestCancelRestocks(t *testing.T) {
	h := newHarness(t)
	p := h.backend.CreateProduct(model.ProductInput{Name: "Nut", Price: 1})
	o, err := h.backend.CreateOrder(model.OrderInput{ProductID: p.ID, Quantity: 30})
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, o.Status)

	require.NoError(t, h.backend.DeleteOrder(o.OrderID))
	assert.Equal(t, DefaultStock, h.backend.ListProducts()[0].Quantity())

	_, err = h.backend.CreateOrder(model.OrderInput{ProductID: p.ID, Quantity: DefaultStock + 1})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "insufficient stock"))
}

func TestReportRejectsUnknownType(t *testing.T) {
	h := newHarness(t)
	_, err := h.backend.Report(model.ReportRequest{ReportType: "weekly", StartDate: "2026-01-01", EndDate: "2026-01-02"})
	require.Error(t, err)
	_, err = h.backend.Report(model.ReportRequest{ReportType: model.ReportOrder, StartDate: "2026-02-01", EndDate: "2026-01-02"})
	require.Error(t, err)
}
