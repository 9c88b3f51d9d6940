// Package handler is an in-memory IMS backend served over HTTP, for local
// development and for tests of the client.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"ims-client/model"
)

// Handler is the HTTP layer that talks to Backend
type Handler struct {
	b      *Backend
	tokens *Tokens
	logger *log.Logger
}

// NewHandler returns a Handler instance
func NewHandler(b *Backend, tokens *Tokens, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{b: b, tokens: tokens, logger: logger}
}

// RegisterRoutes registers all routes on the provided router
func (h *Handler) RegisterRoutes(r *mux.Router) {
	// Auth
	r.HandleFunc("/auth/login", h.Login).Methods("POST")
	r.HandleFunc("/auth/register", h.Register).Methods("POST")
	r.Handle("/auth/profile", h.authenticated(h.UpdateProfile)).Methods("PUT")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(h.requireToken)

	// Products
	api.HandleFunc("/products", h.ListProducts).Methods("GET")
	api.HandleFunc("/products", h.CreateProduct).Methods("POST")
	api.HandleFunc("/products/{id:[0-9]+}", h.UpdateProduct).Methods("PUT")
	api.HandleFunc("/products/{id:[0-9]+}", h.DeleteProduct).Methods("DELETE")

	// Orders
	api.HandleFunc("/orders", h.ListOrders).Methods("GET")
	api.HandleFunc("/orders", h.CreateOrder).Methods("POST")
	api.HandleFunc("/orders/{id:[0-9]+}/status", h.UpdateOrderStatus).Methods("PUT")
	api.HandleFunc("/orders/{id:[0-9]+}", h.DeleteOrder).Methods("DELETE")
	api.HandleFunc("/orders/{id:[0-9]+}/product-price", h.ProductPrice).Methods("GET")
	api.HandleFunc("/orders/{id:[0-9]+}/total-price", h.TotalPrice).Methods("GET")

	// Suppliers
	api.HandleFunc("/suppliers", h.ListSuppliers).Methods("GET")
	api.HandleFunc("/suppliers", h.CreateSupplier).Methods("POST")
	api.HandleFunc("/suppliers/{id:[0-9]+}", h.UpdateSupplier).Methods("PUT")
	api.HandleFunc("/suppliers/{id:[0-9]+}", h.DeleteSupplier).Methods("DELETE")

	// Reports
	api.HandleFunc("/reports/generate", h.GenerateReport).Methods("POST")
}

// --- helpers ---
func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// writeBackendErr maps a Backend error to a status code.
func writeBackendErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeErr(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrUserExists):
		writeErr(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrWrongPassword):
		writeErr(w, http.StatusUnauthorized, err.Error())
	default:
		writeErr(w, http.StatusBadRequest, err.Error())
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

type ctxKey struct{}

// userID returns the account ID stored by requireToken.
func userID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// requireToken rejects requests without a valid bearer token.
func (h *Handler) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			writeErr(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		claims, err := h.tokens.Parse(raw)
		if err != nil {
			writeErr(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, claims.Subject)))
	})
}

func (h *Handler) authenticated(fn http.HandlerFunc) http.Handler {
	return h.requireToken(fn)
}

// --- Auth ---

// Login handles POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	u, err := h.b.Authenticate(req.Username, req.Password)
	if err != nil {
		writeBackendErr(w, err)
		return
	}
	token, err := h.tokens.Issue(u)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, model.LoginResponse{Token: token, Username: u.Username, Email: u.Email})
}

// Register handles POST /auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.b.Register(req.Username, req.EmailID, req.Password); err != nil {
		writeBackendErr(w, err)
		return
	}
	h.logger.Printf("dev backend: registered %q", req.Username)
	writeJSON(w, http.StatusCreated, "User registered successfully")
}

// UpdateProfile handles PUT /auth/profile
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req model.ProfileUpdate
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.b.UpdateProfile(userID(r.Context()), req); err != nil {
		writeBackendErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "Profile updated successfully!")
}

// --- Products ---

// ListProducts handles GET /api/products
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.b.ListProducts())
}

func validProduct(w http.ResponseWriter, in model.ProductInput) bool {
	if in.Name == "" {
		writeErr(w, http.StatusBadRequest, "name is required")
		return false
	}
	if in.Price < 0 {
		writeErr(w, http.StatusBadRequest, "price must be >= 0")
		return false
	}
	return true
}

// CreateProduct handles POST /api/products
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req model.ProductInput
	if !decodeBody(w, r, &req) || !validProduct(w, req) {
		return
	}
	writeJSON(w, http.StatusCreated, h.b.CreateProduct(req))
}

// UpdateProduct handles PUT /api/products/{id}
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req model.ProductInput
	if !decodeBody(w, r, &req) || !validProduct(w, req) {
		return
	}
	if err := h.b.UpdateProduct(pathID(r), req); err != nil {
		writeBackendErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// DeleteProduct handles DELETE /api/products/{id}
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.b.DeleteProduct(pathID(r)); err != nil {
		writeBackendErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Orders ---

// ListOrders handles GET /api/orders
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.b.ListOrders())
}

// CreateOrder handles POST /api/orders
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req model.OrderInput
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Quantity <= 0 {
		writeErr(w, http.StatusBadRequest, "quantity must be > 0")
		return
	}
	if req.Status != "" && !req.Status.Known() {
		writeErr(w, http.StatusBadRequest, "unknown status")
		return
	}
	o, err := h.b.CreateOrder(req)
	if err != nil {
		writeBackendErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

// UpdateOrderStatus handles PUT /api/orders/{id}/status
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req model.StatusUpdate
	if !decodeBody(w, r, &req) {
		return
	}
	status, ok := model.ParseStatus(string(req.Status))
	if !ok {
		writeErr(w, http.StatusBadRequest, "unknown status")
		return
	}
	if err := h.b.UpdateOrderStatus(pathID(r), status); err != nil {
		writeBackendErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": string(status)})
}

// DeleteOrder handles DELETE /api/orders/{id}
func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.b.DeleteOrder(pathID(r)); err != nil {
		writeBackendErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ProductPrice handles GET /api/orders/{id}/product-price
func (h *Handler) ProductPrice(w http.ResponseWriter, r *http.Request) {
	unit, _, err := h.b.OrderPrices(pathID(r))
	if err != nil {
		writeBackendErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, unit)
}

// TotalPrice handles GET /api/orders/{id}/total-price
func (h *Handler) TotalPrice(w http.ResponseWriter, r *http.Request) {
	_, total, err := h.b.OrderPrices(pathID(r))
	if err != nil {
		writeBackendErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, total)
}

// --- Suppliers ---

// ListSuppliers handles GET /api/suppliers
func (h *Handler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.b.ListSuppliers())
}

// CreateSupplier handles POST /api/suppliers
func (h *Handler) CreateSupplier(w http.ResponseWriter, r *http.Request) {
	var req model.SupplierInput
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeErr(w, http.StatusBadRequest, "name is required")
		return
	}
	writeJSON(w, http.StatusCreated, h.b.CreateSupplier(req))
}

// UpdateSupplier handles PUT /api/suppliers/{id}
func (h *Handler) UpdateSupplier(w http.ResponseWriter, r *http.Request) {
	var req model.SupplierInput
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.b.UpdateSupplier(pathID(r), req); err != nil {
		writeBackendErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// DeleteSupplier handles DELETE /api/suppliers/{id}
func (h *Handler) DeleteSupplier(w http.ResponseWriter, r *http.Request) {
	if err := h.b.DeleteSupplier(pathID(r)); err != nil {
		writeBackendErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Reports ---

// GenerateReport handles POST /api/reports/generate
func (h *Handler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	var req model.ReportRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.StartDate == "" || req.EndDate == "" {
		writeErr(w, http.StatusBadRequest, "startDate and endDate are required")
		return
	}
	report, err := h.b.Report(req)
	if err != nil {
		writeBackendErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
