package handler

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"ims-client/model"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserExists         = errors.New("username already exists")
	ErrWrongPassword      = errors.New("current password is incorrect")
)

const (
	// DefaultStock is the quantity a new product starts with.
	DefaultStock = 100
	// ReorderLevel marks an inventory row as low stock below it.
	ReorderLevel = 10
)

type user struct {
	ID       string
	Username string
	Email    string
	Hash     []byte
}

// stockEvent is one change to a product's stock level.
type stockEvent struct {
	ProductID int64
	Date      string
	Delta     int
}

// Backend is an in-memory IMS backend: accounts, products, orders and
// suppliers, with the stock history the inventory report needs.
type Backend struct {
	mu        sync.Mutex
	now       func() time.Time
	users     map[string]*user // by ID
	products  map[int64]*model.Product
	orders    map[int64]*model.Order
	suppliers map[int64]*model.Supplier
	history   []stockEvent
	nextID    int64
}

func NewBackend() *Backend {
	return &Backend{
		now:       time.Now,
		users:     map[string]*user{},
		products:  map[int64]*model.Product{},
		orders:    map[int64]*model.Order{},
		suppliers: map[int64]*model.Supplier{},
	}
}

func (b *Backend) id() int64 {
	b.nextID++
	return b.nextID
}

func (b *Backend) today() string { return b.now().Format(model.DateLayout) }

// --- accounts ---

func (b *Backend) userByName(name string) *user {
	for _, u := range b.users {
		if strings.EqualFold(u.Username, name) {
			return u
		}
	}
	return nil
}

// Register creates an account with a bcrypt-hashed password.
func (b *Backend) Register(username, email, password string) error {
	if username == "" || password == "" {
		return fmt.Errorf("username and password are required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.userByName(username) != nil {
		return ErrUserExists
	}
	id := uuid.NewString()
	b.users[id] = &user{ID: id, Username: username, Email: email, Hash: hash}
	return nil
}

// Authenticate returns the account for a username/password pair.
func (b *Backend) Authenticate(username, password string) (user, error) {
	b.mu.Lock()
	u := b.userByName(username)
	b.mu.Unlock()
	if u == nil {
		return user{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword(u.Hash, []byte(password)) != nil {
		return user{}, ErrInvalidCredentials
	}
	return *u, nil
}

// UpdateProfile changes username and email of account id and, when
// newPassword is set, its password after checking the current one.
func (b *Backend) UpdateProfile(id string, upd model.ProfileUpdate) error {
	b.mu.Lock()
	u, ok := b.users[id]
	if !ok {
		b.mu.Unlock()
		return ErrNotFound
	}
	if other := b.userByName(upd.Username); other != nil && other.ID != id {
		b.mu.Unlock()
		return ErrUserExists
	}
	hash := u.Hash
	b.mu.Unlock()

	var newHash []byte
	if upd.NewPassword != "" {
		if bcrypt.CompareHashAndPassword(hash, []byte(upd.CurrentPassword)) != nil {
			return ErrWrongPassword
		}
		h, err := bcrypt.GenerateFromPassword([]byte(upd.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		newHash = h
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if upd.Username != "" {
		u.Username = upd.Username
	}
	if upd.Email != "" {
		u.Email = upd.Email
	}
	if newHash != nil {
		u.Hash = newHash
	}
	return nil
}

// --- products ---

// snapshot copies p so it can be encoded after the lock is released.
func snapshot(p *model.Product) model.Product {
	cp := *p
	cp.Stock = &model.Stock{Quantity: p.Quantity()}
	return cp
}

func (b *Backend) ListProducts() []model.Product {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]model.Product, 0, len(b.products))
	for _, p := range b.products {
		out = append(out, snapshot(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (b *Backend) CreateProduct(in model.ProductInput) model.Product {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := &model.Product{
		ID:          b.id(),
		Name:        in.Name,
		Price:       in.Price,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		Stock:       &model.Stock{Quantity: DefaultStock},
	}
	b.products[p.ID] = p
	b.history = append(b.history, stockEvent{ProductID: p.ID, Date: b.today(), Delta: DefaultStock})
	return snapshot(p)
}

func (b *Backend) UpdateProduct(id int64, in model.ProductInput) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.products[id]
	if !ok {
		return ErrNotFound
	}
	p.Name, p.Price, p.Description, p.ImageURL = in.Name, in.Price, in.Description, in.ImageURL
	return nil
}

func (b *Backend) DeleteProduct(id int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.products[id]; !ok {
		return ErrNotFound
	}
	delete(b.products, id)
	return nil
}

// --- orders ---

func (b *Backend) ListOrders() []model.Order {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]model.Order, 0, len(b.orders))
	for _, o := range b.orders {
		cp := *o
		if p, ok := b.products[o.ProductID]; ok {
			cp.ProductName = p.Name
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderID < out[j].OrderID })
	return out
}

// CreateOrder places an order and takes its quantity out of stock.
func (b *Backend) CreateOrder(in model.OrderInput) (model.Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.products[in.ProductID]
	if !ok {
		return model.Order{}, fmt.Errorf("product %d: %w", in.ProductID, ErrNotFound)
	}
	if p.Quantity() < in.Quantity {
		return model.Order{}, fmt.Errorf("insufficient stock for %s", p.Name)
	}
	if in.OrderDate == "" {
		in.OrderDate = b.today()
	}
	if in.Status == "" {
		in.Status = model.StatusPending
	}
	o := &model.Order{
		OrderID:     b.id(),
		CustomerID:  in.CustomerID,
		ProductID:   in.ProductID,
		ProductName: p.Name,
		Quantity:    in.Quantity,
		OrderDate:   in.OrderDate,
		Status:      in.Status,
	}
	b.orders[o.OrderID] = o
	p.Stock.Quantity -= in.Quantity
	b.history = append(b.history, stockEvent{ProductID: p.ID, Date: in.OrderDate, Delta: -in.Quantity})
	return *o, nil
}

func (b *Backend) UpdateOrderStatus(id int64, status model.OrderStatus) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	o, ok := b.orders[id]
	if !ok {
		return ErrNotFound
	}
	o.Status = status
	return nil
}

// DeleteOrder removes an order and puts its quantity back in stock.
func (b *Backend) DeleteOrder(id int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	o, ok := b.orders[id]
	if !ok {
		return ErrNotFound
	}
	delete(b.orders, id)
	if p, ok := b.products[o.ProductID]; ok {
		p.Stock.Quantity += o.Quantity
		b.history = append(b.history, stockEvent{ProductID: p.ID, Date: b.today(), Delta: o.Quantity})
	}
	return nil
}

// OrderPrices returns the unit price and line total of order id.
func (b *Backend) OrderPrices(id int64) (unit, total float64, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	o, ok := b.orders[id]
	if !ok {
		return 0, 0, ErrNotFound
	}
	p, ok := b.products[o.ProductID]
	if !ok {
		return 0, 0, fmt.Errorf("product %d: %w", o.ProductID, ErrNotFound)
	}
	return p.Price, model.LineTotal(p.Price, o.Quantity), nil
}

// --- suppliers ---

func (b *Backend) supplied(ids []int64) []model.Product {
	out := []model.Product{}
	for _, id := range ids {
		if p, ok := b.products[id]; ok {
			out = append(out, snapshot(p))
		}
	}
	return out
}

func (b *Backend) ListSuppliers() []model.Supplier {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]model.Supplier, 0, len(b.suppliers))
	for _, s := range b.suppliers {
		cp := *s
		cp.ProvidedProductIDs = append([]int64{}, s.ProvidedProductIDs...)
		cp.SuppliedProducts = b.supplied(s.ProvidedProductIDs)
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SupplierID < out[j].SupplierID })
	return out
}

func (b *Backend) CreateSupplier(in model.SupplierInput) model.Supplier {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := &model.Supplier{
		SupplierID:         b.id(),
		Name:               in.Name,
		ContactInfo:        in.ContactInfo,
		ProvidedProductIDs: append([]int64{}, in.ProvidedProductIDs...),
	}
	b.suppliers[s.SupplierID] = s
	return *s
}

func (b *Backend) UpdateSupplier(id int64, in model.SupplierInput) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.suppliers[id]
	if !ok {
		return ErrNotFound
	}
	s.Name, s.ContactInfo = in.Name, in.ContactInfo
	s.ProvidedProductIDs = append([]int64{}, in.ProvidedProductIDs...)
	return nil
}

func (b *Backend) DeleteSupplier(id int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.suppliers[id]; !ok {
		return ErrNotFound
	}
	delete(b.suppliers, id)
	return nil
}
