package model

// Stock is the inventory level attached to a product.
type Stock struct {
	Quantity int `json:"quantity"`
}

type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageUrl"`
	Stock       *Stock  `json:"stock,omitempty"`
}

// Quantity returns the stock level, or 0 when the backend sent none.
func (p Product) Quantity() int {
	if p.Stock == nil {
		return 0
	}
	return p.Stock.Quantity
}

// ProductInput is the create/update payload for /api/products.
type ProductInput struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageUrl"`
}

// Input returns the editable fields of p, used to pre-fill an update.
func (p Product) Input() ProductInput {
	return ProductInput{
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
		ImageURL:    p.ImageURL,
	}
}
