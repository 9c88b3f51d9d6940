package service

import (
	"context"
	"log"
	"strings"

	"ims-client/client"
	"ims-client/model"
)

// ProductView is the products screen.
type ProductView struct {
	*listView[model.Product]
	api client.ProductAPI
}

func NewProductView(api client.ProductAPI, sessions Sessions, logger *log.Logger) *ProductView {
	return &ProductView{
		listView: newListView("products", sessions, logger, api.ListProducts, MatchProduct),
		api:      api,
	}
}

func validateProduct(in model.ProductInput) *ValidationError {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return invalid("name", "Product name is required.")
	case in.Price <= 0:
		return invalid("price", "Price must be greater than zero.")
	case strings.TrimSpace(in.ImageURL) == "":
		return invalid("imageUrl", "Please provide an image URL.")
	}
	return nil
}

// Create adds a product and reloads the list.
func (v *ProductView) Create(ctx context.Context, in model.ProductInput) error {
	if verr := validateProduct(in); verr != nil {
		return v.reject(verr)
	}
	return v.submit(ctx, mutation[model.Product]{
		call:    func(ctx context.Context) error { return v.api.CreateProduct(ctx, in) },
		okMsg:   "Product added successfully!",
		failMsg: "Failed to add product.",
	})
}

// Update replaces the editable fields of product id and reloads the list.
func (v *ProductView) Update(ctx context.Context, id int64, in model.ProductInput) error {
	if verr := validateProduct(in); verr != nil {
		return v.reject(verr)
	}
	return v.submit(ctx, mutation[model.Product]{
		call:    func(ctx context.Context) error { return v.api.UpdateProduct(ctx, id, in) },
		okMsg:   "Product updated successfully!",
		failMsg: "Failed to update product.",
	})
}

// Delete removes product id and drops it from the list without a reload.
func (v *ProductView) Delete(ctx context.Context, id int64) error {
	return v.submit(ctx, mutation[model.Product]{
		call:    func(ctx context.Context) error { return v.api.DeleteProduct(ctx, id) },
		okMsg:   "Product deleted successfully!",
		failMsg: "Failed to delete product.",
		patch: func(items []model.Product) []model.Product {
			out := items[:0:0]
			for _, p := range items {
				if p.ID != id {
					out = append(out, p)
				}
			}
			return out
		},
	})
}

// EditForm returns the current fields of product id for editing.
func (v *ProductView) EditForm(id int64) (model.ProductInput, error) {
	p, ok := v.find(func(p model.Product) bool { return p.ID == id })
	if !ok {
		return model.ProductInput{}, ErrUnknownItem
	}
	return p.Input(), nil
}
