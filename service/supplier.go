package service

import (
	"context"
	"log"
	"strings"

	"ims-client/client"
	"ims-client/model"
)

// SupplierForm is the supplier editor. ProductIDs is the free-text
// comma-separated list the user types.
type SupplierForm struct {
	Name        string
	ContactInfo string
	ProductIDs  string
}

// Input converts the form into the request payload.
func (f SupplierForm) Input() model.SupplierInput {
	return model.SupplierInput{
		Name:               strings.TrimSpace(f.Name),
		ContactInfo:        strings.TrimSpace(f.ContactInfo),
		ProvidedProductIDs: model.ParseProductIDs(f.ProductIDs),
	}
}

// SupplierView is the suppliers screen. Every write is followed by a
// reload, so supplied product details always come from the backend.
type SupplierView struct {
	*listView[model.Supplier]
	api client.SupplierAPI
}

func NewSupplierView(api client.SupplierAPI, sessions Sessions, logger *log.Logger) *SupplierView {
	return &SupplierView{
		listView: newListView("suppliers", sessions, logger, api.ListSuppliers, MatchSupplier),
		api:      api,
	}
}

func validateSupplier(in model.SupplierInput) *ValidationError {
	if in.Name == "" {
		return invalid("name", "Supplier name is required.")
	}
	return nil
}

func (v *SupplierView) Create(ctx context.Context, f SupplierForm) error {
	in := f.Input()
	if verr := validateSupplier(in); verr != nil {
		return v.reject(verr)
	}
	return v.submit(ctx, mutation[model.Supplier]{
		call:    func(ctx context.Context) error { return v.api.CreateSupplier(ctx, in) },
		okMsg:   "Supplier added successfully!",
		failMsg: "Failed to save supplier.",
	})
}

func (v *SupplierView) Update(ctx context.Context, id int64, f SupplierForm) error {
	in := f.Input()
	if verr := validateSupplier(in); verr != nil {
		return v.reject(verr)
	}
	return v.submit(ctx, mutation[model.Supplier]{
		call:    func(ctx context.Context) error { return v.api.UpdateSupplier(ctx, id, in) },
		okMsg:   "Supplier updated successfully!",
		failMsg: "Failed to save supplier.",
	})
}

func (v *SupplierView) Delete(ctx context.Context, id int64) error {
	return v.submit(ctx, mutation[model.Supplier]{
		call:    func(ctx context.Context) error { return v.api.DeleteSupplier(ctx, id) },
		okMsg:   "Supplier deleted successfully!",
		failMsg: "Failed to delete supplier.",
	})
}

// EditForm pre-fills the editor for supplier id.
func (v *SupplierView) EditForm(id int64) (SupplierForm, error) {
	s, ok := v.find(func(s model.Supplier) bool { return s.SupplierID == id })
	if !ok {
		return SupplierForm{}, ErrUnknownItem
	}
	return SupplierForm{
		Name:        s.Name,
		ContactInfo: s.ContactInfo,
		ProductIDs:  model.FormatProductIDs(s.ProvidedProductIDs),
	}, nil
}
