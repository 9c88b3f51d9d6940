package model

import (
	"strconv"
	"strings"
)

type Supplier struct {
	SupplierID         int64     `json:"supplierId"`
	Name               string    `json:"name"`
	ContactInfo        string    `json:"contactInfo"`
	ProvidedProductIDs []int64   `json:"providedProductIds"`
	SuppliedProducts   []Product `json:"suppliedProducts"`
}

// SupplierInput is the create/update payload for /api/suppliers.
type SupplierInput struct {
	Name               string  `json:"name"`
	ContactInfo        string  `json:"contactInfo"`
	ProvidedProductIDs []int64 `json:"providedProductIds"`
}

// Input returns the editable fields of s.
func (s Supplier) Input() SupplierInput {
	return SupplierInput{
		Name:               s.Name,
		ContactInfo:        s.ContactInfo,
		ProvidedProductIDs: append([]int64(nil), s.ProvidedProductIDs...),
	}
}

// ParseProductIDs turns the free-text "1, 5, abc, 10" form field into
// product IDs. Non-numeric and non-positive entries are dropped, as are
// repeats. Whether the IDs exist is left to the backend.
func ParseProductIDs(text string) []int64 {
	ids := []int64{}
	seen := map[int64]bool{}
	for _, part := range strings.Split(text, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || id <= 0 || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// FormatProductIDs is the inverse of ParseProductIDs, used to pre-fill
// the edit form.
func FormatProductIDs(ids []int64) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	return strings.Join(parts, ", ")
}
