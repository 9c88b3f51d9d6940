package service

import (
	"strings"

	"ims-client/model"
)

// Filter returns the items for which match reports true against the
// lower-cased query. The query is matched as typed, surrounding spaces
// included; only an empty query keeps everything.
func Filter[T any](items []T, query string, match func(T, string) bool) []T {
	if query == "" || match == nil {
		return append([]T(nil), items...)
	}
	q := strings.ToLower(query)
	out := make([]T, 0, len(items))
	for _, it := range items {
		if match(it, q) {
			out = append(out, it)
		}
	}
	return out
}

func contains(field, q string) bool {
	return strings.Contains(strings.ToLower(field), q)
}

// MatchProduct searches name and description.
func MatchProduct(p model.Product, q string) bool {
	return contains(p.Name, q) || contains(p.Description, q)
}

// MatchOrder searches status and product name.
func MatchOrder(o model.Order, q string) bool {
	return contains(string(o.Status), q) || contains(o.ProductName, q)
}

// MatchSupplier searches the supplier name and the names of the products
// it supplies.
func MatchSupplier(s model.Supplier, q string) bool {
	if contains(s.Name, q) {
		return true
	}
	for _, p := range s.SuppliedProducts {
		if contains(p.Name, q) {
			return true
		}
	}
	return false
}
