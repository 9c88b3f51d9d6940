package model

import (
	"encoding/json"
	"fmt"
)

// ReportType selects which aggregate the backend computes.
type ReportType string

const (
	ReportInventory ReportType = "inventory"
	ReportOrder     ReportType = "order"
	ReportSupplier  ReportType = "supplier"
)

// ReportTypes lists the report types the backend accepts.
var ReportTypes = []ReportType{ReportInventory, ReportOrder, ReportSupplier}

// Valid reports whether t is a known report type.
func (t ReportType) Valid() bool {
	for _, k := range ReportTypes {
		if t == k {
			return true
		}
	}
	return false
}

// ReportRequest is the body of POST /api/reports/generate
type ReportRequest struct {
	ReportType ReportType        `json:"reportType"`
	StartDate  string            `json:"startDate"`
	EndDate    string            `json:"endDate"`
	Parameters map[string]string `json:"parameters,omitempty"`
}

type InventoryRow struct {
	ProductID    int64  `json:"productId"`
	ProductName  string `json:"productName"`
	InitialStock int    `json:"initialStock"`
	StockAdded   int    `json:"stockAdded"`
	StockRemoved int    `json:"stockRemoved"`
	FinalStock   int    `json:"finalStock"`
	ReorderLevel int    `json:"reorderLevel"`
	IsLowStock   bool   `json:"isLowStock"`
}

type TopProduct struct {
	ProductName string `json:"productName"`
	UnitsSold   int    `json:"unitsSold"`
}

type OrderSummary struct {
	TotalOrders        int          `json:"totalOrders"`
	PendingOrders      int          `json:"pendingOrders"`
	ShippedOrders      int          `json:"shippedOrders"`
	DeliveredOrders    int          `json:"deliveredOrders"`
	TotalRevenue       float64      `json:"totalRevenue"`
	TopSellingProducts []TopProduct `json:"topSellingProducts"`
}

type SupplierRow struct {
	SupplierID            int64  `json:"supplierId"`
	SupplierName          string `json:"supplierName"`
	ProductsSupplied      int    `json:"productsSupplied"`
	TotalQuantitySupplied int    `json:"totalQuantitySupplied"`
}

// Report holds a decoded report. Exactly one of Inventory, Orders or
// Suppliers is set, matching Type. Raw keeps the response body untouched.
type Report struct {
	Type      ReportType
	Inventory []InventoryRow
	Orders    *OrderSummary
	Suppliers []SupplierRow
	Raw       json.RawMessage
}

// Empty reports whether a row-based report came back without rows.
func (r *Report) Empty() bool {
	switch r.Type {
	case ReportInventory:
		return len(r.Inventory) == 0
	case ReportSupplier:
		return len(r.Suppliers) == 0
	default:
		return r.Orders == nil
	}
}

// DecodeReport decodes raw according to t.
func DecodeReport(t ReportType, raw []byte) (*Report, error) {
	r := &Report{Type: t, Raw: json.RawMessage(raw)}
	var err error
	switch t {
	case ReportInventory:
		err = json.Unmarshal(raw, &r.Inventory)
	case ReportOrder:
		r.Orders = &OrderSummary{}
		err = json.Unmarshal(raw, r.Orders)
	case ReportSupplier:
		err = json.Unmarshal(raw, &r.Suppliers)
	default:
		return nil, fmt.Errorf("unknown report type %q", t)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s report: %w", t, err)
	}
	return r, nil
}
