package handler

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"ims-client/model"
)

// topSellers caps the topSellingProducts list of the order report.
const topSellers = 5

// Report computes req over the dates startDate..endDate inclusive. Dates
// compare as strings since both sides use model.DateLayout.
func (b *Backend) Report(req model.ReportRequest) (interface{}, error) {
	if req.StartDate > req.EndDate {
		return nil, fmt.Errorf("start date cannot be after end date")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	switch req.ReportType {
	case model.ReportInventory:
		return b.inventoryReport(req.StartDate, req.EndDate), nil
	case model.ReportOrder:
		return b.orderReport(req.StartDate, req.EndDate), nil
	case model.ReportSupplier:
		return b.supplierReport(), nil
	}
	return nil, fmt.Errorf("invalid report type %q", req.ReportType)
}

func (b *Backend) inventoryReport(start, end string) []model.InventoryRow {
	rows := map[int64]*model.InventoryRow{}
	for id, p := range b.products {
		rows[id] = &model.InventoryRow{ProductID: id, ProductName: p.Name, ReorderLevel: ReorderLevel}
	}
	for _, ev := range b.history {
		r, ok := rows[ev.ProductID]
		if !ok || ev.Date > end {
			continue
		}
		switch {
		case ev.Date < start:
			r.InitialStock += ev.Delta
		case ev.Delta > 0:
			r.StockAdded += ev.Delta
		default:
			r.StockRemoved -= ev.Delta
		}
	}
	out := make([]model.InventoryRow, 0, len(rows))
	for _, r := range rows {
		r.FinalStock = r.InitialStock + r.StockAdded - r.StockRemoved
		r.IsLowStock = r.FinalStock < r.ReorderLevel
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

func (b *Backend) orderReport(start, end string) model.OrderSummary {
	sum := model.OrderSummary{TopSellingProducts: []model.TopProduct{}}
	revenue := decimal.Zero
	units := map[string]int{}
	for _, o := range b.orders {
		if o.OrderDate < start || o.OrderDate > end {
			continue
		}
		sum.TotalOrders++
		switch o.Status {
		case model.StatusPending:
			sum.PendingOrders++
		case model.StatusShipped:
			sum.ShippedOrders++
		case model.StatusCompleted:
			sum.DeliveredOrders++
		}
		name := o.ProductName
		if p, ok := b.products[o.ProductID]; ok {
			name = p.Name
			revenue = revenue.Add(decimal.NewFromFloat(p.Price).Mul(decimal.NewFromInt(int64(o.Quantity))))
		}
		units[name] += o.Quantity
	}
	sum.TotalRevenue, _ = revenue.Round(2).Float64()

	for name, n := range units {
		sum.TopSellingProducts = append(sum.TopSellingProducts, model.TopProduct{ProductName: name, UnitsSold: n})
	}
	sort.Slice(sum.TopSellingProducts, func(i, j int) bool {
		a, c := sum.TopSellingProducts[i], sum.TopSellingProducts[j]
		if a.UnitsSold != c.UnitsSold {
			return a.UnitsSold > c.UnitsSold
		}
		return a.ProductName < c.ProductName
	})
	if len(sum.TopSellingProducts) > topSellers {
		sum.TopSellingProducts = sum.TopSellingProducts[:topSellers]
	}
	return sum
}

func (b *Backend) supplierReport() []model.SupplierRow {
	out := make([]model.SupplierRow, 0, len(b.suppliers))
	for _, s := range b.suppliers {
		row := model.SupplierRow{SupplierID: s.SupplierID, SupplierName: s.Name}
		for _, p := range b.supplied(s.ProvidedProductIDs) {
			row.ProductsSupplied++
			row.TotalQuantitySupplied += p.Quantity()
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SupplierID < out[j].SupplierID })
	return out
}
