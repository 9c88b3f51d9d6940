package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"ims-client/model"
)

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func renderSession(w io.Writer, s *model.Session) {
	tw := table(w)
	fmt.Fprintf(tw, "Username:\t%s\n", s.Username)
	fmt.Fprintf(tw, "Email:\t%s\n", s.Email)
	fmt.Fprintf(tw, "Avatar:\t%s\n", s.ProfileImage)
	tw.Flush()
}

func renderProducts(w io.Writer, ps []model.Product) {
	if len(ps) == 0 {
		fmt.Fprintln(w, "No products found.")
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tSTOCK\tDESCRIPTION\tIMAGE")
	for _, p := range ps {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			formatID(p.ID), p.Name, model.FormatMoney(p.Price), p.Quantity(), p.Description, p.ImageURL)
	}
	tw.Flush()
}

// renderOrders marks rows whose prices could not be looked up with "*".
func renderOrders(w io.Writer, orders []model.Order, defaulted func(int64) bool) {
	if len(orders) == 0 {
		fmt.Fprintln(w, "No orders found.")
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "ID\tCUSTOMER\tPRODUCT\tQTY\tDATE\tSTATUS\tPRICE\tTOTAL")
	missing := false
	for _, o := range orders {
		mark := ""
		if defaulted(o.OrderID) {
			mark = "*"
			missing = true
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\t%s%s\t%s%s\n",
			formatID(o.OrderID), formatID(o.CustomerID), o.ProductName, o.Quantity, o.OrderDate, o.Status,
			model.FormatMoney(o.ProductPrice), mark, model.FormatMoney(o.TotalPrice), mark)
	}
	tw.Flush()
	if missing {
		fmt.Fprintln(w, "* price details unavailable")
	}
}

func renderSuppliers(w io.Writer, ss []model.Supplier) {
	if len(ss) == 0 {
		fmt.Fprintln(w, "No suppliers found.")
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "ID\tNAME\tCONTACT\tPRODUCT IDS\tPRODUCTS")
	for _, s := range ss {
		names := make([]string, 0, len(s.SuppliedProducts))
		for _, p := range s.SuppliedProducts {
			names = append(names, p.Name)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			formatID(s.SupplierID), s.Name, s.ContactInfo, model.FormatProductIDs(s.ProvidedProductIDs), strings.Join(names, ", "))
	}
	tw.Flush()
}

func renderReport(w io.Writer, r *model.Report) {
	if r.Empty() {
		fmt.Fprintln(w, "No data for the selected period.")
		return
	}
	tw := table(w)
	switch r.Type {
	case model.ReportInventory:
		fmt.Fprintln(tw, "ID\tPRODUCT\tINITIAL\tADDED\tREMOVED\tFINAL\tREORDER\tLOW")
		for _, row := range r.Inventory {
			low := ""
			if row.IsLowStock {
				low = "yes"
			}
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%d\t%s\n", formatID(row.ProductID), row.ProductName,
				row.InitialStock, row.StockAdded, row.StockRemoved, row.FinalStock, row.ReorderLevel, low)
		}
	case model.ReportOrder:
		o := r.Orders
		fmt.Fprintf(tw, "Total orders:\t%d\n", o.TotalOrders)
		fmt.Fprintf(tw, "Pending:\t%d\n", o.PendingOrders)
		fmt.Fprintf(tw, "Shipped:\t%d\n", o.ShippedOrders)
		fmt.Fprintf(tw, "Delivered:\t%d\n", o.DeliveredOrders)
		fmt.Fprintf(tw, "Revenue:\t%s\n", model.FormatMoney(o.TotalRevenue))
		if len(o.TopSellingProducts) > 0 {
			fmt.Fprintln(tw, "\nTOP PRODUCT\tUNITS")
			for _, p := range o.TopSellingProducts {
				fmt.Fprintf(tw, "%s\t%d\n", p.ProductName, p.UnitsSold)
			}
		}
	case model.ReportSupplier:
		fmt.Fprintln(tw, "ID\tSUPPLIER\tPRODUCTS\tQUANTITY")
		for _, row := range r.Suppliers {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", formatID(row.SupplierID), row.SupplierName,
				row.ProductsSupplied, row.TotalQuantitySupplied)
		}
	}
	tw.Flush()
}
