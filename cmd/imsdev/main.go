// Command imsdev serves an in-memory IMS backend for local use of the ims client.
//
// POST /auth/login, /auth/register; PUT /auth/profile      on IMS_DEV_AUTH_ADDR (:8091)
// /api/products, /api/orders, /api/suppliers, /api/reports on IMS_DEV_ADDR (:8080)
package main

import (
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"

	"ims-client/config"
	"ims-client/handler"
	"ims-client/model"
)

func main() {
	log.SetPrefix("[imsdev] ")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	backend := handler.NewBackend()
	if err := seed(backend); err != nil {
		log.Fatalf("seed: %v", err)
	}

	h := handler.NewHandler(backend, handler.NewTokens(cfg.DevJWTSecret), log.Default())
	r := mux.NewRouter()
	h.RegisterRoutes(r)

	var g errgroup.Group
	for _, addr := range uniq(cfg.DevAuthAddr, cfg.DevAPIAddr) {
		addr := addr
		g.Go(func() error {
			log.Printf("Server running on %s", addr)
			err := http.ListenAndServe(addr, r)
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func uniq(addrs ...string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, a := range addrs {
		if a != "" && !seen[a] {
			seen[a] = true
			out = append(out, a)
		}
	}
	return out
}

// seed adds a demo account (alice / password1) and a few records.
func seed(b *handler.Backend) error {
	if err := b.Register("alice", "alice@example.com", "password1"); err != nil {
		return err
	}
	bolt := b.CreateProduct(model.ProductInput{Name: "Steel Bolt", Price: 0.5, Description: "M8 zinc plated", ImageURL: "/img/bolt.png"})
	nut := b.CreateProduct(model.ProductInput{Name: "Hex Nut", Price: 0.2, Description: "M8", ImageURL: "/img/nut.png"})
	if _, err := b.CreateOrder(model.OrderInput{CustomerID: 1, ProductID: bolt.ID, Quantity: 12}); err != nil {
		return err
	}
	b.CreateSupplier(model.SupplierInput{Name: "Acme Fasteners", ContactInfo: "sales@acme.test", ProvidedProductIDs: []int64{bolt.ID, nut.ID}})
	log.Println("Seeded demo data ✔")
	return nil
}
