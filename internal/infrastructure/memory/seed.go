package memory

import (
	"github.com/jhoicas/returns-api/internal/infrastructure/seed"
)

// NewSeeded crea un almacén con el dataset de demostración. Pensado para STORE_DRIVER=memory.
func NewSeeded(password string) (*Store, error) {
	d, err := seed.Demo(password)
	if err != nil {
		return nil, err
	}
	s := New()
	for _, p := range d.Products {
		s.AddProduct(p)
	}
	for _, p := range d.Purchases {
		s.AddPurchase(p)
	}
	for _, sale := range d.Sales {
		s.AddSale(sale)
	}
	for _, u := range d.Users {
		s.AddUser(u)
	}
	return s, nil
}
