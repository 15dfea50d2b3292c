// Package seed datos de demostración compartidos por el almacén en memoria y cmd/seed.
package seed

import (
	"fmt"
	"time"

	"github.com/jhoicas/returns-api/internal/domain/entity"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// Dataset catálogo, compras, ventas y usuarios de ejemplo.
type Dataset struct {
	Products  []entity.Product
	Purchases []entity.PurchaseLine
	Sales     []entity.SaleRecord
	Users     []entity.User
}

// Demo arma el dataset con un usuario por rol (admin@local, bodega@local, caja@local)
// que comparten la contraseña indicada.
func Demo(password string) (Dataset, error) {
	if password == "" {
		return Dataset{}, fmt.Errorf("seed: contraseña vacía")
	}
	now := time.Now().UTC()

	d := Dataset{}
	d.Products = []entity.Product{
		{ID: "prod-arroz", SKU: "ARZ-01", Name: "Arroz Diana 500g", Price: decimal.RequireFromString("3200"), UnitMeasure: "und"},
		{ID: "prod-cafe", SKU: "CAF-01", Name: "Café molido 250g", Price: decimal.RequireFromString("9800"), UnitMeasure: "und"},
		{ID: "prod-azucar", SKU: "AZU-01", Name: "Azúcar a granel", Price: decimal.RequireFromString("4100"), UnitMeasure: "kg"},
		{ID: "prod-aceite", SKU: "ACE-01", Name: "Aceite vegetal 1L", Price: decimal.RequireFromString("11500"), UnitMeasure: "und"},
	}
	for i := range d.Products {
		d.Products[i].CreatedAt, d.Products[i].UpdatedAt = now, now
	}

	d.Purchases = append(d.Purchases, entity.PurchaseLine{
		ID: "pur-0001", ProductID: "prod-azucar", ProductName: "Azúcar a granel",
		Quantity: decimal.NewFromInt(100), Unit: "kg", RatePerUnit: decimal.NewFromInt(3000),
		SupplierID: "sup-ingenio", TotalAmount: decimal.NewFromInt(300000), PurchasedAt: now.AddDate(0, 0, -3),
	})
	d.Purchases = append(d.Purchases, entity.PurchaseLine{
		ID: "pur-0002", ProductID: "prod-cafe", ProductName: "Café molido 250g",
		Quantity: decimal.NewFromInt(48), Unit: "und", RatePerUnit: decimal.NewFromInt(7200),
		SupplierID: "sup-tostadora", TotalAmount: decimal.NewFromInt(345600), PurchasedAt: now.AddDate(0, 0, -2),
	})

	d.Sales = append(d.Sales, entity.SaleRecord{
		SaleID: "sale-0001", SaleDate: now.Format("2006-01-02"), SaleTime: now.Format("15:04:05"),
		Subtotal: decimal.NewFromInt(28150), Discount: decimal.Zero, Tax: decimal.Zero,
		GrandTotal: decimal.NewFromInt(28150), PaymentMethod: entity.PaymentMethodCash, SoldBy: "caja@local",
		AmountReceived: decimal.NewFromInt(30000), ChangeDue: decimal.NewFromInt(1850),
		Items: []entity.SaleItem{
			{ProductID: "prod-arroz", ProductName: "Arroz Diana 500g", Quantity: decimal.NewFromInt(2), Unit: "und", UnitPrice: decimal.NewFromInt(3200), LineTotal: decimal.NewFromInt(6400)},
			{ProductID: "prod-aceite", ProductName: "Aceite vegetal 1L", Quantity: decimal.NewFromInt(1), Unit: "und", UnitPrice: decimal.NewFromInt(11500), LineTotal: decimal.NewFromInt(11500)},
			{ProductID: "prod-azucar", ProductName: "Azúcar a granel", Quantity: decimal.RequireFromString("2.5"), Unit: "kg", UnitPrice: decimal.NewFromInt(4100), LineTotal: decimal.NewFromInt(10250)},
		},
		CreatedAt: now,
	})

	seedUsers := []struct{ email, name, role string }{
		{"admin@local", "Administrador", entity.RoleAdmin},
		{"bodega@local", "Bodeguero", entity.RoleBodeguero},
		{"caja@local", "Cajero", entity.RoleVendedor},
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Dataset{}, fmt.Errorf("seed usuarios: %w", err)
	}
	for i, u := range seedUsers {
		d.Users = append(d.Users, entity.User{
			ID:           fmt.Sprintf("user-%d", i+1),
			Email:        u.email,
			PasswordHash: string(hash),
			Name:         u.name,
			Role:         u.role,
			Status:       "active",
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}
	return d, nil
}
