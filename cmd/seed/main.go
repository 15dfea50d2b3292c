// seed aplica las migraciones y carga en PostgreSQL el dataset de demostración
// (catálogo, compras, ventas y un usuario por rol).
//
// Uso: go run ./cmd/seed [catalogo.csv]
// El CSV opcional (exportado del POS anterior, Windows-1252, separador ';') agrega productos
// con columnas id;sku;nombre;precio;unidad.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/returns-api/internal/domain"
	"github.com/jhoicas/returns-api/internal/domain/entity"
	"github.com/jhoicas/returns-api/internal/infrastructure/postgres"
	"github.com/jhoicas/returns-api/internal/infrastructure/seed"
	"github.com/jhoicas/returns-api/pkg/config"
	"github.com/jhoicas/returns-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	var extra []entity.Product
	if len(os.Args) > 1 {
		extra, err = readCatalog(os.Args[1])
		if err != nil {
			log.Fatal().Err(err).Str("file", os.Args[1]).Msg("leer catálogo")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.Migrate(pool, log); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	data, err := seed.Demo(cfg.Store.SeedPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("dataset")
	}
	data.Products = append(data.Products, extra...)

	runner := postgres.NewTxRunner(pool)
	// Dentro de la tx un INSERT fallido aborta todo: se consulta antes de insertar.
	err = runner.RunSeed(ctx, func(purchases *postgres.PurchaseRepo, sales *postgres.SaleRepo, products *postgres.ProductRepo) error {
		for i := range data.Products {
			p, err := products.GetByID(ctx, data.Products[i].ID)
			if err != nil {
				return err
			}
			if p == nil {
				if err := products.Create(ctx, &data.Products[i]); err != nil {
					return err
				}
			}
		}
		for i := range data.Purchases {
			p, err := purchases.GetByID(ctx, data.Purchases[i].ID)
			if err != nil {
				return err
			}
			if p == nil {
				if err := purchases.Create(ctx, &data.Purchases[i]); err != nil {
					return err
				}
			}
		}
		for i := range data.Sales {
			s, err := sales.GetByID(ctx, data.Sales[i].SaleID)
			if err != nil {
				return err
			}
			if s == nil {
				if err := sales.Create(ctx, &data.Sales[i]); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal().Err(err).Msg("cargar dataset")
	}

	users := postgres.NewUserRepository(pool)
	for i := range data.Users {
		if err := skipExisting(users.Create(ctx, &data.Users[i])); err != nil {
			log.Fatal().Err(err).Str("email", data.Users[i].Email).Msg("crear usuario")
		}
	}

	log.Info().
		Int("products", len(data.Products)).
		Int("purchases", len(data.Purchases)).
		Int("sales", len(data.Sales)).
		Int("users", len(data.Users)).
		Msg("dataset cargado")
}

// skipExisting vuelve idempotente la carga de usuarios: un email ya registrado no es error.
func skipExisting(err error) error {
	if errors.Is(err, domain.ErrEmailAlreadyExists) {
		return nil
	}
	return err
}

func readCatalog(path string) ([]entity.Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(transform.NewReader(f, charmap.Windows1252.NewDecoder()))
	r.Comma = ';'
	r.FieldsPerRecord = 5
	r.TrimLeadingSpace = true

	now := time.Now().UTC()
	var out []entity.Product
	for line := 1; ; line++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		if line == 1 && strings.EqualFold(rec[0], "id") {
			continue
		}
		price, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(rec[3]), ",", "."))
		if err != nil {
			return nil, fmt.Errorf("línea %d: precio %q: %w", line, rec[3], err)
		}
		out = append(out, entity.Product{
			ID:          strings.TrimSpace(rec[0]),
			SKU:         strings.TrimSpace(rec[1]),
			Name:        strings.TrimSpace(rec[2]),
			Price:       price,
			UnitMeasure: strings.TrimSpace(rec[4]),
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	return out, nil
}
