// import_lots carga lotes desde un CSV heredado (separado por ';', típicamente ISO-8859-1).
// Crea el producto si la referencia no existe y registra cada lote como recepción.
//
// Uso: go run ./cmd/import_lots -file lotes.csv [-utf8] [-sep ,] [-dry-run]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/Inventario-lotes/internal/application/inventory"
	"github.com/jhoicas/Inventario-lotes/internal/application/usecase"
	"github.com/jhoicas/Inventario-lotes/internal/infrastructure/postgres"
	"github.com/jhoicas/Inventario-lotes/pkg/config"
	"github.com/jhoicas/Inventario-lotes/pkg/logger"
)

const importUser = "import_lots"

func main() {
	file := flag.String("file", "lotes.csv", "ruta del CSV")
	utf8 := flag.Bool("utf8", false, "el archivo ya está en UTF-8 (por defecto ISO-8859-1)")
	sep := flag.String("sep", ";", "separador de columnas")
	dryRun := flag.Bool("dry-run", false, "solo validar el archivo")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, App: "import_lots"})

	f, err := os.Open(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("abrir CSV")
	}
	defer f.Close()

	if len(*sep) != 1 {
		log.Fatal().Str("sep", *sep).Msg("el separador debe ser un carácter")
	}
	rows, rejected, err := parseLots(newReader(f, !*utf8), rune((*sep)[0]))
	if err != nil {
		log.Fatal().Err(err).Msg("leer CSV")
	}
	for _, e := range rejected {
		log.Warn().Err(e).Msg("fila rechazada")
	}
	log.Info().Int("validas", len(rows)).Int("rechazadas", len(rejected)).Msg("archivo leído")
	if *dryRun {
		return
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	imp := &importer{
		products: usecase.NewProductUseCase(postgres.NewProductRepository(pool), postgres.NewStockSlotRepository(pool)),
		receive:  inventory.NewReceiveLotUseCase(postgres.NewTxRunner(pool), nil, log.Component("reception")),
	}
	created, received, err := imp.run(ctx, rows)
	if err != nil {
		log.Fatal().Err(err).Int("lotes", received).Msg("importación interrumpida")
	}
	log.Info().Int("productos_creados", created).Int("lotes", received).Msg("importación terminada")
}

// importer aplica las filas en orden; se detiene en el primer error de persistencia.
type importer struct {
	products *usecase.ProductUseCase
	receive  *inventory.ReceiveLotUseCase
}

func (imp *importer) run(ctx context.Context, rows []lotRow) (created, received int, err error) {
	ids := make(map[string]string)
	for _, r := range rows {
		id, ok := ids[r.Reference]
		if !ok {
			p, err := imp.products.GetByReference(ctx, r.Reference)
			if err != nil {
				return created, received, fmt.Errorf("línea %d: %w", r.Line, err)
			}
			if p == nil {
				p, err = imp.products.Create(ctx, usecase.CreateProductInput{
					Reference:   r.Reference,
					Name:        r.Name,
					MeasureUnit: r.MeasureUnit,
					UnitPrice:   r.UnitPrice,
				})
				if err != nil {
					return created, received, fmt.Errorf("línea %d: crear producto: %w", r.Line, err)
				}
				created++
			}
			id = p.ID
			ids[r.Reference] = id
		}
		_, err := imp.receive.Receive(ctx, inventory.ReceiveLotInput{
			ProductID: id,
			Quantity:  r.Quantity,
			UnitPrice: r.UnitPrice,
			EntryDate: r.EntryDate,
			LotNumber: r.LotNumber,
			Reference: fmt.Sprintf("IMPORT-L%d", r.Line),
			UserID:    importUser,
		})
		if err != nil {
			return created, received, fmt.Errorf("línea %d: recibir lote: %w", r.Line, err)
		}
		received++
	}
	return created, received, nil
}
