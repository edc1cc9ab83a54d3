package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Inventario-lotes/internal/domain/entity"
)

// lotRow una línea del archivo heredado:
// referencia;nombre;cantidad;costo_unitario;fecha_entrada;lote[;unidad]
type lotRow struct {
	Line        int
	Reference   string
	Name        string
	LotNumber   string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	EntryDate   time.Time
	MeasureUnit string
}

const minColumns = 6

// entryDateLayouts formatos aceptados para la fecha de entrada.
var entryDateLayouts = []string{"2006-01-02", "02/01/2006", time.RFC3339}

// newReader decodifica ISO-8859-1 si latin1 es true (exportaciones de hojas de cálculo antiguas).
func newReader(r io.Reader, latin1 bool) io.Reader {
	if latin1 {
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	return r
}

// parseLots lee todas las filas. La primera fila se descarta si es encabezado.
// Devuelve las filas válidas y un error por cada fila rechazada.
func parseLots(r io.Reader, sep rune) ([]lotRow, []error, error) {
	cr := csv.NewReader(r)
	cr.Comma = sep
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var rows []lotRow
	var rejected []error
	line := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, nil, fmt.Errorf("línea %d: %w", line, err)
		}
		if line == 1 && isHeader(rec) {
			continue
		}
		row, err := parseRow(line, rec)
		if err != nil {
			rejected = append(rejected, err)
			continue
		}
		rows = append(rows, row)
	}
	return rows, rejected, nil
}

func isHeader(rec []string) bool {
	if len(rec) == 0 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(rec[0]))
	return first == "referencia" || first == "reference"
}

func parseRow(line int, rec []string) (lotRow, error) {
	if len(rec) < minColumns {
		return lotRow{}, fmt.Errorf("línea %d: se esperaban %d columnas, hay %d", line, minColumns, len(rec))
	}
	row := lotRow{
		Line:        line,
		Reference:   strings.TrimSpace(rec[0]),
		Name:        strings.TrimSpace(rec[1]),
		LotNumber:   strings.TrimSpace(rec[5]),
		MeasureUnit: "UND",
	}
	if row.Reference == "" {
		return lotRow{}, fmt.Errorf("línea %d: referencia vacía", line)
	}
	if row.Name == "" {
		row.Name = row.Reference
	}
	var err error
	if row.Quantity, err = parseDecimal(rec[2]); err != nil || !row.Quantity.IsPositive() || !entity.FitsScale(row.Quantity) {
		return lotRow{}, fmt.Errorf("línea %d: cantidad inválida %q", line, rec[2])
	}
	if row.UnitPrice, err = parseDecimal(rec[3]); err != nil || row.UnitPrice.IsNegative() || !entity.FitsScale(row.UnitPrice) {
		return lotRow{}, fmt.Errorf("línea %d: costo inválido %q", line, rec[3])
	}
	if row.EntryDate, err = parseDate(rec[4]); err != nil {
		return lotRow{}, fmt.Errorf("línea %d: fecha inválida %q", line, rec[4])
	}
	if len(rec) > minColumns && strings.TrimSpace(rec[6]) != "" {
		row.MeasureUnit = strings.TrimSpace(rec[6])
	}
	return row, nil
}

// parseDecimal acepta coma decimal ("12,5") además de punto.
func parseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	}
	return decimal.NewFromString(s)
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range entryDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("formato de fecha no soportado")
}
