package inventory

import (
	"time"

	"github.com/jhoicas/Inventario-lotes/internal/domain/entity"
)

// Field campo de un movimiento sobre el que se puede filtrar.
type Field string

const (
	FieldDate             Field = "date"
	FieldProductID        Field = "product_id"
	FieldProductReference Field = "product_reference" // join movimiento -> producto
	FieldType             Field = "type"
	FieldLotNumber        Field = "lot_number" // join movimiento -> lote
)

// Operator operador de comparación de una condición.
type Operator string

const (
	OpEq      Operator = "="
	OpGte     Operator = ">="
	OpLte     Operator = "<="
	OpBetween Operator = "BETWEEN" // inclusivo en ambos extremos
)

// Condition predicado atómico sobre un campo. Values tiene 2 elementos para BETWEEN, 1 en otro caso.
type Condition struct {
	Field  Field
	Op     Operator
	Values []any
}

// MovementCriteria criterios opcionales de búsqueda del historial de movimientos.
// Reference es el código de referencia del producto, no la referencia libre del movimiento.
type MovementCriteria struct {
	StartDate *time.Time
	EndDate   *time.Time
	ProductID *string
	Reference *string
	Type      *string
	LotNumber *string
}

// MovementFilter conjunción (AND) de condiciones. Sin condiciones coincide con todo.
type MovementFilter struct {
	Conditions []Condition
}

// IsEmpty indica que el filtro no restringe nada.
func (f MovementFilter) IsEmpty() bool {
	return len(f.Conditions) == 0
}

type clause func(MovementCriteria) (Condition, bool)

var movementClauses = []clause{
	dateClause,
	stringClause(FieldProductID, func(c MovementCriteria) *string { return c.ProductID }),
	stringClause(FieldProductReference, func(c MovementCriteria) *string { return c.Reference }),
	stringClause(FieldType, func(c MovementCriteria) *string { return c.Type }),
	stringClause(FieldLotNumber, func(c MovementCriteria) *string { return c.LotNumber }),
}

// BuildMovementFilter pliega la lista de cláusulas opcionales sobre un filtro vacío,
// agregando con AND solo las cláusulas cuyo parámetro está presente.
func BuildMovementFilter(c MovementCriteria) MovementFilter {
	f := MovementFilter{}
	for _, build := range movementClauses {
		if cond, ok := build(c); ok {
			f.Conditions = append(f.Conditions, cond)
		}
	}
	return f
}

func dateClause(c MovementCriteria) (Condition, bool) {
	switch {
	case c.StartDate != nil && c.EndDate != nil:
		return Condition{Field: FieldDate, Op: OpBetween, Values: []any{*c.StartDate, *c.EndDate}}, true
	case c.StartDate != nil:
		return Condition{Field: FieldDate, Op: OpGte, Values: []any{*c.StartDate}}, true
	case c.EndDate != nil:
		return Condition{Field: FieldDate, Op: OpLte, Values: []any{*c.EndDate}}, true
	}
	return Condition{}, false
}

func stringClause(field Field, get func(MovementCriteria) *string) clause {
	return func(c MovementCriteria) (Condition, bool) {
		v := get(c)
		if v == nil {
			return Condition{}, false
		}
		return Condition{Field: field, Op: OpEq, Values: []any{*v}}, true
	}
}

// Matches evalúa el filtro en memoria sobre un movimiento ya unido a producto y lote.
func (f MovementFilter) Matches(m *entity.MovementView) bool {
	for _, cond := range f.Conditions {
		if !cond.matches(m) {
			return false
		}
	}
	return true
}

func (c Condition) matches(m *entity.MovementView) bool {
	if c.Field == FieldDate {
		return c.matchesDate(m.Date)
	}
	var actual string
	switch c.Field {
	case FieldProductID:
		actual = m.ProductID
	case FieldProductReference:
		actual = m.ProductReference
	case FieldType:
		actual = m.Type
	case FieldLotNumber:
		actual = m.LotNumber
	default:
		return false
	}
	want, _ := c.Values[0].(string)
	return c.Op == OpEq && actual == want
}

func (c Condition) matchesDate(d time.Time) bool {
	first, _ := c.Values[0].(time.Time)
	switch c.Op {
	case OpBetween:
		last, _ := c.Values[1].(time.Time)
		return !d.Before(first) && !d.After(last)
	case OpGte:
		return !d.Before(first)
	case OpLte:
		return !d.After(first)
	case OpEq:
		return d.Equal(first)
	}
	return false
}
