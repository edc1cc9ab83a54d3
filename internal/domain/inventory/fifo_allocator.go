package inventory

import (
	"sort"

	"github.com/jhoicas/Inventario-lotes/internal/domain"
	"github.com/jhoicas/Inventario-lotes/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// SlotTake cantidad que una línea del vale toma de un lote concreto.
type SlotTake struct {
	ItemID   string
	Slot     *entity.StockSlot // copia de trabajo, ya descontada
	Quantity decimal.Decimal
}

// AllocationPlan estructura de staging en memoria del motor FIFO (servicio de dominio).
// Acumula las mutaciones previstas (lotes, stock de productos, movimientos pendientes)
// sin tocar la persistencia; solo se vuelca si todas las líneas se asignan por completo.
type AllocationPlan struct {
	products   map[string]*entity.Product
	slots      map[string][]*entity.StockSlot // por producto, en orden FIFO
	touched    map[string]*entity.StockSlot
	touchOrder []string
	takes      []SlotTake
}

// NewAllocationPlan crea un plan vacío.
func NewAllocationPlan() *AllocationPlan {
	return &AllocationPlan{
		products: make(map[string]*entity.Product),
		slots:    make(map[string][]*entity.StockSlot),
		touched:  make(map[string]*entity.StockSlot),
	}
}

// AddProduct registra un producto y sus lotes disponibles. Se guardan copias de trabajo,
// de modo que las entidades originales no cambian aunque la asignación falle.
// Los lotes se reordenan en orden FIFO (fecha de entrada, luego ID) y los agotados se descartan.
func (p *AllocationPlan) AddProduct(product *entity.Product, slots []*entity.StockSlot) {
	prod := *product
	p.products[product.ID] = &prod

	working := make([]*entity.StockSlot, 0, len(slots))
	for _, s := range slots {
		if s.ProductID != product.ID || !s.HasStock() {
			continue
		}
		cp := *s
		working = append(working, &cp)
	}
	sort.SliceStable(working, func(i, j int) bool { return working[i].Before(working[j]) })
	p.slots[product.ID] = working
}

// HasProduct indica si el producto ya fue cargado en el plan.
func (p *AllocationPlan) HasProduct(productID string) bool {
	_, ok := p.products[productID]
	return ok
}

// Allocate asigna la línea recorriendo los lotes del producto del más antiguo al más reciente:
// take = min(restante, disponible). Se detiene al llegar exactamente a cero.
// Si los lotes no alcanzan devuelve *domain.InsufficientStockError; el plan queda inservible
// y debe descartarse.
func (p *AllocationPlan) Allocate(item entity.ExitSlipItem) error {
	if item.RequestedQuantity.IsNegative() {
		return domain.ErrInvalidInput
	}
	if item.RequestedQuantity.IsZero() {
		return nil
	}
	product, ok := p.products[item.ProductID]
	if !ok {
		return domain.ErrProductNotFound
	}

	available := decimal.Zero
	for _, s := range p.slots[item.ProductID] {
		available = available.Add(s.AvailableQuantity)
	}
	if available.LessThan(item.RequestedQuantity) {
		return &domain.InsufficientStockError{
			ProductID: product.ID,
			Reference: product.Reference,
			Requested: item.RequestedQuantity,
			Available: available,
		}
	}

	remaining := item.RequestedQuantity
	for _, s := range p.slots[item.ProductID] {
		if remaining.IsZero() {
			break
		}
		taken := s.Take(remaining)
		if taken.IsZero() {
			continue
		}
		remaining = remaining.Sub(taken)
		p.takes = append(p.takes, SlotTake{ItemID: item.ID, Slot: s, Quantity: taken})
		if _, seen := p.touched[s.ID]; !seen {
			p.touched[s.ID] = s
			p.touchOrder = append(p.touchOrder, s.ID)
		}
	}
	product.CurrentStock = product.CurrentStock.Sub(item.RequestedQuantity)
	return nil
}

// Takes devuelve las tomas pendientes en orden de asignación (una por par línea-lote).
func (p *AllocationPlan) Takes() []SlotTake {
	return p.takes
}

// TouchedSlots devuelve los lotes reducidos, en el orden en que se tocaron por primera vez.
func (p *AllocationPlan) TouchedSlots() []*entity.StockSlot {
	out := make([]*entity.StockSlot, 0, len(p.touchOrder))
	for _, id := range p.touchOrder {
		out = append(out, p.touched[id])
	}
	return out
}

// Products devuelve los productos del plan con el stock ya recalculado, ordenados por ID.
func (p *AllocationPlan) Products() []*entity.Product {
	out := make([]*entity.Product, 0, len(p.products))
	for _, prod := range p.products {
		out = append(out, prod)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Product devuelve la copia de trabajo de un producto del plan.
func (p *AllocationPlan) Product(productID string) *entity.Product {
	return p.products[productID]
}

// Slot devuelve la copia de trabajo de un lote tocado.
func (p *AllocationPlan) Slot(slotID string) *entity.StockSlot {
	return p.touched[slotID]
}
