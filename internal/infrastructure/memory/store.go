// Package memory implementa el libro de inventario en memoria, con las mismas garantías
// transaccionales que el adaptador PostgreSQL: cada unidad de trabajo se ejecuta en exclusión
// mutua sobre una copia del estado, que solo reemplaza al estado vigente si fn termina sin error.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/Inventario-lotes/internal/application/inventory"
	"github.com/jhoicas/Inventario-lotes/internal/domain"
	"github.com/jhoicas/Inventario-lotes/internal/domain/entity"
	domaininv "github.com/jhoicas/Inventario-lotes/internal/domain/inventory"
	"github.com/jhoicas/Inventario-lotes/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var (
	_ inventory.TxRunner                 = (*Store)(nil)
	_ repository.ProductRepository       = (*ProductRepo)(nil)
	_ repository.StockSlotRepository     = (*StockSlotRepo)(nil)
	_ repository.ExitSlipRepository      = (*ExitSlipRepo)(nil)
	_ repository.StockMovementRepository = (*StockMovementRepo)(nil)
)

type state struct {
	products  map[string]entity.Product
	slots     map[string]entity.StockSlot
	slips     map[string]entity.ExitSlip
	movements []entity.StockMovement
}

func newState() *state {
	return &state{
		products: make(map[string]entity.Product),
		slots:    make(map[string]entity.StockSlot),
		slips:    make(map[string]entity.ExitSlip),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.slots {
		c.slots[k] = v
	}
	for k, v := range s.slips {
		v.Items = append([]entity.ExitSlipItem(nil), v.Items...)
		c.slips[k] = v
	}
	c.movements = append([]entity.StockMovement(nil), s.movements...)
	return c
}

// Store libro de inventario en memoria. El valor cero no es usable; usar NewStore.
type Store struct {
	mu    sync.RWMutex
	state *state
}

// NewStore crea un libro vacío.
func NewStore() *Store {
	return &Store{state: newState()}
}

// Run ejecuta fn con repositorios atados a una copia del estado. Si fn falla o el contexto
// se cancela antes del Commit, la copia se descarta y el estado vigente no cambia.
func (s *Store) Run(ctx context.Context, fn func(
	slipRepo repository.ExitSlipRepository,
	productRepo repository.ProductRepository,
	slotRepo repository.StockSlotRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.state.clone()
	b := base{store: s, tx: tx}
	if err := fn(&ExitSlipRepo{b}, &ProductRepo{b}, &StockSlotRepo{b}, &StockMovementRepo{b}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.state = tx
	return nil
}

// Products repositorio fuera de transacción (cada escritura se confirma de inmediato).
func (s *Store) Products() *ProductRepo { return &ProductRepo{base{store: s}} }

// StockSlots repositorio de lotes fuera de transacción.
func (s *Store) StockSlots() *StockSlotRepo { return &StockSlotRepo{base{store: s}} }

// ExitSlips repositorio de vales fuera de transacción.
func (s *Store) ExitSlips() *ExitSlipRepo { return &ExitSlipRepo{base{store: s}} }

// StockMovements repositorio de movimientos fuera de transacción.
func (s *Store) StockMovements() *StockMovementRepo { return &StockMovementRepo{base{store: s}} }

type base struct {
	store *Store
	tx    *state
}

func (b base) read(fn func(st *state)) {
	if b.tx != nil {
		fn(b.tx)
		return
	}
	b.store.mu.RLock()
	defer b.store.mu.RUnlock()
	fn(b.store.state)
}

func (b base) write(fn func(st *state) error) error {
	if b.tx != nil {
		return fn(b.tx)
	}
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	return fn(b.store.state)
}

// ProductRepo productos en memoria.
type ProductRepo struct{ base }

func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	return r.write(func(st *state) error {
		for _, p := range st.products {
			if p.Reference == product.Reference {
				return domain.ErrDuplicate
			}
		}
		if _, ok := st.products[product.ID]; ok {
			return domain.ErrDuplicate
		}
		st.products[product.ID] = *product
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	r.read(func(st *state) {
		if p, ok := st.products[id]; ok {
			out = &p
		}
	})
	return out, nil
}

func (r *ProductRepo) GetByReference(_ context.Context, reference string) (*entity.Product, error) {
	var out *entity.Product
	r.read(func(st *state) {
		for _, p := range st.products {
			if p.Reference == reference {
				p := p
				out = &p
				return
			}
		}
	})
	return out, nil
}

// GetForUpdate equivale a GetByID: la exclusión la da el bloqueo de la unidad de trabajo.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) UpdateStock(_ context.Context, productID string, currentStock decimal.Decimal) error {
	return r.write(func(st *state) error {
		p, ok := st.products[productID]
		if !ok {
			return domain.ErrProductNotFound
		}
		p.CurrentStock = currentStock
		p.UpdatedAt = time.Now()
		st.products[p.ID] = p
		return nil
	})
}

// StockSlotRepo lotes en memoria.
type StockSlotRepo struct{ base }

func (r *StockSlotRepo) Create(_ context.Context, slot *entity.StockSlot) error {
	return r.write(func(st *state) error {
		if _, ok := st.slots[slot.ID]; ok {
			return domain.ErrDuplicate
		}
		if !slot.Valid() {
			return domain.ErrInvalidInput
		}
		st.slots[slot.ID] = *slot
		return nil
	})
}

func (r *StockSlotRepo) ListAvailableForUpdate(_ context.Context, productID string) ([]*entity.StockSlot, error) {
	return r.list(productID, true), nil
}

func (r *StockSlotRepo) ListByProduct(_ context.Context, productID string) ([]*entity.StockSlot, error) {
	return r.list(productID, false), nil
}

func (r *StockSlotRepo) list(productID string, onlyAvailable bool) []*entity.StockSlot {
	var out []*entity.StockSlot
	r.read(func(st *state) {
		for _, s := range st.slots {
			if s.ProductID != productID || (onlyAvailable && !s.HasStock()) {
				continue
			}
			s := s
			out = append(out, &s)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func (r *StockSlotRepo) UpdateAvailable(_ context.Context, slotID string, available decimal.Decimal) error {
	return r.write(func(st *state) error {
		s, ok := st.slots[slotID]
		if !ok {
			return domain.ErrNotFound
		}
		s.AvailableQuantity = available
		if !s.Valid() {
			return domain.ErrInvalidInput
		}
		st.slots[s.ID] = s
		return nil
	})
}

// ExitSlipRepo vales de salida en memoria.
type ExitSlipRepo struct{ base }

func (r *ExitSlipRepo) Create(_ context.Context, slip *entity.ExitSlip) error {
	return r.write(func(st *state) error {
		for _, s := range st.slips {
			if s.ID == slip.ID || s.SlipNumber == slip.SlipNumber {
				return domain.ErrDuplicate
			}
		}
		cp := *slip
		cp.Items = append([]entity.ExitSlipItem(nil), slip.Items...)
		st.slips[slip.ID] = cp
		return nil
	})
}

func (r *ExitSlipRepo) GetByID(_ context.Context, id string) (*entity.ExitSlip, error) {
	var out *entity.ExitSlip
	r.read(func(st *state) {
		if s, ok := st.slips[id]; ok {
			s.Items = append([]entity.ExitSlipItem(nil), s.Items...)
			sort.SliceStable(s.Items, func(i, j int) bool { return s.Items[i].Position < s.Items[j].Position })
			out = &s
		}
	})
	return out, nil
}

func (r *ExitSlipRepo) GetForUpdate(ctx context.Context, id string) (*entity.ExitSlip, error) {
	return r.GetByID(ctx, id)
}

func (r *ExitSlipRepo) MarkValidated(_ context.Context, id, validatedBy string, validatedAt time.Time) error {
	return r.write(func(st *state) error {
		s, ok := st.slips[id]
		if !ok {
			return domain.ErrExitSlipNotFound
		}
		s.Status = entity.ExitSlipStatusValidated
		s.ValidatedBy = validatedBy
		at := validatedAt
		s.ValidatedAt = &at
		s.UpdatedAt = validatedAt
		st.slips[s.ID] = s
		return nil
	})
}

func (r *ExitSlipRepo) UpdateStatus(_ context.Context, id, status string) error {
	return r.write(func(st *state) error {
		s, ok := st.slips[id]
		if !ok {
			return domain.ErrExitSlipNotFound
		}
		s.Status = status
		s.UpdatedAt = time.Now()
		st.slips[s.ID] = s
		return nil
	})
}

// StockMovementRepo movimientos en memoria (solo inserción).
type StockMovementRepo struct{ base }

func (r *StockMovementRepo) CreateBatch(_ context.Context, movements []*entity.StockMovement) error {
	return r.write(func(st *state) error {
		for _, m := range movements {
			st.movements = append(st.movements, *m)
		}
		return nil
	})
}

func (r *StockMovementRepo) Search(_ context.Context, filter domaininv.MovementFilter) ([]*entity.MovementView, error) {
	out := []*entity.MovementView{}
	r.read(func(st *state) {
		for _, m := range st.movements {
			v := &entity.MovementView{StockMovement: m}
			if p, ok := st.products[m.ProductID]; ok {
				v.ProductReference = p.Reference
			}
			if s, ok := st.slots[m.StockSlotID]; ok {
				v.LotNumber = s.LotNumber
			}
			if filter.Matches(v) {
				out = append(out, v)
			}
		}
	})
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
