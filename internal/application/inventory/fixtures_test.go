package inventory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-lotes/internal/application/inventory"
	"github.com/jhoicas/Inventario-lotes/internal/domain/entity"
	domaininv "github.com/jhoicas/Inventario-lotes/internal/domain/inventory"
	"github.com/jhoicas/Inventario-lotes/internal/infrastructure/memory"
)

var emptyFilter = domaininv.MovementFilter{}

var jan1 = time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// ledger libro en memoria con helpers para sembrar productos, lotes y vales.
type ledger struct {
	t     *testing.T
	store *memory.Store
}

func newLedger(t *testing.T) *ledger {
	return &ledger{t: t, store: memory.NewStore()}
}

// product crea un producto cuyo stock es la suma de los lotes indicados (en orden de antigüedad).
func (l *ledger) product(reference string, reorderPoint int64, lots ...int64) (*entity.Product, []*entity.StockSlot) {
	l.t.Helper()
	ctx := context.Background()
	total := decimal.Zero
	for _, q := range lots {
		total = total.Add(d(q))
	}
	p := &entity.Product{
		ID:           uuid.New().String(),
		Reference:    reference,
		Name:         "Producto " + reference,
		MeasureUnit:  "UND",
		ReorderPoint: d(reorderPoint),
		CurrentStock: total,
		CreatedAt:    jan1,
		UpdatedAt:    jan1,
	}
	require.NoError(l.t, l.store.Products().Create(ctx, p))

	slots := make([]*entity.StockSlot, 0, len(lots))
	for i, q := range lots {
		s := &entity.StockSlot{
			ID:                uuid.New().String(),
			ProductID:         p.ID,
			LotNumber:         fmt.Sprintf("%s-L%d", reference, i+1),
			Quantity:          d(q),
			AvailableQuantity: d(q),
			UnitPrice:         d(int64(10 + i)),
			EntryDate:         jan1.AddDate(0, 0, i),
			CreatedAt:         jan1,
		}
		require.NoError(l.t, l.store.StockSlots().Create(ctx, s))
		slots = append(slots, s)
	}
	return p, slots
}

type line struct {
	productID string
	qty       int64
}

func (l *ledger) draft(number string, lines ...line) *entity.ExitSlip {
	l.t.Helper()
	slip := &entity.ExitSlip{
		ID:         uuid.New().String(),
		SlipNumber: number,
		ExitDate:   jan1,
		Reason:     entity.ExitReasonProduction,
		Status:     entity.ExitSlipStatusDraft,
		CreatedBy:  "creador",
		CreatedAt:  jan1,
		UpdatedAt:  jan1,
	}
	for i, ln := range lines {
		slip.Items = append(slip.Items, entity.ExitSlipItem{
			ID:                uuid.New().String(),
			ExitSlipID:        slip.ID,
			Position:          i + 1,
			ProductID:         ln.productID,
			RequestedQuantity: d(ln.qty),
		})
	}
	require.NoError(l.t, l.store.ExitSlips().Create(context.Background(), slip))
	return slip
}

func (l *ledger) stock(productID string) decimal.Decimal {
	l.t.Helper()
	p, err := l.store.Products().GetByID(context.Background(), productID)
	require.NoError(l.t, err)
	require.NotNil(l.t, p)
	return p.CurrentStock
}

func (l *ledger) available(productID string) []decimal.Decimal {
	l.t.Helper()
	slots, err := l.store.StockSlots().ListByProduct(context.Background(), productID)
	require.NoError(l.t, err)
	out := make([]decimal.Decimal, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.AvailableQuantity)
	}
	return out
}

func (l *ledger) status(slipID string) string {
	l.t.Helper()
	s, err := l.store.ExitSlips().GetByID(context.Background(), slipID)
	require.NoError(l.t, err)
	require.NotNil(l.t, s)
	return s.Status
}

func (l *ledger) exitMovements(slipID string) []*entity.MovementView {
	l.t.Helper()
	all, err := l.store.StockMovements().Search(context.Background(), emptyFilter)
	require.NoError(l.t, err)
	var out []*entity.MovementView
	for _, m := range all {
		if m.Type == entity.MovementTypeExit && m.ExitSlipID == slipID {
			out = append(out, m)
		}
	}
	return out
}

// requireInvariants verifica 0 <= available <= quantity en cada lote y stock = suma de disponibles.
func (l *ledger) requireInvariants(productID string) {
	l.t.Helper()
	slots, err := l.store.StockSlots().ListByProduct(context.Background(), productID)
	require.NoError(l.t, err)
	sum := decimal.Zero
	for _, s := range slots {
		require.True(l.t, s.Valid(), "lote %s fuera de rango: %s/%s", s.ID, s.AvailableQuantity, s.Quantity)
		sum = sum.Add(s.AvailableQuantity)
	}
	require.True(l.t, sum.Equal(l.stock(productID)), "stock %s != suma de lotes %s", l.stock(productID), sum)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []inventory.ExitSlipValidatedEvent
	err    error
}

func (f *fakePublisher) PublishExitSlipValidated(_ context.Context, evt inventory.ExitSlipValidatedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, evt)
	return f.err
}

type fakeMetrics struct {
	mu        sync.Mutex
	outcomes  map[string]int
	movements map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{outcomes: map[string]int{}, movements: map[string]int{}}
}

func (f *fakeMetrics) ObserveValidation(outcome string, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outcomes[outcome]++
}

func (f *fakeMetrics) AddMovements(movementType string, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.movements[movementType] += n
}
