package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-lotes/internal/application/inventory"
	"github.com/jhoicas/Inventario-lotes/internal/domain"
	"github.com/jhoicas/Inventario-lotes/internal/domain/entity"
	domaininv "github.com/jhoicas/Inventario-lotes/internal/domain/inventory"
)

// seedHistory recibe tres lotes en fechas distintas (dos productos) y devuelve el libro.
func seedHistory(t *testing.T) (*ledger, *entity.Product, *entity.Product) {
	l := newLedger(t)
	a, _ := l.product("A-001", 0)
	b, _ := l.product("B-001", 0)
	rx := inventory.NewReceiveLotUseCase(l.store, nil, zerolog.Nop())
	ctx := context.Background()
	for i, in := range []inventory.ReceiveLotInput{
		{ProductID: a.ID, Quantity: d(10), LotNumber: "LA-1"},
		{ProductID: b.ID, Quantity: d(20), LotNumber: "LB-1"},
		{ProductID: a.ID, Quantity: d(30), LotNumber: "LA-2"},
	} {
		in.EntryDate = jan1.AddDate(0, 0, i*10)
		_, err := rx.Receive(ctx, in)
		require.NoError(t, err)
	}
	return l, a, b
}

func strp(s string) *string     { return &s }
func tp(t time.Time) *time.Time { return &t }

func lots(list []*entity.MovementView) []string {
	out := make([]string, 0, len(list))
	for _, m := range list {
		out = append(out, m.LotNumber)
	}
	return out
}

func TestSearch_SinCriteriosDevuelveTodoOrdenado(t *testing.T) {
	l, _, _ := seedHistory(t)
	uc := inventory.NewSearchMovementsUseCase(l.store.StockMovements())

	list, err := uc.Search(context.Background(), domaininv.MovementCriteria{})
	require.NoError(t, err)
	assert.Equal(t, []string{"LA-1", "LB-1", "LA-2"}, lots(list))
}

func TestSearch_SoloFechaInicial(t *testing.T) {
	l, _, _ := seedHistory(t)
	uc := inventory.NewSearchMovementsUseCase(l.store.StockMovements())

	list, err := uc.Search(context.Background(), domaininv.MovementCriteria{StartDate: tp(jan1.AddDate(0, 0, 10))})
	require.NoError(t, err)
	assert.Equal(t, []string{"LB-1", "LA-2"}, lots(list))
}

func TestSearch_CombinaCriterios(t *testing.T) {
	l, a, _ := seedHistory(t)
	uc := inventory.NewSearchMovementsUseCase(l.store.StockMovements())
	ctx := context.Background()

	list, err := uc.Search(ctx, domaininv.MovementCriteria{Reference: strp("A-001"), EndDate: tp(jan1.AddDate(0, 0, 5))})
	require.NoError(t, err)
	assert.Equal(t, []string{"LA-1"}, lots(list))

	list, err = uc.Search(ctx, domaininv.MovementCriteria{ProductID: strp(a.ID), LotNumber: strp("LA-2"), Type: strp(entity.MovementTypeReception)})
	require.NoError(t, err)
	assert.Equal(t, []string{"LA-2"}, lots(list))

	list, err = uc.Search(ctx, domaininv.MovementCriteria{Type: strp(entity.MovementTypeExit)})
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestSearch_CriteriosInvalidos(t *testing.T) {
	l, _, _ := seedHistory(t)
	uc := inventory.NewSearchMovementsUseCase(l.store.StockMovements())
	ctx := context.Background()

	_, err := uc.Search(ctx, domaininv.MovementCriteria{StartDate: tp(jan1.AddDate(0, 0, 1)), EndDate: tp(jan1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Search(ctx, domaininv.MovementCriteria{Type: strp("AJUSTE")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
