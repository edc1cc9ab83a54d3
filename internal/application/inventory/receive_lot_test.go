package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-lotes/internal/application/inventory"
	"github.com/jhoicas/Inventario-lotes/internal/domain"
	"github.com/jhoicas/Inventario-lotes/internal/domain/entity"
)

func TestReceive_CreaLoteYMovimiento(t *testing.T) {
	l := newLedger(t)
	p, _ := l.product("TEST-001", 0, 10)
	m := newFakeMetrics()
	uc := inventory.NewReceiveLotUseCase(l.store, m, zerolog.Nop())
	entry := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	slot, err := uc.Receive(context.Background(), inventory.ReceiveLotInput{
		ProductID: p.ID,
		Quantity:  decimal.RequireFromString("2.5"),
		UnitPrice: d(12),
		EntryDate: entry,
		LotNumber: "L-MAR",
		Reference: "REM-77",
		UserID:    "bodega",
	})
	require.NoError(t, err)

	assert.True(t, slot.Quantity.Equal(slot.AvailableQuantity))
	assert.Equal(t, "12.5", l.stock(p.ID).String())
	assert.Equal(t, []string{"10", "2.5"}, availableStrings(l, p.ID))
	assert.Equal(t, 1, m.movements[entity.MovementTypeReception])

	all, err := l.store.StockMovements().Search(context.Background(), emptyFilter)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, entity.MovementTypeReception, all[0].Type)
	assert.Equal(t, "L-MAR", all[0].LotNumber)
	assert.True(t, entry.Equal(all[0].Date))
	l.requireInvariants(p.ID)
}

func TestReceive_EntradaInvalida(t *testing.T) {
	l := newLedger(t)
	p, _ := l.product("TEST-001", 0)
	uc := inventory.NewReceiveLotUseCase(l.store, nil, zerolog.Nop())
	ctx := context.Background()

	_, err := uc.Receive(ctx, inventory.ReceiveLotInput{ProductID: p.ID, Quantity: d(0)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Receive(ctx, inventory.ReceiveLotInput{ProductID: p.ID, Quantity: d(1), UnitPrice: d(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Receive(ctx, inventory.ReceiveLotInput{ProductID: p.ID, Quantity: decimal.RequireFromString("1.00005")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Receive(ctx, inventory.ReceiveLotInput{ProductID: p.ID, Quantity: d(1), UnitPrice: decimal.RequireFromString("0.12345")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Receive(ctx, inventory.ReceiveLotInput{ProductID: "fantasma", Quantity: d(1)})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	assert.True(t, l.stock(p.ID).IsZero())
	assert.Empty(t, l.available(p.ID))
}
