package inventory_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-lotes/internal/application/dto"
	"github.com/jhoicas/Inventario-lotes/internal/application/inventory"
	"github.com/jhoicas/Inventario-lotes/internal/domain"
	"github.com/jhoicas/Inventario-lotes/internal/domain/entity"
)

func TestExitSlipCreate_GeneraNumeroYPosiciones(t *testing.T) {
	l := newLedger(t)
	p, _ := l.product("TEST-001", 0, 10)
	q, _ := l.product("TEST-002", 0, 10)
	uc := inventory.NewExitSlipUseCase(l.store, l.store.ExitSlips())

	slip, err := uc.Create(context.Background(), "creador", dto.CreateExitSlipRequest{
		Reason:      entity.ExitReasonTransfer,
		Destination: "Sede norte",
		Items: []dto.CreateExitSlipItemRequest{
			{ProductID: p.ID, RequestedQuantity: d(2)},
			{ProductID: q.ID, RequestedQuantity: d(3)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.ExitSlipStatusDraft, slip.Status)
	assert.Regexp(t, regexp.MustCompile(`^BS-\d{8}-[0-9A-F]{8}$`), slip.SlipNumber)
	assert.Equal(t, "creador", slip.CreatedBy)
	require.Len(t, slip.Items, 2)
	assert.Equal(t, 1, slip.Items[0].Position)
	assert.Equal(t, 2, slip.Items[1].Position)

	stored, err := uc.GetByID(context.Background(), slip.ID)
	require.NoError(t, err)
	assert.Equal(t, slip.SlipNumber, stored.SlipNumber)
	require.Len(t, stored.Items, 2)
	assert.Equal(t, q.ID, stored.Items[1].ProductID)
}

func TestExitSlipCreate_RespetaNumeroYFecha(t *testing.T) {
	l := newLedger(t)
	p, _ := l.product("TEST-001", 0, 10)
	uc := inventory.NewExitSlipUseCase(l.store, l.store.ExitSlips())
	exitDate := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)

	slip, err := uc.Create(context.Background(), "creador", dto.CreateExitSlipRequest{
		SlipNumber: " BS-TEST-0001 ",
		ExitDate:   &exitDate,
		Reason:     entity.ExitReasonScrap,
		Items:      []dto.CreateExitSlipItemRequest{{ProductID: p.ID, RequestedQuantity: d(1)}},
	})
	require.NoError(t, err)
	assert.Equal(t, "BS-TEST-0001", slip.SlipNumber)
	assert.True(t, exitDate.Equal(slip.ExitDate))

	_, err = uc.Create(context.Background(), "creador", dto.CreateExitSlipRequest{
		SlipNumber: "BS-TEST-0001",
		Reason:     entity.ExitReasonScrap,
		Items:      []dto.CreateExitSlipItemRequest{{ProductID: p.ID, RequestedQuantity: d(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestExitSlipCreate_Rechazos(t *testing.T) {
	l := newLedger(t)
	p, _ := l.product("TEST-001", 0, 10)
	uc := inventory.NewExitSlipUseCase(l.store, l.store.ExitSlips())
	ctx := context.Background()

	cases := map[string]struct {
		req  dto.CreateExitSlipRequest
		want error
	}{
		"sin líneas": {
			req:  dto.CreateExitSlipRequest{Reason: entity.ExitReasonOther},
			want: domain.ErrInvalidInput,
		},
		"motivo desconocido": {
			req:  dto.CreateExitSlipRequest{Reason: "REGALO", Items: []dto.CreateExitSlipItemRequest{{ProductID: p.ID, RequestedQuantity: d(1)}}},
			want: domain.ErrInvalidInput,
		},
		"cantidad negativa": {
			req:  dto.CreateExitSlipRequest{Reason: entity.ExitReasonOther, Items: []dto.CreateExitSlipItemRequest{{ProductID: p.ID, RequestedQuantity: d(-1)}}},
			want: domain.ErrInvalidInput,
		},
		"más de cuatro decimales": {
			req:  dto.CreateExitSlipRequest{Reason: entity.ExitReasonOther, Items: []dto.CreateExitSlipItemRequest{{ProductID: p.ID, RequestedQuantity: decimal.RequireFromString("0.00001")}}},
			want: domain.ErrInvalidInput,
		},
		"todo en cero": {
			req:  dto.CreateExitSlipRequest{Reason: entity.ExitReasonOther, Items: []dto.CreateExitSlipItemRequest{{ProductID: p.ID, RequestedQuantity: d(0)}}},
			want: domain.ErrInvalidInput,
		},
		"producto inexistente": {
			req:  dto.CreateExitSlipRequest{Reason: entity.ExitReasonOther, Items: []dto.CreateExitSlipItemRequest{{ProductID: "fantasma", RequestedQuantity: d(1)}}},
			want: domain.ErrProductNotFound,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.Create(ctx, "creador", tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestExitSlipCancel(t *testing.T) {
	l := newLedger(t)
	p, _ := l.product("TEST-001", 0, 10)
	draft := l.draft("BS-TEST-0001", line{p.ID, 1})
	uc := inventory.NewExitSlipUseCase(l.store, l.store.ExitSlips())

	out, err := uc.Cancel(context.Background(), draft.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ExitSlipStatusCancelled, out.Status)
	assert.Equal(t, entity.ExitSlipStatusCancelled, l.status(draft.ID))

	_, err = uc.Cancel(context.Background(), draft.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = uc.Cancel(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrExitSlipNotFound)
}

func TestExitSlipGetByID_Inexistente(t *testing.T) {
	l := newLedger(t)
	uc := inventory.NewExitSlipUseCase(l.store, l.store.ExitSlips())

	_, err := uc.GetByID(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
