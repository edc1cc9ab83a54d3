package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-lotes/internal/application/inventory"
)

type fakeConn struct {
	subject    string
	data       []byte
	publishErr error
	flushed    bool
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.subject = subject
	f.data = data
	return nil
}

func (f *fakeConn) FlushWithContext(context.Context) error {
	f.flushed = true
	return nil
}

func TestNATSPublisher_PublicaJSON(t *testing.T) {
	conn := &fakeConn{}
	p := NewNATSPublisher(conn, "inventory", zerolog.Nop())
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	err := p.PublishExitSlipValidated(context.Background(), inventory.ExitSlipValidatedEvent{
		ExitSlipID:  "slip-1",
		SlipNumber:  "BS-TEST-0001",
		ValidatedBy: "u-1",
		ValidatedAt: at,
		Movements: []inventory.MovementEventEntry{
			{ProductID: "p-1", StockSlotID: "s-1", LotNumber: "L1", Quantity: decimal.NewFromInt(4), UnitPrice: decimal.NewFromInt(10)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "inventory.exit_slip.validated", conn.subject)
	assert.True(t, conn.flushed)

	var body map[string]any
	require.NoError(t, json.Unmarshal(conn.data, &body))
	assert.Equal(t, "slip-1", body["exit_slip_id"])
	assert.Equal(t, "BS-TEST-0001", body["slip_number"])
	movs, ok := body["movements"].([]any)
	require.True(t, ok)
	require.Len(t, movs, 1)
	assert.Equal(t, "4", movs[0].(map[string]any)["quantity"])
}

func TestNATSPublisher_ErrorDePublicacion(t *testing.T) {
	conn := &fakeConn{publishErr: errors.New("sin conexión")}
	p := NewNATSPublisher(conn, "", zerolog.Nop())

	err := p.PublishExitSlipValidated(context.Background(), inventory.ExitSlipValidatedEvent{ExitSlipID: "slip-1"})
	assert.Error(t, err)
	assert.False(t, conn.flushed)
}

func TestNATSPublisher_SubjectSinPrefijo(t *testing.T) {
	p := NewNATSPublisher(&fakeConn{}, "", zerolog.Nop())
	assert.Equal(t, "exit_slip.validated", p.Subject(SubjectExitSlipValidated))
}
