// Package events publica los eventos de dominio del inventario en NATS.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jhoicas/Inventario-lotes/internal/application/inventory"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

var _ inventory.EventPublisher = (*NATSPublisher)(nil)

// SubjectExitSlipValidated sufijo del subject de vales validados.
const SubjectExitSlipValidated = "exit_slip.validated"

// Conn subconjunto de *nats.Conn que usa el publicador.
type Conn interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
}

// NATSPublisher serializa el evento a JSON y lo publica en <prefix>.exit_slip.validated.
type NATSPublisher struct {
	conn   Conn
	prefix string
	log    zerolog.Logger
}

// NewNATSPublisher construye el publicador sobre una conexión existente.
func NewNATSPublisher(conn Conn, prefix string, log zerolog.Logger) *NATSPublisher {
	return &NATSPublisher{conn: conn, prefix: prefix, log: log}
}

// Subject devuelve el subject completo de un evento.
func (p *NATSPublisher) Subject(suffix string) string {
	if p.prefix == "" {
		return suffix
	}
	return p.prefix + "." + suffix
}

// PublishExitSlipValidated publica el evento y espera el flush del servidor (acotado por ctx).
func (p *NATSPublisher) PublishExitSlipValidated(ctx context.Context, evt inventory.ExitSlipValidatedEvent) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("serializar evento: %w", err)
	}
	subject := p.Subject(SubjectExitSlipValidated)
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("publicar %s: %w", subject, err)
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
	}
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("flush %s: %w", subject, err)
	}
	p.log.Debug().Str("subject", subject).Str("exit_slip_id", evt.ExitSlipID).Msg("evento publicado")
	return nil
}

// Connect abre la conexión NATS con reconexión indefinida y registro de desconexiones.
func Connect(url, name string, log zerolog.Logger) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("NATS desconectado")
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info().Str("url", c.ConnectedUrl()).Msg("NATS reconectado")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("conectar NATS: %w", err)
	}
	return nc, nil
}
