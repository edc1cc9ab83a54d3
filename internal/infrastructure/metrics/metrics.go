// Package metrics expone las métricas Prometheus del servicio en un registro propio.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Inventario-lotes/internal/application/inventory"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ inventory.Metrics = (*Recorder)(nil)

// Recorder agrupa los colectores del motor FIFO y de la capa HTTP.
type Recorder struct {
	registry *prometheus.Registry

	validations        *prometheus.CounterVec
	validationDuration *prometheus.HistogramVec
	movements          *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewRecorder registra todos los colectores bajo el namespace dado, más los de proceso y runtime de Go.
func NewRecorder(namespace string) *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exit_slip_validations_total",
			Help:      "Validaciones de vales de salida por resultado",
		}, []string{"outcome"}),
		validationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "exit_slip_validation_duration_seconds",
			Help:      "Duración de la validación FIFO (transacción completa)",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		movements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_movements_total",
			Help:      "Movimientos de stock registrados por tipo",
		}, []string{"type"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Peticiones HTTP por método, ruta y estado",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duración de las peticiones HTTP",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
	reg.MustRegister(
		r.validations, r.validationDuration, r.movements,
		r.httpRequests, r.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveValidation cuenta una validación y su duración.
func (r *Recorder) ObserveValidation(outcome string, elapsed time.Duration) {
	r.validations.WithLabelValues(outcome).Inc()
	r.validationDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// AddMovements suma n movimientos del tipo dado.
func (r *Recorder) AddMovements(movementType string, n int) {
	if n <= 0 {
		return
	}
	r.movements.WithLabelValues(movementType).Add(float64(n))
}

// Registry devuelve el registro (para tests o para exponerlo con otro handler).
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler sirve el formato de exposición de Prometheus.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Middleware mide cada petición Fiber. Usa la ruta registrada (no la URL) para acotar la cardinalidad.
func (r *Recorder) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		path := c.Route().Path
		method := c.Method()
		r.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
		r.httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		return err
	}
}
