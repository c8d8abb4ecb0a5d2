package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jhoicas/retail-audit-api/internal/application/auditing"
)

var _ auditing.Metrics = (*Metrics)(nil)

// Metrics contadores del ciclo de vida y de la API HTTP.
type Metrics struct {
	transitions      *prometheus.CounterVec
	rejected         *prometheus.CounterVec
	actionsGenerated prometheus.Counter
	scoresWritten    prometheus.Counter
	httpRequests     *prometheus.CounterVec
	httpLatency      *prometheus.HistogramVec
}

// New registra las métricas en reg (prometheus.DefaultRegisterer en el binario,
// un registro propio en los tests).
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		transitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "audit_transitions_total",
			Help: "Transiciones de estado aplicadas",
		}, []string{"kind", "from", "to"}),
		rejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "audit_transitions_rejected_total",
			Help: "Transiciones rechazadas por estado o permisos",
		}, []string{"kind", "event"}),
		actionsGenerated: f.NewCounter(prometheus.CounterOpts{
			Name: "audit_action_plans_generated_total",
			Help: "Planes de acción creados por el generador",
		}),
		scoresWritten: f.NewCounter(prometheus.CounterOpts{
			Name: "audit_scores_written_total",
			Help: "Puntuaciones guardadas",
		}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Peticiones HTTP por ruta y código",
		}, []string{"method", "route", "status"}),
		httpLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latencia de las peticiones HTTP",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// TransitionApplied cuenta una transición aplicada de from a to.
func (m *Metrics) TransitionApplied(kind, from, to string) {
	m.transitions.WithLabelValues(kind, from, to).Inc()
}

// TransitionRejected cuenta un evento rechazado por estado o permisos.
func (m *Metrics) TransitionRejected(kind, event string) {
	m.rejected.WithLabelValues(kind, event).Inc()
}

// ActionsGenerated suma los planes de acción creados por el generador.
func (m *Metrics) ActionsGenerated(n int) {
	if n > 0 {
		m.actionsGenerated.Add(float64(n))
	}
}

// ScoreWritten cuenta una puntuación guardada.
func (m *Metrics) ScoreWritten() { m.scoresWritten.Inc() }

// ObserveHTTP registra una petición. route es el patrón de Fiber, no la ruta concreta.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
