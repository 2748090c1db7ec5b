package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcomes usados como label en los contadores.
const (
	OutcomeSuccess          = "success"
	OutcomeDuplicateEmail   = "duplicate_email"
	OutcomeDuplicateLogin   = "duplicate_login_name"
	OutcomeInvalidInput     = "invalid_input"
	OutcomeNotFound         = "not_found"
	OutcomeIncorrectPass    = "incorrect_password"
	OutcomeEmailNotVerified = "email_not_verified"
	OutcomeError            = "error"
	OutcomeRetried          = "retried"
)

// Metrics agrupa los contadores del servicio. Un *Metrics nil no registra nada.
type Metrics struct {
	registrations *prometheus.CounterVec
	logins        *prometheus.CounterVec
	tasks         *prometheus.CounterVec
}

// NewMetrics crea los contadores y los registra en reg.
// Panics si el registro falla (convencion de prometheus).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		registrations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_registrations_total",
				Help: "Total number of registration attempts by outcome",
			},
			[]string{"outcome"},
		),
		logins: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_logins_total",
				Help: "Total number of login attempts by outcome",
			},
			[]string{"outcome"},
		),
		tasks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_side_effect_tasks_total",
				Help: "Total number of background side-effect task executions",
			},
			[]string{"kind", "outcome"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.registrations, m.logins, m.tasks)
	}
	return m
}

func (m *Metrics) RecordRegistration(outcome string) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordLogin(outcome string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(outcome).Inc()
}

// RecordTask cuenta una ejecucion de tarea en background.
//   - kind: tipo de tarea (verification_email, notification)
//   - outcome: success, retried o error
func (m *Metrics) RecordTask(kind, outcome string) {
	if m == nil {
		return
	}
	m.tasks.WithLabelValues(kind, outcome).Inc()
}

// Handler expone las metricas del gatherer en formato prometheus.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
