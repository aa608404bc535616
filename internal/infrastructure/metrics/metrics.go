// Package metrics contadores Prometheus do fluxo de pré-matrícula e da integração.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics implementa enrollment.Metrics e integration.Metrics.
type Metrics struct {
	StagesRecorded        *prometheus.CounterVec
	EnrollmentsCompleted  prometheus.Counter
	PreconditionsRejected *prometheus.CounterVec
	IntegrationOperations *prometheus.CounterVec
}

// New registra os contadores em reg (nil = registro padrão do processo).
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		StagesRecorded: f.NewCounterVec(prometheus.CounterOpts{
			Name: "prematricula_stage_recorded_total",
			Help: "Etapas gravadas com sucesso, por etapa",
		}, []string{"stage"}),
		EnrollmentsCompleted: f.NewCounter(prometheus.CounterOpts{
			Name: "prematricula_completed_total",
			Help: "Pré-matrículas concluídas",
		}),
		PreconditionsRejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "prematricula_precondition_rejected_total",
			Help: "Operações rejeitadas por etapa fora de ordem ou matrícula concluída",
		}, []string{"operation"}),
		IntegrationOperations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "prematricula_integration_operations_total",
			Help: "Operações enviadas ao sistema escolar, por operação e resultado",
		}, []string{"operation", "success"}),
	}
}

func (m *Metrics) StageRecorded(stage string) {
	m.StagesRecorded.WithLabelValues(stage).Inc()
}

func (m *Metrics) EnrollmentCompleted() {
	m.EnrollmentsCompleted.Inc()
}

func (m *Metrics) PreconditionRejected(operation string) {
	m.PreconditionsRejected.WithLabelValues(operation).Inc()
}

func (m *Metrics) IntegrationOperation(operation string, success bool) {
	m.IntegrationOperations.WithLabelValues(operation, strconv.FormatBool(success)).Inc()
}
