package observability

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/AndreyBuyanov/ExpertSystem/pkg/domain"
)

const namespace = "expertsystem"

// Metrics holds the engine counters.
type Metrics struct {
	NodeVisits *prometheus.CounterVec
	Answers    *prometheus.CounterVec
	Finished   *prometheus.CounterVec
	Resets     *prometheus.CounterVec
}

// NewMetrics registers the counters on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		NodeVisits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "node_visits_total",
			Help:      "Nodes entered by the cursor.",
		}, []string{"system", "node_type"}),
		Answers: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "answers_total",
			Help:      "Answers submitted, by whether an edge accepted them.",
		}, []string{"system", "accepted"}),
		Finished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_finished_total",
			Help:      "Sessions that reached an answer.",
		}, []string{"system"}),
		Resets: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resets_total",
			Help:      "Sessions returned to the root question.",
		}, []string{"system"}),
	}
}

// Hooks returns lifecycle hooks that update the counters.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeEnter: func(e *domain.NodeEvent) {
			m.NodeVisits.WithLabelValues(e.System, e.NodeType.String()).Inc()
		},
		OnAnswer: func(e *domain.AnswerEvent) {
			m.Answers.WithLabelValues(e.System, strconv.FormatBool(e.Accepted)).Inc()
		},
		OnFinish: func(e *domain.NodeEvent) {
			m.Finished.WithLabelValues(e.System).Inc()
		},
		OnReset: func(e *domain.NodeEvent) {
			m.Resets.WithLabelValues(e.System).Inc()
		},
	}
}
