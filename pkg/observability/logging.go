package observability

import (
	"log/slog"

	"github.com/AndreyBuyanov/ExpertSystem/pkg/domain"
)

// LogHooks writes one Info line per lifecycle event.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeEnter: func(e *domain.NodeEvent) {
			logger.Info("node_enter", "system", e.System, "node_id", e.NodeID, "type", e.NodeType.String())
		},
		OnAnswer: func(e *domain.AnswerEvent) {
			logger.Info("answer", "system", e.System, "node_id", e.NodeID, "value", e.Value, "accepted", e.Accepted)
		},
		OnFinish: func(e *domain.NodeEvent) {
			logger.Info("finish", "system", e.System, "node_id", e.NodeID)
		},
		OnReset: func(e *domain.NodeEvent) {
			logger.Info("reset", "system", e.System)
		},
	}
}
