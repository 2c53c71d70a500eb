package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ActivityTotal counts activity attempts by outcome ("ok", "error").
	ActivityTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "arcagent",
			Name:      "activity_attempts_total",
			Help:      "Activity attempts by activity type and outcome",
		},
		[]string{"activity", "outcome"},
	)

	ActivityDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "arcagent",
			Name:      "activity_duration_seconds",
			Help:      "Activity attempt duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"activity"},
	)

	// WorkflowStartsTotal counts start requests by outcome ("started", "already_started", "error").
	WorkflowStartsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "arcagent",
			Name:      "workflow_starts_total",
			Help:      "Workflow start requests by workflow kind and outcome",
		},
		[]string{"workflow", "outcome"},
	)

	// SignalsTotal counts routed signals by outcome ("delivered", "nothing_pending", "error").
	SignalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "arcagent",
			Name:      "signals_total",
			Help:      "Signals routed to workflow instances by signal name and outcome",
		},
		[]string{"signal", "outcome"},
	)

	// InboundMessagesTotal counts chat messages by parsed intent.
	InboundMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "arcagent",
			Name:      "inbound_messages_total",
			Help:      "Inbound chat messages by parsed intent",
		},
		[]string{"intent"},
	)
)
