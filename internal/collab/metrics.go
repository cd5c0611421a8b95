package collab

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	broadcastEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "molecule_lab_collab_broadcast_events_total",
		Help: "Total number of history events sent to the broadcast loop",
	})

	droppedEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "molecule_lab_collab_dropped_events_total",
		Help: "Total number of history events dropped because the queue was full",
	})

	connectedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "molecule_lab_collab_clients",
		Help: "Number of connected websocket clients",
	})

	rejectedOpsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "molecule_lab_collab_rejected_ops_total",
		Help: "Total number of edit ops rejected by the editor",
	}, []string{"op"})
)
