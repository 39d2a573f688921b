// metrics.go - Prometheus instrumentation for channel and generator
// activity, following everyday-items-toolkit's
// infra/queue/asynq/metrics.go idiom of package-level promauto vars.
package corochan

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// rendezvousTotal counts completed send/receive rendezvous, labeled
	// by outcome (ok, protocol_misuse).
	rendezvousTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "corochan_rendezvous_total",
			Help: "Total number of channel rendezvous attempts, by outcome.",
		},
		[]string{"outcome"},
	)

	// parkedParties tracks currently-parked senders/receivers across all
	// channels, labeled by role.
	parkedParties = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "corochan_parked_parties",
			Help: "Number of channel parties currently parked, by role.",
		},
		[]string{"role"},
	)

	// activeGenerators tracks live generator iterators, labeled by kind
	// (sync, async).
	activeGenerators = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "corochan_active_generators",
			Help: "Number of generator iterators with a running coroutine, by kind.",
		},
		[]string{"kind"},
	)
)
