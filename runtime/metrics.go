package runtime

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	RecordsRead    prometheus.Counter
	RecordsEmitted prometheus.Counter
	Queries        prometheus.Counter
	UnitErrors     prometheus.Counter
}

// NewMetrics registers the query counters with registerer.  If registerer
// is nil, a private registry is used.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.NewRegistry()
	}
	factory := promauto.With(registerer)
	return &Metrics{
		RecordsRead: factory.NewCounter(prometheus.CounterOpts{
			Name: "spl_records_read_total",
			Help: "Number of records pulled from query sources.",
		}),
		RecordsEmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "spl_records_emitted_total",
			Help: "Number of records produced by queries.",
		}),
		Queries: factory.NewCounter(prometheus.CounterOpts{
			Name: "spl_queries_total",
			Help: "Number of queries run.",
		}),
		UnitErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "spl_distribution_unit_errors_total",
			Help: "Number of distribution units that failed.",
		}),
	}
}
