package spatial

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/veldtlabs/veldt/models"
)

const (
	categoryLabel = "category"
)

var (
	veldtEntityCount = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "entity_count",
		Help: "The number of registered entities.",
	}, []string{categoryLabel})

	veldtEntityCountTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "entity_count_total",
		Help: "The total number of entity registrations.",
	}, []string{categoryLabel})

	veldtCullPassTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cull_pass_total",
		Help: "The total number of culling passes.",
	})

	veldtVisibleEntityCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "visible_entity_count",
		Help: "The number of entities marked visible by the last culling pass.",
	})

	veldtRangeQueryTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "range_query_total",
		Help: "The total number of range queries.",
	})
)

func instrumentEntityRegistered(c models.Category) {
	veldtEntityCount.
		With(prometheus.Labels{categoryLabel: c.String()}).
		Inc()
	veldtEntityCountTotal.
		With(prometheus.Labels{categoryLabel: c.String()}).
		Inc()
}

func instrumentEntityRemoved(c models.Category) {
	veldtEntityCount.
		With(prometheus.Labels{categoryLabel: c.String()}).
		Dec()
}

func instrumentCullPass(visible int) {
	veldtCullPassTotal.Inc()
	veldtVisibleEntityCount.Set((float64)(visible))
}

func instrumentRangeQuery() {
	veldtRangeQueryTotal.Inc()
}
