package terrain

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	veldtContactCountTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "terrain_contact_count_total",
		Help: "The total number of confirmed terrain contacts.",
	})
)

func instrumentContact() {
	veldtContactCountTotal.Inc()
}
