package media

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var storeOperations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "media_store_operations_total",
		Help: "Record store operations by outcome.",
	},
	[]string{"op", "result"},
)

func observe(op string, err error) {
	result := "ok"
	switch {
	case err == nil:
	case IsValidation(err):
		result = "invalid"
	default:
		result = "error"
	}
	storeOperations.WithLabelValues(op, result).Inc()
}
