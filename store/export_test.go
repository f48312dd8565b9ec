package store

import "github.com/prometheus/client_golang/prometheus"

func OpsMetric() *prometheus.CounterVec {
	return opsMetric
}
