package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TodoListReadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "todo_list_reads_total",
			Help: "Total number of todo list reads",
		},
		[]string{"outcome"},
	)

	TodoMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "todo_mutations_total",
			Help: "Total number of todo mutations by action",
		},
		[]string{"action", "outcome"},
	)
)
