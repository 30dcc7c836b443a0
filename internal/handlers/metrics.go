package handlers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var statusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "caredash_session_status_transitions_total",
	Help: "Session status updates applied, labelled by resulting status.",
}, []string{"status"})
