// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values for the result dimension.
const (
	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultRejected = "rejected"
	ResultError    = "error"
)

var (
	StudentLogins = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lab_student_logins_total",
		Help: "Student logins recorded.",
	})

	StudentLogouts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lab_student_logouts_total",
		Help: "Student logout attempts by result.",
	}, []string{"result"})

	FacultyAuth = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lab_faculty_auth_total",
		Help: "Faculty login attempts by result.",
	}, []string{"result"})
)
