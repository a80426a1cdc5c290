package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rostersParsed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ftl_rosters_parsed_total",
		Help: "Roster parse requests by detected format and outcome.",
	}, []string{"format", "outcome"})

	complianceRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ftl_compliance_runs_total",
		Help: "Compliance evaluations by worst day status in the report.",
	}, []string{"status"})

	complianceIssues = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ftl_compliance_issues_total",
		Help: "Compliance issues raised, by issue type.",
	}, []string{"type"})
)
