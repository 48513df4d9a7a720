package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sessionMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_session_mutations_total",
			Help: "Total number of session store mutations",
		},
		[]string{"store", "operation"},
	)

	sessionConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storefront_session_conflicts_total",
			Help: "Total number of optimistic-lock conflicts while saving sessions",
		},
	)

	listingQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_listing_queries_total",
			Help: "Total number of listing pipeline queries",
		},
		[]string{"resource"},
	)
)
