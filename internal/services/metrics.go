package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Domain counters. Registered once at package load so services can be
// constructed freely in tests without duplicate-registration panics.
var (
	registrationsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tourist_hub_registrations_created_total",
		Help: "Total number of registrations created",
	})

	registrationsApprovedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tourist_hub_registrations_approved_total",
		Help: "Total number of registrations approved",
	})

	registrationsRejectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tourist_hub_registrations_rejected_total",
		Help: "Total number of registrations rejected",
	})

	registrationsCancelledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tourist_hub_registrations_cancelled_total",
		Help: "Total number of registrations cancelled",
	})

	capacityConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tourist_hub_capacity_conflicts_total",
		Help: "Approvals refused because the tour event was full",
	})

	capacityRepairsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tourist_hub_capacity_repairs_total",
		Help: "Reconcile runs that corrected a drifted remaining-seats counter",
	})

	notificationsDispatchedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tourist_hub_notifications_dispatched_total",
		Help: "Notification events enqueued for delivery",
	}, []string{"event_type"})
)
