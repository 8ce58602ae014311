package utils

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	GrantCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_grants_total",
			Help: "Reward grants applied, by kind",
		},
		[]string{"kind"},
	)

	LevelUpCount = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "engine_level_ups_total",
			Help: "Level-up events",
		},
	)

	NotificationCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_notifications_total",
			Help: "Notifications emitted, by type",
		},
		[]string{"type"},
	)

	ActionCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_actions_total",
			Help: "Qualifying user actions recorded, by type",
		},
		[]string{"type"},
	)
)

func InitMetrics() {
	prometheus.MustRegister(GrantCount, LevelUpCount, NotificationCount, ActionCount)
}
