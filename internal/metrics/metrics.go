// Package metrics объявляет метрики Prometheus, которые отдаются на /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Исходы задачи рассылки приглашений.
const (
	FanoutDelivered = "delivered"
	FanoutSkipped   = "skipped"
	FanoutFailed    = "failed"
)

var (
	// NotificationsEnsured число вызовов дедупликации по типу и результату (created, existing).
	NotificationsEnsured = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "eventmaster",
		Name:      "notifications_ensured_total",
		Help:      "Notifications passed through deduplication, by type and outcome.",
	}, []string{"type", "outcome"})

	// NotificationPublishFailures неудачные публикации в брокер.
	NotificationPublishFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "eventmaster",
		Name:      "notification_publish_failures_total",
		Help:      "Failed attempts to publish a created notification to the broker.",
	})

	// FanoutTasks задачи рассылки приглашений по исходу.
	FanoutTasks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "eventmaster",
		Name:      "invitation_fanout_tasks_total",
		Help:      "Invitation fan-out tasks by result.",
	}, []string{"result"})

	// ParticipationChanges успешные вступления и выходы.
	ParticipationChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "eventmaster",
		Name:      "participation_changes_total",
		Help:      "Successful join and leave actions.",
	}, []string{"action"})

	// EmailsSent письма, отправленные сервисом рассылки, по результату.
	EmailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "eventmaster",
		Name:      "emails_sent_total",
		Help:      "Notification e-mails by result.",
	}, []string{"result"})
)
