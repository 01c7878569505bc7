package reminder

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	remindersSentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "renewd_reminders_sent_total",
		Help: "Reminders delivered successfully, by channel.",
	}, []string{"channel"})

	remindersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "renewd_reminders_failed_total",
		Help: "Reminder delivery attempts that failed, by channel.",
	}, []string{"channel"})
)
