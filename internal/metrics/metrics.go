package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CommandsHandled counts processed bot commands by command name.
	CommandsHandled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vazifabot_commands_total",
		Help: "Number of processed bot commands.",
	}, []string{"command"})

	// CallbackActions counts processed inline-button actions by kind.
	CallbackActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vazifabot_callback_actions_total",
		Help: "Number of processed inline keyboard actions.",
	}, []string{"action"})

	// RemindersSent counts reminder notifications delivered and flagged.
	RemindersSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vazifabot_reminders_sent_total",
		Help: "Number of reminder notifications sent successfully.",
	})

	// ReminderSendErrors counts reminder deliveries or flag updates that failed.
	ReminderSendErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vazifabot_reminder_send_errors_total",
		Help: "Number of failed reminder deliveries.",
	})
)
