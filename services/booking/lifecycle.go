package booking

import (
	"fmt"

	"shinely/models"
)

// Action is a requested change to an appointment.
type Action string

const (
	ActionReschedule Action = "reschedule"
	ActionCancel     Action = "cancel"
	ActionComplete   Action = "complete"
	ActionArrive     Action = "arrive"
	ActionMarkMissed Action = "mark_missed"
	ActionUndoMissed Action = "undo_missed"
)

// transitions lists, for every status, the status each action leads to.
// Terminal statuses accept nothing.
var transitions = map[models.AppointmentStatus]map[Action]models.AppointmentStatus{
	models.StatusScheduled: {
		ActionReschedule: models.StatusRescheduled,
		ActionCancel:     models.StatusCancelled,
		ActionComplete:   models.StatusCompleted,
		ActionArrive:     models.StatusScheduled,
		ActionMarkMissed: models.StatusScheduled,
		ActionUndoMissed: models.StatusScheduled,
	},
	models.StatusRescheduled: {
		ActionReschedule: models.StatusRescheduled,
		ActionCancel:     models.StatusCancelled,
		ActionComplete:   models.StatusCompleted,
		ActionArrive:     models.StatusRescheduled,
		ActionMarkMissed: models.StatusRescheduled,
		ActionUndoMissed: models.StatusRescheduled,
	},
	models.StatusCancelled: {},
	models.StatusCompleted: {},
}

// NextStatus returns the status an appointment moves to under action.
func NextStatus(current models.AppointmentStatus, action Action) (models.AppointmentStatus, error) {
	table, known := transitions[current]
	if !known {
		return "", invalidInput(CodeInvalidTransition, "status", fmt.Sprintf("unknown appointment status %q", current))
	}
	if current.Terminal() {
		return "", policyViolation(CodeAppointmentClosed, fmt.Sprintf("appointment is %s", current))
	}
	next, ok := table[action]
	if !ok {
		return "", invalidInput(CodeInvalidTransition, "action", fmt.Sprintf("cannot %s a %s appointment", action, current))
	}
	return next, nil
}
