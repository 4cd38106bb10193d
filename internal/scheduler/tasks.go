package scheduler

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const TaskAppointmentReminder = "appointments.reminder"

// AppointmentReminderPayload identifies one reminder. StartsAt is the
// appointment start ("2006-01-02T15:04") the task was scheduled for, so a
// rescheduled appointment gets a new task and the old one is skipped.
type AppointmentReminderPayload struct {
	AppointmentID string `json:"appointmentId"`
	StartsAt      string `json:"startsAt"`
}

func (p AppointmentReminderPayload) taskID() string {
	return fmt.Sprintf("reminder:%s:%s", p.AppointmentID, p.StartsAt)
}

func NewAppointmentReminderTask(payload AppointmentReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAppointmentReminder, data), nil
}

func ParseAppointmentReminderPayload(task *asynq.Task) (AppointmentReminderPayload, error) {
	var payload AppointmentReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return AppointmentReminderPayload{}, err
	}
	return payload, nil
}
