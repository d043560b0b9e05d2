package tasks

import (
	"encoding/json"
	"time"

	"salonflow/models"

	"github.com/hibiken/asynq"
)

const (
	TypeSendReminder = "reminder:send"
	TypeHoldSweep    = "hold:sweep"
)

// NewReminderTask builds a reminder push task scheduled for fireAt.
func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}

// NewHoldSweepTask builds the periodic expired-hold sweep task.
func NewHoldSweepTask() *asynq.Task {
	return asynq.NewTask(TypeHoldSweep, nil)
}
