package utils

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// NewTask marshals a payload into an asynq task.
func NewTask(taskType string, payload interface{}, opts ...asynq.Option) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", taskType, err)
	}
	return asynq.NewTask(taskType, data, opts...), nil
}

// UnmarshalTask decodes a task payload into dest.
func UnmarshalTask(t *asynq.Task, dest interface{}) error {
	if err := json.Unmarshal(t.Payload(), dest); err != nil {
		return fmt.Errorf("unmarshal %s payload: %w", t.Type(), err)
	}
	return nil
}
