package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskPropertyImport = "properties.import"

const TaskNotificationSend = "notification.send"

// PropertyImportPayload identifies who asked for an import. The worker always
// reads its own configured data path.
type PropertyImportPayload struct {
	RequestedBy string `json:"requestedBy,omitempty"`
}

// NotificationSendPayload is one rendered-on-delivery email fan-out.
type NotificationSendPayload struct {
	Template   string          `json:"template"`
	Recipients []string        `json:"recipients"`
	Data       json.RawMessage `json:"data"`
	InquiryID  string          `json:"inquiryId,omitempty"`
}

func NewPropertyImportTask(payload PropertyImportPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPropertyImport, data), nil
}

func ParsePropertyImportPayload(task *asynq.Task) (PropertyImportPayload, error) {
	var payload PropertyImportPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return PropertyImportPayload{}, err
	}
	return payload, nil
}

func NewNotificationSendTask(payload NotificationSendPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskNotificationSend, data), nil
}

func ParseNotificationSendPayload(task *asynq.Task) (NotificationSendPayload, error) {
	var payload NotificationSendPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return NotificationSendPayload{}, err
	}
	return payload, nil
}
