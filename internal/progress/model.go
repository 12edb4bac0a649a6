package progress

import (
	"encoding/json"
	"time"
)

// DefaultStatus is assigned to new records that do not name a status.
const DefaultStatus = "IN_PROGRESS"

// Progress tracks a user's progress on one task.
type Progress struct {
	ID         int64           `json:"id"`
	UserID     int64           `json:"userId"`
	TaskType   string          `json:"taskType"`
	TaskID     string          `json:"taskId"`
	Status     string          `json:"status"`
	Percentage int             `json:"percentage"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// Update is an upsert request. Nil fields keep their stored value on update
// and take defaults on create.
type Update struct {
	TaskType   string
	TaskID     string
	Status     *string
	Percentage *int
	Metadata   json.RawMessage
}
