package activity

import (
	"encoding/json"
	"time"
)

// Activity is one entry of a user's activity log.
type Activity struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"userId"`
	Action      string          `json:"action"`
	Description string          `json:"description"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

const (
	defaultLimit = 50
	maxLimit     = 200
)
