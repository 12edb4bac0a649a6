package dashboard

import (
	"encoding/json"
	"time"
)

// Data is one saved dashboard widget payload, unique per (user, data type).
type Data struct {
	ID        string          `json:"id"`
	UserID    int64           `json:"userId"`
	DataType  string          `json:"dataType"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
