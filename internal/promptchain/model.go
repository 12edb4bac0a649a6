package promptchain

import (
	"encoding/json"
	"time"
)

// PromptChain is a named, ordered list of prompts managed by admins.
type PromptChain struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Prompts     json.RawMessage `json:"prompts"`
	IsActive    bool            `json:"isActive"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Patch updates selected fields; nil means unchanged.
type Patch struct {
	Name        *string
	Description *string
	Prompts     json.RawMessage
	IsActive    *bool
}

func promptCount(prompts json.RawMessage) int {
	var items []json.RawMessage
	if err := json.Unmarshal(prompts, &items); err != nil {
		return 0
	}
	return len(items)
}
