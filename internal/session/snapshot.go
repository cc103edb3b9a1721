package session

import (
	"encoding/json"
	"fmt"

	"github.com/LeninZapata/factory-saas-sub002/internal/models"
)

// MergeSnapshot applies a shallow field merge onto the user snapshot and
// returns the merged copy. Field names follow the JSON wire form
// ("name", "role", "config", ...). Unknown fields are ignored by decode.
func MergeSnapshot(user *models.UserProfile, fields map[string]any) (*models.UserProfile, error) {
	raw, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("session: marshal snapshot: %w", err)
	}

	m := make(map[string]any)
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("session: decode snapshot: %w", err)
	}
	for k, v := range fields {
		m[k] = v
	}

	merged, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("session: marshal merged snapshot: %w", err)
	}

	var out models.UserProfile
	if err := json.Unmarshal(merged, &out); err != nil {
		return nil, fmt.Errorf("session: merged snapshot invalid: %w", err)
	}
	return &out, nil
}
