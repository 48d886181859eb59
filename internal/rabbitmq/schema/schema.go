package schema

import (
	"encoding/json"
)

// PasswordResetRequested is published whenever a reset token has been issued.
// The consumer side turns it into an email, so the token travels in the event.
type PasswordResetRequested struct {
	EventID string
	UserID  int64
	Email   string
	Token   string
}

func (p *PasswordResetRequested) Marshal() ([]byte, error) {
	return json.Marshal(p)
}

func (p *PasswordResetRequested) Unmarshal(data []byte) error {
	return json.Unmarshal(data, p)
}
