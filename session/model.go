package session

import (
	"encoding/json"
	"fmt"
)

// Session is the server-side record of one login event.
type Session struct {
	SessionID string `json:"-"`
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	LoginAt   int64  `json:"login_at"`
	IP        string `json:"ip,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}

// Encode serializes a session for storage.
func Encode(sess *Session) (string, error) {
	data, err := json.Marshal(sess)
	if err != nil {
		return "", fmt.Errorf("encoding session: %w", err)
	}
	return string(data), nil
}

// Decode deserializes a stored session blob. A blob that unmarshals but
// lacks a user ID is corrupt.
func Decode(data string) (*Session, error) {
	var sess Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, fmt.Errorf("decoding session: %w", err)
	}
	if sess.UserID == "" {
		return nil, fmt.Errorf("decoding session: missing user id")
	}
	return &sess, nil
}
