package attribution

import (
	"strings"
	"time"
	"unicode"
)

// Attribute is a backend key/value attribute.
type Attribute struct {
	Key   string
	Value string
}

// Tag links a backend cart or order to the conversation that created it.
type Tag struct {
	ConversationID string
	UserID         string
	Source         string
	// Timestamp is informational; zero means it is not written.
	Timestamp time.Time
}

// WellFormed reports whether t can be encoded and decoded back unchanged.
// Timestamps survive at full precision and come back in UTC.
func (t Tag) WellFormed() bool {
	return validField(t.ConversationID) && validField(t.UserID) && validField(t.Source)
}

func validField(s string) bool {
	if s == "" || len(s) > MaxFieldLength || strings.TrimSpace(s) != s {
		return false
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}
