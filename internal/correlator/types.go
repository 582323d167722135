package correlator

// Outcome reports what Correlate did with a notification.
type Outcome struct {
	EventID        string
	DedupKey       string
	Duplicate      bool
	Attributed     bool
	ConversationID string
	UserID         string
}
