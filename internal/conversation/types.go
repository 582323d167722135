package conversation

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Role is the author of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Turn is one message in a conversation.
type Turn struct {
	Role Role
	Text string
	At   time.Time
}

// ProductSearch is a search the agent ran on the user's behalf.
type ProductSearch struct {
	Query       string
	ResultCount int
	At          time.Time
}

// ProductRef is a product the user looked at.
type ProductRef struct {
	ProductID  string
	Title      string
	PriceMinor int64
	Currency   string
	At         time.Time
}

// Context is the per-user conversation state. Values handed out by the store
// are deep copies; mutating them never affects the store.
type Context struct {
	UserID          string
	ConversationID  string
	Turns           []Turn
	ActiveCartRef   string
	LastSearchQuery string
	ShippingAddress map[string]string
	Preferences     map[string]any
	RecentSearches  []ProductSearch
	RecentProducts  []ProductRef
	CreatedAt       time.Time
	LastActiveAt    time.Time
}

// Clone returns a deep copy of c.
func (c Context) Clone() Context {
	out := c
	out.Turns = append([]Turn(nil), c.Turns...)
	out.RecentSearches = append([]ProductSearch(nil), c.RecentSearches...)
	out.RecentProducts = append([]ProductRef(nil), c.RecentProducts...)
	if c.ShippingAddress != nil {
		out.ShippingAddress = make(map[string]string, len(c.ShippingAddress))
		for k, v := range c.ShippingAddress {
			out.ShippingAddress[k] = v
		}
	}
	if c.Preferences != nil {
		out.Preferences = cloneMap(c.Preferences)
	}
	return out
}

// UserTurns counts turns authored by the user.
func (c Context) UserTurns() int {
	n := 0
	for _, t := range c.Turns {
		if t.Role == RoleUser {
			n++
		}
	}
	return n
}

// Brief renders the context as a compact text block for the agent layer.
func (c Context) Brief() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Conversation %s (user %s)\n", c.ConversationID, c.UserID)

	if len(c.Turns) > 0 {
		b.WriteString("Recent conversation:\n")
		for _, t := range c.Turns {
			fmt.Fprintf(&b, "- %s: %s\n", t.Role, truncate(t.Text, briefTextLimit))
		}
	}
	if c.ActiveCartRef != "" {
		fmt.Fprintf(&b, "Active cart: %s\n", c.ActiveCartRef)
	}
	if len(c.RecentSearches) > 0 {
		queries := make([]string, 0, len(c.RecentSearches))
		for _, s := range c.RecentSearches {
			queries = append(queries, s.Query)
		}
		fmt.Fprintf(&b, "Recent searches: %s\n", strings.Join(queries, ", "))
	}
	if len(c.RecentProducts) > 0 {
		viewed := make([]string, 0, len(c.RecentProducts))
		for _, p := range c.RecentProducts {
			viewed = append(viewed, fmt.Sprintf("%s (%s)", p.Title, p.ProductID))
		}
		fmt.Fprintf(&b, "Recently viewed: %s\n", strings.Join(viewed, ", "))
	}
	if len(c.ShippingAddress) > 0 {
		fmt.Fprintf(&b, "Shipping address: %s\n", joinSorted(c.ShippingAddress))
	}
	if len(c.Preferences) > 0 {
		prefs := make(map[string]string, len(c.Preferences))
		for k, v := range c.Preferences {
			prefs[k] = fmt.Sprint(v)
		}
		fmt.Fprintf(&b, "Preferences: %s\n", joinSorted(prefs))
	}
	return strings.TrimRight(b.String(), "\n")
}

// Update is a partial change to a context. Nil fields are left untouched.
type Update struct {
	ActiveCartRef   *string
	LastSearchQuery *string
	// ShippingAddress replaces the stored address when non-nil.
	ShippingAddress map[string]string
	// Preferences are merged per key; a nil value deletes the key.
	Preferences   map[string]any
	ProductSearch *ProductSearch
	ProductView   *ProductRef
}

// Empty reports whether u changes nothing.
func (u Update) Empty() bool {
	return u.ActiveCartRef == nil && u.LastSearchQuery == nil && u.ShippingAddress == nil &&
		u.Preferences == nil && u.ProductSearch == nil && u.ProductView == nil
}

// RecordTurnInput is the atomic get-or-create + append request.
type RecordTurnInput struct {
	UserID string
	Role   Role
	Text   string
	At     time.Time // turn time; zero or future means now
}

// RecordTurnOutput carries the context after the turn was appended.
type RecordTurnOutput struct {
	Context Context
	Created bool
}

// Stats describes the store's current population.
type Stats struct {
	ActiveContexts int
	TotalTurns     int
	ActiveCarts    int
	TTL            time.Duration
	MaxTurns       int
}

const briefTextLimit = 100

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func joinSorted(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+m[k])
	}
	return strings.Join(parts, ", ")
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		s := make([]any, len(t))
		for i := range t {
			s[i] = cloneValue(t[i])
		}
		return s
	case []string:
		return append([]string(nil), t...)
	case map[string]string:
		out := make(map[string]string, len(t))
		for k, s := range t {
			out[k] = s
		}
		return out
	default:
		return v
	}
}
