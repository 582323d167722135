package model

import "context"

// Scope identifies who an operation acts for.
type Scope struct {
	UserID         string
	ConversationID string
}

// HasConversation reports whether the scope is tied to a live conversation.
func (s Scope) HasConversation() bool {
	return s.UserID != "" && s.ConversationID != ""
}

type scopeKey struct{}

// WithScope returns a context carrying sc.
func WithScope(ctx context.Context, sc Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, sc)
}

// ScopeFromContext returns the scope stored by WithScope, or the zero Scope.
func ScopeFromContext(ctx context.Context) Scope {
	sc, _ := ctx.Value(scopeKey{}).(Scope)
	return sc
}
