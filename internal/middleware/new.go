package middleware

import (
	"conversational-commerce/pkg/log"
)

// InternalKeyHeader carries the shared key for the internal API.
const InternalKeyHeader = "X-API-Key"

type Middleware struct {
	l           log.Logger
	internalKey string
}

// New creates the middleware set. An empty internalKey disables the key check.
func New(l log.Logger, internalKey string) Middleware {
	return Middleware{
		l:           l,
		internalKey: internalKey,
	}
}
