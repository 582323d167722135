package webhook

import "errors"

var (
	ErrUnauthenticated  = errors.New("webhook: unauthenticated")
	ErrMalformed        = errors.New("webhook: malformed payload")
	ErrUnsupportedTopic = errors.New("webhook: unsupported topic")
	ErrIPNotAllowed     = errors.New("webhook: source ip not allowed")
	ErrRateLimited      = errors.New("webhook: rate limit exceeded")
)
