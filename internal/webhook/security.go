package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

// SignatureHeader carries base64(HMAC-SHA256(secret, body)).
const SignatureHeader = "X-Shopify-Hmac-Sha256"

// Verifier is the single gate every webhook request passes before its body is parsed.
type Verifier struct {
	config      SecurityConfig
	rateLimiter *rateLimiter
}

// NewVerifier creates a Verifier. An empty secret makes every request fail.
func NewVerifier(config SecurityConfig) *Verifier {
	v := &Verifier{config: config}
	if config.RateLimitPerMin > 0 {
		v.rateLimiter = newRateLimiter(config.RateLimitPerMin)
	}
	return v
}

// Verify checks the signature, then the source IP, then the rate limit.
func (v *Verifier) Verify(r *http.Request, body []byte) error {
	if err := v.ValidateSignature(body, r.Header.Get(SignatureHeader)); err != nil {
		return err
	}

	ip := extractIP(r)
	if err := v.ValidateIPAddress(ip); err != nil {
		return err
	}
	return v.CheckRateLimit(ip)
}

// Precheck rejects requests whose signature header can never verify,
// whatever the body. It runs before the body is read.
func (v *Verifier) Precheck(r *http.Request) error {
	_, err := v.decodeSignature(r.Header.Get(SignatureHeader))
	return err
}

func (v *Verifier) decodeSignature(signature string) ([]byte, error) {
	if v.config.Secret == "" {
		return nil, fmt.Errorf("%w: webhook secret not configured", ErrUnauthenticated)
	}
	if signature == "" {
		return nil, fmt.Errorf("%w: missing signature", ErrUnauthenticated)
	}
	sig, err := base64.StdEncoding.DecodeString(strings.TrimSpace(signature))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid signature encoding", ErrUnauthenticated)
	}
	return sig, nil
}

// ValidateSignature verifies a base64 HMAC-SHA256 signature of payload.
func (v *Verifier) ValidateSignature(payload []byte, signature string) error {
	expectedSig, err := v.decodeSignature(signature)
	if err != nil {
		return err
	}

	mac := hmac.New(sha256.New, []byte(v.config.Secret))
	mac.Write(payload)
	actualSig := mac.Sum(nil)

	// Constant-time comparison on raw bytes
	if !hmac.Equal(expectedSig, actualSig) {
		return fmt.Errorf("%w: signature mismatch", ErrUnauthenticated)
	}
	return nil
}

// ValidateIPAddress checks ip against the allowlist.
func (v *Verifier) ValidateIPAddress(ip string) error {
	if len(v.config.AllowedIPs) == 0 {
		return nil // No IP restriction
	}

	parsed := net.ParseIP(ip)
	for _, allowedIP := range v.config.AllowedIPs {
		if ip == allowedIP {
			return nil
		}

		// Check CIDR range
		if strings.Contains(allowedIP, "/") && parsed != nil {
			_, ipNet, err := net.ParseCIDR(allowedIP)
			if err != nil {
				continue
			}
			if ipNet.Contains(parsed) {
				return nil
			}
		}
	}

	return fmt.Errorf("%w: %s", ErrIPNotAllowed, ip)
}

// CheckRateLimit enforces the per-source rate limit.
func (v *Verifier) CheckRateLimit(source string) error {
	if v.rateLimiter == nil {
		return nil
	}
	return v.rateLimiter.Allow(source)
}

// Sign returns the signature header value for payload. Used by tests and tooling.
func Sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// extractIP extracts client IP from request
func extractIP(r *http.Request) string {
	// Check X-Forwarded-For header (proxy/load balancer)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}

	// Check X-Real-IP header
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	// Fallback to RemoteAddr
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// rateLimiter keeps one token bucket per source; idle sources expire from the LRU.
type rateLimiter struct {
	limiters *expirable.LRU[string, *rate.Limiter]
	rate     rate.Limit
	burst    int
}

func newRateLimiter(requestsPerMin int) *rateLimiter {
	burst := requestsPerMin / 10
	if burst < 1 {
		burst = 1
	}
	return &rateLimiter{
		limiters: expirable.NewLRU[string, *rate.Limiter](
			1000,          // Max 1000 unique sources
			nil,           // No eviction callback
			time.Minute*5, // TTL: 5 minutes
		),
		rate:  rate.Limit(float64(requestsPerMin) / 60.0), // Per second
		burst: burst,
	}
}

func (rl *rateLimiter) Allow(key string) error {
	limiter, ok := rl.limiters.Get(key)
	if !ok {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters.Add(key, limiter)
	}

	if !limiter.Allow() {
		return fmt.Errorf("%w for %s", ErrRateLimited, key)
	}
	return nil
}
