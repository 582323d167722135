package attribution

import (
	"context"
	"time"

	"conversational-commerce/pkg/commerce"
)

// Tagger decorates outbound cart requests with the active conversation's tag.
type Tagger struct {
	codec Codec
	now   func() time.Time
}

// NewTagger creates a Tagger writing tags with codec.
func NewTagger(codec Codec) *Tagger {
	return &Tagger{codec: codec, now: time.Now}
}

// Tag merges the encoded tag into req.Attributes. Existing attributes with a
// reserved key are replaced; others are kept in order. A nil or malformed
// active tag leaves req untouched, so a cart is never tagged with values that
// cannot be decoded again.
func (t *Tagger) Tag(req *commerce.CreateCartRequest, active *Tag) {
	if req == nil || active == nil {
		return
	}

	tag := *active
	if tag.Source == "" {
		tag.Source = t.codec.Marker()
	}
	if !tag.WellFormed() {
		return
	}
	if tag.Timestamp.IsZero() {
		tag.Timestamp = t.now().UTC()
	}

	encoded := t.codec.Encode(tag)
	reserved := make(map[string]bool, len(encoded))
	for _, a := range encoded {
		reserved[a.Key] = true
	}

	merged := make([]commerce.Attribute, 0, len(req.Attributes)+len(encoded))
	for _, a := range req.Attributes {
		if !reserved[a.Key] && !isReservedKey(a.Key) {
			merged = append(merged, a)
		}
	}
	for _, a := range encoded {
		merged = append(merged, commerce.Attribute{Key: a.Key, Value: a.Value})
	}
	req.Attributes = merged
}

func isReservedKey(k string) bool {
	switch k {
	case KeyConversationID, KeyUserID, KeySource, KeyTimestamp:
		return true
	}
	return false
}

type tagKey struct{}

// WithTag returns a context carrying the active conversation tag.
func WithTag(ctx context.Context, t Tag) context.Context {
	return context.WithValue(ctx, tagKey{}, t)
}

// TagFromContext returns the tag stored by WithTag.
func TagFromContext(ctx context.Context) (Tag, bool) {
	t, ok := ctx.Value(tagKey{}).(Tag)
	return t, ok
}

// taggedCreator passes every cart request through the tagger before delegating.
type taggedCreator struct {
	inner  commerce.CartCreator
	tagger *Tagger
}

// NewTaggedCreator wraps inner so carts created under a context carrying a tag
// (see WithTag) are attributed to that conversation.
func NewTaggedCreator(inner commerce.CartCreator, tagger *Tagger) commerce.CartCreator {
	return taggedCreator{inner: inner, tagger: tagger}
}

func (c taggedCreator) CreateCart(ctx context.Context, req commerce.CreateCartRequest) (commerce.Cart, error) {
	if tag, ok := TagFromContext(ctx); ok {
		c.tagger.Tag(&req, &tag)
	}
	return c.inner.CreateCart(ctx, req)
}
