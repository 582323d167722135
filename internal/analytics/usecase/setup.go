package usecase

import (
	"context"
	"strings"

	"conversational-commerce/internal/analytics"
	"conversational-commerce/internal/webhook"
)

var guideTopics = []struct {
	topic webhook.Topic
	path  string
}{
	{webhook.TopicOrdersCreate, "/webhooks/shopify/orders/create"},
	{webhook.TopicCartsCreate, "/webhooks/shopify/carts/create"},
	{webhook.TopicOrdersPaid, "/webhooks/shopify"},
	{webhook.TopicCartsUpdate, "/webhooks/shopify"},
}

func (uc *implUseCase) SetupGuide(ctx context.Context) analytics.SetupGuide {
	base := strings.TrimRight(uc.cfg.PublicBaseURL, "/")
	subs := make([]analytics.WebhookSubscription, len(guideTopics))
	for i, t := range guideTopics {
		subs[i] = analytics.WebhookSubscription{
			Topic:   string(t.topic),
			Address: base + t.path,
			Format:  "json",
		}
	}
	return analytics.SetupGuide{
		Subscriptions:    subs,
		SignatureHeader:  uc.cfg.SignatureHeader,
		SecretConfigured: uc.cfg.SecretConfigured,
		SourceMarker:     uc.cfg.SourceMarker,
	}
}
