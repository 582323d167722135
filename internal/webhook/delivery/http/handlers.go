package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"conversational-commerce/internal/webhook"
	pkgErrors "conversational-commerce/pkg/errors"
	"conversational-commerce/pkg/response"
)

// OrdersCreate godoc
// @Summary     Order webhook
// @Description Receives orders/create (and orders/paid via the topic header). The body must be signed with X-Shopify-Hmac-Sha256.
// @Tags        Webhooks
// @Accept      json
// @Produce     json
// @Param       X-Shopify-Hmac-Sha256 header string true  "base64 HMAC-SHA256 of the body"
// @Param       X-Shopify-Topic       header string false "notification topic"
// @Success     200 {object} webhookResp
// @Failure     400 {object} response.Resp "Malformed"
// @Failure     401 {object} response.Resp "Unauthenticated"
// @Failure     403 {object} response.Resp "IP not allowed"
// @Failure     429 {object} response.Resp "Rate limited"
// @Failure     500 {object} response.Resp "Storage failure"
// @Router      /webhooks/shopify/orders/create [POST]
func (h *handler) OrdersCreate(c *gin.Context) {
	h.handle(c, webhook.TopicOrdersCreate)
}

// CartsCreate godoc
// @Summary     Cart webhook
// @Description Receives carts/create (and carts/update via the topic header).
// @Tags        Webhooks
// @Accept      json
// @Produce     json
// @Param       X-Shopify-Hmac-Sha256 header string true "base64 HMAC-SHA256 of the body"
// @Success     200 {object} webhookResp
// @Failure     400 {object} response.Resp "Malformed"
// @Failure     401 {object} response.Resp "Unauthenticated"
// @Router      /webhooks/shopify/carts/create [POST]
func (h *handler) CartsCreate(c *gin.Context) {
	h.handle(c, webhook.TopicCartsCreate)
}

// Shopify godoc
// @Summary     Generic webhook
// @Description Receives any topic; the topic is taken from X-Shopify-Topic. Unsupported topics are acknowledged and ignored.
// @Tags        Webhooks
// @Accept      json
// @Produce     json
// @Param       X-Shopify-Hmac-Sha256 header string true "base64 HMAC-SHA256 of the body"
// @Param       X-Shopify-Topic       header string true "notification topic"
// @Success     200 {object} webhookResp
// @Failure     401 {object} response.Resp "Unauthenticated"
// @Router      /webhooks/shopify [POST]
func (h *handler) Shopify(c *gin.Context) {
	h.handle(c, "")
}

// handle verifies, parses and correlates one notification. routeTopic is used
// when the request carries no topic header.
func (h *handler) handle(c *gin.Context, routeTopic webhook.Topic) {
	ctx, span := h.tracer.Start(c.Request.Context(), "webhook.Receive")
	defer span.End()

	topic := webhook.Topic(c.GetHeader(TopicHeader))
	if topic == "" {
		topic = routeTopic
	}
	span.SetAttributes(attribute.String("webhook.topic", string(topic)))

	// Unsigned requests are turned away before the body is read.
	if err := h.verifier.Precheck(c.Request); err != nil {
		h.fail(c, span, topic, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		h.l.Warnf(ctx, "internal.webhook.delivery.http.handle: read body: %v", err)
		h.metrics.RecordWebhook(string(topic), "malformed")
		response.Error(c, pkgErrors.NewHTTPError(http.StatusBadRequest, "Malformed"), nil)
		return
	}

	// The gate runs before anything looks at the body.
	if err := h.verifier.Verify(c.Request, body); err != nil {
		h.fail(c, span, topic, err)
		return
	}

	if _, ok := topic.Kind(); !ok {
		h.l.Infof(ctx, "internal.webhook.delivery.http.handle: unsupported topic %q ignored", topic)
		h.metrics.RecordWebhook(string(topic), statusIgnored)
		response.OK(c, webhookResp{Status: statusIgnored, Topic: string(topic)})
		return
	}

	n, err := webhook.Parse(topic, body, h.now())
	if err != nil {
		h.fail(c, span, topic, err)
		return
	}

	out, err := h.uc.Correlate(ctx, n)
	if err != nil {
		h.fail(c, span, topic, err)
		return
	}

	resp := newWebhookResp(string(topic), out)
	span.SetAttributes(attribute.String("webhook.status", resp.Status), attribute.Bool("webhook.attributed", resp.Attributed))
	h.metrics.RecordWebhook(string(topic), resp.Status)
	response.OK(c, resp)
}

func (h *handler) fail(c *gin.Context, span trace.Span, topic webhook.Topic, err error) {
	ctx := c.Request.Context()
	httpErr, outcome := h.mapError(err)

	if errors.Is(err, webhook.ErrUnauthenticated) || errors.Is(err, webhook.ErrMalformed) {
		h.l.Warnf(ctx, "internal.webhook.delivery.http.handle: topic=%s: %v", topic, err)
	} else {
		h.l.Errorf(ctx, "internal.webhook.delivery.http.handle: topic=%s: %v", topic, err)
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, outcome)
	h.metrics.RecordWebhook(string(topic), outcome)
	response.Error(c, httpErr, nil)
}
