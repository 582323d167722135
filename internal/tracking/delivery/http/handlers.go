package http

import (
	"github.com/gin-gonic/gin"

	"conversational-commerce/pkg/response"
)

// RecordMessage godoc
// @Summary     Record a chat turn
// @Description Appends the turn to the user's context, creating a conversation when none is live. A repeated message_id is acknowledged without changes.
// @Tags        Tracking
// @Accept      json
// @Produce     json
// @Param       request body messageReq true "Chat turn"
// @Success     200 {object} messageResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Router      /api/v1/messages [POST]
func (h *handler) RecordMessage(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processMessageReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	out, err := h.uc.RecordMessage(ctx, req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "uc.RecordMessage: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}

	response.OK(c, messageResp{
		ConversationID: out.ConversationID,
		Created:        out.Created,
		Duplicate:      out.Duplicate,
		Turns:          out.Turns,
	})
}

// RecordProductView godoc
// @Summary     Record a product view
// @Tags        Tracking
// @Accept      json
// @Produce     json
// @Param       request body productViewReq true "Viewed product"
// @Success     200 {object} productViewResp
// @Failure     404 {object} response.Resp "No live conversation"
// @Router      /api/v1/product-views [POST]
func (h *handler) RecordProductView(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processProductViewReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}
	in, err := req.toInput()
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	out, err := h.uc.RecordProductView(ctx, in)
	if err != nil {
		response.Error(c, h.mapError(err), nil)
		return
	}

	response.OK(c, productViewResp{ConversationID: out.ConversationID, EventID: out.EventID})
}

// RecordSearch godoc
// @Summary     Record a product search
// @Tags        Tracking
// @Accept      json
// @Produce     json
// @Param       request body searchReq true "Search"
// @Success     200 {object} searchResp
// @Failure     404 {object} response.Resp "No live conversation"
// @Router      /api/v1/searches [POST]
func (h *handler) RecordSearch(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processSearchReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	out, err := h.uc.RecordSearch(ctx, req.toInput())
	if err != nil {
		response.Error(c, h.mapError(err), nil)
		return
	}

	response.OK(c, searchResp{ConversationID: out.ConversationID, RecentSearches: out.RecentSearches})
}

// RecordAction godoc
// @Summary     Record an agent action
// @Description The operation must be one of the known commerce operations.
// @Tags        Tracking
// @Accept      json
// @Produce     json
// @Param       request body actionReq true "Action"
// @Success     200 {object} actionResp
// @Failure     400 {object} response.Resp "Unknown operation"
// @Router      /api/v1/actions [POST]
func (h *handler) RecordAction(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processActionReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	out, err := h.uc.RecordAction(ctx, req.toInput())
	if err != nil {
		response.Error(c, h.mapError(err), nil)
		return
	}

	response.OK(c, actionResp{EventID: out.EventID, ConversationID: out.ConversationID})
}

// CreateCart godoc
// @Summary     Create an attributed cart
// @Description Creates a cart on the commerce backend tagged with the user's live conversation, so the resulting order can be attributed.
// @Tags        Tracking
// @Accept      json
// @Produce     json
// @Param       request body cartReq true "Cart lines"
// @Success     200 {object} cartResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     502 {object} response.Resp "Commerce backend error"
// @Router      /api/v1/carts [POST]
func (h *handler) CreateCart(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processCartReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	out, err := h.uc.CreateCart(ctx, req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "uc.CreateCart: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}

	response.OK(c, h.newCartResp(out))
}
