package http

import (
	"github.com/gin-gonic/gin"

	"conversational-commerce/pkg/response"
)

// Overview godoc
// @Summary     Business overview
// @Description Conversations, messages, carts, orders and revenue for the window. Unattributed orders count toward gross revenue only.
// @Tags        Analytics
// @Produce     json
// @Param       start_date query string false "First day, YYYY-MM-DD"
// @Param       end_date   query string false "Last day (inclusive), YYYY-MM-DD"
// @Param       days       query int    false "Trailing days when no start_date is given (default 30)"
// @Success     200 {object} overviewResp
// @Failure     400 {object} response.Resp "Invalid window"
// @Router      /api/v1/analytics/overview [GET]
func (h *handler) Overview(c *gin.Context) {
	ctx := c.Request.Context()

	w, err := h.processWindowReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	o, err := h.uc.Overview(ctx, w)
	if err != nil {
		h.l.Errorf(ctx, "uc.Overview: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}

	response.OK(c, h.newOverviewResp(o))
}

// DailyRevenue godoc
// @Summary     Revenue per day
// @Tags        Analytics
// @Produce     json
// @Param       start_date query string false "First day, YYYY-MM-DD"
// @Param       end_date   query string false "Last day (inclusive), YYYY-MM-DD"
// @Param       days       query int    false "Trailing days (default 30)"
// @Success     200 {object} dailyRevenueResp
// @Router      /api/v1/analytics/revenue/daily [GET]
func (h *handler) DailyRevenue(c *gin.Context) {
	ctx := c.Request.Context()

	w, err := h.processWindowReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	days, err := h.uc.DailyRevenue(ctx, w)
	if err != nil {
		h.l.Errorf(ctx, "uc.DailyRevenue: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}

	response.OK(c, h.newDailyRevenueResp(w, days))
}

// TopProducts godoc
// @Summary     Best selling products
// @Description Ranked by purchased quantity, then revenue, then product id.
// @Tags        Analytics
// @Produce     json
// @Param       days  query int false "Trailing days (default 30)"
// @Param       limit query int false "Number of products (1-100, default 10)"
// @Success     200 {object} topProductsResp
// @Router      /api/v1/analytics/products/top [GET]
func (h *handler) TopProducts(c *gin.Context) {
	ctx := c.Request.Context()

	w, err := h.processWindowReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}
	limit, err := h.processLimit(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	products, err := h.uc.TopProducts(ctx, w, limit)
	if err != nil {
		h.l.Errorf(ctx, "uc.TopProducts: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}

	response.OK(c, h.newTopProductsResp(w, products))
}

// Funnel godoc
// @Summary     Conversion funnel
// @Description Distinct conversations per stage. Percentages are relative to the first stage; stages exceeding their predecessor are listed in anomalies.
// @Tags        Analytics
// @Produce     json
// @Param       days query int false "Trailing days (default 30)"
// @Success     200 {object} funnelResp
// @Router      /api/v1/analytics/funnel [GET]
func (h *handler) Funnel(c *gin.Context) {
	ctx := c.Request.Context()

	w, err := h.processWindowReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	f, err := h.uc.Funnel(ctx, w)
	if err != nil {
		h.l.Errorf(ctx, "uc.Funnel: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}

	response.OK(c, h.newFunnelResp(f))
}

// AgentPerformance godoc
// @Summary     Agent action statistics
// @Tags        Analytics
// @Produce     json
// @Param       days query int false "Trailing days (default 30)"
// @Success     200 {object} agentPerformanceResp
// @Router      /api/v1/analytics/agent/performance [GET]
func (h *handler) AgentPerformance(c *gin.Context) {
	ctx := c.Request.Context()

	w, err := h.processWindowReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	p, err := h.uc.AgentPerformance(ctx, w)
	if err != nil {
		h.l.Errorf(ctx, "uc.AgentPerformance: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}

	response.OK(c, h.newAgentPerformanceResp(p))
}

// Engagement godoc
// @Summary     User engagement
// @Tags        Analytics
// @Produce     json
// @Param       days query int false "Trailing days (default 30)"
// @Success     200 {object} engagementResp
// @Router      /api/v1/analytics/users/engagement [GET]
func (h *handler) Engagement(c *gin.Context) {
	ctx := c.Request.Context()

	w, err := h.processWindowReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	e, err := h.uc.Engagement(ctx, w)
	if err != nil {
		h.l.Errorf(ctx, "uc.Engagement: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}

	response.OK(c, h.newEngagementResp(e))
}

// SetupGuide godoc
// @Summary     Webhook setup guide
// @Description Lists the webhook subscriptions to register on the commerce backend.
// @Tags        Analytics
// @Produce     json
// @Success     200 {object} setupGuideResp
// @Router      /api/v1/analytics/setup/webhooks [GET]
func (h *handler) SetupGuide(c *gin.Context) {
	response.OK(c, h.newSetupGuideResp(h.uc.SetupGuide(c.Request.Context())))
}
