package http

import (
	"github.com/gin-gonic/gin"

	"conversational-commerce/pkg/response"
)

// Get godoc
// @Summary     Get a user's conversation context
// @Description Returns a snapshot of the live context, including the agent-facing brief.
// @Tags        Contexts
// @Produce     json
// @Param       user_id path string true "Channel user id"
// @Success     200 {object} contextResp
// @Failure     404 {object} response.Resp "Not Found"
// @Router      /api/v1/contexts/{user_id} [GET]
func (h *handler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	userID := c.Param("user_id")
	if userID == "" {
		response.Error(c, errUserIDRequired, nil)
		return
	}

	snap, err := h.uc.Snapshot(ctx, userID)
	if err != nil {
		response.Error(c, h.mapError(err), nil)
		return
	}

	response.OK(c, h.newContextResp(snap))
}

// Clear godoc
// @Summary     Clear a user's conversation context
// @Description Removes the context immediately. Clearing an absent context succeeds.
// @Tags        Contexts
// @Produce     json
// @Param       user_id path string true "Channel user id"
// @Success     200 {object} clearResp
// @Failure     503 {object} response.Resp "Storage unavailable"
// @Router      /api/v1/contexts/{user_id} [DELETE]
func (h *handler) Clear(c *gin.Context) {
	ctx := c.Request.Context()

	userID := c.Param("user_id")
	if userID == "" {
		response.Error(c, errUserIDRequired, nil)
		return
	}

	existed, err := h.uc.Clear(ctx, userID)
	if err != nil {
		h.l.Errorf(ctx, "uc.Clear: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}

	response.OK(c, clearResp{UserID: userID, Existed: existed})
}

// Evict godoc
// @Summary     Evict expired contexts
// @Description Runs one eviction sweep now and reports how many contexts were removed.
// @Tags        Contexts
// @Produce     json
// @Success     200 {object} evictResp
// @Router      /api/v1/contexts/evictions [POST]
func (h *handler) Evict(c *gin.Context) {
	ctx := c.Request.Context()

	n, err := h.uc.EvictExpired(ctx)
	if err != nil {
		h.l.Errorf(ctx, "uc.EvictExpired: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}

	response.OK(c, evictResp{Evicted: n, Remaining: h.uc.Stats(ctx).ActiveContexts})
}

// Stats godoc
// @Summary     Context store statistics
// @Tags        Contexts
// @Produce     json
// @Success     200 {object} statsResp
// @Router      /api/v1/contexts/stats [GET]
func (h *handler) Stats(c *gin.Context) {
	response.OK(c, h.newStatsResp(h.uc.Stats(c.Request.Context())))
}
