package http

import (
	"github.com/gin-gonic/gin"
)

func (h *handler) processMessageReq(c *gin.Context) (messageReq, error) {
	var req messageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, errInvalidBody
	}
	return req, nil
}

func (h *handler) processProductViewReq(c *gin.Context) (productViewReq, error) {
	var req productViewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, errInvalidBody
	}
	return req, nil
}

func (h *handler) processSearchReq(c *gin.Context) (searchReq, error) {
	var req searchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, errInvalidBody
	}
	return req, nil
}

func (h *handler) processActionReq(c *gin.Context) (actionReq, error) {
	var req actionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, errInvalidBody
	}
	return req, nil
}

func (h *handler) processCartReq(c *gin.Context) (cartReq, error) {
	var req cartReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, errInvalidBody
	}
	return req, nil
}
