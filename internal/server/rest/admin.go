package rest

import (
	"net/http"

	"github.com/dmitrijs2005/autodealer/internal/server/models"
	"github.com/gin-gonic/gin"
)

type sellRequestBody struct {
	CarDetails models.SellCarDetails `json:"carDetails"`
}

type statusBody struct {
	Status models.SellRequestStatus `json:"status" binding:"required"`
}

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(users))
}

func (h *Handler) dashboardStats(c *gin.Context) {
	st, err := h.stats.Dashboard(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handler) createSellRequest(c *gin.Context) {
	var body sellRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.fail(c, bindError(err))
		return
	}

	req, err := h.sellRequests.Create(c.Request.Context(), claimsFrom(c).UserID(), body.CarDetails)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

func (h *Handler) listSellRequests(c *gin.Context) {
	reqs, err := h.sellRequests.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(reqs))
}

func (h *Handler) listMySellRequests(c *gin.Context) {
	reqs, err := h.sellRequests.ListMine(c.Request.Context(), claimsFrom(c).UserID())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(reqs))
}

func (h *Handler) updateSellRequest(c *gin.Context) {
	var body statusBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.fail(c, bindError(err))
		return
	}

	req, err := h.sellRequests.UpdateStatus(c.Request.Context(), c.Param("id"), body.Status)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}
