package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"abccurve/internal/service"
)

type StatusHandler struct {
	Status *service.StatusService
}

func (h *StatusHandler) Register(r *gin.Engine) {
	group := r.Group("/api/products")
	group.GET("/status", h.list)
	group.GET("/:id/status", h.get)
	group.PUT("/:id/status", h.set)
	group.DELETE("/:id/status", h.clear)
}

type setStatusRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

func (h *StatusHandler) set(c *gin.Context) {
	if h.Status == nil {
		Error(c, http.StatusInternalServerError, "status service unavailable", nil)
		return
	}
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid payload", nil)
		return
	}
	item, err := h.Status.Set(c.Request.Context(), c.Param("id"), req.Status, req.Note)
	if err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	Ok(c, item, nil)
}

func (h *StatusHandler) get(c *gin.Context) {
	if h.Status == nil {
		Error(c, http.StatusInternalServerError, "status service unavailable", nil)
		return
	}
	item, err := h.Status.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if item == nil {
		Error(c, http.StatusNotFound, "no status for product", nil)
		return
	}
	Ok(c, item, nil)
}

func (h *StatusHandler) list(c *gin.Context) {
	if h.Status == nil {
		Error(c, http.StatusInternalServerError, "status service unavailable", nil)
		return
	}
	items, err := h.Status.List(c.Request.Context(), listQuery(c, "ids"))
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, nil)
}

func (h *StatusHandler) clear(c *gin.Context) {
	if h.Status == nil {
		Error(c, http.StatusInternalServerError, "status service unavailable", nil)
		return
	}
	if err := h.Status.Clear(c.Request.Context(), c.Param("id")); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, gin.H{"deleted": true}, nil)
}
