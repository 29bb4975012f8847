package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"abccurve/internal/repository"
	"abccurve/internal/service"
)

type SnapshotHandler struct {
	Snapshots *service.SnapshotService
	Analysis  *service.AnalysisService
}

func (h *SnapshotHandler) Register(r *gin.Engine) {
	r.GET("/api/snapshots", h.list)
	r.GET("/api/snapshots/delta", h.delta)
	r.POST("/api/reports/:id/snapshots", h.record)
}

func (h *SnapshotHandler) list(c *gin.Context) {
	if h.Snapshots == nil {
		Error(c, http.StatusInternalServerError, "snapshot service unavailable", nil)
		return
	}
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)
	items, total, err := h.Snapshots.List(c.Request.Context(), repository.ListSnapshotsParams{
		Limit:   limit,
		Offset:  offset,
		Client:  strQueryPtr(c, "client"),
		Channel: strQueryPtr(c, "channel"),
		Since:   timeQueryPtr(c, "since"),
		Until:   timeQueryPtr(c, "until"),
	})
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, paginationMeta(limit, offset, total))
}

// delta compares the two newest snapshots of one client/channel series.
func (h *SnapshotHandler) delta(c *gin.Context) {
	if h.Snapshots == nil {
		Error(c, http.StatusInternalServerError, "snapshot service unavailable", nil)
		return
	}
	d, err := h.Snapshots.Delta(c.Request.Context(), c.Query("client"), c.Query("channel"))
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if d == nil {
		Error(c, http.StatusNotFound, "no snapshots for series", nil)
		return
	}
	Ok(c, d, nil)
}

// record stores a snapshot of an already ingested report on demand, outside
// the automatic capture at ingest time.
func (h *SnapshotHandler) record(c *gin.Context) {
	if h.Snapshots == nil || h.Analysis == nil {
		Error(c, http.StatusInternalServerError, "snapshot service unavailable", nil)
		return
	}
	a, err := h.Analysis.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if a == nil {
		Error(c, http.StatusNotFound, "report not found", nil)
		return
	}
	if err := h.Snapshots.Record(c.Request.Context(), a); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, gin.H{"recorded": true}, nil)
}

func timeQueryPtr(c *gin.Context, key string) *time.Time {
	if val := c.Query(key); val != "" {
		if t, err := time.Parse(time.RFC3339, val); err == nil {
			return &t
		}
		if t, err := time.Parse("2006-01-02", val); err == nil {
			return &t
		}
	}
	return nil
}
