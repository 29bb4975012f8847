package handler

import (
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"abccurve/internal/config"
	"abccurve/internal/repository"
	"abccurve/internal/service"
)

type ReportHandler struct {
	Analysis *service.AnalysisService
	Rules    config.RulesConfig

	MaxUploadSize int64
}

func (h *ReportHandler) Register(r *gin.Engine) {
	group := r.Group("/api/reports")
	group.POST("", h.upload)
	group.GET("", h.list)
	group.GET("/:id", h.get)
	group.POST("/:id/enrichment", h.attachEnrichment)
	group.GET("/:id/facts", h.facts)
	group.GET("/:id/segments", h.segments)
	group.GET("/:id/plan", h.plan)
	group.GET("/:id/analytics", h.analytics)
}

// reportMeta is the list/detail projection of a stored report.
type reportMeta struct {
	ID            string `json:"id"`
	Channel       string `json:"channel"`
	Filename      string `json:"filename"`
	Client        string `json:"client,omitempty"`
	ReferenceDate any    `json:"reference_date,omitempty"`
	ProductCount  int    `json:"product_count"`
	TotalRevenue  string `json:"total_revenue"`
	TotalQuantity int    `json:"total_quantity"`
	CreatedAt     any    `json:"created_at"`
	Memoized      bool   `json:"memoized,omitempty"`
}

func (h *ReportHandler) upload(c *gin.Context) {
	if h.Analysis == nil {
		Error(c, http.StatusInternalServerError, "analysis service unavailable", nil)
		return
	}
	data, filename, ok := h.readUpload(c, "file", true)
	if !ok {
		return
	}
	enrichment, enrichName, ok := h.readUpload(c, "enrichment", false)
	if !ok {
		return
	}

	a, memoized, err := h.Analysis.Ingest(c.Request.Context(), service.IngestInput{
		Filename:   filename,
		Client:     strings.TrimSpace(c.PostForm("client")),
		Channel:    strings.TrimSpace(c.PostForm("channel")),
		Data:       data,
		Enrichment: enrichment,
		EnrichName: enrichName,
	})
	if err != nil {
		Error(c, http.StatusUnprocessableEntity, err.Error(), nil)
		return
	}
	Ok(c, h.meta(a, memoized), nil)
}

func (h *ReportHandler) list(c *gin.Context) {
	if h.Analysis == nil {
		Error(c, http.StatusInternalServerError, "analysis service unavailable", nil)
		return
	}
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)
	items, total, err := h.Analysis.ListReports(c.Request.Context(), repository.ListReportsParams{
		Limit:   limit,
		Offset:  offset,
		Channel: strQueryPtr(c, "channel"),
		Client:  strQueryPtr(c, "client"),
		OrderBy: c.Query("order_by"),
		Asc:     boolPtr(false),
	})
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	out := make([]reportMeta, 0, len(items))
	for i := range items {
		out = append(out, reportMeta{
			ID:            items[i].ID,
			Channel:       items[i].Channel,
			Filename:      items[i].Filename,
			Client:        items[i].Client,
			ReferenceDate: items[i].ReferenceDate,
			ProductCount:  items[i].ProductCount,
			TotalRevenue:  items[i].TotalRevenue.StringFixed(2),
			TotalQuantity: items[i].TotalQuantity,
			CreatedAt:     items[i].CreatedAt,
		})
	}
	Ok(c, out, paginationMeta(limit, offset, total))
}

func (h *ReportHandler) get(c *gin.Context) {
	a, ok := h.load(c)
	if !ok {
		return
	}
	Ok(c, h.meta(a, false), nil)
}

func (h *ReportHandler) attachEnrichment(c *gin.Context) {
	if h.Analysis == nil {
		Error(c, http.StatusInternalServerError, "analysis service unavailable", nil)
		return
	}
	data, filename, ok := h.readUpload(c, "file", true)
	if !ok {
		return
	}
	a, err := h.Analysis.AttachEnrichment(c.Request.Context(), c.Param("id"), data, filename)
	if err != nil {
		Error(c, http.StatusUnprocessableEntity, err.Error(), nil)
		return
	}
	if a == nil {
		Error(c, http.StatusNotFound, "report not found", nil)
		return
	}
	Ok(c, h.meta(a, false), nil)
}

func (h *ReportHandler) facts(c *gin.Context) {
	a, ok := h.load(c)
	if !ok {
		return
	}
	products := service.FilterFacts(a.Table, viewFilter(c))
	Ok(c, gin.H{
		"channel":        a.Table.Channel,
		"reference_date": a.Table.ReferenceDate,
		"products":       products,
		"logistics":      a.Table.Logistics,
		"ads":            a.Table.Ads,
	}, map[string]any{"total": len(a.Table.Products), "matched": len(products)})
}

func (h *ReportHandler) segments(c *gin.Context) {
	a, ok := h.load(c)
	if !ok {
		return
	}
	Ok(c, a.Segments, nil)
}

func (h *ReportHandler) plan(c *gin.Context) {
	a, ok := h.load(c)
	if !ok {
		return
	}
	entries := service.FilterPlan(a, viewFilter(c))
	Ok(c, entries, map[string]any{"total": len(a.Plan.Entries), "matched": len(entries)})
}

func (h *ReportHandler) analytics(c *gin.Context) {
	a, ok := h.load(c)
	if !ok {
		return
	}
	Ok(c, service.BuildSummary(a, h.Rules.Risk), nil)
}

func (h *ReportHandler) load(c *gin.Context) (*service.Analysis, bool) {
	if h.Analysis == nil {
		Error(c, http.StatusInternalServerError, "analysis service unavailable", nil)
		return nil, false
	}
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		Error(c, http.StatusBadRequest, "report id required", nil)
		return nil, false
	}
	a, err := h.Analysis.Get(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return nil, false
	}
	if a == nil {
		Error(c, http.StatusNotFound, "report not found", nil)
		return nil, false
	}
	return a, true
}

// readUpload pulls one multipart file field, bounded by MaxUploadSize.
func (h *ReportHandler) readUpload(c *gin.Context, field string, required bool) ([]byte, string, bool) {
	fh, err := c.FormFile(field)
	if err != nil {
		if !required {
			return nil, "", true
		}
		Error(c, http.StatusBadRequest, "multipart field "+field+" required", nil)
		return nil, "", false
	}
	if h.MaxUploadSize > 0 && fh.Size > h.MaxUploadSize {
		Error(c, http.StatusRequestEntityTooLarge, "upload too large", nil)
		return nil, "", false
	}
	data, err := readAll(fh)
	if err != nil {
		Error(c, http.StatusBadRequest, "read upload: "+err.Error(), nil)
		return nil, "", false
	}
	return data, fh.Filename, true
}

func readAll(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func viewFilter(c *gin.Context) service.ViewFilter {
	return service.ViewFilter{
		Curves:     listQuery(c, "curves"),
		Fronts:     listQuery(c, "fronts"),
		MinRevenue: decimalQuery(c, "min_revenue"),
		Search:     c.Query("search"),
	}
}

func (h *ReportHandler) meta(a *service.Analysis, memoized bool) reportMeta {
	return reportMeta{
		ID:            a.Report.ID,
		Channel:       a.Report.Channel,
		Filename:      a.Report.Filename,
		Client:        a.Report.Client,
		ReferenceDate: a.Report.ReferenceDate,
		ProductCount:  a.Report.ProductCount,
		TotalRevenue:  a.Report.TotalRevenue.StringFixed(2),
		TotalQuantity: a.Report.TotalQuantity,
		CreatedAt:     a.Report.CreatedAt,
		Memoized:      memoized,
	}
}
