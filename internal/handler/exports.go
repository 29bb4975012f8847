package handler

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"abccurve/internal/export"
	"abccurve/internal/service"
)

type ExportHandler struct {
	Analysis *service.AnalysisService
}

func (h *ExportHandler) Register(r *gin.Engine) {
	r.GET("/api/reports/:id/export", h.export)
}

var exportTables = map[string]bool{
	"facts":       true,
	"anchors":     true,
	"leak":        true,
	"inactivate":  true,
	"revitalize":  true,
	"opportunity": true,
	"combo":       true,
	"plan":        true,
	"all":         true,
}

// export streams one table (or the whole set) as csv or xlsx.
func (h *ExportHandler) export(c *gin.Context) {
	if h.Analysis == nil {
		Error(c, http.StatusInternalServerError, "analysis service unavailable", nil)
		return
	}
	a, err := h.Analysis.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if a == nil {
		Error(c, http.StatusNotFound, "report not found", nil)
		return
	}

	name := strings.ToLower(strings.TrimSpace(c.DefaultQuery("table", "plan")))
	if !exportTables[name] {
		Error(c, http.StatusBadRequest, "unknown table "+name, nil)
		return
	}
	format := strings.ToLower(strings.TrimSpace(c.DefaultQuery("format", "csv")))

	tables := h.build(a, name)
	switch format {
	case "csv":
		if len(tables) != 1 {
			Error(c, http.StatusBadRequest, "csv export takes a single table", nil)
			return
		}
		var buf bytes.Buffer
		if err := export.WriteCSV(&buf, tables[0]); err != nil {
			Error(c, http.StatusInternalServerError, err.Error(), nil)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+name+`.csv"`)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
	case "xlsx":
		buf, err := export.WriteWorkbook(tables...)
		if err != nil {
			Error(c, http.StatusInternalServerError, err.Error(), nil)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+name+`.xlsx"`)
		c.Data(http.StatusOK,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			buf.Bytes())
	default:
		Error(c, http.StatusBadRequest, "unknown format "+format, nil)
	}
}

func (h *ExportHandler) build(a *service.Analysis, name string) []*export.Table {
	switch name {
	case "facts":
		return []*export.Table{export.FactTable(a.Table)}
	case "anchors":
		return []*export.Table{export.Anchors(a.Table, a.Segments)}
	case "leak":
		return []*export.Table{export.Leak(a.Table, a.Segments)}
	case "inactivate":
		return []*export.Table{export.Inactivate(a.Table, a.Segments)}
	case "revitalize":
		return []*export.Table{export.Revitalize(a.Table, a.Segments)}
	case "opportunity":
		return []*export.Table{export.Opportunity(a.Table, a.Segments)}
	case "combo":
		return []*export.Table{export.Combo(a.Table, a.Segments)}
	case "plan":
		return []*export.Table{export.PlanTable(a.Table, a.Plan)}
	default: // all
		return []*export.Table{
			export.FactTable(a.Table),
			export.PlanTable(a.Table, a.Plan),
			export.Anchors(a.Table, a.Segments),
			export.Leak(a.Table, a.Segments),
			export.Revitalize(a.Table, a.Segments),
			export.Opportunity(a.Table, a.Segments),
			export.Combo(a.Table, a.Segments),
			export.Inactivate(a.Table, a.Segments),
		}
	}
}
