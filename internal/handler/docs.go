package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterDocs serves a short markdown index of the HTTP surface.
func RegisterDocs(r *gin.Engine) {
	r.GET("/docs", func(c *gin.Context) {
		c.Header("Content-Type", "text/markdown; charset=utf-8")
		c.String(http.StatusOK, `# ABC Curve Analyzer

Upload marketplace sales exports, get per-window ABC curves, segment
diagnostics, a prioritized action plan, and spreadsheet exports.

## Routes

- GET /healthz
- GET /readyz
- POST /api/reports (multipart: file, optional enrichment, client, channel)
- GET /api/reports
- GET /api/reports/:id
- POST /api/reports/:id/enrichment (multipart: file)
- GET /api/reports/:id/facts
- GET /api/reports/:id/segments
- GET /api/reports/:id/plan
- GET /api/reports/:id/analytics
- GET /api/reports/:id/export?table=facts|anchors|leak|inactivate|revitalize|opportunity|combo|plan|all&format=csv|xlsx
- GET /api/products/status?ids=MLB1,MLB2
- GET /api/products/:id/status
- PUT /api/products/:id/status
- DELETE /api/products/:id/status
- POST /api/reports/:id/snapshots
- GET /api/snapshots?client=&channel=&since=&until=&limit=&offset=
- GET /api/snapshots/delta?client=&channel=

## Filters

Facts and plan views accept query filters:
- curves: comma list of A,B,C or "-"
- fronts: comma list of front labels (plan only)
- min_revenue: decimal lower bound on total revenue across all windows
- search: case-insensitive match on listing id or title

## Formats

CSV exports are semicolon separated with a UTF-8 BOM. XLSX exports
carry currency, percent, and score number formats with a frozen,
filterable header row.
`)
	})
}
