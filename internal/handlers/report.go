package handlers

import (
	"html/template"
	"net/http"

	"kitchenlog/internal/codec"
	"kitchenlog/internal/models"
	"kitchenlog/internal/service"

	"github.com/gin-gonic/gin"
)

var reportTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Deep Fry Cooking Log - {{.Period}}</title>
<style>
body { font-family: sans-serif; margin: 16px; }
table { border-collapse: collapse; width: 100%; font-size: 11px; }
th, td { border: 1px solid #999; padding: 4px 6px; text-align: left; }
th { background: #eee; }
</style>
</head>
<body>
<h1>Deep Fry Cooking Log</h1>
<p>Period: {{.Period}} &middot; {{len .Rows}} record(s)</p>
<table>
<thead><tr>{{range .Header}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .Rows}}<tr><td>{{.Food}}</td><td>{{.StartDate}}</td><td>{{.StartTime}}</td><td>{{.EndDate}}</td><td>{{.EndTime}}</td><td>{{.Duration}}</td><td>{{.Temp}}</td><td>{{.Staff}}</td><td>{{.Trays}}</td></tr>
{{end}}</tbody>
</table>
<script>window.__reportReady = true;</script>
</body>
</html>
`))

type reportData struct {
	Period string
	Header []string
	Rows   []models.CookRow
}

// @Summary      HTML report page
// @Description  Printable table of the filtered log. The PDF renderer waits for window.__reportReady.
// @Tags         cooks
// @Produce      html
// @Param        year       query  int     false  "Year"
// @Param        month      query  int     false  "Month 1-12"
// @Param        startDate  query  string  false  "YYYY-MM-DD inclusive"
// @Param        endDate    query  string  false  "YYYY-MM-DD inclusive"
// @Success      200  {string}  string
// @Failure      400  {object}  map[string]string
// @Router       /report [get]
func (h *Handler) reportPage(c *gin.Context) {
	f, err := parseFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rows, err := h.services.All(c.Request.Context(), f)
	if err != nil {
		h.respondError(c, "report_page_failed", err)
		return
	}
	data := reportData{
		Period: periodLabel(f),
		Header: codec.Full.Header,
		Rows:   rows,
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := reportTmpl.Execute(c.Writer, data); err != nil && h.log != nil {
		h.log.Errorw("report_page_render_failed", "err", err)
	}
}

func periodLabel(f models.DateFilter) string {
	switch f.Kind() {
	case models.FilterRange:
		from, to := f.StartDate, f.EndDate
		if from == "" {
			from = "…"
		}
		if to == "" {
			to = "…"
		}
		return from + " to " + to
	case models.FilterMonth:
		return service.FilenameSuffix(f.Year, f.Month)
	default:
		return "all records"
	}
}
