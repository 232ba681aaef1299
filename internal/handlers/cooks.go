package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"kitchenlog"
	"kitchenlog/internal/models"
	"kitchenlog/internal/service"

	"github.com/gin-gonic/gin"
)

const statusOK = "ok"

// flexText accepts a JSON string or number and keeps it as text. Browsers
// post temp and trays either way.
type flexText string

func (f *flexText) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexText(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", b)
	}
	*f = flexText(n.String())
	return nil
}

// CookRequest is the body of POST /api/cooks.
type CookRequest struct {
	Food      string   `json:"food" example:"Chicken Wings"`
	StartDate string   `json:"startDate" example:"2024-03-14"`
	StartTime string   `json:"startTime" example:"09:30:00"`
	EndDate   string   `json:"endDate" example:"2024-03-14"`
	EndTime   string   `json:"endTime" example:"09:42:10"`
	Duration  flexText `json:"duration" swaggertype:"string" example:"12.2"`
	Temp      flexText `json:"temp" swaggertype:"string" example:"74.5"`
	Staff     string   `json:"staff" example:"Alice"`
	Trays     flexText `json:"trays" swaggertype:"string" example:"3"`
}

func (r CookRequest) row() models.CookRow {
	return models.CookRow{
		Food:      strings.TrimSpace(r.Food),
		StartDate: r.StartDate,
		StartTime: r.StartTime,
		EndDate:   r.EndDate,
		EndTime:   r.EndTime,
		Duration:  string(r.Duration),
		Temp:      string(r.Temp),
		Staff:     strings.TrimSpace(r.Staff),
		Trays:     string(r.Trays),
	}
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
		"store":  h.services.History != nil && h.services.History.Ready(),
	})
}

// @Summary      Record a cook
// @Description  Appends one finished cook to the durable log.
// @Tags         cooks
// @Accept       json
// @Produce      json
// @Param        body  body      CookRequest  true  "Cook record"
// @Success      200   {object}  map[string]bool
// @Failure      400   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/cooks [post]
func (h *Handler) createCook(c *gin.Context) {
	var req CookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidJSON})
		return
	}
	row := req.row()
	if err := h.services.History.Record(c.Request.Context(), row); err != nil {
		h.respondError(c, "cook_record_failed", err, "food", row.Food)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// @Summary      Recent cooks
// @Description  Newest first. An explicit date range wins over year/month.
// @Tags         cooks
// @Produce      json
// @Param        limit      query  int     false  "Max rows (default 8)"
// @Param        year       query  int     false  "Year"  example(2024)
// @Param        month      query  int     false  "Month 1-12"  example(3)
// @Param        startDate  query  string  false  "YYYY-MM-DD inclusive"
// @Param        endDate    query  string  false  "YYYY-MM-DD inclusive"
// @Success      200  {array}   models.CookRow
// @Failure      400  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/cooks [get]
func (h *Handler) listCooks(c *gin.Context) {
	f, err := parseFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	limit := service.DefaultRecentLimit
	if s := c.Query("limit"); s != "" {
		if limit, err = strconv.Atoi(s); err != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'limit'; use a positive integer"})
			return
		}
	}
	rows, err := h.services.History.Recent(c.Request.Context(), limit, f)
	if err != nil {
		h.respondError(c, "cooks_list_failed", err, "limit", limit)
		return
	}
	if rows == nil {
		rows = []models.CookRow{}
	}
	c.JSON(http.StatusOK, rows)
}

// @Summary      Export cooks as CSV
// @Tags         cooks
// @Produce      text/csv
// @Param        year       query  int     false  "Year"
// @Param        month      query  int     false  "Month 1-12"
// @Param        startDate  query  string  false  "YYYY-MM-DD inclusive"
// @Param        endDate    query  string  false  "YYYY-MM-DD inclusive"
// @Success      200  {file}    file
// @Failure      400  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/cooks/export [get]
func (h *Handler) exportCooks(c *gin.Context) {
	h.sendArtifact(c, service.FormatCSV)
}

// @Summary      Export cooks as PDF
// @Description  Renders the report page through the external renderer.
// @Tags         cooks
// @Produce      application/pdf
// @Param        year       query  int     false  "Year"
// @Param        month      query  int     false  "Month 1-12"
// @Param        startDate  query  string  false  "YYYY-MM-DD inclusive"
// @Param        endDate    query  string  false  "YYYY-MM-DD inclusive"
// @Success      200  {file}    file
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/cooks/report.pdf [get]
func (h *Handler) reportPDF(c *gin.Context) {
	h.sendArtifact(c, service.FormatPDF)
}

func (h *Handler) sendArtifact(c *gin.Context, format service.Format) {
	f, err := parseFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	art, err := h.services.Report.Artifact(c.Request.Context(), f, format)
	if err != nil {
		h.respondError(c, "cooks_export_failed", err, "format", format)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", art.Filename))
	c.Data(http.StatusOK, art.ContentType, art.Data)
}

// parseFilter reads year, month, startDate and endDate from the query string.
func parseFilter(c *gin.Context) (models.DateFilter, error) {
	f := models.DateFilter{
		StartDate: strings.TrimSpace(c.Query("startDate")),
		EndDate:   strings.TrimSpace(c.Query("endDate")),
	}
	for name, dst := range map[string]*int{"year": &f.Year, "month": &f.Month} {
		s := strings.TrimSpace(c.Query(name))
		if s == "" {
			continue
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return models.DateFilter{}, kitchenlog.Invalid(name, "must be a number")
		}
		*dst = v
	}
	if err := f.Validate(); err != nil {
		return models.DateFilter{}, err
	}
	return f, nil
}
