package handlers

import (
	"net/http"
	"strconv"

	"kitchenlog/internal/models"

	"github.com/gin-gonic/gin"
)

// StaffRequest selects the station operator.
type StaffRequest struct {
	Staff string `json:"staff" example:"Alice"`
}

// NewCookRequest adds a cook to the station.
type NewCookRequest struct {
	Food string `json:"food" example:"Chicken Wings"`
}

// ValueRequest sets a temperature or tray count.
type ValueRequest struct {
	Value flexText `json:"value" swaggertype:"string" example:"74.5"`
}

func cookID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidCookID})
		return 0, false
	}
	return id, true
}

// @Summary      Current staff and roster
// @Tags         station
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "staff, roster"
// @Router       /api/station/staff [get]
func (h *Handler) getStaff(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"staff":  h.services.CurrentStaff(),
		"roster": h.services.Roster(),
	})
}

// @Summary      Select staff
// @Tags         station
// @Accept       json
// @Produce      json
// @Param        body  body      StaffRequest  true  "Staff member"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Router       /api/station/staff [put]
func (h *Handler) setStaff(c *gin.Context) {
	var req StaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidJSON})
		return
	}
	staff, err := h.services.SetStaff(req.Staff)
	if err != nil {
		h.respondError(c, "staff_set_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"staff": staff})
}

// @Summary      Active cooks
// @Tags         station
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, cooks"
// @Router       /api/station/cooks [get]
func (h *Handler) listActive(c *gin.Context) {
	cooks := h.services.Active()
	c.JSON(http.StatusOK, gin.H{
		"count": len(cooks),
		"cooks": cooks,
	})
}

// @Summary      Add a cook
// @Tags         station
// @Accept       json
// @Produce      json
// @Param        body  body      NewCookRequest  true  "Food item"
// @Success      201   {object}  models.CookView
// @Failure      400   {object}  map[string]string
// @Router       /api/station/cooks [post]
func (h *Handler) createActive(c *gin.Context) {
	var req NewCookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidJSON})
		return
	}
	view, err := h.services.Create(req.Food)
	if err != nil {
		h.respondError(c, "cook_create_failed", err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// @Summary      Start a cook timer
// @Tags         station
// @Produce      json
// @Param        id   path      int  true  "Cook id"
// @Success      200  {object}  models.CookView
// @Failure      404  {object}  map[string]string
// @Router       /api/station/cooks/{id}/start [post]
func (h *Handler) startCook(c *gin.Context) {
	h.transition(c, "cook_start_failed", h.services.Start)
}

// @Summary      End a cook timer
// @Tags         station
// @Produce      json
// @Param        id   path      int  true  "Cook id"
// @Success      200  {object}  models.CookView
// @Failure      404  {object}  map[string]string
// @Router       /api/station/cooks/{id}/end [post]
func (h *Handler) endCook(c *gin.Context) {
	h.transition(c, "cook_end_failed", h.services.End)
}

func (h *Handler) transition(c *gin.Context, logKey string, fn func(int64) (models.CookView, error)) {
	id, ok := cookID(c)
	if !ok {
		return
	}
	view, err := fn(id)
	if err != nil {
		h.respondError(c, logKey, err, "id", id)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary      Set core temperature
// @Tags         station
// @Accept       json
// @Produce      json
// @Param        id    path      int           true  "Cook id"
// @Param        body  body      ValueRequest  true  "Temperature in °C"
// @Success      200   {object}  models.CookView
// @Failure      404   {object}  map[string]string
// @Router       /api/station/cooks/{id}/temp [put]
func (h *Handler) setTemp(c *gin.Context) {
	h.setValue(c, "cook_temp_failed", h.services.SetTemp)
}

// @Summary      Set tray count
// @Tags         station
// @Accept       json
// @Produce      json
// @Param        id    path      int           true  "Cook id"
// @Param        body  body      ValueRequest  true  "Tray count"
// @Success      200   {object}  models.CookView
// @Failure      404   {object}  map[string]string
// @Router       /api/station/cooks/{id}/trays [put]
func (h *Handler) setTrays(c *gin.Context) {
	h.setValue(c, "cook_trays_failed", h.services.SetTrays)
}

func (h *Handler) setValue(c *gin.Context, logKey string, fn func(int64, string) (models.CookView, error)) {
	id, ok := cookID(c)
	if !ok {
		return
	}
	var req ValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidJSON})
		return
	}
	view, err := fn(id, string(req.Value))
	if err != nil {
		h.respondError(c, logKey, err, "id", id)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary      Save a finished cook
// @Description  Validates and appends the cook to the durable log, then removes it from the station.
// @Tags         station
// @Produce      json
// @Param        id   path      int  true  "Cook id"
// @Success      200  {object}  map[string]interface{}  "ok, row"
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/station/cooks/{id}/save [post]
func (h *Handler) saveCook(c *gin.Context) {
	id, ok := cookID(c)
	if !ok {
		return
	}
	row, err := h.services.Station.Save(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, "cook_save_failed", err, "id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "row": row})
}

// @Summary      Cancel a cook
// @Tags         station
// @Param        id   path  int  true  "Cook id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/station/cooks/{id} [delete]
func (h *Handler) cancelCook(c *gin.Context) {
	id, ok := cookID(c)
	if !ok {
		return
	}
	if err := h.services.Cancel(id); err != nil {
		h.respondError(c, "cook_cancel_failed", err, "id", id)
		return
	}
	c.Status(http.StatusNoContent)
}
