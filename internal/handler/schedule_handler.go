package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wiruacademy/clubsite/internal/models"
	"github.com/wiruacademy/clubsite/internal/service"
)

type ScheduleHandler struct {
	scheduleService *service.ScheduleService
}

func NewScheduleHandler(scheduleService *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

type ScheduleCreateRequest struct {
	DayOfWeek  *int   `json:"day_of_week" binding:"required"`
	Time       string `json:"time" binding:"required"`
	Activity   string `json:"activity"`
	Discipline string `json:"discipline" binding:"required"`
	Coach      string `json:"coach"`
	Age        string `json:"age"`
}

type ScheduleUpdateRequest struct {
	DayOfWeek  *int    `json:"day_of_week"`
	Time       *string `json:"time"`
	Activity   *string `json:"activity"`
	Discipline *string `json:"discipline"`
	Coach      *string `json:"coach"`
	Age        *string `json:"age"`
}

type CopyDayRequest struct {
	SourceDay *int `json:"source_day" binding:"required"`
	TargetDay *int `json:"target_day" binding:"required"`
	Replace   bool `json:"replace"`
}

// List returns the weekly timetable grouped by day of week (0 = Monday).
// GET /api/schedule
func (h *ScheduleHandler) List(c *gin.Context) {
	items, err := h.scheduleService.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch schedule"})
		return
	}

	byDay := make(map[int][]*models.Schedule, 7)
	for d := 0; d <= 6; d++ {
		byDay[d] = []*models.Schedule{}
	}
	for _, it := range items {
		byDay[it.DayOfWeek] = append(byDay[it.DayOfWeek], it)
	}

	c.JSON(http.StatusOK, gin.H{"schedule": byDay})
}

// AdminList returns the flat list for the back-office editor.
// GET /api/admin/schedule
func (h *ScheduleHandler) AdminList(c *gin.Context) {
	items, err := h.scheduleService.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch schedule"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedule": items})
}

// Create adds a timetable slot.
// POST /api/admin/schedule
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req ScheduleCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	item, err := h.scheduleService.Create(service.ScheduleInput{
		DayOfWeek:  *req.DayOfWeek,
		Time:       req.Time,
		Activity:   req.Activity,
		Discipline: req.Discipline,
		Coach:      req.Coach,
		Age:        req.Age,
	})
	if err != nil {
		c.JSON(scheduleErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Schedule entry created", "entry": item})
}

// Update applies a partial edit to a slot.
// PUT /api/admin/schedule/:id
func (h *ScheduleHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid schedule id"})
		return
	}

	var req ScheduleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	item, err := h.scheduleService.Update(uint(id), service.SchedulePatch{
		DayOfWeek:  req.DayOfWeek,
		Time:       req.Time,
		Activity:   req.Activity,
		Discipline: req.Discipline,
		Coach:      req.Coach,
		Age:        req.Age,
	})
	if err != nil {
		c.JSON(scheduleErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Schedule entry updated", "entry": item})
}

// Delete removes a slot.
// DELETE /api/admin/schedule/:id
func (h *ScheduleHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid schedule id"})
		return
	}

	if err := h.scheduleService.Delete(uint(id)); err != nil {
		c.JSON(scheduleErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Schedule entry deleted"})
}

// CopyDay duplicates one weekday's slots onto another.
// POST /api/admin/schedule/copy-day
func (h *ScheduleHandler) CopyDay(c *gin.Context) {
	var req CopyDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	created, err := h.scheduleService.CopyDay(*req.SourceDay, *req.TargetDay, req.Replace)
	if err != nil {
		c.JSON(scheduleErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Day copied", "created": created})
}

func scheduleErrorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrScheduleNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrScheduleConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidDay),
		errors.Is(err, service.ErrInvalidTime),
		errors.Is(err, service.ErrInvalidDiscipline),
		errors.Is(err, service.ErrActivityRequired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
