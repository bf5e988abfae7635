package history

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dosewatch/dosewatch/internal/middleware"
	"github.com/dosewatch/dosewatch/internal/model"
	"github.com/dosewatch/dosewatch/internal/service/history"
)

type Handler struct {
	service *history.Service
}

func NewHandler(service *history.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	hist := r.Group("/history")
	{
		hist.POST("", h.CreateHistory)
		hist.GET("", h.ListHistory)
		hist.GET("/day", h.GetHistoryForDay)
	}
}

// CreateHistory records a manually entered dose, for doses taken without a
// reminder firing (the reminder action endpoint covers the normal path).
func (h *Handler) CreateHistory(c *gin.Context) {
	var req model.CreateHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	record := &model.HistoryRecord{
		ProfileID:     middleware.ProfileID(c),
		MedicationID:  req.MedicationID,
		ScheduledTime: req.ScheduledTime,
		Action:        model.HistoryAction(req.Action),
		Notes:         req.Notes,
	}
	if record.Action == model.HistoryActionTaken {
		now := time.Now()
		record.TakenTime = &now
	}

	if err := h.service.Insert(c.Request.Context(), record); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success", "data": record})
}

func (h *Handler) ListHistory(c *gin.Context) {
	filters := &model.HistoryFilters{
		ProfileID: middleware.ProfileID(c),
	}

	if id := c.Query("medication_id"); id != "" {
		medicationID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid medication ID"})
			return
		}
		filters.MedicationID = medicationID
	}

	if action := c.Query("action"); action != "" {
		filters.Action = model.HistoryAction(action)
	}

	if date := c.Query("start"); date != "" {
		start, err := time.Parse(time.RFC3339, date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid start date"})
			return
		}
		filters.Start = start
	}

	if date := c.Query("end"); date != "" {
		end, err := time.Parse(time.RFC3339, date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid end date"})
			return
		}
		filters.End = end
	}

	records, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": records})
}

func (h *Handler) GetHistoryForDay(c *gin.Context) {
	medicationID, err := strconv.ParseInt(c.Query("medication_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid medication ID"})
		return
	}

	day, err := time.Parse("2006-01-02", c.Query("day"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid day, expected YYYY-MM-DD"})
		return
	}

	records, err := h.service.QueryByMedicationAndDay(c.Request.Context(), medicationID, day)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": records})
}
