package reminder

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dosewatch/dosewatch/internal/model"
	"github.com/dosewatch/dosewatch/internal/service/reminder"
)

// Handler exposes the inbound reminder triggers: alarm delivery, user
// acknowledgement, grouped dismissal, and the app-start reconcile hook.
type Handler struct {
	service *reminder.Service
}

func NewHandler(service *reminder.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	rem := r.Group("/reminders")
	{
		rem.POST("/alarm", h.AlarmFired)
		rem.POST("/action", h.UserAction)
		rem.POST("/dismiss", h.DismissSlot)
		rem.POST("/reconcile", h.Reconcile)
		rem.GET("/pending", h.ListPending)
	}
}

// AlarmFired is called by the alarm scheduler when a reminder goes off.
// Re-delivery of the same slot is idempotent.
func (h *Handler) AlarmFired(c *gin.Context) {
	var req model.AlarmFiredRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	if err := h.service.OnAlarmFired(c.Request.Context(), req.MedicationID, req.Hour, req.Minute); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *Handler) UserAction(c *gin.Context) {
	var req model.UserActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	record, err := h.service.OnUserAction(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": record})
}

func (h *Handler) DismissSlot(c *gin.Context) {
	hour, err := strconv.Atoi(c.Query("hour"))
	if err != nil || hour < 0 || hour > 23 {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid hour"})
		return
	}
	minute, err := strconv.Atoi(c.Query("minute"))
	if err != nil || minute < 0 || minute > 59 {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid minute"})
		return
	}

	if err := h.service.DismissSlot(c.Request.Context(), hour, minute); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// Reconcile triggers the same pass that runs at app start: repair the
// pending list against the catalog, then backfill every profile's gap.
func (h *Handler) Reconcile(c *gin.Context) {
	if err := h.service.OnAppStart(c.Request.Context()); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *Handler) ListPending(c *gin.Context) {
	entries, err := h.service.ListPending(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": entries})
}
