package report

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dosewatch/dosewatch/internal/middleware"
	"github.com/dosewatch/dosewatch/internal/service/report"
)

type Handler struct {
	service *report.Service
}

func NewHandler(service *report.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	reports := r.Group("/reports")
	{
		reports.GET("/adherence", h.Adherence)
	}
}

// Adherence returns the merged persisted-plus-virtual dose report for the
// authenticated profile. Accepts either explicit RFC3339 start/end bounds or
// a trailing "days" window.
func (h *Handler) Adherence(c *gin.Context) {
	var start, end time.Time
	now := time.Now()

	if days := c.Query("days"); days != "" {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid days"})
			return
		}
		end = now
		start = now.AddDate(0, 0, -n)
	} else {
		var err error
		start, err = time.Parse(time.RFC3339, c.Query("start"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid start date"})
			return
		}
		end, err = time.Parse(time.RFC3339, c.Query("end"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid end date"})
			return
		}
	}

	rep, err := h.service.Adherence(c.Request.Context(), middleware.ProfileID(c), start, end)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": rep})
}
