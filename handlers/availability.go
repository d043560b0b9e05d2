package handlers

import (
	"net/http"

	"salonflow/services/scheduling"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AvailabilityHandler exposes slot queries.
type AvailabilityHandler struct {
	Engine scheduling.SchedulingService
	Logger *zap.Logger
}

func NewAvailabilityHandler(engine scheduling.SchedulingService, logger *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{Engine: engine, Logger: logger}
}

// GetDaySchedule returns the full annotated slot sequence for one stylist
// on one date.
func (h *AvailabilityHandler) GetDaySchedule(c *gin.Context) {
	stylistID := c.Param("stylistID")
	date := c.Param("date")
	sessionID := c.Query("sessionId")

	schedule, err := h.Engine.GetDaySchedule(c.Request.Context(), stylistID, date, sessionID)
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, schedule)
}

// GetBookableSlots returns the start times that can fit the requested
// service on the given stylist/date.
func (h *AvailabilityHandler) GetBookableSlots(c *gin.Context) {
	stylistID := c.Param("stylistID")
	date := c.Param("date")
	serviceID := c.Query("serviceId")
	sessionID := c.Query("sessionId")

	if serviceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "serviceId query parameter is required"})
		return
	}

	slots, err := h.Engine.ComputeBookableSlots(c.Request.Context(), stylistID, date, serviceID, sessionID)
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"stylistId": stylistID,
		"date":      date,
		"slots":     slots,
	})
}
