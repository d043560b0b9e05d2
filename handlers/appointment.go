package handlers

import (
	"errors"
	"net/http"

	appointmentRepo "salonflow/database/repository/appointment"
	"salonflow/services/scheduling"
	"salonflow/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AppointmentHandler exposes the appointment lifecycle operations.
type AppointmentHandler struct {
	Engine scheduling.SchedulingService
	Repo   appointmentRepo.AppointmentRepository
	Logger *zap.Logger
}

func NewAppointmentHandler(engine scheduling.SchedulingService, repo appointmentRepo.AppointmentRepository, logger *zap.Logger) *AppointmentHandler {
	return &AppointmentHandler{Engine: engine, Repo: repo, Logger: logger}
}

// GetAppointment fetches one appointment by id.
func (h *AppointmentHandler) GetAppointment(c *gin.Context) {
	appt, err := h.Repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondLookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

// GetAppointmentByToken fetches one appointment via its public link token.
func (h *AppointmentHandler) GetAppointmentByToken(c *gin.Context) {
	appt, err := h.Repo.GetByPublicToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.respondLookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

// respondLookupError keeps missing records and storage faults apart: only a
// genuinely absent appointment is the client's 404.
func (h *AppointmentHandler) respondLookupError(c *gin.Context, err error) {
	if errors.Is(err, appointmentRepo.ErrNotFound) {
		utils.JSONError(c, http.StatusNotFound, "Appointment not found", err.Error())
		return
	}
	utils.JSONError(c, http.StatusInternalServerError, "Failed to load appointment", err.Error())
}

// ListByStylistAndDate returns one partition's appointments.
func (h *AppointmentHandler) ListByStylistAndDate(c *gin.Context) {
	appts, err := h.Repo.ListByStylistAndDate(c.Request.Context(), c.Param("stylistID"), c.Param("date"))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to list appointments", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appts})
}

// Confirm marks a scheduled appointment confirmed.
func (h *AppointmentHandler) Confirm(c *gin.Context) {
	h.runTransition(c, func(id string) error {
		return h.Engine.Confirm(c.Request.Context(), id)
	})
}

// Complete closes out a finished visit.
func (h *AppointmentHandler) Complete(c *gin.Context) {
	h.runTransition(c, func(id string) error {
		return h.Engine.Complete(c.Request.Context(), id)
	})
}

// Cancel releases the appointment's interval, keeping the record.
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	var input struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	h.runTransition(c, func(id string) error {
		return h.Engine.Cancel(c.Request.Context(), id, input.Reason)
	})
}

// MarkNoShow records a client who did not arrive.
func (h *AppointmentHandler) MarkNoShow(c *gin.Context) {
	h.runTransition(c, func(id string) error {
		return h.Engine.MarkNoShow(c.Request.Context(), id)
	})
}

// Reschedule moves an appointment to a new slot, re-validating availability
// for the target interval.
func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	var input struct {
		NewDate      string `json:"newDate" binding:"required"`
		NewStart     int    `json:"newStart"`
		NewStylistID string `json:"newStylistId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	appt, err := h.Engine.Reschedule(c.Request.Context(), c.Param("id"), input.NewDate, input.NewStart, input.NewStylistID)
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointment": appt})
}

func (h *AppointmentHandler) runTransition(c *gin.Context, op func(id string) error) {
	id := c.Param("id")
	if err := op(id); err != nil {
		h.Logger.Info("appointment transition rejected",
			zap.String("appointmentId", id), zap.Error(err))
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}
