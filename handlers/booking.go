package handlers

import (
	"net/http"

	"salonflow/services/scheduling"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the stateful booking-session flow.
type BookingHandler struct {
	Sessions scheduling.BookingSessionService
	Logger   *zap.Logger
}

func NewBookingHandler(sessions scheduling.BookingSessionService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Sessions: sessions, Logger: logger}
}

// StartSession opens a new booking session for a client.
func (h *BookingHandler) StartSession(c *gin.Context) {
	var input struct {
		ClientID string `json:"clientId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, err := h.Sessions.InitiateSession(c.Request.Context(), input.ClientID)
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// UpdateSession applies a changed selection. Every change of service,
// stylist, date or start releases the previous pre-booking and, when the
// selection is complete, takes a fresh one.
func (h *BookingHandler) UpdateSession(c *gin.Context) {
	sessionID := c.Param("sessionID")

	input := scheduling.SessionSelection{Start: -1}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, err := h.Sessions.UpdateSession(c.Request.Context(), sessionID, input)
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// ConfirmSession converts the session's pre-booking into an appointment.
func (h *BookingHandler) ConfirmSession(c *gin.Context) {
	sessionID := c.Param("sessionID")

	var input struct {
		Notes string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	appt, err := h.Sessions.ConfirmSession(c.Request.Context(), sessionID, input.Notes)
	if err != nil {
		h.Logger.Info("booking confirmation failed",
			zap.String("sessionId", sessionID), zap.Error(err))
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointment": appt})
}

// CancelSession abandons a booking session and releases its pre-booking.
func (h *BookingHandler) CancelSession(c *gin.Context) {
	sessionID := c.Param("sessionID")

	if err := h.Sessions.CancelSession(c.Request.Context(), sessionID); err != nil {
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "booking session cancelled"})
}
