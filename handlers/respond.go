package handlers

import (
	"net/http"

	"salonflow/services/scheduling"
	"salonflow/utils"

	"github.com/gin-gonic/gin"
)

// respondScheduleError maps scheduling error codes onto HTTP statuses.
// Slot conflicts are an expected outcome of racing sessions, so they get a
// message the booking UI can show directly.
func respondScheduleError(c *gin.Context, err error) {
	switch {
	case scheduling.IsSlotConflict(err):
		utils.JSONError(c, http.StatusConflict,
			"This time was just booked by someone else, please choose another", err.Error())
	case scheduling.IsInvalidTransition(err):
		utils.JSONError(c, http.StatusConflict, "Operation not valid for the appointment's current state", err.Error())
	case scheduling.IsInvalidSchedule(err), scheduling.IsInvalidDuration(err):
		utils.JSONError(c, http.StatusBadRequest, "Invalid scheduling input", err.Error())
	case scheduling.IsNotFound(err):
		utils.JSONError(c, http.StatusNotFound, "Not found", err.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, "Internal error", err.Error())
	}
}
