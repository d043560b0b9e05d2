package handlers

import (
	"net/http"
	"time"

	staffRepo "salonflow/database/repository/staff"
	"salonflow/models"
	"salonflow/utils"

	"github.com/gin-gonic/gin"
)

// StaffHandler exposes working-hours setup and the service catalog.
type StaffHandler struct {
	Repo staffRepo.StaffRepository
}

func NewStaffHandler(repo staffRepo.StaffRepository) *StaffHandler {
	return &StaffHandler{Repo: repo}
}

type dayHoursInput struct {
	Weekday   int    `json:"weekday" binding:"min=0,max=6"`
	IsWorking bool   `json:"isWorking"`
	Start     string `json:"start"` // "HH:MM"
	End       string `json:"end"`   // "HH:MM"
	Breaks    []struct {
		Start string `json:"start"`
		End   string `json:"end"`
	} `json:"breaks"`
}

// SetWorkingHours replaces a stylist's weekly schedule.
func (h *StaffHandler) SetWorkingHours(c *gin.Context) {
	stylistID := c.Param("stylistID")

	var input struct {
		Days []dayHoursInput `json:"days" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	hours := &models.WorkingHours{
		StylistID: stylistID,
		Days:      make(map[time.Weekday]models.DayHours, len(input.Days)),
	}
	for _, d := range input.Days {
		day := models.DayHours{IsWorking: d.IsWorking}
		if d.IsWorking {
			start, err := utils.ParseClock(d.Start)
			if err != nil {
				utils.JSONError(c, http.StatusBadRequest, "Invalid working hours", err.Error())
				return
			}
			end, err := utils.ParseClock(d.End)
			if err != nil {
				utils.JSONError(c, http.StatusBadRequest, "Invalid working hours", err.Error())
				return
			}
			day.Start, day.End = start, end
			for _, b := range d.Breaks {
				bs, err := utils.ParseClock(b.Start)
				if err != nil {
					utils.JSONError(c, http.StatusBadRequest, "Invalid break window", err.Error())
					return
				}
				be, err := utils.ParseClock(b.End)
				if err != nil {
					utils.JSONError(c, http.StatusBadRequest, "Invalid break window", err.Error())
					return
				}
				day.Breaks = append(day.Breaks, models.BreakWindow{Start: bs, End: be})
			}
		}
		hours.Days[time.Weekday(d.Weekday)] = day
	}

	if err := hours.Validate(); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid working hours", err.Error())
		return
	}
	if err := h.Repo.SetWorkingHours(c.Request.Context(), hours); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to save working hours", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "working hours updated"})
}

// GetWorkingHours returns a stylist's weekly schedule.
func (h *StaffHandler) GetWorkingHours(c *gin.Context) {
	hours, err := h.Repo.GetWorkingHours(c.Request.Context(), c.Param("stylistID"))
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "Working hours not found", err.Error())
		return
	}
	c.JSON(http.StatusOK, hours)
}

// ListServices returns the bookable service catalog.
func (h *StaffHandler) ListServices(c *gin.Context) {
	services, err := h.Repo.ListServices(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to list services", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": services})
}
