package staffRepo

import (
	"context"

	"salonflow/models"
)

// StaffRepository exposes the external stylist and service-catalog data the
// scheduling core consumes. CRUD for these records lives elsewhere.
type StaffRepository interface {
	GetStylist(ctx context.Context, stylistID string) (*models.Stylist, error)
	GetWorkingHours(ctx context.Context, stylistID string) (*models.WorkingHours, error)
	SetWorkingHours(ctx context.Context, hours *models.WorkingHours) error
	GetService(ctx context.Context, serviceID string) (*models.SalonService, error)
	ListServices(ctx context.Context) ([]models.SalonService, error)
}
