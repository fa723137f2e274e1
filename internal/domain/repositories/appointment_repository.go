package repositories

import (
	"context"

	"github.com/zatekoja/hospitalrecords/internal/domain/entities"
)

// AppointmentRepository defines the interface for appointment data operations.
// Appointments have no update path.
type AppointmentRepository interface {
	// Create inserts an appointment and sets its generated ID
	Create(ctx context.Context, appointment *entities.Appointment) error

	// GetByID retrieves an appointment joined with patient and doctor names
	GetByID(ctx context.Context, id int64) (*entities.AppointmentDetail, error)

	// List retrieves every appointment joined with patient and doctor names
	List(ctx context.Context) ([]*entities.AppointmentDetail, error)

	// Delete removes an appointment by ID
	Delete(ctx context.Context, id int64) error
}
