package repositories

import (
	"context"

	"github.com/zatekoja/hospitalrecords/internal/domain/entities"
)

// DoctorRepository defines the interface for doctor data operations
type DoctorRepository interface {
	// Create inserts a doctor and sets its generated ID
	Create(ctx context.Context, doctor *entities.Doctor) error

	// GetByID retrieves a doctor by ID
	GetByID(ctx context.Context, id int64) (*entities.Doctor, error)

	// List retrieves every doctor in storage order
	List(ctx context.Context) ([]*entities.Doctor, error)

	// Update overwrites every field of an existing doctor
	Update(ctx context.Context, doctor *entities.Doctor) error

	// Delete removes a doctor by ID without touching its appointments
	Delete(ctx context.Context, id int64) error
}
