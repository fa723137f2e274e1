package repositories

import (
	"context"

	"github.com/zatekoja/hospitalrecords/internal/domain/entities"
)

// PatientRepository defines the interface for patient data operations
type PatientRepository interface {
	// Create inserts a patient and sets its generated ID
	Create(ctx context.Context, patient *entities.Patient) error

	// GetByID retrieves a patient by ID
	GetByID(ctx context.Context, id int64) (*entities.Patient, error)

	// List retrieves every patient in storage order
	List(ctx context.Context) ([]*entities.Patient, error)

	// SearchByName retrieves patients whose name contains term
	SearchByName(ctx context.Context, term string) ([]*entities.Patient, error)

	// Update overwrites every field of an existing patient
	Update(ctx context.Context, patient *entities.Patient) error

	// Delete removes a patient by ID without touching its appointments
	Delete(ctx context.Context, id int64) error
}
