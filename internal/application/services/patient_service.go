package services

import (
	"context"
	"strconv"

	"github.com/zatekoja/hospitalrecords/internal/domain/entities"
	"github.com/zatekoja/hospitalrecords/internal/domain/repositories"
	"github.com/zatekoja/hospitalrecords/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/hospitalrecords/pkg/errors"
)

// PatientService handles patient registration and maintenance
type PatientService struct {
	repo   repositories.PatientRepository
	strict bool
}

// NewPatientService creates a new patient service. With strict set, negative
// ages are rejected.
func NewPatientService(repo repositories.PatientRepository, strict bool) *PatientService {
	return &PatientService{
		repo:   repo,
		strict: strict,
	}
}

func (s *PatientService) build(fields PatientFields) (*entities.Patient, error) {
	fields = fields.trimmed()
	if err := requireAll(fields); err != nil {
		return nil, err
	}

	age, err := strconv.Atoi(fields.Age)
	if err != nil {
		return nil, apperrors.NewValidationError("age must be a number")
	}
	if s.strict && age < 0 {
		return nil, apperrors.NewValidationError("age cannot be negative")
	}

	return &entities.Patient{
		Name:    fields.Name,
		Age:     age,
		Address: fields.Address,
		Contact: fields.Contact,
	}, nil
}

// Register validates the form and stores a new patient
func (s *PatientService) Register(ctx context.Context, fields PatientFields) (*entities.Patient, error) {
	patient, err := s.build(fields)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, err
	}

	observability.LoggerFromContext(ctx).Info().
		Int64("patient_id", patient.ID).
		Msg("patient registered")
	return patient, nil
}

// Get retrieves a patient by ID
func (s *PatientService) Get(ctx context.Context, id int64) (*entities.Patient, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns every patient in storage order
func (s *PatientService) List(ctx context.Context) ([]*entities.Patient, error) {
	return s.repo.List(ctx)
}

// Search returns patients whose name contains term. An empty term matches all.
func (s *PatientService) Search(ctx context.Context, term string) ([]*entities.Patient, error) {
	return s.repo.SearchByName(ctx, term)
}

// Update overwrites every field of patient id
func (s *PatientService) Update(ctx context.Context, id int64, fields PatientFields) (*entities.Patient, error) {
	patient, err := s.build(fields)
	if err != nil {
		return nil, err
	}
	patient.ID = id

	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, err
	}

	observability.LoggerFromContext(ctx).Info().
		Int64("patient_id", id).
		Msg("patient updated")
	return patient, nil
}

// Delete removes a patient. Appointments that reference it are left alone.
func (s *PatientService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	observability.LoggerFromContext(ctx).Info().
		Int64("patient_id", id).
		Msg("patient deleted")
	return nil
}
