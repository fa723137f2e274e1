package services

import (
	"context"

	"github.com/zatekoja/hospitalrecords/internal/domain/entities"
	"github.com/zatekoja/hospitalrecords/internal/domain/repositories"
	"github.com/zatekoja/hospitalrecords/internal/infrastructure/observability"
)

// DoctorService handles doctor records
type DoctorService struct {
	repo repositories.DoctorRepository
}

// NewDoctorService creates a new doctor service
func NewDoctorService(repo repositories.DoctorRepository) *DoctorService {
	return &DoctorService{repo: repo}
}

func buildDoctor(fields DoctorFields) (*entities.Doctor, error) {
	fields = fields.trimmed()
	if err := requireAll(fields); err != nil {
		return nil, err
	}
	return &entities.Doctor{
		Name:      fields.Name,
		Specialty: fields.Specialty,
		Schedule:  fields.Schedule,
	}, nil
}

// Register validates the form and stores a new doctor
func (s *DoctorService) Register(ctx context.Context, fields DoctorFields) (*entities.Doctor, error) {
	doctor, err := buildDoctor(fields)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, doctor); err != nil {
		return nil, err
	}

	observability.LoggerFromContext(ctx).Info().
		Int64("doctor_id", doctor.ID).
		Str("specialty", doctor.Specialty).
		Msg("doctor registered")
	return doctor, nil
}

func (s *DoctorService) Get(ctx context.Context, id int64) (*entities.Doctor, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *DoctorService) List(ctx context.Context) ([]*entities.Doctor, error) {
	return s.repo.List(ctx)
}

// Update overwrites every field of doctor id
func (s *DoctorService) Update(ctx context.Context, id int64, fields DoctorFields) (*entities.Doctor, error) {
	doctor, err := buildDoctor(fields)
	if err != nil {
		return nil, err
	}
	doctor.ID = id

	if err := s.repo.Update(ctx, doctor); err != nil {
		return nil, err
	}

	observability.LoggerFromContext(ctx).Info().
		Int64("doctor_id", id).
		Msg("doctor updated")
	return doctor, nil
}

// Delete removes a doctor. Its appointments stay and keep the stale doctor id
// unless the connection enforces foreign keys, in which case the delete is a
// conflict.
func (s *DoctorService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	observability.LoggerFromContext(ctx).Info().
		Int64("doctor_id", id).
		Msg("doctor deleted")
	return nil
}
