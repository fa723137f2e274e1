package services

import (
	"context"
	"errors"

	"github.com/zatekoja/hospitalrecords/internal/domain/entities"
	"github.com/zatekoja/hospitalrecords/internal/domain/repositories"
	"github.com/zatekoja/hospitalrecords/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/hospitalrecords/pkg/errors"
)

// AppointmentService handles appointment scheduling
type AppointmentService struct {
	repo   repositories.AppointmentRepository
	strict bool
}

// NewAppointmentService creates a new appointment service. With strict set,
// dates must be real calendar days and times must fall within a day.
func NewAppointmentService(repo repositories.AppointmentRepository, strict bool) *AppointmentService {
	return &AppointmentService{
		repo:   repo,
		strict: strict,
	}
}

// Schedule validates the form and stores a new appointment. The referenced
// patient and doctor are not looked up.
func (s *AppointmentService) Schedule(ctx context.Context, fields AppointmentFields) (*entities.Appointment, error) {
	fields = fields.trimmed()
	if err := requireAll(fields); err != nil {
		return nil, err
	}

	patientID, ok := parseSelectionID(fields.PatientID)
	if !ok {
		return nil, apperrors.NewValidationError("invalid patient or doctor selection")
	}
	doctorID, ok := parseSelectionID(fields.DoctorID)
	if !ok {
		return nil, apperrors.NewValidationError("invalid patient or doctor selection")
	}

	date, err := entities.ParseCalendarDate(fields.Date, s.strict)
	if err != nil {
		return nil, scheduleError(err)
	}
	clock, err := entities.ParseClockTime(fields.Time, s.strict)
	if err != nil {
		return nil, scheduleError(err)
	}

	appointment := &entities.Appointment{
		PatientID: patientID,
		DoctorID:  doctorID,
		Date:      date,
		Time:      clock,
	}
	if err := s.repo.Create(ctx, appointment); err != nil {
		return nil, err
	}

	observability.LoggerFromContext(ctx).Info().
		Int64("appointment_id", appointment.ID).
		Int64("patient_id", patientID).
		Int64("doctor_id", doctorID).
		Str("date", date.String()).
		Msg("appointment scheduled")
	return appointment, nil
}

func scheduleError(err error) error {
	switch {
	case errors.Is(err, entities.ErrDateFormat),
		errors.Is(err, entities.ErrTimeFormat),
		errors.Is(err, entities.ErrDateRange),
		errors.Is(err, entities.ErrTimeRange):
		return apperrors.NewValidationError(err.Error())
	default:
		return apperrors.NewInternalError("failed to parse schedule", err)
	}
}

// Get retrieves an appointment with its patient and doctor names
func (s *AppointmentService) Get(ctx context.Context, id int64) (*entities.AppointmentDetail, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns every appointment with its patient and doctor names. Rows
// whose references dangle are included with empty names.
func (s *AppointmentService) List(ctx context.Context) ([]*entities.AppointmentDetail, error) {
	appointments, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	dangling := 0
	for _, a := range appointments {
		if a.HasDanglingReference() {
			dangling++
		}
	}
	if dangling > 0 {
		observability.LoggerFromContext(ctx).Warn().
			Int("count", dangling).
			Msg("appointments reference missing patients or doctors")
	}

	return appointments, nil
}

// Delete removes an appointment
func (s *AppointmentService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	observability.LoggerFromContext(ctx).Info().
		Int64("appointment_id", id).
		Msg("appointment deleted")
	return nil
}
