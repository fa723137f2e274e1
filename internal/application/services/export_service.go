package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/zatekoja/hospitalrecords/internal/domain/entities"
	"github.com/zatekoja/hospitalrecords/internal/domain/repositories"
	"github.com/zatekoja/hospitalrecords/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/hospitalrecords/pkg/errors"
)

var exportHeader = []string{"ID", "Patient", "Doctor", "Date", "Time"}

// ExportService writes the appointment list as CSV
type ExportService struct {
	appointments repositories.AppointmentRepository
}

// NewExportService creates a new export service
func NewExportService(appointments repositories.AppointmentRepository) *ExportService {
	return &ExportService{appointments: appointments}
}

func (s *ExportService) load(ctx context.Context) ([]*entities.AppointmentDetail, error) {
	appointments, err := s.appointments.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(appointments) == 0 {
		return nil, apperrors.NewNotFoundError("no appointments to export")
	}
	return appointments, nil
}

// ExportAppointments writes every appointment to path and returns how many
// rows were written. Nothing is created when there are no appointments.
func (s *ExportService) ExportAppointments(ctx context.Context, path string) (int, error) {
	ctx, span := observability.StartSpan(ctx, "ExportService.ExportAppointments")
	defer span.End()

	appointments, err := s.load(ctx)
	if err != nil {
		return 0, err
	}

	err = writeFileAtomic(path, func(w io.Writer) error {
		return writeAppointmentsCSV(w, appointments)
	})
	if err != nil {
		observability.RecordError(span, err)
		return 0, apperrors.NewStorageError(fmt.Sprintf("failed to export appointments to %s", path), err)
	}

	observability.LoggerFromContext(ctx).Info().
		Str("path", path).
		Int("rows", len(appointments)).
		Msg("appointments exported")
	return len(appointments), nil
}

// WriteAppointments writes every appointment as CSV to w
func (s *ExportService) WriteAppointments(ctx context.Context, w io.Writer) (int, error) {
	appointments, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	if err := writeAppointmentsCSV(w, appointments); err != nil {
		return 0, apperrors.NewStorageError("failed to write appointments", err)
	}
	return len(appointments), nil
}

func writeAppointmentsCSV(w io.Writer, appointments []*entities.AppointmentDetail) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, a := range appointments {
		record := []string{
			strconv.FormatInt(a.ID, 10),
			a.PatientName,
			a.DoctorName,
			a.Date.String(),
			a.Time.String(),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
