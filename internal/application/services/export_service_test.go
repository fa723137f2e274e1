package services_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/hospitalrecords/internal/application/services"
	"github.com/zatekoja/hospitalrecords/internal/domain/entities"
	"github.com/zatekoja/hospitalrecords/pkg/config"
	apperrors "github.com/zatekoja/hospitalrecords/pkg/errors"
)

func TestExportService_NoAppointmentsCreatesNoFile(t *testing.T) {
	s := newStore(t, config.DatabaseConfig{})
	out := filepath.Join(t.TempDir(), "appointments.csv")

	n, err := s.export.ExportAppointments(context.Background(), out)

	assert.Zero(t, n)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	assert.Equal(t, "no appointments to export", apperrors.UserMessage(err))
	_, statErr := os.Stat(out)
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
}

func TestExportService_WritesJoinedRows(t *testing.T) {
	s := newStore(t, config.DatabaseConfig{})
	ctx := context.Background()

	patientID := s.addPatient(t, "Maria Silva")
	doctorID := s.addDoctor(t, "Dr. Lee")
	_, err := s.appointments.Schedule(ctx, services.AppointmentFields{
		PatientID: strconv.FormatInt(patientID, 10),
		DoctorID:  strconv.FormatInt(doctorID, 10),
		Date:      "05/03/2024",
		Time:      "14:30",
	})
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "appointments.csv")
	n, err := s.export.ExportAppointments(ctx, out)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "ID,Patient,Doctor,Date,Time\n1,Maria Silva,Dr. Lee,05/03/2024,14:30\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(out))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestExportService_UnwritableTarget(t *testing.T) {
	repo := new(MockAppointmentRepository)
	repo.On("List", mock.Anything).Return([]*entities.AppointmentDetail{
		{Appointment: entities.Appointment{ID: 1}},
	}, nil)
	service := services.NewExportService(repo)

	_, err := service.ExportAppointments(context.Background(), filepath.Join(t.TempDir(), "missing", "out.csv"))

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeStorage))
}

func TestExportService_WriteAppointmentsQuotesFields(t *testing.T) {
	repo := new(MockAppointmentRepository)
	repo.On("List", mock.Anything).Return([]*entities.AppointmentDetail{
		{Appointment: entities.Appointment{ID: 3, PatientID: 1, DoctorID: 8}, PatientName: "Silva, Maria"},
	}, nil)
	service := services.NewExportService(repo)

	var buf bytes.Buffer
	n, err := service.WriteAppointments(context.Background(), &buf)

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "ID,Patient,Doctor,Date,Time\n3,\"Silva, Maria\",,,\n", buf.String())
}
