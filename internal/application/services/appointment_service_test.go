package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/hospitalrecords/internal/application/services"
	"github.com/zatekoja/hospitalrecords/internal/domain/entities"
	apperrors "github.com/zatekoja/hospitalrecords/pkg/errors"
)

func TestAppointmentService_Schedule(t *testing.T) {
	t.Run("accepts selection labels and stores parsed schedule", func(t *testing.T) {
		repo := new(MockAppointmentRepository)
		service := services.NewAppointmentService(repo, false)

		repo.On("Create", mock.Anything, mock.MatchedBy(func(a *entities.Appointment) bool {
			return a.PatientID == 3 && a.DoctorID == 7 &&
				a.Date.String() == "05/03/2024" && a.Time.String() == "14:30"
		})).Return(nil)

		_, err := service.Schedule(context.Background(), services.AppointmentFields{
			PatientID: "3: Maria Silva",
			DoctorID:  "7",
			Date:      "05/03/2024",
			Time:      "14:30",
		})

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("lenient mode keeps impossible month", func(t *testing.T) {
		repo := new(MockAppointmentRepository)
		service := services.NewAppointmentService(repo, false)
		repo.On("Create", mock.Anything, mock.Anything).Return(nil)

		appointment, err := service.Schedule(context.Background(), services.AppointmentFields{
			PatientID: "1", DoctorID: "1", Date: "15/13/2024", Time: "99:99",
		})

		require.NoError(t, err)
		assert.Equal(t, "15/13/2024", appointment.Date.String())
		assert.Equal(t, "99:99", appointment.Time.String())
	})

	t.Run("strict mode rejects impossible month", func(t *testing.T) {
		repo := new(MockAppointmentRepository)
		service := services.NewAppointmentService(repo, true)

		_, err := service.Schedule(context.Background(), services.AppointmentFields{
			PatientID: "1", DoctorID: "1", Date: "15/13/2024", Time: "10:00",
		})

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects bad inputs", func(t *testing.T) {
		tests := []struct {
			name    string
			fields  services.AppointmentFields
			message string
		}{
			{
				name:    "non-numeric patient",
				fields:  services.AppointmentFields{PatientID: "Maria", DoctorID: "1", Date: "01/01/2024", Time: "10:00"},
				message: "invalid patient or doctor selection",
			},
			{
				name:    "non-numeric doctor",
				fields:  services.AppointmentFields{PatientID: "1", DoctorID: "x: Dr. House", Date: "01/01/2024", Time: "10:00"},
				message: "invalid patient or doctor selection",
			},
			{
				name:    "date with trailing text",
				fields:  services.AppointmentFields{PatientID: "1", DoctorID: "1", Date: "01/01/2024abc", Time: "10:00"},
				message: "DD/MM/YYYY",
			},
			{
				name:    "single digit hour",
				fields:  services.AppointmentFields{PatientID: "1", DoctorID: "1", Date: "01/01/2024", Time: "9:00"},
				message: "HH:MM",
			},
			{
				name:    "missing time",
				fields:  services.AppointmentFields{PatientID: "1", DoctorID: "1", Date: "01/01/2024"},
				message: "time",
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				repo := new(MockAppointmentRepository)
				service := services.NewAppointmentService(repo, false)

				_, err := service.Schedule(context.Background(), tt.fields)

				require.Error(t, err)
				assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
				assert.Contains(t, err.Error(), tt.message)
				repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			})
		}
	})
}

func TestAppointmentService_ListKeepsDanglingRows(t *testing.T) {
	repo := new(MockAppointmentRepository)
	service := services.NewAppointmentService(repo, false)

	rows := []*entities.AppointmentDetail{
		{Appointment: entities.Appointment{ID: 1, PatientID: 1, DoctorID: 2}, PatientName: "Ana", DoctorName: "Dr. Lee"},
		{Appointment: entities.Appointment{ID: 2, PatientID: 1, DoctorID: 99}, PatientName: "Ana"},
	}
	repo.On("List", mock.Anything).Return(rows, nil)

	listed, err := service.List(context.Background())

	require.NoError(t, err)
	assert.Len(t, listed, 2)
	assert.True(t, listed[1].HasDanglingReference())
}
