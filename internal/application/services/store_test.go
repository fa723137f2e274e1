package services_test

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zatekoja/hospitalrecords/internal/adapters/database"
	"github.com/zatekoja/hospitalrecords/internal/application/services"
	"github.com/zatekoja/hospitalrecords/internal/infrastructure/clients/sqlite"
	"github.com/zatekoja/hospitalrecords/pkg/config"
)

// store wires real adapters over a database file in a temp directory
type store struct {
	client       *sqlite.Client
	patients     *services.PatientService
	doctors      *services.DoctorService
	appointments *services.AppointmentService
	credentials  *services.CredentialService
	export       *services.ExportService
	backup       *services.BackupService
}

func newStore(t *testing.T, cfg config.DatabaseConfig) *store {
	t.Helper()
	if cfg.Path == "" {
		cfg.Path = filepath.Join(t.TempDir(), "hospital.db")
	}
	if cfg.BusyTimeoutMS == 0 {
		cfg.BusyTimeoutMS = 1000
	}

	client, err := sqlite.NewClient(context.Background(), &cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	appointmentRepo := database.NewAppointmentAdapter(client)
	credentials := services.NewCredentialService(database.NewCredentialAdapter(client), "admin", "admin")
	_, err = credentials.EnsureDefault(context.Background())
	require.NoError(t, err)

	return &store{
		client:       client,
		patients:     services.NewPatientService(database.NewPatientAdapter(client), false),
		doctors:      services.NewDoctorService(database.NewDoctorAdapter(client)),
		appointments: services.NewAppointmentService(appointmentRepo, false),
		credentials:  credentials,
		export:       services.NewExportService(appointmentRepo),
		backup:       services.NewBackupService(client, credentials),
	}
}

func (s *store) addPatient(t *testing.T, name string) int64 {
	t.Helper()
	p, err := s.patients.Register(context.Background(), services.PatientFields{
		Name: name, Age: "30", Address: "Rua A", Contact: "555",
	})
	require.NoError(t, err)
	return p.ID
}

func (s *store) addDoctor(t *testing.T, name string) int64 {
	t.Helper()
	d, err := s.doctors.Register(context.Background(), services.DoctorFields{
		Name: name, Specialty: "Cardiology", Schedule: "Mon-Fri",
	})
	require.NoError(t, err)
	return d.ID
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
