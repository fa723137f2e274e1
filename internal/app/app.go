// Package app builds the record store from configuration.
package app

import (
	"context"
	"fmt"

	"github.com/zatekoja/hospitalrecords/internal/adapters/database"
	"github.com/zatekoja/hospitalrecords/internal/application/services"
	"github.com/zatekoja/hospitalrecords/internal/infrastructure/clients/sqlite"
	"github.com/zatekoja/hospitalrecords/internal/infrastructure/observability"
	"github.com/zatekoja/hospitalrecords/pkg/config"
	apperrors "github.com/zatekoja/hospitalrecords/pkg/errors"
)

// App owns the database client and the services built on it
type App struct {
	client *sqlite.Client

	Patients     *services.PatientService
	Doctors      *services.DoctorService
	Appointments *services.AppointmentService
	Credentials  *services.CredentialService
	Export       *services.ExportService
	Backup       *services.BackupService
}

// Open connects to the database named by cfg, ensures the schema and the
// default credential, and wires the services. metrics may be nil.
func Open(ctx context.Context, cfg *config.Config, metrics *observability.Metrics) (*App, error) {
	client, err := sqlite.NewClient(ctx, &cfg.Database, metrics)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to open database %s", cfg.Database.Path), err)
	}

	patientAdapter := database.NewPatientAdapter(client)
	doctorAdapter := database.NewDoctorAdapter(client)
	appointmentAdapter := database.NewAppointmentAdapter(client)
	credentialAdapter := database.NewCredentialAdapter(client)

	strict := cfg.Validation.StrictSchedule
	credentials := services.NewCredentialService(
		credentialAdapter,
		cfg.Credential.DefaultUsername,
		cfg.Credential.DefaultPassword,
	)

	a := &App{
		client:       client,
		Patients:     services.NewPatientService(patientAdapter, strict),
		Doctors:      services.NewDoctorService(doctorAdapter),
		Appointments: services.NewAppointmentService(appointmentAdapter, strict),
		Credentials:  credentials,
		Export:       services.NewExportService(appointmentAdapter),
		Backup:       services.NewBackupService(client, credentials),
	}

	if _, err := credentials.EnsureDefault(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}

	observability.LoggerFromContext(ctx).Debug().
		Str("path", cfg.Database.Path).
		Bool("foreign_keys", cfg.Database.EnforceForeignKey).
		Bool("strict_schedule", strict).
		Msg("record store opened")
	return a, nil
}

// Close releases the database connection
func (a *App) Close() error {
	return a.client.Close()
}
