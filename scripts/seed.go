//go:build ignore

// Seed fills a database with demo records. Run with
//
//	go run scripts/seed.go -db demo.db
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/hospitalrecords/internal/app"
	"github.com/zatekoja/hospitalrecords/internal/application/services"
	"github.com/zatekoja/hospitalrecords/internal/infrastructure/observability"
	"github.com/zatekoja/hospitalrecords/pkg/config"
)

var demoPatients = []services.PatientFields{
	{Name: "Maria Silva", Age: "34", Address: "Rua das Flores 10", Contact: "555-0101"},
	{Name: "João Pereira", Age: "58", Address: "Av. Central 221", Contact: "555-0102"},
	{Name: "Ana Costa", Age: "7", Address: "Travessa do Sol 3", Contact: "555-0103"},
	{Name: "Carlos Souza", Age: "41", Address: "Rua Nova 88", Contact: "555-0104"},
}

var demoDoctors = []services.DoctorFields{
	{Name: "Dr. Helena Ramos", Specialty: "Cardiology", Schedule: "Mon-Wed 08:00-12:00"},
	{Name: "Dr. Paulo Lima", Specialty: "Pediatrics", Schedule: "Tue-Fri 13:00-18:00"},
	{Name: "Dr. Sofia Alves", Specialty: "Dermatology", Schedule: "Thu 09:00-15:00"},
}

func main() {
	dbPath := flag.String("db", "", "database file (defaults to HOSPITAL_DB_PATH)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	observability.InitLogger("hospital-seed", "development", "info")

	ctx := context.Background()
	a, err := app.Open(ctx, cfg, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer a.Close()

	var patientIDs, doctorIDs []int64
	for _, fields := range demoPatients {
		p, err := a.Patients.Register(ctx, fields)
		if err != nil {
			log.Fatal().Err(err).Str("name", fields.Name).Msg("failed to seed patient")
		}
		patientIDs = append(patientIDs, p.ID)
	}
	for _, fields := range demoDoctors {
		d, err := a.Doctors.Register(ctx, fields)
		if err != nil {
			log.Fatal().Err(err).Str("name", fields.Name).Msg("failed to seed doctor")
		}
		doctorIDs = append(doctorIDs, d.ID)
	}

	for i, patientID := range patientIDs {
		doctorID := doctorIDs[i%len(doctorIDs)]
		_, err := a.Appointments.Schedule(ctx, services.AppointmentFields{
			PatientID: strconv.FormatInt(patientID, 10),
			DoctorID:  strconv.FormatInt(doctorID, 10),
			Date:      fmt.Sprintf("%02d/06/2025", 10+i),
			Time:      fmt.Sprintf("%02d:30", 9+i),
		})
		if err != nil {
			log.Fatal().Err(err).Int64("patient_id", patientID).Msg("failed to seed appointment")
		}
	}

	log.Info().
		Int("patients", len(patientIDs)).
		Int("doctors", len(doctorIDs)).
		Int("appointments", len(patientIDs)).
		Msg("seeding complete")
}
