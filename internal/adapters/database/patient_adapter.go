package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/zatekoja/hospitalrecords/internal/domain/entities"
	"github.com/zatekoja/hospitalrecords/internal/domain/repositories"
	"github.com/zatekoja/hospitalrecords/internal/infrastructure/clients/sqlite"
	apperrors "github.com/zatekoja/hospitalrecords/pkg/errors"
)

var patientColumns = []interface{}{"id", "name", "age", "address", "contact"}

// patientRow tolerates NULLs in the optional columns of older files
type patientRow struct {
	ID      int64          `db:"id"`
	Name    string         `db:"name"`
	Age     sql.NullInt64  `db:"age"`
	Address sql.NullString `db:"address"`
	Contact sql.NullString `db:"contact"`
}

func (r *patientRow) toEntity() *entities.Patient {
	return &entities.Patient{
		ID:      r.ID,
		Name:    r.Name,
		Age:     int(r.Age.Int64),
		Address: r.Address.String,
		Contact: r.Contact.String,

		AgeUnknown: !r.Age.Valid,
	}
}

// PatientAdapter implements the PatientRepository interface
type PatientAdapter struct {
	client *sqlite.Client
}

// NewPatientAdapter creates a new patient adapter
func NewPatientAdapter(client *sqlite.Client) repositories.PatientRepository {
	return &PatientAdapter{client: client}
}

// Create inserts a patient
func (a *PatientAdapter) Create(ctx context.Context, patient *entities.Patient) (err error) {
	ctx, done := a.client.Instrument(ctx, "patients.insert")
	defer func() { done(err) }()

	db, err := a.client.Conn()
	if err != nil {
		return err
	}

	query, args, err := dialect.Insert("patients").Rows(goqu.Record{
		"name":    patient.Name,
		"age":     patient.Age,
		"address": patient.Address,
		"contact": patient.Contact,
	}).Prepared(true).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapWriteError(err, "failed to create patient")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperrors.NewInternalError("failed to read generated patient id", err)
	}
	patient.ID = id

	return nil
}

// GetByID retrieves a patient by ID
func (a *PatientAdapter) GetByID(ctx context.Context, id int64) (_ *entities.Patient, err error) {
	ctx, done := a.client.Instrument(ctx, "patients.select")
	defer func() { done(err) }()

	db, err := a.client.Conn()
	if err != nil {
		return nil, err
	}

	query, args, err := dialect.From("patients").
		Select(patientColumns...).
		Where(goqu.Ex{"id": id}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	var row patientRow
	err = db.GetContext(ctx, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("patient with id %d not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get patient", err)
	}

	return row.toEntity(), nil
}

// List retrieves every patient in storage order
func (a *PatientAdapter) List(ctx context.Context) (_ []*entities.Patient, err error) {
	ctx, done := a.client.Instrument(ctx, "patients.select")
	defer func() { done(err) }()

	return a.selectPatients(ctx, dialect.From("patients"))
}

// SearchByName retrieves patients whose name contains term. Matching follows
// SQLite LIKE, which ignores ASCII case.
func (a *PatientAdapter) SearchByName(ctx context.Context, term string) (_ []*entities.Patient, err error) {
	ctx, done := a.client.Instrument(ctx, "patients.search")
	defer func() { done(err) }()

	ds := dialect.From("patients").
		Where(goqu.L(`"name" LIKE ? ESCAPE '\'`, containsPattern(term)))

	return a.selectPatients(ctx, ds)
}

func (a *PatientAdapter) selectPatients(ctx context.Context, ds *goqu.SelectDataset) ([]*entities.Patient, error) {
	db, err := a.client.Conn()
	if err != nil {
		return nil, err
	}

	query, args, err := ds.Select(patientColumns...).
		Order(goqu.I("id").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	var rows []patientRow
	if err := db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, apperrors.NewInternalError("failed to list patients", err)
	}

	patients := make([]*entities.Patient, 0, len(rows))
	for i := range rows {
		patients = append(patients, rows[i].toEntity())
	}
	return patients, nil
}

// Update overwrites every field of an existing patient
func (a *PatientAdapter) Update(ctx context.Context, patient *entities.Patient) (err error) {
	ctx, done := a.client.Instrument(ctx, "patients.update")
	defer func() { done(err) }()

	db, err := a.client.Conn()
	if err != nil {
		return err
	}

	query, args, err := dialect.Update("patients").
		Set(goqu.Record{
			"name":    patient.Name,
			"age":     patient.Age,
			"address": patient.Address,
			"contact": patient.Contact,
		}).
		Where(goqu.Ex{"id": patient.ID}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapWriteError(err, "failed to update patient")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("patient with id %d not found", patient.ID))
	}

	return nil
}

// Delete removes a patient by ID. Appointments referencing the patient are
// left in place.
func (a *PatientAdapter) Delete(ctx context.Context, id int64) (err error) {
	ctx, done := a.client.Instrument(ctx, "patients.delete")
	defer func() { done(err) }()

	db, err := a.client.Conn()
	if err != nil {
		return err
	}

	query, args, err := dialect.Delete("patients").
		Where(goqu.Ex{"id": id}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapWriteError(err, "failed to delete patient")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("patient with id %d not found", id))
	}

	return nil
}
