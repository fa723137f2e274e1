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

var doctorColumns = []interface{}{"id", "name", "specialty", "schedule"}

type doctorRow struct {
	ID        int64          `db:"id"`
	Name      string         `db:"name"`
	Specialty sql.NullString `db:"specialty"`
	Schedule  sql.NullString `db:"schedule"`
}

func (r *doctorRow) toEntity() *entities.Doctor {
	return &entities.Doctor{
		ID:        r.ID,
		Name:      r.Name,
		Specialty: r.Specialty.String,
		Schedule:  r.Schedule.String,
	}
}

// DoctorAdapter implements the DoctorRepository interface
type DoctorAdapter struct {
	client *sqlite.Client
}

// NewDoctorAdapter creates a new doctor adapter
func NewDoctorAdapter(client *sqlite.Client) repositories.DoctorRepository {
	return &DoctorAdapter{client: client}
}

// Create inserts a doctor
func (a *DoctorAdapter) Create(ctx context.Context, doctor *entities.Doctor) (err error) {
	ctx, done := a.client.Instrument(ctx, "doctors.insert")
	defer func() { done(err) }()

	db, err := a.client.Conn()
	if err != nil {
		return err
	}

	query, args, err := dialect.Insert("doctors").Rows(goqu.Record{
		"name":      doctor.Name,
		"specialty": doctor.Specialty,
		"schedule":  doctor.Schedule,
	}).Prepared(true).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapWriteError(err, "failed to create doctor")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperrors.NewInternalError("failed to read generated doctor id", err)
	}
	doctor.ID = id

	return nil
}

// GetByID retrieves a doctor by ID
func (a *DoctorAdapter) GetByID(ctx context.Context, id int64) (_ *entities.Doctor, err error) {
	ctx, done := a.client.Instrument(ctx, "doctors.select")
	defer func() { done(err) }()

	db, err := a.client.Conn()
	if err != nil {
		return nil, err
	}

	query, args, err := dialect.From("doctors").
		Select(doctorColumns...).
		Where(goqu.Ex{"id": id}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	var row doctorRow
	err = db.GetContext(ctx, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("doctor with id %d not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get doctor", err)
	}

	return row.toEntity(), nil
}

// List retrieves every doctor in storage order
func (a *DoctorAdapter) List(ctx context.Context) (_ []*entities.Doctor, err error) {
	ctx, done := a.client.Instrument(ctx, "doctors.select")
	defer func() { done(err) }()

	db, err := a.client.Conn()
	if err != nil {
		return nil, err
	}

	query, args, err := dialect.From("doctors").
		Select(doctorColumns...).
		Order(goqu.I("id").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	var rows []doctorRow
	if err := db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, apperrors.NewInternalError("failed to list doctors", err)
	}

	doctors := make([]*entities.Doctor, 0, len(rows))
	for i := range rows {
		doctors = append(doctors, rows[i].toEntity())
	}
	return doctors, nil
}

// Update overwrites every field of an existing doctor
func (a *DoctorAdapter) Update(ctx context.Context, doctor *entities.Doctor) (err error) {
	ctx, done := a.client.Instrument(ctx, "doctors.update")
	defer func() { done(err) }()

	db, err := a.client.Conn()
	if err != nil {
		return err
	}

	query, args, err := dialect.Update("doctors").
		Set(goqu.Record{
			"name":      doctor.Name,
			"specialty": doctor.Specialty,
			"schedule":  doctor.Schedule,
		}).
		Where(goqu.Ex{"id": doctor.ID}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapWriteError(err, "failed to update doctor")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("doctor with id %d not found", doctor.ID))
	}

	return nil
}

// Delete removes a doctor by ID. Appointments referencing the doctor are
// left in place unless foreign keys are enforced, in which case the delete
// fails with a conflict.
func (a *DoctorAdapter) Delete(ctx context.Context, id int64) (err error) {
	ctx, done := a.client.Instrument(ctx, "doctors.delete")
	defer func() { done(err) }()

	db, err := a.client.Conn()
	if err != nil {
		return err
	}

	query, args, err := dialect.Delete("doctors").
		Where(goqu.Ex{"id": id}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapWriteError(err, "failed to delete doctor")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("doctor with id %d not found", id))
	}

	return nil
}
