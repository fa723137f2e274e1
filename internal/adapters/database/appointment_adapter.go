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

// appointmentRow is one appointment left-joined with its patient and doctor.
// The names are NULL when a reference dangles.
type appointmentRow struct {
	ID          int64                 `db:"id"`
	PatientID   sql.NullInt64         `db:"patient_id"`
	DoctorID    sql.NullInt64         `db:"doctor_id"`
	PatientName sql.NullString        `db:"patient_name"`
	DoctorName  sql.NullString        `db:"doctor_name"`
	Date        entities.CalendarDate `db:"date"`
	Time        entities.ClockTime    `db:"time"`
}

func (r *appointmentRow) toEntity() *entities.AppointmentDetail {
	return &entities.AppointmentDetail{
		Appointment: entities.Appointment{
			ID:        r.ID,
			PatientID: r.PatientID.Int64,
			DoctorID:  r.DoctorID.Int64,
			Date:      r.Date,
			Time:      r.Time,
		},
		PatientName: r.PatientName.String,
		DoctorName:  r.DoctorName.String,
	}
}

// AppointmentAdapter implements the AppointmentRepository interface
type AppointmentAdapter struct {
	client *sqlite.Client
}

// NewAppointmentAdapter creates a new appointment adapter
func NewAppointmentAdapter(client *sqlite.Client) repositories.AppointmentRepository {
	return &AppointmentAdapter{client: client}
}

// Create inserts an appointment. Neither reference is checked unless the
// connection enforces foreign keys.
func (a *AppointmentAdapter) Create(ctx context.Context, appointment *entities.Appointment) (err error) {
	ctx, done := a.client.Instrument(ctx, "appointments.insert")
	defer func() { done(err) }()

	db, err := a.client.Conn()
	if err != nil {
		return err
	}

	query, args, err := dialect.Insert("appointments").Rows(goqu.Record{
		"patient_id": appointment.PatientID,
		"doctor_id":  appointment.DoctorID,
		"date":       appointment.Date.String(),
		"time":       appointment.Time.String(),
	}).Prepared(true).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapWriteError(err, "failed to create appointment")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperrors.NewInternalError("failed to read generated appointment id", err)
	}
	appointment.ID = id

	return nil
}

// detailQuery selects appointments with the names they reference. A LEFT JOIN
// keeps appointments whose patient or doctor was deleted.
func detailQuery() *goqu.SelectDataset {
	return dialect.From(goqu.T("appointments").As("a")).
		LeftJoin(goqu.T("patients").As("p"), goqu.On(goqu.I("a.patient_id").Eq(goqu.I("p.id")))).
		LeftJoin(goqu.T("doctors").As("d"), goqu.On(goqu.I("a.doctor_id").Eq(goqu.I("d.id")))).
		Select(
			goqu.I("a.id").As("id"),
			goqu.I("a.patient_id").As("patient_id"),
			goqu.I("p.name").As("patient_name"),
			goqu.I("a.doctor_id").As("doctor_id"),
			goqu.I("d.name").As("doctor_name"),
			goqu.I("a.date").As("date"),
			goqu.I("a.time").As("time"),
		)
}

// GetByID retrieves an appointment by ID
func (a *AppointmentAdapter) GetByID(ctx context.Context, id int64) (_ *entities.AppointmentDetail, err error) {
	ctx, done := a.client.Instrument(ctx, "appointments.select")
	defer func() { done(err) }()

	db, err := a.client.Conn()
	if err != nil {
		return nil, err
	}

	query, args, err := detailQuery().
		Where(goqu.I("a.id").Eq(id)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	var row appointmentRow
	err = db.GetContext(ctx, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("appointment with id %d not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get appointment", err)
	}

	return row.toEntity(), nil
}

// List retrieves every appointment in storage order
func (a *AppointmentAdapter) List(ctx context.Context) (_ []*entities.AppointmentDetail, err error) {
	ctx, done := a.client.Instrument(ctx, "appointments.select")
	defer func() { done(err) }()

	db, err := a.client.Conn()
	if err != nil {
		return nil, err
	}

	query, args, err := detailQuery().
		Order(goqu.I("a.id").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	var rows []appointmentRow
	if err := db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, apperrors.NewInternalError("failed to list appointments", err)
	}

	appointments := make([]*entities.AppointmentDetail, 0, len(rows))
	for i := range rows {
		appointments = append(appointments, rows[i].toEntity())
	}
	return appointments, nil
}

// Delete removes an appointment by ID
func (a *AppointmentAdapter) Delete(ctx context.Context, id int64) (err error) {
	ctx, done := a.client.Instrument(ctx, "appointments.delete")
	defer func() { done(err) }()

	db, err := a.client.Conn()
	if err != nil {
		return err
	}

	query, args, err := dialect.Delete("appointments").
		Where(goqu.Ex{"id": id}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete appointment", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("appointment with id %d not found", id))
	}

	return nil
}
