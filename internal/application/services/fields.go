package services

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/zatekoja/hospitalrecords/pkg/errors"
)

// PatientFields are the raw values of the patient form
type PatientFields struct {
	Name    string `field:"name" validate:"required"`
	Age     string `field:"age" validate:"required"`
	Address string `field:"address" validate:"required"`
	Contact string `field:"contact" validate:"required"`
}

func (f PatientFields) trimmed() PatientFields {
	return PatientFields{
		Name:    strings.TrimSpace(f.Name),
		Age:     strings.TrimSpace(f.Age),
		Address: strings.TrimSpace(f.Address),
		Contact: strings.TrimSpace(f.Contact),
	}
}

// DoctorFields are the raw values of the doctor form
type DoctorFields struct {
	Name      string `field:"name" validate:"required"`
	Specialty string `field:"specialty" validate:"required"`
	Schedule  string `field:"schedule" validate:"required"`
}

func (f DoctorFields) trimmed() DoctorFields {
	return DoctorFields{
		Name:      strings.TrimSpace(f.Name),
		Specialty: strings.TrimSpace(f.Specialty),
		Schedule:  strings.TrimSpace(f.Schedule),
	}
}

// AppointmentFields are the raw values of the scheduling form. PatientID and
// DoctorID accept either a bare id or the "id: name" form of a selection list.
type AppointmentFields struct {
	PatientID string `field:"patient" validate:"required"`
	DoctorID  string `field:"doctor" validate:"required"`
	Date      string `field:"date" validate:"required"`
	Time      string `field:"time" validate:"required"`
}

func (f AppointmentFields) trimmed() AppointmentFields {
	return AppointmentFields{
		PatientID: strings.TrimSpace(f.PatientID),
		DoctorID:  strings.TrimSpace(f.DoctorID),
		Date:      strings.TrimSpace(f.Date),
		Time:      strings.TrimSpace(f.Time),
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("field")
	})
	return v
}

// requireAll reports every empty required field in one validation error
func requireAll(fields interface{}) error {
	err := validate.Struct(fields)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.NewInternalError("failed to validate fields", err)
	}

	missing := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		missing = append(missing, fe.Field())
	}
	return apperrors.NewValidationError("please fill in all fields (missing: " + strings.Join(missing, ", ") + ")")
}

// parseSelectionID reads a record id from a form selection
func parseSelectionID(s string) (int64, bool) {
	if head, _, found := strings.Cut(s, ":"); found {
		s = head
	}
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
