package entities

// Appointment represents a scheduled consultation. PatientID and DoctorID are
// not guaranteed to reference existing rows: deleting a patient or doctor
// leaves its appointments in place.
type Appointment struct {
	ID        int64        `json:"id" db:"id"`
	PatientID int64        `json:"patient_id" db:"patient_id"`
	DoctorID  int64        `json:"doctor_id" db:"doctor_id"`
	Date      CalendarDate `json:"date" db:"date"`
	Time      ClockTime    `json:"time" db:"time"`
}

// AppointmentDetail is an appointment joined with the names of the patient
// and doctor it references. A name is empty when the reference dangles.
type AppointmentDetail struct {
	Appointment
	PatientName string `json:"patient_name" db:"patient_name"`
	DoctorName  string `json:"doctor_name" db:"doctor_name"`
}

// HasDanglingReference reports whether the patient or doctor no longer exists
func (d *AppointmentDetail) HasDanglingReference() bool {
	return d.PatientName == "" || d.DoctorName == ""
}
