package entities

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var (
	datePattern = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})$`)
	timePattern = regexp.MustCompile(`^(\d{2}):(\d{2})$`)
)

var (
	// ErrDateFormat is returned when a date does not have the DD/MM/YYYY shape
	ErrDateFormat = errors.New("invalid date format, use DD/MM/YYYY")
	// ErrTimeFormat is returned when a time does not have the HH:MM shape
	ErrTimeFormat = errors.New("invalid time format, use HH:MM")
	// ErrDateRange is returned in strict mode for a date that is not on the calendar
	ErrDateRange = errors.New("date is not a valid calendar day")
	// ErrTimeRange is returned in strict mode for a time outside 00:00-23:59
	ErrTimeRange = errors.New("time is not a valid time of day")
)

// CalendarDate is an appointment date in DD/MM/YYYY form.
//
// In lenient mode only the digit shape is checked, so 15/13/2024 and
// 99/99/9999 are representable. Stored values that do not even have the
// shape are kept verbatim in raw so reading old rows never fails.
type CalendarDate struct {
	Day   int
	Month int
	Year  int

	raw string
	set bool
}

// ParseCalendarDate parses s as DD/MM/YYYY. With strict set the result must
// also be a real calendar day.
func ParseCalendarDate(s string, strict bool) (CalendarDate, error) {
	m := datePattern.FindStringSubmatch(s)
	if m == nil {
		return CalendarDate{}, ErrDateFormat
	}
	d := CalendarDate{Day: atoi(m[1]), Month: atoi(m[2]), Year: atoi(m[3]), set: true}
	if strict && !d.IsCalendarDay() {
		return CalendarDate{}, ErrDateRange
	}
	return d, nil
}

// IsCalendarDay reports whether the date exists on the Gregorian calendar
func (d CalendarDate) IsCalendarDay() bool {
	if d.raw != "" || d.Month < 1 || d.Month > 12 || d.Day < 1 || d.Year < 1 {
		return false
	}
	t := time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
	return t.Day() == d.Day && int(t.Month()) == d.Month && t.Year() == d.Year
}

// IsZero reports whether the date is unset
func (d CalendarDate) IsZero() bool {
	return !d.set && d.raw == ""
}

// String returns the date as DD/MM/YYYY, the stored text for legacy values,
// or "" when unset.
func (d CalendarDate) String() string {
	if d.raw != "" {
		return d.raw
	}
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%02d/%02d/%04d", d.Day, d.Month, d.Year)
}

// MarshalText implements encoding.TextMarshaler
func (d CalendarDate) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Value implements driver.Valuer
func (d CalendarDate) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

// Scan implements sql.Scanner
func (d *CalendarDate) Scan(src any) error {
	s, ok, err := scanText(src)
	if err != nil || !ok {
		*d = CalendarDate{}
		return err
	}
	parsed, err := ParseCalendarDate(s, false)
	if err != nil {
		*d = CalendarDate{raw: s}
		return nil
	}
	*d = parsed
	return nil
}

// ClockTime is an appointment time in HH:MM form. Lenient parsing accepts
// any two-digit pair, such as 99:99.
type ClockTime struct {
	Hour   int
	Minute int

	raw string
	set bool
}

// ParseClockTime parses s as HH:MM. With strict set the result must lie in
// 00:00-23:59.
func ParseClockTime(s string, strict bool) (ClockTime, error) {
	m := timePattern.FindStringSubmatch(s)
	if m == nil {
		return ClockTime{}, ErrTimeFormat
	}
	t := ClockTime{Hour: atoi(m[1]), Minute: atoi(m[2]), set: true}
	if strict && !t.IsTimeOfDay() {
		return ClockTime{}, ErrTimeRange
	}
	return t, nil
}

// IsTimeOfDay reports whether the time lies within a 24-hour day
func (t ClockTime) IsTimeOfDay() bool {
	return t.raw == "" && t.Hour >= 0 && t.Hour <= 23 && t.Minute >= 0 && t.Minute <= 59
}

// IsZero reports whether the time is unset. 00:00 is a valid, set time.
func (t ClockTime) IsZero() bool {
	return !t.set && t.raw == ""
}

func (t ClockTime) String() string {
	if t.raw != "" {
		return t.raw
	}
	if t.IsZero() {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// MarshalText implements encoding.TextMarshaler
func (t ClockTime) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Value implements driver.Valuer
func (t ClockTime) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return t.String(), nil
}

// Scan implements sql.Scanner
func (t *ClockTime) Scan(src any) error {
	s, ok, err := scanText(src)
	if err != nil || !ok {
		*t = ClockTime{}
		return err
	}
	parsed, err := ParseClockTime(s, false)
	if err != nil {
		*t = ClockTime{raw: s}
		return nil
	}
	*t = parsed
	return nil
}

func scanText(src any) (string, bool, error) {
	switch v := src.(type) {
	case nil:
		return "", false, nil
	case string:
		return v, true, nil
	case []byte:
		return string(v), true, nil
	default:
		return "", false, fmt.Errorf("cannot scan %T into schedule value", src)
	}
}

// atoi is only called on strings already matched by \d{2} or \d{4}
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
