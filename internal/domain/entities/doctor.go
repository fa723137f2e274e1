package entities

// Doctor represents a doctor on staff. Schedule is a free-text description of
// availability, not a structured time range.
type Doctor struct {
	ID        int64  `json:"id" db:"id"`
	Name      string `json:"name" db:"name"`
	Specialty string `json:"specialty" db:"specialty"`
	Schedule  string `json:"schedule" db:"schedule"`
}
