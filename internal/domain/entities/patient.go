package entities

// Patient represents a registered patient
type Patient struct {
	ID      int64  `json:"id" db:"id"`
	Name    string `json:"name" db:"name"`
	Age     int    `json:"age" db:"age"`
	Address string `json:"address" db:"address"`
	Contact string `json:"contact" db:"contact"`

	// AgeUnknown is set when the stored age is NULL; Age is then 0
	AgeUnknown bool `json:"-" db:"-"`
}
