package entities

// Credential is a login entry. The password is stored and compared as plain
// text to stay compatible with existing database files.
type Credential struct {
	ID       int64  `json:"id" db:"id"`
	Username string `json:"username" db:"username"`
	Password string `json:"-" db:"password"`
}
