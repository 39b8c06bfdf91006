package model

// User is the requester profile as mirrored from the identity provider.
// Authentication itself is delegated; this service only reads the
// contact fields it needs to compose outreach messages.
type User struct {
	Base
	Name  string `db:"name" json:"name"`
	Email string `db:"email" json:"email"`
	Phone string `db:"phone" json:"phone,omitempty"`
}
