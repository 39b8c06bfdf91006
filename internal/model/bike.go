package model

import (
	"fmt"

	"github.com/google/uuid"
)

// Bike is a user's motorcycle profile. This service only reads bikes;
// profile management lives in the account system.
type Bike struct {
	Base
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	Make         string    `db:"make" json:"make"`
	Model        string    `db:"model" json:"model"`
	Year         int       `db:"year" json:"year"`
	Nickname     string    `db:"nickname" json:"nickname,omitempty"`
	Mileage      int       `db:"mileage" json:"mileage"`
	LicensePlate string    `db:"license_plate" json:"license_plate,omitempty"`
}

// Identification renders the bike for outreach messages, e.g.
// "2019 Honda CB500F".
func (b *Bike) Identification() string {
	return fmt.Sprintf("%d %s %s", b.Year, b.Make, b.Model)
}
