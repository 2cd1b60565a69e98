package model

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account as stored in the `users` table.  Password holds
// the bcrypt hash and never leaves the server.  There is no stored point
// balance; it is always derived from the ledger.
type User struct {
	ID         uuid.UUID `db:"id" json:"id"`                   // users.id (UUID v4)
	Email      string    `db:"email" json:"email"`             // unique
	Password   string    `db:"password" json:"-"`              // bcrypt hash
	Nickname   string    `db:"nickname" json:"nickname"`       // unique, usable as a login identifier
	FirstName  string    `db:"first_name" json:"first_name"`   // users.first_name
	LastName   string    `db:"last_name" json:"last_name"`     // users.last_name
	Bio        string    `db:"bio" json:"bio"`                 // free text
	ProfileImg string    `db:"profile_img" json:"profile_img"` // image URL
	CreatedAt  time.Time `db:"created_at" json:"created_at"`   // set on insert
}

func (u *User) PrimaryKey() uuid.UUID { return u.ID }

func (u *User) BeforeCreate(now time.Time) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.CreatedAt = now
}
