package model

import "time"

type User struct {
	ID           int64
	Username     string
	PasswordHash []byte
	CreatedAt    time.Time
}

// Identity is the caller of a workflow operation. The zero value is anonymous.
type Identity struct {
	UserID   int64
	Username string
}

var Anonymous = Identity{}

func (i Identity) Authenticated() bool {
	return i.UserID > 0
}

func (u User) Identity() Identity {
	return Identity{UserID: u.ID, Username: u.Username}
}
