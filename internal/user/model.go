package user

import "time"

// User is an authenticated identity. Users sign in with a magic link sent
// to their e-mail, so the e-mail is unique.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
