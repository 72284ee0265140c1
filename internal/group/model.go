package group

import "time"

// Group is a Secret Santa group. It is created once, together with its
// participants and their draw.
type Group struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Participant is a person taking part in a group's draw. AssignedTo is the
// id of the participant they give a gift to, nil until the draw ran.
type Participant struct {
	ID         string    `json:"id"`
	GroupID    string    `json:"group_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	AssignedTo *string   `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}
