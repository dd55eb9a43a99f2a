package model

import "time"

// User owns a set of transactions. Usernames are unique.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}
