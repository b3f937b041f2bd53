package models

import "time"

// Session is the signed-in user as the client knows it. The cookie that
// authenticates requests is held by the HTTP client, not here.
type Session struct {
	UserID     string    `json:"userId"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	LoggedInAt time.Time `json:"loggedInAt"`
}
