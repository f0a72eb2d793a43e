package models

// Session associates a live connection with a display name. The same username
// may appear on multiple connections; no uniqueness is enforced.
type Session struct {
	ConnectionID string `json:"connectionId"` // UUID assigned at upgrade time
	Username     string `json:"username"`
}
