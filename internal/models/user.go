package models

import "time"

// User is the profile record served by the platform API. The gateway never
// stores it; it is fetched with the visitor's token and held in process
// memory only.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
