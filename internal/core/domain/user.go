package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the owner of one or more wallet accounts. Created out of band
// (onboarding is not part of this service); only login is served here.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
