package models

import (
	"time"
)

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Verified  bool      `json:"verified"` // brand/verified accounts skip name masking
	Role      string    `json:"role"`     // user, admin
	CreatedAt time.Time `json:"created_at"`
}
