package model

import (
	"time"

	"github.com/google/uuid"
)

// Timestamps is embedded by mutable tables.
type Timestamps struct {
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

// NewID returns a random string identifier for rows whose key is not
// assigned by the store.
func NewID() string {
	return uuid.New().String()
}
