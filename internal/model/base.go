package model

import (
	"time"

	"github.com/google/uuid"
)

// Base contains common fields for all models
type Base struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Pagination represents common pagination parameters
type Pagination struct {
	Limit  int `json:"limit" form:"limit" binding:"omitempty,min=1,max=500"`
	Offset int `json:"offset" form:"offset" binding:"omitempty,min=0"`
}

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"
