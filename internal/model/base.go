package model

import "time"

// BaseModel audit timestamps shared by mutable tables.
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// DateLayout ISO calendar day, zero padded so that string order equals date order.
const DateLayout = "2006-01-02"
