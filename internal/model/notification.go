package model

import "time"

// Notification kinds; also the prefix of the deterministic notification id.
const (
	NotificationKindDefect   = "def"
	NotificationKindDowntime = "down"
)

// NotificationState durable read/dismissed overlay for a derived notification, table notification_states.
// The notification itself is never stored; it is re-derived from its record.
type NotificationState struct {
	NotificationID string     `gorm:"type:varchar(80);primaryKey" json:"notification_id"` // "<kind>-<record id>"
	RecordID       string     `gorm:"type:uuid;not null"          json:"record_id"`
	Kind           string     `gorm:"type:varchar(10);not null"   json:"kind"`
	Read           bool       `gorm:"not null;default:false"      json:"read"`
	Dismissed      bool       `gorm:"not null;default:false"      json:"dismissed"`
	ReadAt         *time.Time `json:"read_at,omitempty"`
	DismissedAt    *time.Time `json:"dismissed_at,omitempty"`
	BaseModel
}

// TableName notification_states
func (NotificationState) TableName() string { return "notification_states" }
