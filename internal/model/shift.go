package model

// Shift static shift reference, table shifts
type Shift struct {
	ID        string `gorm:"type:varchar(20);primaryKey" json:"id"`
	Name      string `gorm:"type:varchar(100);not null"  json:"name"`
	StartTime string `gorm:"type:varchar(5);not null"    json:"start_time"`
	EndTime   string `gorm:"type:varchar(5);not null"    json:"end_time"`
	SortOrder int    `gorm:"not null;default:0"          json:"-"`
}

// TableName shifts
func (Shift) TableName() string { return "shifts" }
