package model

import "time"

// ProductionRecord one shift's tally, table production_logs. Immutable once written.
type ProductionRecord struct {
	ID              string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Date            time.Time `gorm:"type:date;not null"                             json:"date"`
	ShiftID         string    `gorm:"type:varchar(20);not null"                      json:"shift_id"`
	OperatorID      string    `gorm:"type:uuid;not null"                             json:"operator_id"`
	OperatorName    string    `gorm:"type:varchar(200);not null"                     json:"operator_name"` // snapshot at write time
	ProductCount    int       `gorm:"not null"                                       json:"product_count"`
	DefectCount     int       `gorm:"not null;default:0"                             json:"defect_count"`
	DowntimeMinutes int       `gorm:"not null;default:0"                             json:"downtime_minutes"`
	Comments        *string   `gorm:"type:text"                                      json:"comments,omitempty"`
	CreatedAt       time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName production_logs
func (ProductionRecord) TableName() string { return "production_logs" }

// DateString the record's calendar day as YYYY-MM-DD.
func (r *ProductionRecord) DateString() string {
	return r.Date.Format(DateLayout)
}

// CommentText comments or "".
func (r *ProductionRecord) CommentText() string {
	if r.Comments == nil {
		return ""
	}
	return *r.Comments
}
