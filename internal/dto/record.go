package dto

// ── production record DTOs ──

// CreateRecordRequest one shift's tally. Operator is the caller.
type CreateRecordRequest struct {
	Date            string  `json:"date"             binding:"required,datetime=2006-01-02"`
	ShiftID         string  `json:"shift_id"         binding:"required,max=20"`
	ProductCount    *int    `json:"product_count"    binding:"required,min=0"`
	DefectCount     int     `json:"defect_count"     binding:"min=0"`
	DowntimeMinutes int     `json:"downtime_minutes" binding:"min=0"`
	Comments        *string `json:"comments"         binding:"omitempty,max=2000"`
}

// RecordListRequest journal filters
type RecordListRequest struct {
	PaginationRequest
	Search    string `form:"search"     binding:"omitempty,max=100"` // operator name or date substring
	ShiftID   string `form:"shift_id"   binding:"omitempty,max=20"`
	StartDate string `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"end_date"   binding:"omitempty,datetime=2006-01-02"`
}

// RecordResponse journal row
type RecordResponse struct {
	ID              string `json:"id"`
	Date            string `json:"date"`
	ShiftID         string `json:"shift_id"`
	ShiftName       string `json:"shift_name"`
	OperatorID      string `json:"operator_id"`
	OperatorName    string `json:"operator_name"`
	ProductCount    int    `json:"product_count"`
	DefectCount     int    `json:"defect_count"`
	DowntimeMinutes int    `json:"downtime_minutes"`
	Comments        string `json:"comments,omitempty"`
	CreatedAt       string `json:"created_at"`
}

// ShiftResponse shift reference
type ShiftResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}
