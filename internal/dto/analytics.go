package dto

import "shipyard-monitor/backend/internal/derivation"

// ── analytics DTOs ──

// DateRangeQuery optional inclusive range; both or neither.
type DateRangeQuery struct {
	StartDate string `form:"start_date" json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"end_date"   json:"end_date"   binding:"omitempty,datetime=2006-01-02"`
}

// FinancialsResponse losses for the selected records
type FinancialsResponse struct {
	Range   *derivation.DateRange       `json:"range,omitempty"`
	Summary derivation.FinancialSummary `json:"summary"`
}

// ReportResponse financials plus generated analysis.
// Available is false when the text-generation service failed or is not configured.
type ReportResponse struct {
	Range       *derivation.DateRange       `json:"range,omitempty"`
	Summary     derivation.FinancialSummary `json:"summary"`
	Available   bool                        `json:"available"`
	Analysis    string                      `json:"analysis"`
	Message     string                      `json:"message,omitempty"`
	GeneratedAt string                      `json:"generated_at"`
}

// DashboardResponse KPIs for the main screen
type DashboardResponse struct {
	derivation.ProductionStats
	UnreadNotifications int `json:"unread_notifications"`
}
