package derivation

import (
	"sort"

	"github.com/shopspring/decimal"

	"shipyard-monitor/backend/internal/model"
)

// DefectRateAttentionPercent defect rate above which the dashboard flags quality.
var DefectRateAttentionPercent = decimal.NewFromInt(5)

// ShiftStats totals for one shift.
type ShiftStats struct {
	ShiftID    string `json:"shift_id"`
	Name       string `json:"name"`
	Production int64  `json:"production"`
	Defects    int64  `json:"defects"`
	Downtime   int64  `json:"downtime"`
}

// DailyPoint totals for one calendar day.
type DailyPoint struct {
	Date       string `json:"date"`
	Production int64  `json:"production"`
	Defects    int64  `json:"defects"`
	Downtime   int64  `json:"downtime"`
}

// ProductionStats dashboard KPIs.
type ProductionStats struct {
	TotalProduction int64           `json:"total_production"`
	TotalDefects    int64           `json:"total_defects"`
	TotalDowntime   int64           `json:"total_downtime"`
	DefectRate      decimal.Decimal `json:"defect_rate"` // percent, 2 decimals
	NeedsAttention  bool            `json:"needs_attention"`
	RecordCount     int             `json:"record_count"`
	Shifts          []ShiftStats    `json:"shifts"`
	Daily           []DailyPoint    `json:"daily"`
}

// ComputeProductionStats aggregates totals, per-shift figures (every known shift,
// in list order) and a per-day series in ascending date order. Records of unknown
// shifts count toward the totals only.
func ComputeProductionStats(records []model.ProductionRecord, shifts []model.Shift) ProductionStats {
	stats := ProductionStats{
		DefectRate:  decimal.Zero,
		RecordCount: len(records),
		Shifts:      make([]ShiftStats, 0, len(shifts)),
		Daily:       make([]DailyPoint, 0),
	}

	shiftIdx := make(map[string]int, len(shifts))
	for i, s := range shifts {
		shiftIdx[s.ID] = i
		stats.Shifts = append(stats.Shifts, ShiftStats{ShiftID: s.ID, Name: s.Name})
	}

	daily := make(map[string]*DailyPoint)
	for _, r := range records {
		stats.TotalProduction += int64(r.ProductCount)
		stats.TotalDefects += int64(r.DefectCount)
		stats.TotalDowntime += int64(r.DowntimeMinutes)

		if i, ok := shiftIdx[r.ShiftID]; ok {
			stats.Shifts[i].Production += int64(r.ProductCount)
			stats.Shifts[i].Defects += int64(r.DefectCount)
			stats.Shifts[i].Downtime += int64(r.DowntimeMinutes)
		}

		day := r.DateString()
		p, ok := daily[day]
		if !ok {
			p = &DailyPoint{Date: day}
			daily[day] = p
		}
		p.Production += int64(r.ProductCount)
		p.Defects += int64(r.DefectCount)
		p.Downtime += int64(r.DowntimeMinutes)
	}

	for _, p := range daily {
		stats.Daily = append(stats.Daily, *p)
	}
	sort.Slice(stats.Daily, func(i, j int) bool { return stats.Daily[i].Date < stats.Daily[j].Date })

	if stats.TotalProduction > 0 {
		stats.DefectRate = decimal.NewFromInt(stats.TotalDefects).
			Mul(decimal.NewFromInt(100)).
			DivRound(decimal.NewFromInt(stats.TotalProduction), 2)
	}
	stats.NeedsAttention = stats.DefectRate.GreaterThan(DefectRateAttentionPercent)

	return stats
}
