package derivation

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"shipyard-monitor/backend/internal/model"
)

// DefaultAnalysisLimit records taken when no date range is given.
const DefaultAnalysisLimit = 20

// ErrInvalidDateRange malformed or inverted date range.
var ErrInvalidDateRange = errors.New("invalid date range")

// DateRange inclusive range of ISO calendar days.
type DateRange struct {
	Start string `json:"start_date"`
	End   string `json:"end_date"`
}

// NewDateRange validates both bounds. Two empty bounds mean "no range" and return nil.
func NewDateRange(start, end string) (*DateRange, error) {
	if start == "" && end == "" {
		return nil, nil
	}
	if start == "" || end == "" {
		return nil, fmt.Errorf("%w: both start_date and end_date are required", ErrInvalidDateRange)
	}
	for _, d := range []string{start, end} {
		if _, err := time.Parse(model.DateLayout, d); err != nil {
			return nil, fmt.Errorf("%w: %q is not YYYY-MM-DD", ErrInvalidDateRange, d)
		}
	}
	if start > end {
		return nil, fmt.Errorf("%w: start_date %s is after end_date %s", ErrInvalidDateRange, start, end)
	}
	return &DateRange{Start: start, End: end}, nil
}

// Contains compares zero-padded YYYY-MM-DD strings, where lexical order is date order.
func (r DateRange) Contains(date string) bool {
	return date >= r.Start && date <= r.End
}

// SelectRecords applies the analysis selection rule. With a range it keeps the records
// dated inside it (newest date first). Without one it keeps the limit most recently
// created records.
func SelectRecords(records []model.ProductionRecord, rng *DateRange, limit int) []model.ProductionRecord {
	if rng != nil {
		out := make([]model.ProductionRecord, 0, len(records))
		for _, r := range records {
			if rng.Contains(r.DateString()) {
				out = append(out, r)
			}
		}
		sort.SliceStable(out, func(i, j int) bool {
			di, dj := out[i].DateString(), out[j].DateString()
			if di != dj {
				return di > dj
			}
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
		return out
	}

	out := make([]model.ProductionRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit <= 0 {
		limit = DefaultAnalysisLimit
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// FinancialSummary losses over a set of records.
type FinancialSummary struct {
	TotalDefectCost       decimal.Decimal `json:"total_defect_cost"`
	TotalDowntimeCost     decimal.Decimal `json:"total_downtime_cost"`
	TotalLosses           decimal.Decimal `json:"total_losses"`
	CostPerDefect         decimal.Decimal `json:"cost_per_defect"`
	CostPerMinuteDowntime decimal.Decimal `json:"cost_per_minute_downtime"`
	TotalDefects          int64           `json:"total_defects"`
	TotalDowntimeMinutes  int64           `json:"total_downtime_minutes"`
	RecordCount           int             `json:"record_count"`
}

// SummarizeLosses prices every record of an already selected set.
func SummarizeLosses(records []model.ProductionRecord, settings model.NotificationSettings) FinancialSummary {
	var defects, downtime int64
	for _, r := range records {
		defects += int64(r.DefectCount)
		downtime += int64(r.DowntimeMinutes)
	}

	defectCost := decimal.NewFromInt(defects).Mul(settings.CostPerDefect)
	downtimeCost := decimal.NewFromInt(downtime).Mul(settings.CostPerMinuteDowntime)

	return FinancialSummary{
		TotalDefectCost:       defectCost,
		TotalDowntimeCost:     downtimeCost,
		TotalLosses:           defectCost.Add(downtimeCost),
		CostPerDefect:         settings.CostPerDefect,
		CostPerMinuteDowntime: settings.CostPerMinuteDowntime,
		TotalDefects:          defects,
		TotalDowntimeMinutes:  downtime,
		RecordCount:           len(records),
	}
}

// ComputeFinancialSummary selects records by range (or the default latest set) and prices them.
func ComputeFinancialSummary(records []model.ProductionRecord, rng *DateRange, settings model.NotificationSettings) FinancialSummary {
	return SummarizeLosses(SelectRecords(records, rng, DefaultAnalysisLimit), settings)
}

// ── text-generation payload ──

type payloadRecord struct {
	Date     string `json:"date"`
	Shift    string `json:"shift"`
	Produced int    `json:"produced"`
	Defects  int    `json:"defects"`
	Downtime int    `json:"downtime"`
	Operator string `json:"operator"`
}

type payloadSummary struct {
	CostPerDefect         decimal.Decimal `json:"costPerDefect"`
	CostPerMinuteDowntime decimal.Decimal `json:"costPerMinuteDowntime"`
	TotalDefectCost       decimal.Decimal `json:"totalDefectCost"`
	TotalDowntimeCost     decimal.Decimal `json:"totalDowntimeCost"`
	TotalLosses           decimal.Decimal `json:"totalLosses"`
}

type analysisPayload struct {
	ProductionData   []payloadRecord `json:"productionData"`
	FinancialSummary payloadSummary  `json:"financialSummary"`
}

// BuildAnalysisPayload renders the compact JSON handed to the text-generation service.
// Shift labels come from the shift list; unknown shifts fall back to their id.
func BuildAnalysisPayload(selected []model.ProductionRecord, shifts []model.Shift, summary FinancialSummary) (string, error) {
	labels := make(map[string]string, len(shifts))
	for _, s := range shifts {
		labels[s.ID] = s.Name
	}

	rows := make([]payloadRecord, 0, len(selected))
	for _, r := range selected {
		label, ok := labels[r.ShiftID]
		if !ok {
			label = r.ShiftID
		}
		rows = append(rows, payloadRecord{
			Date:     r.DateString(),
			Shift:    label,
			Produced: r.ProductCount,
			Defects:  r.DefectCount,
			Downtime: r.DowntimeMinutes,
			Operator: r.OperatorName,
		})
	}

	b, err := json.Marshal(analysisPayload{
		ProductionData: rows,
		FinancialSummary: payloadSummary{
			CostPerDefect:         summary.CostPerDefect,
			CostPerMinuteDowntime: summary.CostPerMinuteDowntime,
			TotalDefectCost:       summary.TotalDefectCost,
			TotalDowntimeCost:     summary.TotalDowntimeCost,
			TotalLosses:           summary.TotalLosses,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal analysis payload: %w", err)
	}
	return string(b), nil
}
