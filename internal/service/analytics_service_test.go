package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"shipyard-monitor/backend/internal/derivation"
	"shipyard-monitor/backend/internal/dto"
)

func TestAnalyticsService_Financials_Default(t *testing.T) {
	env := newTestEnv()
	env.storeSettings(5, 45, "", "")
	env.addRecord("a", "2024-05-10", 6, 10, 0)

	resp, err := env.analyticsService().Financials(context.Background(), &dto.DateRangeQuery{})
	if err != nil {
		t.Fatalf("Financials should succeed: %v", err)
	}
	if resp.Range != nil {
		t.Error("no range expected")
	}
	if resp.Summary.TotalDefectCost.String() != "9000" ||
		resp.Summary.TotalDowntimeCost.String() != "50000" ||
		resp.Summary.TotalLosses.String() != "59000" {
		t.Errorf("unexpected summary %+v", resp.Summary)
	}
}

func TestAnalyticsService_Financials_DefaultSelectionIsLatest20(t *testing.T) {
	env := newTestEnv()
	env.storeSettings(5, 45, "", "")
	for i := 0; i < 25; i++ {
		env.addRecord(fmt.Sprintf("r%02d", i), "2024-05-10", 1, 0, time.Duration(i)*time.Minute)
	}

	resp, err := env.analyticsService().Financials(context.Background(), &dto.DateRangeQuery{})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Summary.RecordCount != 20 || resp.Summary.TotalDefects != 20 {
		t.Errorf("expected 20 records, got %d (defects %d)", resp.Summary.RecordCount, resp.Summary.TotalDefects)
	}
}

func TestAnalyticsService_Financials_RangeInclusive(t *testing.T) {
	env := newTestEnv()
	env.storeSettings(5, 45, "", "")
	env.addRecord("a", "2024-05-09", 1, 0, 0)
	env.addRecord("b", "2024-05-10", 2, 0, 0)
	env.addRecord("c", "2024-05-12", 4, 0, 0)
	env.addRecord("d", "2024-05-13", 8, 0, 0)

	resp, err := env.analyticsService().Financials(context.Background(), &dto.DateRangeQuery{StartDate: "2024-05-10", EndDate: "2024-05-12"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Summary.TotalDefects != 6 {
		t.Errorf("expected 6 defects in range, got %d", resp.Summary.TotalDefects)
	}
}

func TestAnalyticsService_Financials_InvalidRange(t *testing.T) {
	env := newTestEnv()
	_, err := env.analyticsService().Financials(context.Background(), &dto.DateRangeQuery{StartDate: "2024-05-10"})
	if !errors.Is(err, derivation.ErrInvalidDateRange) {
		t.Errorf("expected ErrInvalidDateRange, got: %v", err)
	}
}

func TestAnalyticsService_Report_Available(t *testing.T) {
	env := newTestEnv()
	env.storeSettings(5, 45, "", "")
	env.addRecord("a", "2024-05-10", 6, 10, 0)

	resp, err := env.analyticsService().Report(context.Background(), &dto.DateRangeQuery{})
	if err != nil {
		t.Fatalf("Report should succeed: %v", err)
	}
	if !resp.Available || resp.Analysis == "" {
		t.Errorf("expected analysis, got %+v", resp)
	}
	if len(env.anthropic.payloads) != 1 {
		t.Fatalf("expected one summarize call, got %d", len(env.anthropic.payloads))
	}

	var payload struct {
		ProductionData   []map[string]interface{} `json:"productionData"`
		FinancialSummary map[string]string        `json:"financialSummary"`
	}
	if err := json.Unmarshal([]byte(env.anthropic.payloads[0]), &payload); err != nil {
		t.Fatalf("payload should be JSON: %v", err)
	}
	if len(payload.ProductionData) != 1 || payload.ProductionData[0]["shift"] != "Day shift" {
		t.Errorf("unexpected production data %+v", payload.ProductionData)
	}
	if payload.FinancialSummary["totalLosses"] != "59000" {
		t.Errorf("unexpected financial summary %+v", payload.FinancialSummary)
	}
}

func TestAnalyticsService_Report_Unavailable(t *testing.T) {
	env := newTestEnv()
	env.storeSettings(5, 45, "", "")
	env.anthropic.err = errUpstream

	resp, err := env.analyticsService().Report(context.Background(), &dto.DateRangeQuery{})
	if err != nil {
		t.Fatalf("provider failure must not fail the request: %v", err)
	}
	if resp.Available {
		t.Error("expected available=false")
	}
	if resp.Message != AnalysisUnavailableMessage {
		t.Errorf("expected %q, got %q", AnalysisUnavailableMessage, resp.Message)
	}
}
