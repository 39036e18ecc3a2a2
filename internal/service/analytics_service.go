package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"shipyard-monitor/backend/config"
	"shipyard-monitor/backend/internal/derivation"
	"shipyard-monitor/backend/internal/dto"
	"shipyard-monitor/backend/internal/repository"
	"shipyard-monitor/backend/pkg/clients/anthropic"
)

// AnalysisUnavailableMessage shown when no generated analysis could be produced.
const AnalysisUnavailableMessage = "analysis unavailable"

// AnalyticsService financial losses and generated production analysis.
type AnalyticsService interface {
	Financials(ctx context.Context, q *dto.DateRangeQuery) (*dto.FinancialsResponse, error)
	// Report never fails because of the text-generation service; Available reports the outcome.
	Report(ctx context.Context, q *dto.DateRangeQuery) (*dto.ReportResponse, error)
}

type analyticsService struct {
	cfg      *config.Config
	repo     *repository.Repository
	settings SettingsService
	ai       anthropic.Client
	logger   *zap.Logger
	now      func() time.Time
}

// NewAnalyticsService creates an AnalyticsService.
func NewAnalyticsService(
	cfg *config.Config,
	repo *repository.Repository,
	settings SettingsService,
	ai anthropic.Client,
	logger *zap.Logger,
) AnalyticsService {
	return &analyticsService{
		cfg:      cfg,
		repo:     repo,
		settings: settings,
		ai:       ai,
		logger:   logger,
		now:      time.Now,
	}
}

type selection struct {
	rng     *derivation.DateRange
	summary derivation.FinancialSummary
	payload string
}

func (s *analyticsService) selectAndPrice(ctx context.Context, q *dto.DateRangeQuery, withPayload bool) (*selection, error) {
	rng, err := derivation.NewDateRange(q.StartDate, q.EndDate)
	if err != nil {
		return nil, err
	}

	settings, err := s.settings.Current(ctx)
	if err != nil {
		return nil, err
	}
	records, err := s.repo.Record.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to load records", zap.Error(err))
		return nil, err
	}

	limit := s.cfg.Monitor.AnalysisRecordLimit
	if limit <= 0 {
		limit = derivation.DefaultAnalysisLimit
	}
	selected := derivation.SelectRecords(records, rng, limit)
	sel := &selection{rng: rng, summary: derivation.SummarizeLosses(selected, settings)}

	if withPayload {
		shifts, err := s.repo.Shift.List(ctx)
		if err != nil {
			return nil, err
		}
		sel.payload, err = derivation.BuildAnalysisPayload(selected, shifts, sel.summary)
		if err != nil {
			return nil, err
		}
	}
	return sel, nil
}

// ────────────────────── Financials ──────────────────────

func (s *analyticsService) Financials(ctx context.Context, q *dto.DateRangeQuery) (*dto.FinancialsResponse, error) {
	sel, err := s.selectAndPrice(ctx, q, false)
	if err != nil {
		return nil, err
	}
	return &dto.FinancialsResponse{Range: sel.rng, Summary: sel.summary}, nil
}

// ────────────────────── Report ──────────────────────

func (s *analyticsService) Report(ctx context.Context, q *dto.DateRangeQuery) (*dto.ReportResponse, error) {
	sel, err := s.selectAndPrice(ctx, q, true)
	if err != nil {
		return nil, err
	}

	resp := &dto.ReportResponse{
		Range:       sel.rng,
		Summary:     sel.summary,
		GeneratedAt: s.now().Format(time.RFC3339),
	}

	analysis, err := s.ai.Summarize(ctx, sel.payload)
	if err != nil {
		s.logger.Warn("text generation failed", zap.Error(err))
		resp.Message = AnalysisUnavailableMessage
		return resp, nil
	}

	resp.Available = true
	resp.Analysis = analysis
	return resp, nil
}
