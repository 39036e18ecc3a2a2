package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"shipyard-monitor/backend/config"
	"shipyard-monitor/backend/internal/model"
	"shipyard-monitor/backend/internal/repository"
	"shipyard-monitor/backend/pkg/clients/telegram"
	pkgerrors "shipyard-monitor/backend/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User // key: id
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Username == user.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.ID == "" {
		m.seq++
		user.ID = fmt.Sprintf("user-%d", m.seq)
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) List(_ context.Context, offset, limit int) ([]model.User, int64, error) {
	var all []model.User
	for _, u := range m.users {
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].FullName < all[j].FullName })
	total := int64(len(all))
	if offset >= len(all) {
		return []model.User{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.users)), nil
}

// ── Mock ShiftRepository ──

type mockShiftRepo struct {
	shifts []model.Shift
}

func newMockShiftRepo() *mockShiftRepo {
	return &mockShiftRepo{shifts: []model.Shift{
		{ID: "1", Name: "Day shift", StartTime: "08:00", EndTime: "16:00", SortOrder: 1},
		{ID: "2", Name: "Evening shift", StartTime: "16:00", EndTime: "00:00", SortOrder: 2},
		{ID: "3", Name: "Night shift", StartTime: "00:00", EndTime: "08:00", SortOrder: 3},
	}}
}

func (m *mockShiftRepo) List(_ context.Context) ([]model.Shift, error) {
	return append([]model.Shift(nil), m.shifts...), nil
}

// ── Mock RecordRepository ──

type mockRecordRepo struct {
	mu      sync.Mutex
	records map[string]*model.ProductionRecord
	seq     int
	listErr error
}

func newMockRecordRepo() *mockRecordRepo {
	return &mockRecordRepo{records: make(map[string]*model.ProductionRecord)}
}

func (m *mockRecordRepo) Create(_ context.Context, r *model.ProductionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == "" {
		m.seq++
		r.ID = fmt.Sprintf("rec-%d", m.seq)
	}
	m.records[r.ID] = r
	return nil
}

func (m *mockRecordRepo) GetByID(_ context.Context, id string) (*model.ProductionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.records[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRecordRepo) ListAll(_ context.Context) ([]model.ProductionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var all []model.ProductionRecord
	for _, r := range m.records {
		all = append(all, *r)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return all, nil
}

func (m *mockRecordRepo) List(ctx context.Context, f repository.RecordFilter, offset, limit int) ([]model.ProductionRecord, int64, error) {
	all, err := m.ListAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	var out []model.ProductionRecord
	for _, r := range all {
		d := r.DateString()
		if f.Search != "" && !strings.Contains(strings.ToLower(r.OperatorName), strings.ToLower(f.Search)) && !strings.Contains(d, f.Search) {
			continue
		}
		if f.ShiftID != "" && r.ShiftID != f.ShiftID {
			continue
		}
		if f.StartDate != "" && d < f.StartDate {
			continue
		}
		if f.EndDate != "" && d > f.EndDate {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DateString() > out[j].DateString() })
	total := int64(len(out))
	if offset >= len(out) {
		return []model.ProductionRecord{}, total, nil
	}
	end := len(out)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return out[offset:end], total, nil
}

// ── Mock SettingsRepository ──

type mockSettingsRepo struct {
	settings *model.NotificationSettings
	saves    int
}

func newMockSettingsRepo() *mockSettingsRepo {
	return &mockSettingsRepo{}
}

func (m *mockSettingsRepo) Get(_ context.Context) (*model.NotificationSettings, error) {
	if m.settings == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m.settings
	return &cp, nil
}

func (m *mockSettingsRepo) Save(_ context.Context, s *model.NotificationSettings) error {
	cp := *s
	cp.Singleton = true
	m.settings = &cp
	m.saves++
	return nil
}

// ── Mock NotificationStateRepository ──

type mockNotificationStateRepo struct {
	mu     sync.Mutex
	states map[string]*model.NotificationState
}

func newMockNotificationStateRepo() *mockNotificationStateRepo {
	return &mockNotificationStateRepo{states: make(map[string]*model.NotificationState)}
}

func (m *mockNotificationStateRepo) UpsertMissing(_ context.Context, states []model.NotificationState) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, st := range states {
		if _, ok := m.states[st.NotificationID]; ok {
			continue
		}
		cp := st
		m.states[st.NotificationID] = &cp
		n++
	}
	return n, nil
}

func (m *mockNotificationStateRepo) ListByIDs(_ context.Context, ids []string) ([]model.NotificationState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.NotificationState
	for _, id := range ids {
		if st, ok := m.states[id]; ok {
			out = append(out, *st)
		}
	}
	return out, nil
}

func (m *mockNotificationStateRepo) MarkRead(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.states[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	st.Read = true
	st.ReadAt = &at
	return nil
}

func (m *mockNotificationStateRepo) MarkAllRead(_ context.Context, ids []string, at time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, id := range ids {
		if st, ok := m.states[id]; ok && !st.Read {
			st.Read = true
			st.ReadAt = &at
			n++
		}
	}
	return n, nil
}

func (m *mockNotificationStateRepo) Dismiss(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.states[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	st.Dismissed = true
	st.DismissedAt = &at
	return nil
}

// ── Mock clients ──

type sentMessage struct {
	creds telegram.Credentials
	text  string
}

type mockTelegram struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (m *mockTelegram) SendMessage(_ context.Context, creds telegram.Credentials, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !creds.Configured() {
		return pkgerrors.ErrNotConfigured
	}
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMessage{creds: creds, text: text})
	return nil
}

func (m *mockTelegram) messages() []sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMessage(nil), m.sent...)
}

type mockAnthropic struct {
	payloads []string
	text     string
	err      error
}

func (m *mockAnthropic) Summarize(_ context.Context, payload string) (string, error) {
	m.payloads = append(m.payloads, payload)
	if m.err != nil {
		return "", m.err
	}
	return m.text, nil
}

var errUpstream = errors.New("upstream unavailable")

// ── fixtures ──

type testEnv struct {
	cfg       *config.Config
	repo      *repository.Repository
	users     *mockUserRepo
	records   *mockRecordRepo
	settings  *mockSettingsRepo
	states    *mockNotificationStateRepo
	telegram  *mockTelegram
	anthropic *mockAnthropic
}

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:       "test-secret-key-for-unit-testing-2026",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 24 * time.Hour,
		},
		Telegram: config.TelegramConfig{Timeout: time.Second},
		Monitor: config.MonitorConfig{
			NotificationLimit:   50,
			AnalysisRecordLimit: 20,
			PollIntervalSeconds: 10,
			DefaultSettings: config.DefaultSettingsConfig{
				MaxDefects:            5,
				MaxDowntime:           45,
				CostPerDefect:         "1500",
				CostPerMinuteDowntime: "5000",
			},
			Report: config.ReportConfig{FacilityName: "Test yard", Currency: "RUB"},
		},
	}
}

func newTestEnv() *testEnv {
	env := &testEnv{
		cfg:       testConfig(),
		users:     newMockUserRepo(),
		records:   newMockRecordRepo(),
		settings:  newMockSettingsRepo(),
		states:    newMockNotificationStateRepo(),
		telegram:  &mockTelegram{},
		anthropic: &mockAnthropic{text: "## Summary\nAll good."},
	}
	env.repo = &repository.Repository{
		User:              env.users,
		Shift:             newMockShiftRepo(),
		Record:            env.records,
		Settings:          env.settings,
		NotificationState: env.states,
	}
	return env
}

func (e *testEnv) settingsService() SettingsService {
	return NewSettingsService(e.cfg, e.repo, zap.NewNop())
}

func (e *testEnv) notificationService() *notificationService {
	return NewNotificationService(e.cfg, e.repo, e.settingsService(), zap.NewNop()).(*notificationService)
}

func (e *testEnv) alertService() AlertService {
	return NewAlertService(e.cfg, e.telegram, zap.NewNop())
}

func (e *testEnv) analyticsService() AnalyticsService {
	return NewAnalyticsService(e.cfg, e.repo, e.settingsService(), e.anthropic, zap.NewNop())
}

var testBaseTime = time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

func (e *testEnv) addRecord(id, date string, defects, downtime int, createdOffset time.Duration) *model.ProductionRecord {
	d, err := time.Parse(model.DateLayout, date)
	if err != nil {
		panic(err)
	}
	r := &model.ProductionRecord{
		ID:              id,
		Date:            d,
		ShiftID:         "1",
		OperatorID:      "user-op",
		OperatorName:    "Ivan Petrov",
		ProductCount:    100,
		DefectCount:     defects,
		DowntimeMinutes: downtime,
		CreatedAt:       testBaseTime.Add(createdOffset),
	}
	e.records.records[id] = r
	return r
}

func (e *testEnv) storeSettings(maxDefects, maxDowntime int, token, chat string) {
	e.settings.settings = &model.NotificationSettings{
		Singleton:             true,
		MaxDefects:            maxDefects,
		MaxDowntime:           maxDowntime,
		TelegramBotToken:      token,
		TelegramChatID:        chat,
		CostPerDefect:         decimal.NewFromInt(1500),
		CostPerMinuteDowntime: decimal.NewFromInt(5000),
	}
}
