//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"shipyard-monitor/backend/internal/model"
	"shipyard-monitor/backend/internal/repository"
	"shipyard-monitor/backend/pkg/database"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=ssk password=ssk_password dbname=ssk_monitor_test sslmode=disable TimeZone=Europe/Moscow"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot connect to test database: %v\n", err)
		os.Exit(1)
	}

	sqlDB, err := testDB.DB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot get sql.DB: %v\n", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "migrations failed: %v\n", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

// setupOperator creates an operator and returns a cleanup that also removes their records.
func setupOperator(t *testing.T) (*model.User, func()) {
	t.Helper()
	ctx := context.Background()

	suffix := time.Now().UnixNano()
	user := &model.User{
		FullName:     fmt.Sprintf("Test Operator %d", suffix),
		Username:     fmt.Sprintf("op%d", suffix),
		PasswordHash: "$2a$10$placeholder",
		Role:         model.RoleOperator,
	}
	if err := testDB.WithContext(ctx).Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	cleanup := func() {
		testDB.Exec(`DELETE FROM notification_states WHERE record_id IN (SELECT id FROM production_logs WHERE operator_id = ?)`, user.ID)
		testDB.Where("operator_id = ?", user.ID).Delete(&model.ProductionRecord{})
		testDB.Where("id = ?", user.ID).Delete(&model.User{})
	}
	return user, cleanup
}

func newRecord(user *model.User, day string, defects, downtime int) *model.ProductionRecord {
	d, _ := time.Parse(model.DateLayout, day)
	return &model.ProductionRecord{
		Date:            d,
		ShiftID:         "1",
		OperatorID:      user.ID,
		OperatorName:    user.FullName,
		ProductCount:    100,
		DefectCount:     defects,
		DowntimeMinutes: downtime,
	}
}

// ═══════════════════════════════════════════════════════════
// Records
// ═══════════════════════════════════════════════════════════

func TestRecordRepo_ListFiltersAndOrder(t *testing.T) {
	user, cleanup := setupOperator(t)
	defer cleanup()

	ctx := context.Background()
	repo := repository.NewRepository(testDB)

	for _, day := range []string{"2031-03-01", "2031-03-03", "2031-03-02"} {
		if err := repo.Record.Create(ctx, newRecord(user, day, 1, 0)); err != nil {
			t.Fatalf("create record: %v", err)
		}
	}

	list, total, err := repo.Record.List(ctx, repository.RecordFilter{
		Search:    user.FullName,
		StartDate: "2031-03-02",
		EndDate:   "2031-03-03",
	}, 0, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || len(list) != 2 {
		t.Fatalf("expected 2 records in range, got total=%d len=%d", total, len(list))
	}
	if list[0].DateString() != "2031-03-03" {
		t.Errorf("expected newest date first, got %s", list[0].DateString())
	}

	byDate, _, err := repo.Record.List(ctx, repository.RecordFilter{Search: "2031-03-01"}, 0, 10)
	if err != nil {
		t.Fatalf("list by date search: %v", err)
	}
	found := false
	for _, r := range byDate {
		if r.OperatorID == user.ID {
			found = true
		}
	}
	if !found {
		t.Error("date substring search should match the record")
	}
}

// ═══════════════════════════════════════════════════════════
// Notification states
// ═══════════════════════════════════════════════════════════

func TestNotificationStateRepo_UpsertKeepsState(t *testing.T) {
	user, cleanup := setupOperator(t)
	defer cleanup()

	ctx := context.Background()
	repo := repository.NewRepository(testDB)

	rec := newRecord(user, "2031-04-01", 9, 60)
	if err := repo.Record.Create(ctx, rec); err != nil {
		t.Fatalf("create record: %v", err)
	}

	states := []model.NotificationState{
		{NotificationID: model.NotificationKindDefect + "-" + rec.ID, RecordID: rec.ID, Kind: model.NotificationKindDefect},
		{NotificationID: model.NotificationKindDowntime + "-" + rec.ID, RecordID: rec.ID, Kind: model.NotificationKindDowntime},
	}
	n, err := repo.NotificationState.UpsertMissing(ctx, states)
	if err != nil || n != 2 {
		t.Fatalf("first upsert: n=%d err=%v", n, err)
	}

	now := time.Now()
	if err := repo.NotificationState.MarkRead(ctx, states[0].NotificationID, now); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	n, err = repo.NotificationState.UpsertMissing(ctx, states)
	if err != nil || n != 0 {
		t.Fatalf("second upsert should insert nothing: n=%d err=%v", n, err)
	}

	got, err := repo.NotificationState.ListByIDs(ctx, []string{states[0].NotificationID})
	if err != nil || len(got) != 1 {
		t.Fatalf("list by ids: %v (%d rows)", err, len(got))
	}
	if !got[0].Read {
		t.Error("re-sync must not reset the read flag")
	}

	if err := repo.NotificationState.Dismiss(ctx, "def-missing", now); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound, got %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Settings
// ═══════════════════════════════════════════════════════════

func TestSettingsRepo_SaveIsSingleton(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewRepository(testDB)

	original, origErr := repo.Settings.Get(ctx)
	defer func() {
		if origErr == nil {
			repo.Settings.Save(ctx, original)
		}
	}()

	for _, maxDefects := range []int{3, 7} {
		s := &model.NotificationSettings{
			Singleton:             true,
			MaxDefects:            maxDefects,
			MaxDowntime:           30,
			CostPerDefect:         decimal.NewFromInt(1500),
			CostPerMinuteDowntime: decimal.NewFromInt(5000),
		}
		if err := repo.Settings.Save(ctx, s); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	var count int64
	testDB.Model(&model.NotificationSettings{}).Count(&count)
	if count != 1 {
		t.Errorf("expected exactly one settings row, got %d", count)
	}

	got, err := repo.Settings.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.MaxDefects != 7 {
		t.Errorf("expected last write to win, got %d", got.MaxDefects)
	}
}

// ═══════════════════════════════════════════════════════════
// Transactions
// ═══════════════════════════════════════════════════════════

func TestRepository_BeginTxRollback(t *testing.T) {
	user, cleanup := setupOperator(t)
	defer cleanup()

	ctx := context.Background()
	repo := repository.NewRepository(testDB)

	tx, err := repo.BeginTx(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	rec := newRecord(user, "2031-05-01", 0, 0)
	if err := repo.WithTx(tx).Record.Create(ctx, rec); err != nil {
		tx.Rollback()
		t.Fatalf("create in tx: %v", err)
	}
	tx.Rollback()

	if _, err := repo.Record.GetByID(ctx, rec.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("rolled back record should not exist, got %v", err)
	}
}

func TestRepository_TransactionCommits(t *testing.T) {
	user, cleanup := setupOperator(t)
	defer cleanup()

	ctx := context.Background()
	repo := repository.NewRepository(testDB)

	rec := newRecord(user, "2031-05-02", 8, 0)
	err := repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.Record.Create(ctx, rec); err != nil {
			return err
		}
		_, err := txRepo.NotificationState.UpsertMissing(ctx, []model.NotificationState{
			{NotificationID: model.NotificationKindDefect + "-" + rec.ID, RecordID: rec.ID, Kind: model.NotificationKindDefect},
		})
		return err
	})
	if err != nil {
		t.Fatalf("transaction: %v", err)
	}

	if _, err := repo.Record.GetByID(ctx, rec.ID); err != nil {
		t.Errorf("committed record should exist: %v", err)
	}
}
