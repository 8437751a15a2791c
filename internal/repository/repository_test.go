package repository_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"notify-center/internal/model"
	"notify-center/internal/repository"
	pkgerrors "notify-center/pkg/errors"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("无法打开测试数据库: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("获取 sql.DB 失败: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(&model.UserPreference{}, &model.NotificationLog{}); err != nil {
		t.Fatalf("AutoMigrate 失败: %v", err)
	}
	return db
}

func newPreference(userID string) *model.UserPreference {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &model.UserPreference{
		UserID: userID,
		Email:  userID + "@example.com",
		Preferences: model.Preferences{
			Marketing:  true,
			Newsletter: false,
			Updates:    true,
			Frequency:  model.FrequencyWeekly,
			Channels:   model.Channels{Email: true, SMS: false, Push: true},
		},
		Timezone:    "Asia/Shanghai",
		LastUpdated: now,
		CreatedAt:   now,
	}
}

func newLog(userID, channel, status string, createdAt time.Time) *model.NotificationLog {
	return &model.NotificationLog{
		UserID:  userID,
		Type:    model.TypeUpdates,
		Channel: channel,
		Status:  status,
		Metadata: datatypes.NewJSONType(model.LogMetadata{
			Content:     model.Content{Subject: "s", Body: "b"},
			AttemptedAt: createdAt,
		}),
		CreatedAt: createdAt,
	}
}

// ═══════════════════════════════════════════════════════════
// PreferenceRepository
// ═══════════════════════════════════════════════════════════

func TestPreferenceRepo_CreateAndGet(t *testing.T) {
	repo := repository.NewRepository(setupTestDB(t))
	ctx := context.Background()

	pref := newPreference("user-1")
	if err := repo.Preference.Create(ctx, pref); err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	got, err := repo.Preference.GetByUserID(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetByUserID 应成功: %v", err)
	}
	if got.Email != pref.Email || got.Timezone != pref.Timezone {
		t.Errorf("读取结果与写入不一致: %+v", got)
	}
	if got.Preferences != pref.Preferences {
		t.Errorf("期望 Preferences=%+v，实际=%+v", pref.Preferences, got.Preferences)
	}
	if !got.CreatedAt.Equal(pref.CreatedAt) {
		t.Errorf("期望 CreatedAt=%v，实际=%v", pref.CreatedAt, got.CreatedAt)
	}
}

func TestPreferenceRepo_Create_Duplicate(t *testing.T) {
	repo := repository.NewRepository(setupTestDB(t))
	ctx := context.Background()

	if err := repo.Preference.Create(ctx, newPreference("user-1")); err != nil {
		t.Fatalf("首次 Create 应成功: %v", err)
	}
	err := repo.Preference.Create(ctx, newPreference("user-1"))
	if !errors.Is(err, pkgerrors.ErrDuplicateKey) {
		t.Fatalf("期望 ErrDuplicateKey，实际: %v", err)
	}
}

func TestPreferenceRepo_Create_ConcurrentDuplicate(t *testing.T) {
	repo := repository.NewRepository(setupTestDB(t))
	ctx := context.Background()

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		dupes     int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.Preference.Create(ctx, newPreference("race-user"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, pkgerrors.ErrDuplicateKey):
				dupes++
			default:
				t.Errorf("非预期错误: %v", err)
			}
		}()
	}
	wg.Wait()

	if succeeded != 1 || dupes != workers-1 {
		t.Errorf("期望 1 个成功、%d 个冲突，实际 成功=%d 冲突=%d", workers-1, succeeded, dupes)
	}
}

func TestPreferenceRepo_Update(t *testing.T) {
	repo := repository.NewRepository(setupTestDB(t))
	ctx := context.Background()

	pref := newPreference("user-1")
	if err := repo.Preference.Create(ctx, pref); err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	updated := *pref
	updated.Email = "new@example.com"
	updated.Preferences.Marketing = false
	updated.Preferences.Channels.Email = false
	updated.LastUpdated = pref.LastUpdated.Add(time.Minute)
	updated.CreatedAt = time.Time{}
	if err := repo.Preference.Update(ctx, &updated); err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}

	got, _ := repo.Preference.GetByUserID(ctx, "user-1")
	if got.Email != "new@example.com" {
		t.Errorf("期望 Email=new@example.com，实际=%s", got.Email)
	}
	if got.Preferences.Marketing || got.Preferences.Channels.Email {
		t.Error("false 值应被写入，而不是被忽略")
	}
	if !got.CreatedAt.Equal(pref.CreatedAt) {
		t.Errorf("CreatedAt 不应被更新，期望=%v 实际=%v", pref.CreatedAt, got.CreatedAt)
	}
}

func TestPreferenceRepo_Update_NotFound(t *testing.T) {
	repo := repository.NewRepository(setupTestDB(t))
	ctx := context.Background()

	err := repo.Preference.Update(ctx, newPreference("ghost"))
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("期望 ErrRecordNotFound，实际: %v", err)
	}
	if _, err := repo.Preference.GetByUserID(ctx, "ghost"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("Update 不应插入新记录，实际: %v", err)
	}
}

func TestPreferenceRepo_Delete(t *testing.T) {
	repo := repository.NewRepository(setupTestDB(t))
	ctx := context.Background()

	if err := repo.Preference.Create(ctx, newPreference("user-1")); err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if err := repo.Preference.Delete(ctx, "user-1"); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if err := repo.Preference.Delete(ctx, "user-1"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("重复删除期望 ErrRecordNotFound，实际: %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// NotificationLogRepository
// ═══════════════════════════════════════════════════════════

func TestNotificationLogRepo_ListByUser_NewestFirst(t *testing.T) {
	repo := repository.NewRepository(setupTestDB(t))
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	for i, offset := range []int{2, 0, 3, 1} {
		l := newLog("user-1", model.ChannelEmail, model.StatusSent, base.Add(time.Duration(offset)*time.Minute))
		if err := repo.NotificationLog.Create(ctx, l); err != nil {
			t.Fatalf("Create #%d 应成功: %v", i, err)
		}
		if l.LogID == "" {
			t.Fatal("Create 后应生成 LogID")
		}
	}
	if err := repo.NotificationLog.Create(ctx, newLog("user-2", model.ChannelSMS, model.StatusSent, base)); err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	logs, err := repo.NotificationLog.ListByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListByUser 应成功: %v", err)
	}
	if len(logs) != 4 {
		t.Fatalf("期望 4 条日志，实际=%d", len(logs))
	}
	for i := 1; i < len(logs); i++ {
		if !logs[i-1].CreatedAt.After(logs[i].CreatedAt) {
			t.Errorf("日志未按创建时间倒序: %v 应晚于 %v", logs[i-1].CreatedAt, logs[i].CreatedAt)
		}
	}
	if got := logs[0].Metadata.Data().Content.Subject; got != "s" {
		t.Errorf("metadata 未正确读回，subject=%q", got)
	}
}

func TestNotificationLogRepo_ListByUser_Empty(t *testing.T) {
	repo := repository.NewRepository(setupTestDB(t))

	logs, err := repo.NotificationLog.ListByUser(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("ListByUser 应成功: %v", err)
	}
	if logs == nil || len(logs) != 0 {
		t.Errorf("期望空切片，实际=%v", logs)
	}
}

func TestNotificationLogRepo_CountByChannelAndStatus(t *testing.T) {
	repo := repository.NewRepository(setupTestDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	seed := []struct {
		channel, status string
		n               int
	}{
		{model.ChannelEmail, model.StatusSent, 3},
		{model.ChannelEmail, model.StatusFailed, 1},
		{model.ChannelPush, model.StatusSent, 2},
	}
	for _, s := range seed {
		for i := 0; i < s.n; i++ {
			if err := repo.NotificationLog.Create(ctx, newLog("u", s.channel, s.status, now)); err != nil {
				t.Fatalf("Create 应成功: %v", err)
			}
		}
	}

	rows, err := repo.NotificationLog.CountByChannelAndStatus(ctx)
	if err != nil {
		t.Fatalf("CountByChannelAndStatus 应成功: %v", err)
	}

	got := make(map[string]int64)
	for _, r := range rows {
		got[r.Channel+"/"+r.Status] = r.Count
	}
	if got["email/sent"] != 3 || got["email/failed"] != 1 || got["push/sent"] != 2 {
		t.Errorf("分组计数不符合预期: %v", got)
	}
	if len(rows) != 3 {
		t.Errorf("期望 3 个分组，实际=%d", len(rows))
	}
}
