package service

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"notify-center/internal/model"
	"notify-center/internal/repository"
	pkgerrors "notify-center/pkg/errors"
)

// ── Mock PreferenceRepository ──

type mockPreferenceRepo struct {
	mu    sync.Mutex
	prefs map[string]*model.UserPreference
	err   error
}

func newMockPreferenceRepo() *mockPreferenceRepo {
	return &mockPreferenceRepo{prefs: make(map[string]*model.UserPreference)}
}

func (m *mockPreferenceRepo) Create(_ context.Context, pref *model.UserPreference) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.prefs[pref.UserID]; ok {
		return pkgerrors.ErrDuplicateKey
	}
	cp := *pref
	m.prefs[pref.UserID] = &cp
	return nil
}

func (m *mockPreferenceRepo) GetByUserID(_ context.Context, userID string) (*model.UserPreference, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if p, ok := m.prefs[userID]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPreferenceRepo) Update(_ context.Context, pref *model.UserPreference) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	existing, ok := m.prefs[pref.UserID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *pref
	cp.CreatedAt = existing.CreatedAt
	m.prefs[pref.UserID] = &cp
	return nil
}

func (m *mockPreferenceRepo) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.prefs[userID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.prefs, userID)
	return nil
}

// ── Mock NotificationLogRepository ──

type mockNotificationLogRepo struct {
	mu           sync.Mutex
	logs         []model.NotificationLog
	createErr    error
	createCtxErr error
}

func newMockNotificationLogRepo() *mockNotificationLogRepo {
	return &mockNotificationLogRepo{}
}

func (m *mockNotificationLogRepo) Create(ctx context.Context, log *model.NotificationLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCtxErr = ctx.Err()
	if m.createErr != nil {
		return m.createErr
	}
	if log.LogID == "" {
		log.LogID = uuid.NewString()
	}
	m.logs = append(m.logs, *log)
	return nil
}

func (m *mockNotificationLogRepo) ListByUser(_ context.Context, userID string) ([]model.NotificationLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]model.NotificationLog, 0)
	for _, l := range m.logs {
		if l.UserID == userID {
			result = append(result, l)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *mockNotificationLogRepo) CountByChannelAndStatus(_ context.Context) ([]repository.ChannelStatusCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[[2]string]int64)
	for _, l := range m.logs {
		counts[[2]string{l.Channel, l.Status}]++
	}
	rows := make([]repository.ChannelStatusCount, 0, len(counts))
	for k, n := range counts {
		rows = append(rows, repository.ChannelStatusCount{Channel: k[0], Status: k[1], Count: n})
	}
	return rows, nil
}
