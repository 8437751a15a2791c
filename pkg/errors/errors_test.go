package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestIsDuplicateKey(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"gorm translated", gorm.ErrDuplicatedKey, true},
		{"wrapped gorm", fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), true},
		{"postgres unique violation", &pgconn.PgError{Code: "23505"}, true},
		{"postgres other error", &pgconn.PgError{Code: "23503"}, false},
		{"sqlite text", errors.New("constraint failed: UNIQUE constraint failed: user_preferences.user_id (1555)"), true},
		{"record not found", gorm.ErrRecordNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDuplicateKey(tt.err); got != tt.want {
				t.Errorf("IsDuplicateKey(%v)=%v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestTranslateDuplicate(t *testing.T) {
	if err := TranslateDuplicate(gorm.ErrDuplicatedKey); !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("期望 ErrDuplicateKey，实际: %v", err)
	}
	other := errors.New("boom")
	if err := TranslateDuplicate(other); err != other {
		t.Errorf("非唯一键错误应原样返回，实际: %v", err)
	}
}
