package errors

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrDuplicateKey 唯一键冲突：记录已存在
var ErrDuplicateKey = errors.New("记录已存在")

// pgUniqueViolation PostgreSQL unique_violation 错误码
const pgUniqueViolation = "23505"

// IsDuplicateKey 判断数据库错误是否为唯一键冲突
// 覆盖 GORM TranslateError、PostgreSQL 原生错误与 SQLite 错误文本三种形态
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDuplicateKey) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// TranslateDuplicate 将唯一键冲突统一转换为 ErrDuplicateKey，其余错误原样返回
func TranslateDuplicate(err error) error {
	if IsDuplicateKey(err) {
		return ErrDuplicateKey
	}
	return err
}
