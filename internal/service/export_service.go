package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"notify-center/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoLogs       = errors.New("该用户暂无通知日志")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportLogs 导出用户通知日志为 Excel，按创建时间倒序
	ExportLogs(ctx context.Context, userID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

var logSheetHeaders = []string{"ID", "类型", "渠道", "状态", "主题", "内容", "尝试时间", "发送时间", "失败原因", "创建时间"}

func (s *exportService) ExportLogs(ctx context.Context, userID string) (*bytes.Buffer, string, error) {
	logs, err := s.repo.NotificationLog.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询通知日志失败", zap.String("user_id", userID), zap.Error(err))
		return nil, "", err
	}
	if len(logs) == 0 {
		return nil, "", ErrExportNoLogs
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "通知日志"
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", s.generateFail(err)
	}
	f.SetActiveSheet(idx)
	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")

	if err := f.SetSheetRow(sheetName, "A1", &logSheetHeaders); err != nil {
		return nil, "", s.generateFail(err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		lastCol, _ := excelize.ColumnNumberToName(len(logSheetHeaders))
		f.SetCellStyle(sheetName, "A1", lastCol+"1", headerStyle)
	}

	for i := range logs {
		l := &logs[i]
		meta := l.Metadata.Data()
		row := []interface{}{
			l.LogID,
			l.Type,
			l.Channel,
			l.Status,
			meta.Content.Subject,
			meta.Content.Body,
			formatTime(&meta.AttemptedAt),
			formatTime(l.SentAt),
			derefString(l.FailureReason),
			formatTime(&l.CreatedAt),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, "", s.generateFail(err)
		}
	}
	f.SetColWidth(sheetName, "A", "A", 38)
	f.SetColWidth(sheetName, "E", "F", 30)
	f.SetColWidth(sheetName, "G", "J", 22)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", s.generateFail(err)
	}

	filename := fmt.Sprintf("通知日志_%s.xlsx", userID)
	return buf, filename, nil
}

func (s *exportService) generateFail(err error) error {
	s.logger.Error("生成 Excel 失败", zap.Error(err))
	return fmt.Errorf("%w: %v", ErrExportGenerateFail, err)
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
