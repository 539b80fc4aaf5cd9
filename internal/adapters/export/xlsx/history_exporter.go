// Package xlsx は変更履歴を Excel ブックとして書き出します。
package xlsx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/ogurasousui/resource-allocation-admin/internal/core/history"
)

const (
	sheetName       = "history"
	exportPageSize  = 200
	defaultMaxRows  = 10000
	timestampLayout = "2006-01-02 15:04:05"
)

var (
	// ErrNoEntries は条件に一致する履歴がない場合に返却されます。
	ErrNoEntries = errors.New("export: no history entries")
	// ErrGenerate はブックの生成に失敗した場合に返却されます。
	ErrGenerate = errors.New("export: failed to generate workbook")
)

// Lister は履歴の一覧取得を行います。history.Service が満たします。
type Lister interface {
	ListEntries(ctx context.Context, in history.ListEntriesInput) (*history.ListEntriesResult, error)
}

// HistoryExporter は変更履歴の一覧を xlsx に変換します。
type HistoryExporter struct {
	lister Lister
	logger *zap.Logger
}

// NewHistoryExporter は HistoryExporter を生成します。
func NewHistoryExporter(lister Lister, logger *zap.Logger) *HistoryExporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HistoryExporter{lister: lister, logger: logger}
}

// ExportInput は書き出し条件です。MaxRows が 0 以下の場合は既定の上限を使います。
type ExportInput struct {
	TableName *history.TableName
	Day       *time.Time
	CreatedBy string
	MaxRows   int
}

// Export は条件に一致する履歴をページ単位で読み出し、1 シートのブックとして返します。
// 戻り値のファイル名は推奨値です。
func (e *HistoryExporter) Export(ctx context.Context, in ExportInput) (*bytes.Buffer, string, error) {
	maxRows := in.MaxRows
	if maxRows <= 0 {
		maxRows = defaultMaxRows
	}

	entries := make([]*history.Entry, 0, exportPageSize)
	token := ""
	for len(entries) < maxRows {
		res, err := e.lister.ListEntries(ctx, history.ListEntriesInput{
			TableName: in.TableName,
			Day:       in.Day,
			CreatedBy: in.CreatedBy,
			PageSize:  exportPageSize,
			PageToken: token,
		})
		if err != nil {
			return nil, "", err
		}
		entries = append(entries, res.Entries...)
		if res.NextPageToken == "" {
			break
		}
		token = res.NextPageToken
	}
	if len(entries) > maxRows {
		entries = entries[:maxRows]
	}
	if len(entries) == 0 {
		return nil, "", ErrNoEntries
	}

	buf, err := e.write(entries)
	if err != nil {
		e.logger.Error("write history workbook", zap.Error(err))
		return nil, "", ErrGenerate
	}
	return buf, fileName(in), nil
}

func (e *HistoryExporter) write(entries []*history.Entry) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}

	headers := []string{"created_at", "table_name", "record_id", "change_type", "created_by", "changes"}
	widths := []float64{20, 18, 38, 12, 28, 80}
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheetName, col, col, widths[i]); err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, col+"1", h); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(sheetName, "A1", "F1", headerStyle); err != nil {
		return nil, err
	}

	for i, entry := range entries {
		changes, err := json.Marshal(entry.Changes)
		if err != nil {
			return nil, fmt.Errorf("marshal changes of %s: %w", entry.ID, err)
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []any{
			entry.CreatedAt.UTC().Format(timestampLayout),
			string(entry.TableName),
			entry.RecordID,
			string(entry.ChangeType),
			entry.CreatedBy,
			string(changes),
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, err
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func fileName(in ExportInput) string {
	name := "change_history"
	if in.TableName != nil {
		name += "_" + string(*in.TableName)
	}
	if in.Day != nil {
		name += "_" + in.Day.UTC().Format("20060102")
	}
	return name + ".xlsx"
}
