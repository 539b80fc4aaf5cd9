package xlsx

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ogurasousui/resource-allocation-admin/internal/core/history"
)

type pagedLister struct {
	entries []*history.Entry
	calls   int
}

func (l *pagedLister) ListEntries(_ context.Context, in history.ListEntriesInput) (*history.ListEntriesResult, error) {
	l.calls++
	offset := 0
	if in.PageToken != "" {
		offset, _ = strconv.Atoi(in.PageToken)
	}
	end := offset + in.PageSize
	if end >= len(l.entries) {
		return &history.ListEntriesResult{Entries: l.entries[offset:]}, nil
	}
	return &history.ListEntriesResult{Entries: l.entries[offset:end], NextPageToken: strconv.Itoa(end)}, nil
}

func makeEntries(n int) []*history.Entry {
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	entries := make([]*history.Entry, 0, n)
	for i := 0; i < n; i++ {
		entries = append(entries, &history.Entry{
			ID:         "h-" + strconv.Itoa(i),
			TableName:  history.TableEmployees,
			RecordID:   "emp-" + strconv.Itoa(i),
			ChangeType: history.ChangeTypeUpdate,
			Changes:    map[string]any{"status": "On Leave"},
			CreatedAt:  base.Add(-time.Duration(i) * time.Minute),
			CreatedBy:  "alice@example.com",
		})
	}
	return entries
}

func TestHistoryExporter_Export(t *testing.T) {
	t.Parallel()

	lister := &pagedLister{entries: makeEntries(exportPageSize + 5)}
	exporter := NewHistoryExporter(lister, nil)
	table := history.TableEmployees
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	buf, name, err := exporter.Export(context.Background(), ExportInput{TableName: &table, Day: &day})
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}
	if name != "change_history_employees_20240501.xlsx" {
		t.Fatalf("unexpected file name %q", name)
	}
	if lister.calls != 2 {
		t.Fatalf("expected 2 page reads, got %d", lister.calls)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("GetRows returned error: %v", err)
	}
	if len(rows) != exportPageSize+6 {
		t.Fatalf("expected header plus %d rows, got %d", exportPageSize+5, len(rows))
	}
	if rows[1][0] != "2024-05-01 09:00:00" || rows[1][5] != `{"status":"On Leave"}` {
		t.Fatalf("unexpected first row: %v", rows[1])
	}
}

func TestHistoryExporter_MaxRows(t *testing.T) {
	t.Parallel()

	exporter := NewHistoryExporter(&pagedLister{entries: makeEntries(10)}, nil)

	buf, name, err := exporter.Export(context.Background(), ExportInput{MaxRows: 3})
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}
	if name != "change_history.xlsx" {
		t.Fatalf("unexpected file name %q", name)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer f.Close()

	rows, _ := f.GetRows(sheetName)
	if len(rows) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d", len(rows))
	}
}

func TestHistoryExporter_NoEntries(t *testing.T) {
	t.Parallel()

	exporter := NewHistoryExporter(&pagedLister{}, nil)
	if _, _, err := exporter.Export(context.Background(), ExportInput{}); !errors.Is(err, ErrNoEntries) {
		t.Fatalf("expected ErrNoEntries, got %v", err)
	}
}
