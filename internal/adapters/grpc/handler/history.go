package handler

import (
	"bytes"
	"context"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ogurasousui/resource-allocation-admin/internal/adapters/export/xlsx"
	resourcev1 "github.com/ogurasousui/resource-allocation-admin/internal/adapters/grpc/api/resource/v1"
	"github.com/ogurasousui/resource-allocation-admin/internal/core/history"
)

// HistoryExporter は変更履歴の書き出しを行います。
type HistoryExporter interface {
	Export(ctx context.Context, in xlsx.ExportInput) (*bytes.Buffer, string, error)
}

// HistoryGrpcHandler は HistoryService の gRPC 実装です。
type HistoryGrpcHandler struct {
	svc      history.UseCase
	exporter HistoryExporter
}

// NewHistoryGrpcHandler は HistoryGrpcHandler を生成します。
func NewHistoryGrpcHandler(svc history.UseCase, exporter HistoryExporter) *HistoryGrpcHandler {
	return &HistoryGrpcHandler{svc: svc, exporter: exporter}
}

// ListEntries は変更履歴を新しい順に返します。
func (h *HistoryGrpcHandler) ListEntries(ctx context.Context, req *resourcev1.ListEntriesRequest) (*resourcev1.ListEntriesResponse, error) {
	if req == nil {
		return nil, errRequestRequired
	}

	day, err := parseDate(req.Day)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "day: %v", err)
	}

	result, err := h.svc.ListEntries(ctx, history.ListEntriesInput{
		TableName: optionalTableName(req.TableName),
		Day:       day,
		CreatedBy: req.CreatedBy,
		PageSize:  int(req.PageSize),
		PageToken: req.PageToken,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return &resourcev1.ListEntriesResponse{Entries: toAPIEntries(result.Entries), NextPageToken: result.NextPageToken}, nil
}

// RecentEntries は指定テーブルの直近の履歴を返します。
func (h *HistoryGrpcHandler) RecentEntries(ctx context.Context, req *resourcev1.RecentEntriesRequest) (*resourcev1.RecentEntriesResponse, error) {
	if req == nil {
		return nil, errRequestRequired
	}

	entries, err := h.svc.RecentEntries(ctx, history.RecentEntriesInput{
		TableName: history.TableName(req.TableName),
		Limit:     int(req.Limit),
	})
	if err != nil {
		return nil, toStatusError(err)
	}
	return &resourcev1.RecentEntriesResponse{Entries: toAPIEntries(entries)}, nil
}

// ExportEntries は条件に一致する履歴を xlsx で返します。
func (h *HistoryGrpcHandler) ExportEntries(ctx context.Context, req *resourcev1.ExportEntriesRequest) (*resourcev1.ExportEntriesResponse, error) {
	if req == nil {
		return nil, errRequestRequired
	}

	day, err := parseDate(req.Day)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "day: %v", err)
	}

	buf, name, err := h.exporter.Export(ctx, xlsx.ExportInput{
		TableName: optionalTableName(req.TableName),
		Day:       day,
		CreatedBy: req.CreatedBy,
		MaxRows:   int(req.MaxRows),
	})
	if err != nil {
		return nil, toStatusError(err)
	}
	return &resourcev1.ExportEntriesResponse{FileName: name, Content: buf.Bytes()}, nil
}

func optionalTableName(raw string) *history.TableName {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	t := history.TableName(raw)
	return &t
}

func toAPIEntries(entries []*history.Entry) []*resourcev1.HistoryEntry {
	out := make([]*resourcev1.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, &resourcev1.HistoryEntry{
			ID:         e.ID,
			TableName:  string(e.TableName),
			RecordID:   e.RecordID,
			ChangeType: string(e.ChangeType),
			Changes:    e.Changes,
			CreatedAt:  e.CreatedAt,
			CreatedBy:  e.CreatedBy,
		})
	}
	return out
}
