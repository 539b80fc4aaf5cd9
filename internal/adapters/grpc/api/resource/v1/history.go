package resourcev1

import (
	"context"
	"time"

	"google.golang.org/grpc"
)

const (
	HistoryService_ListEntries_FullMethodName   = "/resource.v1.HistoryService/ListEntries"
	HistoryService_RecentEntries_FullMethodName = "/resource.v1.HistoryService/RecentEntries"
	HistoryService_ExportEntries_FullMethodName = "/resource.v1.HistoryService/ExportEntries"
)

type HistoryEntry struct {
	ID         string         `json:"id"`
	TableName  string         `json:"table_name"`
	RecordID   string         `json:"record_id"`
	ChangeType string         `json:"change_type"`
	Changes    map[string]any `json:"changes"`
	CreatedAt  time.Time      `json:"created_at"`
	CreatedBy  string         `json:"created_by"`
}

// ListEntriesRequest の Day は YYYY-MM-DD 形式で、その日 (UTC) の履歴に絞り込みます。
type ListEntriesRequest struct {
	TableName string `json:"table_name,omitempty"`
	Day       string `json:"day,omitempty"`
	CreatedBy string `json:"created_by,omitempty"`
	PageSize  int32  `json:"page_size,omitempty"`
	PageToken string `json:"page_token,omitempty"`
}

type ListEntriesResponse struct {
	Entries       []*HistoryEntry `json:"entries"`
	NextPageToken string          `json:"next_page_token,omitempty"`
}

type RecentEntriesRequest struct {
	TableName string `json:"table_name"`
	Limit     int32  `json:"limit,omitempty"`
}

type RecentEntriesResponse struct {
	Entries []*HistoryEntry `json:"entries"`
}

type ExportEntriesRequest struct {
	TableName string `json:"table_name,omitempty"`
	Day       string `json:"day,omitempty"`
	CreatedBy string `json:"created_by,omitempty"`
	MaxRows   int32  `json:"max_rows,omitempty"`
}

// ExportEntriesResponse の Content は xlsx ブックです。
type ExportEntriesResponse struct {
	FileName string `json:"file_name"`
	Content  []byte `json:"content"`
}

// HistoryServiceServer は HistoryService のサーバー実装です。
type HistoryServiceServer interface {
	ListEntries(context.Context, *ListEntriesRequest) (*ListEntriesResponse, error)
	RecentEntries(context.Context, *RecentEntriesRequest) (*RecentEntriesResponse, error)
	ExportEntries(context.Context, *ExportEntriesRequest) (*ExportEntriesResponse, error)
}

var HistoryService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "resource.v1.HistoryService",
	HandlerType: (*HistoryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		method("ListEntries", unary(HistoryService_ListEntries_FullMethodName, HistoryServiceServer.ListEntries)),
		method("RecentEntries", unary(HistoryService_RecentEntries_FullMethodName, HistoryServiceServer.RecentEntries)),
		method("ExportEntries", unary(HistoryService_ExportEntries_FullMethodName, HistoryServiceServer.ExportEntries)),
	},
	Metadata: "resource/v1/history",
}

func RegisterHistoryServiceServer(s grpc.ServiceRegistrar, srv HistoryServiceServer) {
	s.RegisterService(&HistoryService_ServiceDesc, srv)
}
