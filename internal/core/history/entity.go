package history

import "time"

// TableName は変更履歴の対象テーブルを表します。
type TableName string

const (
	TableEmployees        TableName = "employees"
	TableProjects         TableName = "projects"
	TableEmployeeProjects TableName = "employee_projects"
)

// ChangeType は変更の種類を表します。
type ChangeType string

const (
	ChangeTypeCreate  ChangeType = "create"
	ChangeTypeUpdate  ChangeType = "update"
	ChangeTypeReplace ChangeType = "replace"
)

// Entry は追記専用の変更履歴エンティティです。書き込み後に変更されることはありません。
type Entry struct {
	ID         string
	TableName  TableName
	RecordID   string
	ChangeType ChangeType
	Changes    map[string]any
	CreatedAt  time.Time
	CreatedBy  string
}
