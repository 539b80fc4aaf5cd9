package history

import "errors"

var (
	// ErrInvalidTableName は履歴対象外のテーブルが指定された場合に返却されます。
	ErrInvalidTableName = errors.New("history: invalid table name")
	// ErrInvalidChangeType は変更種別が不正な場合に返却されます。
	ErrInvalidChangeType = errors.New("history: invalid change type")
	// ErrInvalidRecordID はレコード ID が空の場合に返却されます。
	ErrInvalidRecordID = errors.New("history: invalid record id")
	// ErrInvalidChanges は変更内容が空、または JSON 表現できない値を含む場合に返却されます。
	ErrInvalidChanges = errors.New("history: invalid changes")
	// ErrInvalidPageSize は一覧取得時のページサイズが不正な場合に返却されます。
	ErrInvalidPageSize = errors.New("history: invalid page size")
	// ErrInvalidPageToken は一覧取得時のページトークンが不正な場合に返却されます。
	ErrInvalidPageToken = errors.New("history: invalid page token")
)
