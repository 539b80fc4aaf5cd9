package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/resource-allocation-admin/internal/core/history"
	pgdb "github.com/ogurasousui/resource-allocation-admin/internal/platform/db/postgres"
)

const historyColumns = `h.id, h.table_name, h.record_id, h.change_type, h.changes, h.created_at, h.created_by`

// HistoryRepository は change_history への追記と参照を行います。
type HistoryRepository struct {
	pool pgdb.Queryer
}

// NewHistoryRepository は HistoryRepository を生成します。
func NewHistoryRepository(pool pgdb.Queryer) *HistoryRepository {
	return &HistoryRepository{pool: pool}
}

// Append は変更履歴を 1 件追記します。
func (r *HistoryRepository) Append(ctx context.Context, entry *history.Entry) (*history.Entry, error) {
	payload, err := json.Marshal(entry.Changes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", history.ErrInvalidChanges, err)
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO change_history AS h (table_name, record_id, change_type, changes, created_at, created_by)
        VALUES ($1, $2, $3, $4::jsonb, $5, $6)
        RETURNING `+historyColumns,
		string(entry.TableName), entry.RecordID, string(entry.ChangeType), string(payload), entry.CreatedAt, entry.CreatedBy)

	created, err := scanHistoryEntry(row)
	if err != nil {
		return nil, translateHistoryPgError(err)
	}
	return created, nil
}

// List は新しい順に変更履歴を返します。
func (r *HistoryRepository) List(ctx context.Context, filter history.ListFilter) ([]*history.Entry, string, error) {
	if filter.Limit <= 0 {
		return nil, "", history.ErrInvalidPageSize
	}
	if filter.Offset < 0 {
		return nil, "", history.ErrInvalidPageToken
	}

	args := make([]any, 0, 6)
	conditions := make([]string, 0, 4)

	if filter.TableName != nil {
		conditions = append(conditions, "h.table_name = "+placeholder(args))
		args = append(args, string(*filter.TableName))
	}
	if filter.From != nil {
		conditions = append(conditions, "h.created_at >= "+placeholder(args))
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		conditions = append(conditions, "h.created_at < "+placeholder(args))
		args = append(args, *filter.To)
	}
	if filter.CreatedBy != "" {
		conditions = append(conditions, "h.created_by ILIKE "+placeholder(args)+` ESCAPE '\'`)
		args = append(args, containsPattern(filter.CreatedBy))
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	limitPlaceholder := placeholder(args)
	args = append(args, filter.Limit+1)
	offsetPlaceholder := placeholder(args)
	args = append(args, filter.Offset)

	query := `
        SELECT ` + historyColumns + `
          FROM change_history h` + whereClause + `
         ORDER BY h.created_at DESC, h.id DESC
         LIMIT ` + limitPlaceholder + `
        OFFSET ` + offsetPlaceholder

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, "", translateHistoryPgError(err)
	}
	defer rows.Close()

	entries := make([]*history.Entry, 0, filter.Limit)
	for rows.Next() {
		entry, err := scanHistoryEntry(rows)
		if err != nil {
			return nil, "", translateHistoryPgError(err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, "", translateHistoryPgError(err)
	}

	entries, nextToken := nextPageToken(entries, filter.Limit, filter.Offset)
	return entries, nextToken, nil
}

func scanHistoryEntry(row pgx.Row) (*history.Entry, error) {
	var (
		id         string
		tableName  string
		recordID   string
		changeType string
		changes    []byte
		createdAt  time.Time
		createdBy  string
	)

	if err := row.Scan(&id, &tableName, &recordID, &changeType, &changes, &createdAt, &createdBy); err != nil {
		return nil, err
	}

	decoded := map[string]any{}
	if len(changes) > 0 {
		if err := json.Unmarshal(changes, &decoded); err != nil {
			return nil, fmt.Errorf("decode changes of %s: %w", id, err)
		}
	}

	return &history.Entry{
		ID:         id,
		TableName:  history.TableName(tableName),
		RecordID:   recordID,
		ChangeType: history.ChangeType(changeType),
		Changes:    decoded,
		CreatedAt:  createdAt,
		CreatedBy:  createdBy,
	}, nil
}

func translateHistoryPgError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == checkViolationCode {
		switch pgErr.ConstraintName {
		case "change_history_table_name_check":
			return history.ErrInvalidTableName
		case "change_history_change_type_check":
			return history.ErrInvalidChangeType
		default:
			return history.ErrInvalidChanges
		}
	}
	return err
}
