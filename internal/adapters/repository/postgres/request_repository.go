package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/resource-allocation-admin/internal/core/request"
	pgdb "github.com/ogurasousui/resource-allocation-admin/internal/platform/db/postgres"
)

const requestColumns = `rr.id, rr.project_id, COALESCE(p.name, ''), rr.requested_by, rr.role, rr.quantity, rr.status, rr.notes, rr.created_at`

// RequestRepository は resource_requests テーブルを扱います。
type RequestRepository struct {
	pool pgdb.Queryer
}

// NewRequestRepository は RequestRepository を生成します。
func NewRequestRepository(pool pgdb.Queryer) *RequestRepository {
	return &RequestRepository{pool: pool}
}

// Create は依頼を登録します。
func (r *RequestRepository) Create(ctx context.Context, req *request.ResourceRequest) (*request.ResourceRequest, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        WITH rr AS (
            INSERT INTO resource_requests (project_id, requested_by, role, quantity, status, notes, created_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7)
            RETURNING *
        )
        SELECT `+requestColumns+`
          FROM rr
          LEFT JOIN projects p ON p.id = rr.project_id
    `, req.ProjectID, req.RequestedBy, req.Role, req.Quantity, string(req.Status), nullableString(req.Notes), req.CreatedAt)

	created, err := scanRequest(row)
	if err != nil {
		return nil, translateRequestPgError(err)
	}
	return created, nil
}

// FindByID は ID で依頼を取得します。
func (r *RequestRepository) FindByID(ctx context.Context, id string) (*request.ResourceRequest, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+requestColumns+`
          FROM resource_requests rr
          LEFT JOIN projects p ON p.id = rr.project_id
         WHERE rr.id = $1
         LIMIT 1
    `, id)

	found, err := scanRequest(row)
	if err != nil {
		return nil, translateRequestPgError(err)
	}
	return found, nil
}

// ListActive は未承認の依頼と ApprovedSince 以降に作成された承認済みの依頼を新しい順に返します。
func (r *RequestRepository) ListActive(ctx context.Context, filter request.ActiveFilter) ([]*request.ResourceRequest, string, error) {
	if filter.Limit <= 0 {
		return nil, "", request.ErrInvalidPageSize
	}
	if filter.Offset < 0 {
		return nil, "", request.ErrInvalidPageToken
	}

	args := []any{string(request.StatusApproved), filter.ApprovedSince}
	where := ` WHERE (rr.status <> $1 OR rr.created_at >= $2)`
	if filter.ProjectID != "" {
		where += ` AND rr.project_id = ` + placeholder(args)
		args = append(args, filter.ProjectID)
	}

	limitPlaceholder := placeholder(args)
	args = append(args, filter.Limit+1)
	offsetPlaceholder := placeholder(args)
	args = append(args, filter.Offset)

	query := `
        SELECT ` + requestColumns + `
          FROM resource_requests rr
          LEFT JOIN projects p ON p.id = rr.project_id` + where + `
         ORDER BY rr.created_at DESC, rr.id DESC
         LIMIT ` + limitPlaceholder + `
        OFFSET ` + offsetPlaceholder

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, "", translateRequestPgError(err)
	}
	defer rows.Close()

	requests := make([]*request.ResourceRequest, 0, filter.Limit)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, "", translateRequestPgError(err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, "", translateRequestPgError(err)
	}

	requests, nextToken := nextPageToken(requests, filter.Limit, filter.Offset)
	return requests, nextToken, nil
}

// ResolvePending は Pending の依頼に限り判断を反映します。
func (r *RequestRepository) ResolvePending(ctx context.Context, id string, decision request.Status) (*request.ResourceRequest, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        WITH rr AS (
            UPDATE resource_requests
               SET status = $1
             WHERE id = $2
               AND status = $3
            RETURNING *
        )
        SELECT `+requestColumns+`
          FROM rr
          LEFT JOIN projects p ON p.id = rr.project_id
    `, string(decision), id, string(request.StatusPending))

	updated, err := scanRequest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, request.ErrNotPending
		}
		return nil, translateRequestPgError(err)
	}
	return updated, nil
}

func scanRequest(row pgx.Row) (*request.ResourceRequest, error) {
	var (
		req       request.ResourceRequest
		status    string
		notes     sql.NullString
		createdAt time.Time
	)
	if err := row.Scan(&req.ID, &req.ProjectID, &req.ProjectName, &req.RequestedBy, &req.Role, &req.Quantity, &status, &notes, &createdAt); err != nil {
		return nil, err
	}

	req.Status = request.Status(status)
	req.CreatedAt = createdAt
	if notes.Valid {
		n := notes.String
		req.Notes = &n
	}
	return &req, nil
}

func translateRequestPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return request.ErrRequestNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case foreignKeyViolationCode:
			return request.ErrUnknownProject
		case checkViolationCode:
			if pgErr.ConstraintName == "resource_requests_quantity_check" {
				return request.ErrInvalidQuantity
			}
			return request.ErrInvalidDecision
		}
	}
	return err
}
