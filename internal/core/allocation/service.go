package allocation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ogurasousui/resource-allocation-admin/internal/core/employee"
	"github.com/ogurasousui/resource-allocation-admin/internal/core/history"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// Options はアサインモデルの挙動を切り替えます。
type Options struct {
	// EnforceTotalCap が true の場合、社員ごとの配分率の合計が 100 を超える入力を拒否します。
	EnforceTotalCap bool
}

// Service はアサインモデルのユースケースをまとめます。
// 置き換えは 1 トランザクションで実行されるため、トランザクションを持たない実装と組み合わせた場合のみ
// 削除後の挿入失敗でアサインが空になる区間が残ります。その場合もエラーはそのまま返却されます。
type Service struct {
	repo      Repository
	employees EmployeeFinder
	recorder  history.Recorder
	clock     Clock
	tx        TransactionManager
	opts      Options
}

// UseCase はアサインユースケースの公開インターフェースです。
type UseCase interface {
	ListAssignments(ctx context.Context, in ListAssignmentsInput) (*Result, error)
	SetAssignments(ctx context.Context, in SetAssignmentsInput) (*Result, error)
	ReconcileAssignments(ctx context.Context, in SetAssignmentsInput) (*Result, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, employees EmployeeFinder, recorder history.Recorder, clock Clock, tx TransactionManager, opts Options) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, employees: employees, recorder: recorder, clock: clock, tx: tx, opts: opts}
}

// SetAssignmentsInput は社員のアサイン一式を置き換える際の入力です。
// Assignments には望ましい最終状態を漏れなく渡します。
type SetAssignmentsInput struct {
	EmployeeID  string
	Assignments []AssignmentInput
}

// ListAssignmentsInput はアサイン取得時の入力です。
type ListAssignmentsInput struct {
	EmployeeID string
}

// Result はアサイン操作の結果です。
// SuggestedStatus はアサインが空と非空の間で遷移したときだけ設定される提案値で、社員の状態には反映されません。
type Result struct {
	EmployeeID      string
	Assignments     []*Assignment
	TotalAllocation int
	OverAllocated   bool
	SuggestedStatus *employee.Status
	CurrentStatus   employee.Status
}

// ListAssignments は社員の現在のアサインを返します。
func (s *Service) ListAssignments(ctx context.Context, in ListAssignmentsInput) (*Result, error) {
	employeeID, err := normalizeUUID(in.EmployeeID, ErrInvalidEmployeeID)
	if err != nil {
		return nil, err
	}

	var result *Result
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		emp, err := s.employees.FindByID(txCtx, employeeID)
		if err != nil {
			return err
		}
		current, err := s.repo.ListByEmployee(txCtx, employeeID)
		if err != nil {
			return err
		}
		result = newResult(emp, current, nil)
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// SetAssignments は既存のアサインをすべて削除してから新しい一式を挿入します (置き換え)。
// 配分率は 0..100 に丸められ、project_id が空の行は書き込み前に取り除かれます。
func (s *Service) SetAssignments(ctx context.Context, in SetAssignmentsInput) (*Result, error) {
	return s.apply(ctx, in, func(txCtx context.Context, employeeID string, previous []*Assignment, desired []AssignmentInput) (bool, error) {
		changed := !Diff(previous, desired).Empty()
		if err := s.repo.DeleteByEmployee(txCtx, employeeID); err != nil {
			return false, fmt.Errorf("allocation: delete assignments: %w", err)
		}
		if len(desired) == 0 {
			return changed, nil
		}
		if err := s.repo.Insert(txCtx, s.newAssignments(employeeID, desired)); err != nil {
			return false, fmt.Errorf("allocation: insert assignments: %w", err)
		}
		return changed, nil
	})
}

// ReconcileAssignments は SetAssignments と同じ最終状態を差分で書き込みます。
// 追加分の挿入、配分率の更新、外れたプロジェクトの削除だけを行い、同じ入力での再実行は何も変更しません。
func (s *Service) ReconcileAssignments(ctx context.Context, in SetAssignmentsInput) (*Result, error) {
	return s.apply(ctx, in, func(txCtx context.Context, employeeID string, previous []*Assignment, desired []AssignmentInput) (bool, error) {
		plan := Diff(previous, desired)
		if plan.Empty() {
			return false, nil
		}

		if len(plan.Insert) > 0 {
			if err := s.repo.Insert(txCtx, s.newAssignments(employeeID, plan.Insert)); err != nil {
				return false, fmt.Errorf("allocation: insert assignments: %w", err)
			}
		}
		for _, u := range plan.Update {
			if err := s.repo.UpdatePercentage(txCtx, u.ID, u.AllocationPercentage); err != nil {
				return false, fmt.Errorf("allocation: update assignment %s: %w", u.ID, err)
			}
		}
		if len(plan.Delete) > 0 {
			if err := s.repo.Delete(txCtx, plan.Delete); err != nil {
				return false, fmt.Errorf("allocation: delete assignments: %w", err)
			}
		}
		return true, nil
	})
}

// writeFunc はアサインを書き込み、保存内容が変わったかどうかを返します。
type writeFunc func(ctx context.Context, employeeID string, previous []*Assignment, desired []AssignmentInput) (bool, error)

func (s *Service) apply(ctx context.Context, in SetAssignmentsInput, write writeFunc) (*Result, error) {
	employeeID, err := normalizeUUID(in.EmployeeID, ErrInvalidEmployeeID)
	if err != nil {
		return nil, err
	}

	desired, err := Normalize(in.Assignments)
	if err != nil {
		return nil, err
	}

	if s.opts.EnforceTotalCap && totalOf(desired) > MaxPercentage {
		return nil, ErrOverAllocated
	}

	var result *Result
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		emp, err := s.employees.FindByID(txCtx, employeeID)
		if err != nil {
			return err
		}

		previous, err := s.repo.ListByEmployee(txCtx, employeeID)
		if err != nil {
			return err
		}

		changed, err := write(txCtx, employeeID, previous, desired)
		if err != nil {
			return err
		}

		// 変更のない再実行は履歴に残しません。
		if changed {
			if err := s.record(txCtx, employeeID, desired); err != nil {
				return err
			}
		}

		current, err := s.repo.ListByEmployee(txCtx, employeeID)
		if err != nil {
			return err
		}

		result = newResult(emp, current, SuggestStatus(len(previous), len(current)))
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

func (s *Service) newAssignments(employeeID string, rows []AssignmentInput) []*Assignment {
	now := s.clock.Now()
	assignments := make([]*Assignment, 0, len(rows))
	for _, row := range rows {
		assignments = append(assignments, &Assignment{
			EmployeeID:           employeeID,
			ProjectID:            row.ProjectID,
			AllocationPercentage: row.AllocationPercentage,
			CreatedAt:            now,
		})
	}
	return assignments
}

func (s *Service) record(ctx context.Context, employeeID string, desired []AssignmentInput) error {
	if s.recorder == nil {
		return nil
	}

	rows := make([]any, 0, len(desired))
	for _, d := range desired {
		rows = append(rows, map[string]any{
			"project_id":            d.ProjectID,
			"allocation_percentage": d.AllocationPercentage,
		})
	}

	return s.recorder.Record(ctx, history.RecordInput{
		TableName:  history.TableEmployeeProjects,
		RecordID:   employeeID,
		ChangeType: history.ChangeTypeReplace,
		Changes:    map[string]any{"assignments": rows},
	})
}

// Normalize は入力をコピーしたうえで、project_id が空の行を除き配分率を丸めます。入力スライスは変更しません。
func Normalize(rows []AssignmentInput) ([]AssignmentInput, error) {
	out := make([]AssignmentInput, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))

	for _, row := range rows {
		raw := strings.TrimSpace(row.ProjectID)
		if raw == "" {
			continue
		}

		projectID, err := normalizeUUID(raw, ErrInvalidProjectID)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[projectID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateProject, projectID)
		}
		seen[projectID] = struct{}{}

		out = append(out, AssignmentInput{
			ProjectID:            projectID,
			AllocationPercentage: Clamp(row.AllocationPercentage),
		})
	}

	return out, nil
}

// Plan は差分書き込みの内容です。
type Plan struct {
	Insert []AssignmentInput
	Update []*Assignment
	Delete []string
}

// Empty は書き込むべき差分がないかを返します。
func (p Plan) Empty() bool {
	return len(p.Insert) == 0 && len(p.Update) == 0 && len(p.Delete) == 0
}

// Diff は現在のアサインと望ましい状態から差分を計算します。desired は Normalize 済みである必要があります。
func Diff(previous []*Assignment, desired []AssignmentInput) Plan {
	existing := make(map[string]*Assignment, len(previous))
	for _, a := range previous {
		existing[a.ProjectID] = a
	}

	var plan Plan
	kept := make(map[string]struct{}, len(desired))
	for _, d := range desired {
		kept[d.ProjectID] = struct{}{}
		cur, ok := existing[d.ProjectID]
		if !ok {
			plan.Insert = append(plan.Insert, d)
			continue
		}
		if cur.AllocationPercentage != d.AllocationPercentage {
			updated := *cur
			updated.AllocationPercentage = d.AllocationPercentage
			plan.Update = append(plan.Update, &updated)
		}
	}

	for _, a := range previous {
		if _, ok := kept[a.ProjectID]; !ok {
			plan.Delete = append(plan.Delete, a.ID)
		}
	}

	return plan
}

func newResult(emp *employee.Employee, assignments []*Assignment, suggested *employee.Status) *Result {
	total := TotalPercentage(assignments)
	return &Result{
		EmployeeID:      emp.ID,
		Assignments:     assignments,
		TotalAllocation: total,
		OverAllocated:   total > MaxPercentage,
		SuggestedStatus: suggested,
		CurrentStatus:   emp.Status,
	}
}

func totalOf(rows []AssignmentInput) int {
	total := 0
	for _, r := range rows {
		total += r.AllocationPercentage
	}
	return total
}

func normalizeUUID(raw string, invalid error) (string, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", invalid
	}
	return parsed.String(), nil
}
