package allocation

import "errors"

var (
	// ErrInvalidEmployeeID は社員 ID が不正な場合に返却されます。
	ErrInvalidEmployeeID = errors.New("allocation: invalid employee id")
	// ErrInvalidProjectID はプロジェクト ID が UUID として解釈できない場合に返却されます。
	ErrInvalidProjectID = errors.New("allocation: invalid project id")
	// ErrDuplicateProject は同じプロジェクトが 1 回の入力に複数回含まれる場合に返却されます。
	ErrDuplicateProject = errors.New("allocation: duplicate project in assignment set")
	// ErrOverAllocated は合計配分率の上限チェックが有効で 100 を超える場合に返却されます。
	ErrOverAllocated = errors.New("allocation: total allocation exceeds 100")
	// ErrUnknownReference は存在しない社員またはプロジェクトを参照した場合に返却されます。
	ErrUnknownReference = errors.New("allocation: referenced employee or project does not exist")
)
