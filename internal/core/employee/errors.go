package employee

import "errors"

var (
	ErrInvalidID        = errors.New("employee: invalid id")
	ErrInvalidName      = errors.New("employee: invalid name")
	ErrInvalidRole      = errors.New("employee: invalid role")
	ErrInvalidStatus    = errors.New("employee: invalid status")
	ErrInvalidPageSize  = errors.New("employee: invalid page size")
	ErrInvalidPageToken = errors.New("employee: invalid page token")
	ErrEmptyPatch       = errors.New("employee: no fields to update")
	ErrEmployeeNotFound = errors.New("employee: not found")
)
