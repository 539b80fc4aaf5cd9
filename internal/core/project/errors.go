package project

import "errors"

var (
	ErrInvalidID         = errors.New("project: invalid id")
	ErrInvalidName       = errors.New("project: invalid name")
	ErrInvalidCode       = errors.New("project: invalid code")
	ErrInvalidStatus     = errors.New("project: invalid status")
	ErrInvalidAllocation = errors.New("project: allocation must be between 0 and 100")
	ErrInvalidPageSize   = errors.New("project: invalid page size")
	ErrInvalidPageToken  = errors.New("project: invalid page token")
	ErrEmptyPatch        = errors.New("project: no fields to update")
	ErrProjectNotFound   = errors.New("project: not found")
	ErrCodeAlreadyExists = errors.New("project: code already exists")
)
