package role

import "errors"

var (
	ErrInvalidName       = errors.New("role: invalid name")
	ErrInvalidType       = errors.New("role: type must be coordinator or regular")
	ErrNameAlreadyExists = errors.New("role: name already exists")
	ErrRoleNotFound      = errors.New("role: not found")
)
