package store

import "errors"

// Administration-surface sentinel errors. Handlers map these onto HTTP
// statuses; the offending mutation is always aborted with prior state intact.
var (
	ErrDuplicateRole = errors.New("role already exists")
	ErrProtectedRole = errors.New("built-in role cannot be modified")
	ErrRoleInUse     = errors.New("role is still referenced by access rules")
)
