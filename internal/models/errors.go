package models

import "errors"

var (
	ErrNotFound = errors.New("not found")
	// ErrAuditDisabled is returned when no guard audit database is configured.
	ErrAuditDisabled = errors.New("guard audit log disabled")
)
