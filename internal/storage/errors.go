package storage

import "errors"

var ErrNotFound = errors.New("resource not found")
var ErrConflict = errors.New("resource conflict (e.g., foreign key or state mismatch)")
var ErrDuplicate = errors.New("duplicate key")
var ErrUnavailable = errors.New("data store unavailable")
var ErrForbidden = errors.New("row access denied by policy")
