package model

import "errors"

// ErrNoRecord covers both an absent target and one the caller may not see,
// so existence of inaccessible resources is never leaked.
var ErrNoRecord = errors.New("no record")
var ErrAlreadyExists = errors.New("entity already exists")
var ErrPermissionDenied = errors.New("permission denied")
var ErrDefaultCalendar = errors.New("default calendar cannot be deleted")
var ErrValidation = errors.New("validation failed")
