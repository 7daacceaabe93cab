package repository

import "errors"

// ErrNotFound is returned when a record with the requested id does not exist.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a unique key (such as a user's email) already exists.
var ErrDuplicate = errors.New("record already exists")

// ErrStatusConflict is returned by a conditional update when the record is no
// longer in the expected status.
var ErrStatusConflict = errors.New("record status changed")
