package secondary

import "errors"

// ErrNotFound is wrapped by repositories when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is wrapped by repositories when a unique constraint rejects a write.
var ErrDuplicate = errors.New("already exists")
