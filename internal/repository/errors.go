// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation on a resource owned by
// someone else, while ErrConflict signals that an operation
// cannot proceed due to conflicting state.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation reserved
// for someone else, such as editing another author's guide or a
// non-instructor publishing one. Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an update or delete cannot be performed
// because of conflicting state. Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")
