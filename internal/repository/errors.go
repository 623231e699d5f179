// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation on a resource owned by
// someone else.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrBoardinghouseNotFound is returned when no boardinghouse has the id.
var ErrBoardinghouseNotFound = errors.New("boardinghouse not found")

// ErrRoomNotFound is returned when the boardinghouse exists but has no
// room with the id.
var ErrRoomNotFound = errors.New("room not found")

// ErrUserNotFound is returned when no credential exists for an email.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailExists is returned by registration when the email is taken.
var ErrEmailExists = errors.New("email already exists")

// ErrInvalidToken is returned for unknown, expired or revoked refresh tokens.
var ErrInvalidToken = errors.New("invalid refresh token")
