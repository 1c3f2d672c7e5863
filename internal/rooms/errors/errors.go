package errors

import "errors"

var (
	ErrRoomNotFound = errors.New("room not found")

	ErrStudioNotFound = errors.New("studio not found")

	ErrInvalidID = errors.New("invalid room ID format")

	ErrNoImportURL = errors.New("room has no calendar import configured")
)
