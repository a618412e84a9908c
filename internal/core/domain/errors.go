package domain

import "errors"

// Error kinds surfaced by the persistence layer. Match them with errors.Is.
var (
	ErrMalformedRecord    = errors.New("malformed record")
	ErrNotFound           = errors.New("record not found")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrInvalidNamespace   = errors.New("invalid namespace")
	ErrInvalidName        = errors.New("invalid record name")
)
