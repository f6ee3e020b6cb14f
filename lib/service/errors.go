package service

import "errors"

var (
	ErrDuplicateIdentifier = errors.New("invoice id already exists")
	ErrNotFound            = errors.New("invoice not found")
	ErrAccessDenied        = errors.New("Access denied")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidTransition   = errors.New("invalid invoice state transition")
	ErrNotInitialized      = errors.New("router is not initialized")
	ErrChainIDMismatch     = errors.New("stored chain id does not match configuration")
)
