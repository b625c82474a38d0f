package services

import "errors"

// Sentinel errors that handlers translate into HTTP status codes.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email is already in use")
	ErrTestsIncomplete    = errors.New("not all tests are completed")
	ErrAlreadyCompleted   = errors.New("submission is already completed")
	ErrAnalysisCorrupted  = errors.New("analysis result is incomplete")
)
