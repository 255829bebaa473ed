package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInsufficientRole    = errors.New("insufficient role")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrTenantInactive      = errors.New("tenant is inactive")
	ErrUserInactive        = errors.New("user is inactive")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed        = errors.New("file upload to storage failed")
	ErrAnalysisNotFound    = errors.New("analysis not found")
	ErrAnalysisRunning     = errors.New("analysis is already running")
	ErrNoTransactions      = errors.New("analysis has no transactions")
	ErrNoResults           = errors.New("analysis has no results; run it first")
	ErrFileNotImportable   = errors.New("file is not in an importable state")
)
