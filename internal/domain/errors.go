package domain

import "errors"

var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmployeeInactive   = errors.New("employee is inactive")
	ErrUnknownScreen      = errors.New("unknown screen")
	ErrScreenNotMounted   = errors.New("screen is not mounted for this session")
	ErrUnknownSlot        = errors.New("unknown document slot")
	ErrInvalidFormat      = errors.New("invalid export format")
	ErrFileTooLarge       = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed       = errors.New("file upload to storage failed")
)
