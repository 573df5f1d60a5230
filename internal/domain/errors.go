package domain

import (
	"errors"
	"strings"
)

var (
	ErrNoticeNotFound      = errors.New("notice not found")
	ErrAlreadyAccepted     = errors.New("notice already accepted")
	ErrNoticeIgnored       = errors.New("notice was ignored and can no longer be accepted")
	ErrAcceptanceRequired  = errors.New("notice must be accepted before it can be viewed")
	ErrTokenConflict       = errors.New("notice token already exists")
	ErrIPLookupFailed      = errors.New("could not determine public IP address")
	ErrSearchTermRequired  = errors.New("token or hash is required")
	ErrInvalidCEP          = errors.New("CEP must contain 8 digits")
	ErrCEPNotFound         = errors.New("CEP not found")
	ErrPostalUnavailable   = errors.New("postal lookup service unavailable")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidExportFormat = errors.New("export format must be csv, xlsx or pdf")
	ErrInvalidStatusFilter = errors.New("status must be all, accepted, pending or ignored")
	ErrStorageUnavailable  = errors.New("document storage is not configured")
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
