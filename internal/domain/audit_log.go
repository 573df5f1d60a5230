package domain

import (
	"time"

	"github.com/google/uuid"
)

type AuditEventType string

const (
	EventNoticeCreated  AuditEventType = "NOTICE_CREATED"
	EventNoticeAccepted AuditEventType = "NOTICE_ACCEPTED"
	EventEmailSent      AuditEventType = "EMAIL_SENT"
	EventEmailFailed    AuditEventType = "EMAIL_FAILED"
	EventDocumentStored AuditEventType = "DOCUMENT_STORED"
)

// AuditEvent is an append-only trace of what happened to a notice.
type AuditEvent struct {
	ID        uuid.UUID      `json:"id"`
	NoticeID  uuid.UUID      `json:"notice_id"`
	Token     string         `json:"token"`
	Type      AuditEventType `json:"type"`
	IPAddress *string        `json:"ip_address,omitempty"`
	Hash      *string        `json:"hash,omitempty"`
	Detail    string         `json:"detail,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

type CreateAuditEventInput struct {
	NoticeID  uuid.UUID
	Token     string
	Type      AuditEventType
	IPAddress *string
	Hash      *string
	Detail    string
}
