package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"mr3x-notificacoes/internal/domain"
	"mr3x-notificacoes/internal/repository"
)

type Service interface {
	Record(ctx context.Context, input domain.CreateAuditEventInput)
	ListByNotice(ctx context.Context, noticeID uuid.UUID) ([]domain.AuditEvent, error)
}

type service struct {
	auditRepo repository.AuditEventRepository
	log       *logrus.Entry
	now       func() time.Time
}

// NewService accepts a nil repository; events are then only logged.
func NewService(auditRepo repository.AuditEventRepository, log *logrus.Logger) Service {
	return &service{
		auditRepo: auditRepo,
		log:       log.WithField("component", "audit"),
		now:       time.Now,
	}
}

// Record never fails the caller. Store errors are logged and dropped.
func (s *service) Record(ctx context.Context, input domain.CreateAuditEventInput) {
	event := &domain.AuditEvent{
		ID:        uuid.New(),
		NoticeID:  input.NoticeID,
		Token:     input.Token,
		Type:      input.Type,
		IPAddress: input.IPAddress,
		Hash:      input.Hash,
		Detail:    input.Detail,
		CreatedAt: s.now().UTC(),
	}

	log := s.log.WithFields(logrus.Fields{
		"notice_id": event.NoticeID,
		"token":     event.Token,
		"event":     event.Type,
	})

	if s.auditRepo == nil {
		log.Info("audit event")
		return
	}

	if err := s.auditRepo.Create(ctx, event); err != nil {
		log.WithError(err).Warn("failed to store audit event")
	}
}

func (s *service) ListByNotice(ctx context.Context, noticeID uuid.UUID) ([]domain.AuditEvent, error) {
	if s.auditRepo == nil {
		return []domain.AuditEvent{}, nil
	}
	return s.auditRepo.ListByNotice(ctx, noticeID)
}
