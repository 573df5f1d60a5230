package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"mr3x-notificacoes/internal/domain"
)

type AuditEventRepository struct {
	mock.Mock
}

func (m *AuditEventRepository) Create(ctx context.Context, event *domain.AuditEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *AuditEventRepository) ListByNotice(ctx context.Context, noticeID uuid.UUID) ([]domain.AuditEvent, error) {
	args := m.Called(ctx, noticeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditEvent), args.Error(1)
}
