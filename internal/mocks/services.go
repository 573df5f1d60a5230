package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"mr3x-notificacoes/internal/domain"
	"mr3x-notificacoes/internal/service/dashboard"
	"mr3x-notificacoes/internal/service/email"
)

type EmailService struct {
	mock.Mock
}

func (m *EmailService) SendNoticeEmail(ctx context.Context, msg email.NoticeEmail) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

type AuditService struct {
	mock.Mock
}

func (m *AuditService) Record(ctx context.Context, input domain.CreateAuditEventInput) {
	m.Called(ctx, input)
}

func (m *AuditService) ListByNotice(ctx context.Context, noticeID uuid.UUID) ([]domain.AuditEvent, error) {
	args := m.Called(ctx, noticeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditEvent), args.Error(1)
}

type DashboardService struct {
	mock.Mock
}

func (m *DashboardService) GetStats(ctx context.Context) (*dashboard.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dashboard.Stats), args.Error(1)
}

func (m *DashboardService) Invalidate(ctx context.Context) {
	m.Called(ctx)
}

type IPResolver struct {
	mock.Mock
}

func (m *IPResolver) Resolve(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}
