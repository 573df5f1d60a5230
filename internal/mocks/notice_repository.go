package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"mr3x-notificacoes/internal/domain"
	"mr3x-notificacoes/internal/repository"
)

type NoticeRepository struct {
	mock.Mock
}

func (m *NoticeRepository) Create(ctx context.Context, notice *domain.Notice) error {
	args := m.Called(ctx, notice)
	return args.Error(0)
}

func (m *NoticeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notice), args.Error(1)
}

func (m *NoticeRepository) GetByToken(ctx context.Context, token string) (*domain.Notice, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notice), args.Error(1)
}

func (m *NoticeRepository) GetByAcceptanceHash(ctx context.Context, hash string) (*domain.Notice, error) {
	args := m.Called(ctx, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notice), args.Error(1)
}

func (m *NoticeRepository) List(ctx context.Context, opts repository.ListOptions) ([]domain.Notice, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notice), args.Error(1)
}

func (m *NoticeRepository) MarkAccepted(ctx context.Context, id uuid.UUID, acceptance domain.Acceptance) (bool, error) {
	args := m.Called(ctx, id, acceptance)
	return args.Bool(0), args.Error(1)
}

func (m *NoticeRepository) UpdatePDFURL(ctx context.Context, id uuid.UUID, url string) error {
	args := m.Called(ctx, id, url)
	return args.Error(0)
}

func (m *NoticeRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
