package handler_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"mr3x-notificacoes/internal/domain"
	"mr3x-notificacoes/internal/service/notice"
	"mr3x-notificacoes/internal/service/report"
)

type mockNoticeService struct {
	mock.Mock
}

func (m *mockNoticeService) Create(ctx context.Context, input domain.CreateNoticeInput) (*notice.CreateResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notice.CreateResult), args.Error(1)
}

func (m *mockNoticeService) Accept(ctx context.Context, id uuid.UUID) (*domain.Notice, error) {
	args := m.Called(ctx, id)
	return noticeResult(args)
}

func (m *mockNoticeService) AcceptByToken(ctx context.Context, token string) (*domain.Notice, error) {
	args := m.Called(ctx, token)
	return noticeResult(args)
}

func (m *mockNoticeService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notice, error) {
	args := m.Called(ctx, id)
	return noticeResult(args)
}

func (m *mockNoticeService) GetByToken(ctx context.Context, token string) (*domain.Notice, error) {
	args := m.Called(ctx, token)
	return noticeResult(args)
}

func (m *mockNoticeService) GetAcceptedByToken(ctx context.Context, token string) (*domain.Notice, error) {
	args := m.Called(ctx, token)
	return noticeResult(args)
}

func (m *mockNoticeService) FindByAcceptanceHash(ctx context.Context, hash string) (*domain.Notice, error) {
	args := m.Called(ctx, hash)
	return noticeResult(args)
}

func (m *mockNoticeService) Verify(ctx context.Context, token, hash string) (*domain.Notice, error) {
	args := m.Called(ctx, token, hash)
	return noticeResult(args)
}

func (m *mockNoticeService) List(ctx context.Context, filter domain.NoticeListFilter) (domain.PaginatedResponse[domain.Notice], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(domain.PaginatedResponse[domain.Notice]), args.Error(1)
}

func (m *mockNoticeService) PublicView(ctx context.Context, token string) (*domain.PublicNotice, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PublicNotice), args.Error(1)
}

func noticeResult(args mock.Arguments) (*domain.Notice, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notice), args.Error(1)
}

type mockDocumentService struct {
	mock.Mock
}

func (m *mockDocumentService) Render(n *domain.Notice) ([]byte, error) {
	args := m.Called(n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockDocumentService) Store(ctx context.Context, n *domain.Notice) (string, error) {
	args := m.Called(ctx, n)
	return args.String(0), args.Error(1)
}

func (m *mockDocumentService) QRCodePNG(n *domain.Notice, size int) ([]byte, error) {
	args := m.Called(n, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockDocumentService) FileName(n *domain.Notice) string {
	return m.Called(n).String(0)
}

type mockReportService struct {
	mock.Mock
}

func (m *mockReportService) Export(ctx context.Context, format report.Format, filter report.ExportFilter) (*report.Artifact, error) {
	args := m.Called(ctx, format, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.Artifact), args.Error(1)
}

type mockPostalService struct {
	mock.Mock
}

func (m *mockPostalService) Lookup(ctx context.Context, cep string) (*domain.Address, error) {
	args := m.Called(ctx, cep)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Address), args.Error(1)
}
