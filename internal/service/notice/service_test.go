package notice

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mr3x-notificacoes/internal/config"
	"mr3x-notificacoes/internal/domain"
	"mr3x-notificacoes/internal/mocks"
	"mr3x-notificacoes/internal/pkg/noticeutil"
	"mr3x-notificacoes/internal/repository"
	"mr3x-notificacoes/internal/service/email"
)

var fixedNow = time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)

type fixture struct {
	svc       *service
	repo      *mocks.NoticeRepository
	email     *mocks.EmailService
	audit     *mocks.AuditService
	dashboard *mocks.DashboardService
	resolver  *mocks.IPResolver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	f := &fixture{
		repo:      new(mocks.NoticeRepository),
		email:     new(mocks.EmailService),
		audit:     new(mocks.AuditService),
		dashboard: new(mocks.DashboardService),
		resolver:  new(mocks.IPResolver),
	}
	cfg := &config.Config{
		PublicBaseURL: "https://app.mr3x.com.br",
		AcceptRetries: 3,
		Timezone:      "UTC",
	}
	f.svc = NewService(f.repo, f.email, f.audit, f.dashboard, f.resolver, cfg, log).(*service)
	f.svc.now = func() time.Time { return fixedNow }
	f.svc.tokens = &noticeutil.Generator{Now: f.svc.now, Random: &counterReader{}}

	f.audit.On("Record", mock.Anything, mock.Anything).Return()
	f.dashboard.On("Invalidate", mock.Anything).Return()
	return f
}

// counterReader yields a deterministic, endless byte stream.
type counterReader struct{ n byte }

func (r *counterReader) Read(p []byte) (int, error) {
	for i := range p {
		r.n = r.n*31 + 7
		p[i] = r.n
	}
	return len(p), nil
}

func strPtr(s string) *string { return &s }

func validInput() domain.CreateNoticeInput {
	return domain.CreateNoticeInput{
		CreditorName:     "Imobiliária Central",
		CreditorDocument: "12345678000195",
		CreditorAddress:  "Rua A, 100",
		CreditorCity:     "São Paulo",
		CreditorState:    "SP",
		CreditorZip:      "01001000",
		DebtorName:       "Maria Souza",
		DebtorDocument:   "12345678901",
		DebtorAddress:    "Rua B, 200",
		DebtorCity:       "São Paulo",
		DebtorState:      "SP",
		DebtorZip:        "01002000",
		DebtorEmail:      strPtr("maria@example.com"),
		DebtAmount:       decimal.RequireFromString("1500.50"),
		DebtDescription:  "Aluguel de fevereiro",
		DueDate:          "2025-03-10",
		PropertyAddress:  "Rua C, 300",
	}
}

func TestNoticeService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t)
		var stored *domain.Notice
		f.repo.On("Create", ctx, mock.AnythingOfType("*domain.Notice")).
			Run(func(args mock.Arguments) { stored = args.Get(1).(*domain.Notice) }).
			Return(nil).Once()
		f.email.On("SendNoticeEmail", ctx, mock.MatchedBy(func(msg email.NoticeEmail) bool {
			return msg.DebtorEmail == "maria@example.com" &&
				msg.AccessURL == "https://app.mr3x.com.br/verify/"+stored.Token
		})).Return(nil).Once()

		result, err := f.svc.Create(ctx, validInput())
		require.NoError(t, err)

		n := result.Notice
		assert.True(t, result.EmailSent)
		assert.Regexp(t, `^MR3X-NEJ-2025-\d{6}$`, n.Token)
		assert.Equal(t, domain.NoticeStatusPending, n.Status)
		assert.False(t, n.Accepted)
		assert.True(t, n.DebtAmount.Equal(decimal.RequireFromString("1500.50")))
		assert.Equal(t, domain.DefaultPaymentDeadlineDays, n.PaymentDeadlineDays)
		assert.Equal(t, noticeutil.DefaultTerms(), n.TermsAndClauses)
		assert.Equal(t, "2025-03-10", n.DueDate.Format(domain.DateLayout))
		assert.Nil(t, n.CreatorIP)
		assert.Equal(t, domain.DerivedPending, n.DerivedStatus())

		f.repo.AssertExpectations(t)
		f.email.AssertExpectations(t)
		f.dashboard.AssertCalled(t, "Invalidate", ctx)
	})

	t.Run("State Stored Upper Case", func(t *testing.T) {
		f := newFixture(t)
		f.repo.On("Create", ctx, mock.Anything).Return(nil).Once()
		input := validInput()
		input.CreditorState = "rj"
		input.DebtorEmail = nil

		result, err := f.svc.Create(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, "RJ", result.Notice.CreditorState)
		assert.Equal(t, "SP", result.Notice.DebtorState)
	})

	t.Run("Validation Error", func(t *testing.T) {
		f := newFixture(t)
		input := validInput()
		input.DebtorName = ""
		input.DebtAmount = decimal.Zero

		result, err := f.svc.Create(ctx, input)

		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Nil(t, result)
		assert.Len(t, verr.Fields, 2)
		f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		f.resolver.AssertNotCalled(t, "Resolve", mock.Anything)
	})

	t.Run("Consent Stamps Creator", func(t *testing.T) {
		f := newFixture(t)
		input := validInput()
		input.DebtorEmail = nil
		input.Consent = &domain.ConsentInput{Accepted: true}

		f.resolver.On("Resolve", ctx).Return("203.0.113.9", nil).Once()
		f.repo.On("Create", ctx, mock.AnythingOfType("*domain.Notice")).Return(nil).Once()

		result, err := f.svc.Create(ctx, input)
		require.NoError(t, err)

		require.NotNil(t, result.Notice.CreatorIP)
		assert.Equal(t, "203.0.113.9", *result.Notice.CreatorIP)
		assert.Equal(t, noticeutil.CreatorHash("203.0.113.9", fixedNow), *result.Notice.CreatorHash)
		assert.False(t, result.EmailSent)
		f.email.AssertNotCalled(t, "SendNoticeEmail", mock.Anything, mock.Anything)
	})

	t.Run("IP Failure Aborts", func(t *testing.T) {
		f := newFixture(t)
		input := validInput()
		input.Consent = &domain.ConsentInput{Accepted: true}

		f.resolver.On("Resolve", ctx).Return("", errors.New("timeout")).Once()

		result, err := f.svc.Create(ctx, input)
		assert.ErrorIs(t, err, domain.ErrIPLookupFailed)
		assert.Nil(t, result)
		f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Token Collision Retries", func(t *testing.T) {
		f := newFixture(t)
		input := validInput()
		input.DebtorEmail = nil

		var tokens []string
		record := func(args mock.Arguments) { tokens = append(tokens, args.Get(1).(*domain.Notice).Token) }
		f.repo.On("Create", ctx, mock.Anything).Run(record).Return(domain.ErrTokenConflict).Twice()
		f.repo.On("Create", ctx, mock.Anything).Run(record).Return(nil).Once()

		result, err := f.svc.Create(ctx, input)
		require.NoError(t, err)
		require.Len(t, tokens, 3)
		assert.Equal(t, tokens[2], result.Notice.Token)
		f.repo.AssertExpectations(t)
	})

	t.Run("Token Collision Exhausted", func(t *testing.T) {
		f := newFixture(t)
		f.repo.On("Create", ctx, mock.Anything).Return(domain.ErrTokenConflict).Times(maxTokenAttempts)

		_, err := f.svc.Create(ctx, validInput())
		assert.ErrorIs(t, err, domain.ErrTokenConflict)
		f.repo.AssertExpectations(t)
	})

	t.Run("Store Error", func(t *testing.T) {
		f := newFixture(t)
		f.repo.On("Create", ctx, mock.Anything).Return(errors.New("connection refused")).Once()

		result, err := f.svc.Create(ctx, validInput())
		assert.ErrorContains(t, err, "connection refused")
		assert.Nil(t, result)
		f.email.AssertNotCalled(t, "SendNoticeEmail", mock.Anything, mock.Anything)
	})

	t.Run("Email Not Configured", func(t *testing.T) {
		f := newFixture(t)
		log := logrus.New()
		log.SetOutput(io.Discard)
		f.svc.email = email.NewService(&config.Config{ResendAPIKey: ""}, log)
		f.repo.On("Create", ctx, mock.Anything).Return(nil).Once()

		result, err := f.svc.Create(ctx, validInput())
		require.NoError(t, err)
		assert.False(t, result.EmailSent)
		assert.Equal(t, email.ErrNotConfigured.Error(), result.EmailError)
		f.audit.AssertNotCalled(t, "Record", ctx, mock.MatchedBy(func(in domain.CreateAuditEventInput) bool {
			return in.Type == domain.EventEmailSent
		}))
		f.audit.AssertCalled(t, "Record", ctx, mock.MatchedBy(func(in domain.CreateAuditEventInput) bool {
			return in.Type == domain.EventNoticeCreated
		}))
	})

	t.Run("Email Failure Keeps Notice", func(t *testing.T) {
		f := newFixture(t)
		f.repo.On("Create", ctx, mock.Anything).Return(nil).Once()
		f.email.On("SendNoticeEmail", ctx, mock.Anything).Return(errors.New("resend down")).Once()

		result, err := f.svc.Create(ctx, validInput())
		require.NoError(t, err)
		assert.NotNil(t, result.Notice)
		assert.False(t, result.EmailSent)
		assert.Contains(t, result.EmailError, "resend down")
		f.audit.AssertCalled(t, "Record", ctx, mock.MatchedBy(func(in domain.CreateAuditEventInput) bool {
			return in.Type == domain.EventEmailFailed
		}))
	})
}

func pendingNotice() *domain.Notice {
	return &domain.Notice{
		ID:         uuid.New(),
		Token:      "MR3X-NEJ-2025-123456",
		Status:     domain.NoticeStatusPending,
		DebtAmount: decimal.RequireFromString("1500.50"),
	}
}

func TestNoticeService_Accept(t *testing.T) {
	ctx := context.Background()

	t.Run("Success Then Second Accept Rejected", func(t *testing.T) {
		f := newFixture(t)
		n := pendingNotice()
		expectedHash := noticeutil.AcceptanceHash(n.Token, fixedNow, n.ID)

		f.repo.On("GetByID", ctx, n.ID).Return(n, nil)
		f.resolver.On("Resolve", ctx).Return("198.51.100.4", nil).Once()
		f.repo.On("MarkAccepted", ctx, n.ID, domain.Acceptance{At: fixedNow, IP: "198.51.100.4", Hash: expectedHash}).
			Return(true, nil).Once()

		accepted, err := f.svc.Accept(ctx, n.ID)
		require.NoError(t, err)
		assert.True(t, accepted.Accepted)
		assert.Equal(t, fixedNow, *accepted.AcceptedAt)
		assert.Equal(t, "198.51.100.4", *accepted.AcceptanceIP)
		assert.Equal(t, expectedHash, *accepted.AcceptanceHash)
		assert.Len(t, *accepted.AcceptanceHash, 64)
		assert.Equal(t, domain.DerivedAccepted, accepted.DerivedStatus())

		_, err = f.svc.Accept(ctx, n.ID)
		assert.ErrorIs(t, err, domain.ErrAlreadyAccepted)
		f.repo.AssertNumberOfCalls(t, "MarkAccepted", 1)
	})

	t.Run("Not Found", func(t *testing.T) {
		f := newFixture(t)
		id := uuid.New()
		f.repo.On("GetByID", ctx, id).Return(nil, nil).Once()

		_, err := f.svc.Accept(ctx, id)
		assert.ErrorIs(t, err, domain.ErrNoticeNotFound)
	})

	t.Run("Lost Race", func(t *testing.T) {
		f := newFixture(t)
		n := pendingNotice()
		winner := *n
		winner.Accepted = true
		winner.AcceptanceHash = strPtr(strings.Repeat("a", 64))
		f.repo.On("GetByID", ctx, n.ID).Return(n, nil).Once()
		f.repo.On("GetByID", ctx, n.ID).Return(&winner, nil).Once()
		f.resolver.On("Resolve", ctx).Return("198.51.100.4", nil).Once()
		f.repo.On("MarkAccepted", ctx, n.ID, mock.Anything).Return(false, nil).Once()

		_, err := f.svc.Accept(ctx, n.ID)
		assert.ErrorIs(t, err, domain.ErrAlreadyAccepted)
		assert.False(t, n.Accepted)
	})

	t.Run("Retries Whole Step", func(t *testing.T) {
		f := newFixture(t)
		n := pendingNotice()
		f.repo.On("GetByID", ctx, n.ID).Return(n, nil).Once()
		f.resolver.On("Resolve", ctx).Return("198.51.100.4", nil).Once()
		f.resolver.On("Resolve", ctx).Return("198.51.100.5", nil).Once()
		f.repo.On("MarkAccepted", ctx, n.ID, mock.MatchedBy(func(a domain.Acceptance) bool {
			return a.IP == "198.51.100.4"
		})).Return(false, errors.New("deadlock")).Once()
		f.repo.On("MarkAccepted", ctx, n.ID, mock.MatchedBy(func(a domain.Acceptance) bool {
			return a.IP == "198.51.100.5"
		})).Return(true, nil).Once()

		accepted, err := f.svc.Accept(ctx, n.ID)
		require.NoError(t, err)
		assert.Equal(t, "198.51.100.5", *accepted.AcceptanceIP)
		f.resolver.AssertNumberOfCalls(t, "Resolve", 2)
	})

	t.Run("Retries Exhausted", func(t *testing.T) {
		f := newFixture(t)
		n := pendingNotice()
		f.repo.On("GetByID", ctx, n.ID).Return(n, nil).Twice()
		f.resolver.On("Resolve", ctx).Return("198.51.100.4", nil)
		f.repo.On("MarkAccepted", ctx, n.ID, mock.Anything).Return(false, errors.New("deadlock")).Times(3)

		_, err := f.svc.Accept(ctx, n.ID)
		assert.ErrorContains(t, err, "deadlock")
		assert.False(t, n.Accepted)
		f.repo.AssertExpectations(t)
	})

	t.Run("Ignored Is Terminal", func(t *testing.T) {
		f := newFixture(t)
		n := pendingNotice()
		n.Status = domain.NoticeStatusIgnored
		f.repo.On("GetByID", ctx, n.ID).Return(n, nil).Once()

		_, err := f.svc.Accept(ctx, n.ID)
		assert.ErrorIs(t, err, domain.ErrNoticeIgnored)
		assert.Equal(t, domain.DerivedIgnored, n.DerivedStatus())
		f.repo.AssertNotCalled(t, "MarkAccepted", mock.Anything, mock.Anything, mock.Anything)
		f.resolver.AssertNotCalled(t, "Resolve", mock.Anything)
	})

	t.Run("Ignored Before Write Lands", func(t *testing.T) {
		f := newFixture(t)
		n := pendingNotice()
		ignored := *n
		ignored.Status = domain.NoticeStatusIgnored
		f.repo.On("GetByID", ctx, n.ID).Return(n, nil).Once()
		f.repo.On("GetByID", ctx, n.ID).Return(&ignored, nil).Once()
		f.resolver.On("Resolve", ctx).Return("198.51.100.4", nil).Once()
		f.repo.On("MarkAccepted", ctx, n.ID, mock.Anything).Return(false, nil).Once()

		_, err := f.svc.Accept(ctx, n.ID)
		assert.ErrorIs(t, err, domain.ErrNoticeIgnored)
	})

	t.Run("Committed Write Reported As Error Is Recovered", func(t *testing.T) {
		f := newFixture(t)
		n := pendingNotice()
		ownHash := noticeutil.AcceptanceHash(n.Token, fixedNow, n.ID)
		stored := *n
		stored.Accepted = true
		stored.AcceptedAt = &fixedNow
		stored.AcceptanceIP = strPtr("198.51.100.4")
		stored.AcceptanceHash = &ownHash

		f.repo.On("GetByID", ctx, n.ID).Return(n, nil).Once()
		f.repo.On("GetByID", ctx, n.ID).Return(&stored, nil).Once()
		f.resolver.On("Resolve", ctx).Return("198.51.100.4", nil).Twice()
		f.repo.On("MarkAccepted", ctx, n.ID, mock.Anything).Return(false, errors.New("connection reset")).Once()
		f.repo.On("MarkAccepted", ctx, n.ID, mock.Anything).Return(false, nil).Once()

		accepted, err := f.svc.Accept(ctx, n.ID)
		require.NoError(t, err)
		assert.True(t, accepted.Accepted)
		assert.Equal(t, ownHash, *accepted.AcceptanceHash)
		f.audit.AssertCalled(t, "Record", ctx, mock.MatchedBy(func(in domain.CreateAuditEventInput) bool {
			return in.Type == domain.EventNoticeAccepted && *in.Hash == ownHash
		}))
		f.repo.AssertExpectations(t)
	})

	t.Run("IP Failure Writes Nothing", func(t *testing.T) {
		f := newFixture(t)
		n := pendingNotice()
		f.repo.On("GetByID", ctx, n.ID).Return(n, nil).Once()
		f.resolver.On("Resolve", ctx).Return("", domain.ErrIPLookupFailed).Once()

		_, err := f.svc.Accept(ctx, n.ID)
		assert.ErrorIs(t, err, domain.ErrIPLookupFailed)
		f.repo.AssertNotCalled(t, "MarkAccepted", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestNoticeService_Lookup(t *testing.T) {
	ctx := context.Background()

	t.Run("Lowercase Token", func(t *testing.T) {
		f := newFixture(t)
		n := pendingNotice()
		f.repo.On("GetByToken", ctx, "MR3X-NEJ-2025-123456").Return(n, nil).Once()

		found, err := f.svc.GetByToken(ctx, "  mr3x-nej-2025-123456 ")
		require.NoError(t, err)
		assert.Equal(t, n.ID, found.ID)
	})

	t.Run("Uppercase Hash", func(t *testing.T) {
		f := newFixture(t)
		n := pendingNotice()
		n.Accepted = true
		hash := noticeutil.GenerateHash("x")
		n.AcceptanceHash = &hash
		f.repo.On("GetByAcceptanceHash", ctx, hash).Return(n, nil).Once()

		found, err := f.svc.Verify(ctx, "", " "+strings.ToUpper(hash))
		require.NoError(t, err)
		assert.Equal(t, n.ID, found.ID)
	})

	t.Run("Token Wins", func(t *testing.T) {
		f := newFixture(t)
		n := pendingNotice()
		f.repo.On("GetByToken", ctx, n.Token).Return(n, nil).Once()

		_, err := f.svc.Verify(ctx, n.Token, "abc")
		require.NoError(t, err)
		f.repo.AssertNotCalled(t, "GetByAcceptanceHash", mock.Anything, mock.Anything)
	})

	t.Run("Nothing Given", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Verify(ctx, " ", "")
		assert.ErrorIs(t, err, domain.ErrSearchTermRequired)
	})

	t.Run("Unknown Token", func(t *testing.T) {
		f := newFixture(t)
		f.repo.On("GetByToken", ctx, "MR3X-NEJ-2025-000000").Return(nil, nil).Once()

		_, err := f.svc.GetByToken(ctx, "MR3X-NEJ-2025-000000")
		assert.ErrorIs(t, err, domain.ErrNoticeNotFound)
	})
}

func TestNoticeService_PublicView(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	n := pendingNotice()
	n.CreditorName = "Imobiliária Central"
	n.DebtorName = "Maria Souza"
	f.repo.On("GetByToken", ctx, n.Token).Return(n, nil)

	view, err := f.svc.PublicView(ctx, n.Token)
	require.NoError(t, err)
	assert.True(t, view.Locked)
	assert.Nil(t, view.Notice)
	assert.Equal(t, "Maria Souza", view.DebtorName)
	assert.Equal(t, "https://app.mr3x.com.br/verify/MR3X-NEJ-2025-123456", view.VerifyURL)

	_, err = f.svc.GetAcceptedByToken(ctx, n.Token)
	assert.ErrorIs(t, err, domain.ErrAcceptanceRequired)

	n.Accepted = true
	view, err = f.svc.PublicView(ctx, n.Token)
	require.NoError(t, err)
	assert.False(t, view.Locked)
	assert.Equal(t, n, view.Notice)
}

func TestNoticeService_List(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	accepted := *pendingNotice()
	accepted.Accepted = true
	accepted.DebtorName = "João Lima"
	pending := *pendingNotice()
	pending.DebtorName = "Maria Souza"
	ignored := *pendingNotice()
	ignored.Status = domain.NoticeStatusIgnored
	ignored.DebtorName = "Maria Alves"

	f.repo.On("List", ctx, repository.ListOptions{}).Return([]domain.Notice{accepted, pending, ignored}, nil)

	page, err := f.svc.List(ctx, domain.NoticeListFilter{Query: "maria"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalItems)

	page, err = f.svc.List(ctx, domain.NoticeListFilter{Query: "maria", Status: "pending"})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Maria Souza", page.Data[0].DebtorName)

	_, err = f.svc.List(ctx, domain.NoticeListFilter{Status: "archived"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatusFilter)
}
