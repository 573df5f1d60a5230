package notice

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"mr3x-notificacoes/internal/config"
	"mr3x-notificacoes/internal/domain"
	"mr3x-notificacoes/internal/pkg/noticeutil"
	"mr3x-notificacoes/internal/repository"
	"mr3x-notificacoes/internal/service/audit"
	"mr3x-notificacoes/internal/service/dashboard"
	"mr3x-notificacoes/internal/service/email"
	"mr3x-notificacoes/internal/service/ipaddr"
)

const maxTokenAttempts = 5

// CreateResult reports the new notice and whether the debtor was emailed.
// A failed email never undoes the creation.
type CreateResult struct {
	Notice     *domain.Notice `json:"notice"`
	EmailSent  bool           `json:"email_sent"`
	EmailError string         `json:"email_error,omitempty"`
}

type Service interface {
	Create(ctx context.Context, input domain.CreateNoticeInput) (*CreateResult, error)
	Accept(ctx context.Context, id uuid.UUID) (*domain.Notice, error)
	AcceptByToken(ctx context.Context, token string) (*domain.Notice, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Notice, error)
	GetByToken(ctx context.Context, token string) (*domain.Notice, error)
	GetAcceptedByToken(ctx context.Context, token string) (*domain.Notice, error)
	FindByAcceptanceHash(ctx context.Context, hash string) (*domain.Notice, error)
	Verify(ctx context.Context, token, hash string) (*domain.Notice, error)
	List(ctx context.Context, filter domain.NoticeListFilter) (domain.PaginatedResponse[domain.Notice], error)
	PublicView(ctx context.Context, token string) (*domain.PublicNotice, error)
}

type service struct {
	noticeRepo repository.NoticeRepository
	email      email.Service
	audit      audit.Service
	dashboard  dashboard.Service
	resolver   ipaddr.Resolver
	tokens     *noticeutil.Generator
	cfg        *config.Config
	now        func() time.Time
	log        *logrus.Entry
}

func NewService(
	noticeRepo repository.NoticeRepository,
	emailService email.Service,
	auditService audit.Service,
	dashboardService dashboard.Service,
	resolver ipaddr.Resolver,
	cfg *config.Config,
	log *logrus.Logger,
) Service {
	return &service{
		noticeRepo: noticeRepo,
		email:      emailService,
		audit:      auditService,
		dashboard:  dashboardService,
		resolver:   resolver,
		tokens:     noticeutil.NewGenerator(),
		cfg:        cfg,
		now:        time.Now,
		log:        log.WithField("component", "notice"),
	}
}

func (s *service) Create(ctx context.Context, input domain.CreateNoticeInput) (*CreateResult, error) {
	dueDate, err := input.Validate(s.cfg.Location())
	if err != nil {
		return nil, err
	}

	notice := newNotice(input, dueDate)

	if input.Consent != nil && input.Consent.Accepted {
		ip, err := s.resolveIP(ctx)
		if err != nil {
			return nil, err
		}
		hash := noticeutil.CreatorHash(ip, s.now())
		notice.CreatorIP = &ip
		notice.CreatorHash = &hash
	}

	if err := s.insert(ctx, notice); err != nil {
		return nil, err
	}

	log := s.log.WithFields(logrus.Fields{"notice_id": notice.ID, "token": notice.Token})
	log.Info("notice created")

	s.dashboard.Invalidate(ctx)
	s.audit.Record(ctx, domain.CreateAuditEventInput{
		NoticeID:  notice.ID,
		Token:     notice.Token,
		Type:      domain.EventNoticeCreated,
		IPAddress: notice.CreatorIP,
		Hash:      notice.CreatorHash,
	})

	result := &CreateResult{Notice: notice}
	if notice.DebtorEmail == nil || strings.TrimSpace(*notice.DebtorEmail) == "" {
		return result, nil
	}

	err = s.email.SendNoticeEmail(ctx, email.NoticeEmail{
		DebtorEmail:     strings.TrimSpace(*notice.DebtorEmail),
		DebtorName:      notice.DebtorName,
		CreditorName:    notice.CreditorName,
		Token:           notice.Token,
		DebtAmount:      notice.DebtAmount,
		DueDate:         notice.DueDate,
		DebtDescription: notice.DebtDescription,
		AccessURL:       noticeutil.VerifyURL(s.cfg.PublicBaseURL, notice.Token),
	})
	if errors.Is(err, email.ErrNotConfigured) {
		log.Info("email delivery not configured, debtor not emailed")
		result.EmailError = err.Error()
		return result, nil
	}
	if err != nil {
		log.WithError(err).Warn("notice created but email failed")
		result.EmailError = err.Error()
		s.audit.Record(ctx, domain.CreateAuditEventInput{
			NoticeID: notice.ID,
			Token:    notice.Token,
			Type:     domain.EventEmailFailed,
			Detail:   err.Error(),
		})
		return result, nil
	}

	result.EmailSent = true
	s.audit.Record(ctx, domain.CreateAuditEventInput{
		NoticeID: notice.ID,
		Token:    notice.Token,
		Type:     domain.EventEmailSent,
		Detail:   *notice.DebtorEmail,
	})
	return result, nil
}

func newNotice(input domain.CreateNoticeInput, dueDate time.Time) *domain.Notice {
	deadline := domain.DefaultPaymentDeadlineDays
	if input.PaymentDeadlineDays != nil {
		deadline = *input.PaymentDeadlineDays
	}
	terms := strings.TrimSpace(input.TermsAndClauses)
	if terms == "" {
		terms = noticeutil.DefaultTerms()
	}

	return &domain.Notice{
		Status:   domain.NoticeStatusPending,
		Accepted: false,

		CreditorName:       strings.TrimSpace(input.CreditorName),
		CreditorDocument:   strings.TrimSpace(input.CreditorDocument),
		CreditorAddress:    strings.TrimSpace(input.CreditorAddress),
		CreditorCity:       strings.TrimSpace(input.CreditorCity),
		CreditorState:      strings.ToUpper(strings.TrimSpace(input.CreditorState)),
		CreditorZip:        strings.TrimSpace(input.CreditorZip),
		CreditorComplement: input.CreditorComplement,
		CreditorEmail:      input.CreditorEmail,
		CreditorPhone:      input.CreditorPhone,

		DebtorName:       strings.TrimSpace(input.DebtorName),
		DebtorDocument:   strings.TrimSpace(input.DebtorDocument),
		DebtorAddress:    strings.TrimSpace(input.DebtorAddress),
		DebtorCity:       strings.TrimSpace(input.DebtorCity),
		DebtorState:      strings.ToUpper(strings.TrimSpace(input.DebtorState)),
		DebtorZip:        strings.TrimSpace(input.DebtorZip),
		DebtorComplement: input.DebtorComplement,
		DebtorEmail:      input.DebtorEmail,
		DebtorPhone:      input.DebtorPhone,

		DebtAmount:          input.DebtAmount,
		DebtDescription:     strings.TrimSpace(input.DebtDescription),
		DueDate:             dueDate,
		PropertyAddress:     strings.TrimSpace(input.PropertyAddress),
		PaymentDeadlineDays: deadline,
		TermsAndClauses:     terms,
	}
}

// insert draws a fresh token for every attempt; the store's unique
// constraint decides whether a token is free.
func (s *service) insert(ctx context.Context, notice *domain.Notice) error {
	for attempt := 1; attempt <= maxTokenAttempts; attempt++ {
		token, err := s.tokens.Token()
		if err != nil {
			return err
		}
		notice.ID = uuid.New()
		notice.Token = token

		err = s.noticeRepo.Create(ctx, notice)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrTokenConflict) {
			return fmt.Errorf("failed to create notice: %w", err)
		}
		s.log.WithFields(logrus.Fields{"token": token, "attempt": attempt}).Warn("token collision, regenerating")
	}
	return domain.ErrTokenConflict
}

func (s *service) resolveIP(ctx context.Context) (string, error) {
	ip, err := s.resolver.Resolve(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrIPLookupFailed) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", domain.ErrIPLookupFailed, err)
	}
	return ip, nil
}

func (s *service) Accept(ctx context.Context, id uuid.UUID) (*domain.Notice, error) {
	notice, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.accept(ctx, notice)
}

func (s *service) AcceptByToken(ctx context.Context, token string) (*domain.Notice, error) {
	notice, err := s.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.accept(ctx, notice)
}

// accept treats resolving the IP, stamping the time, hashing and the
// conditional write as one unit. A failed write reruns the whole unit so
// the stored IP, timestamp and hash always come from the same attempt.
// Accepted and ignored notices are terminal.
func (s *service) accept(ctx context.Context, notice *domain.Notice) (*domain.Notice, error) {
	if notice.IsAccepted() {
		return nil, domain.ErrAlreadyAccepted
	}
	if notice.IsIgnored() {
		return nil, domain.ErrNoticeIgnored
	}

	attempts := s.cfg.AcceptRetries
	if attempts < 1 {
		attempts = 1
	}

	log := s.log.WithFields(logrus.Fields{"notice_id": notice.ID, "token": notice.Token})

	var (
		lastErr error
		// hashes of writes that failed without a known outcome
		unknown []string
	)
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ip, err := s.resolveIP(ctx)
		if err != nil {
			return nil, err
		}

		acceptance := domain.Acceptance{At: s.now().UTC()}
		acceptance.IP = ip
		acceptance.Hash = noticeutil.AcceptanceHash(notice.Token, acceptance.At, notice.ID)

		won, err := s.noticeRepo.MarkAccepted(ctx, notice.ID, acceptance)
		if err != nil {
			lastErr = err
			unknown = append(unknown, acceptance.Hash)
			log.WithError(err).WithField("attempt", attempt).Warn("accept write failed, retrying")
			continue
		}
		if !won {
			current, err := s.reloadAfterLostWrite(ctx, notice.ID, unknown)
			if err != nil {
				return nil, err
			}
			return s.accepted(ctx, current, log), nil
		}

		notice.Accepted = true
		notice.AcceptedAt = &acceptance.At
		notice.AcceptanceIP = &acceptance.IP
		notice.AcceptanceHash = &acceptance.Hash
		return s.accepted(ctx, notice, log), nil
	}

	// the last failed write may still have committed
	if current, err := s.reloadAfterLostWrite(ctx, notice.ID, unknown); err == nil {
		return s.accepted(ctx, current, log), nil
	}

	return nil, fmt.Errorf("failed to accept notice: %w", lastErr)
}

// reloadAfterLostWrite decides why a conditional write did not apply. When
// the stored acceptance carries the hash of one of our own earlier writes,
// that write committed and the notice is returned as ours.
func (s *service) reloadAfterLostWrite(ctx context.Context, id uuid.UUID, ownHashes []string) (*domain.Notice, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.IsAccepted() && current.AcceptanceHash != nil && slices.Contains(ownHashes, *current.AcceptanceHash) {
		return current, nil
	}
	if current.IsIgnored() {
		return nil, domain.ErrNoticeIgnored
	}
	return nil, domain.ErrAlreadyAccepted
}

func (s *service) accepted(ctx context.Context, notice *domain.Notice, log *logrus.Entry) *domain.Notice {
	log.WithField("ip", deref(notice.AcceptanceIP)).Info("notice accepted")

	s.dashboard.Invalidate(ctx)
	s.audit.Record(ctx, domain.CreateAuditEventInput{
		NoticeID:  notice.ID,
		Token:     notice.Token,
		Type:      domain.EventNoticeAccepted,
		IPAddress: notice.AcceptanceIP,
		Hash:      notice.AcceptanceHash,
	})
	return notice
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notice, error) {
	notice, err := s.noticeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load notice: %w", err)
	}
	if notice == nil {
		return nil, domain.ErrNoticeNotFound
	}
	return notice, nil
}

func (s *service) GetByToken(ctx context.Context, token string) (*domain.Notice, error) {
	token = noticeutil.NormalizeToken(token)
	if token == "" {
		return nil, domain.ErrNoticeNotFound
	}
	notice, err := s.noticeRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to load notice: %w", err)
	}
	if notice == nil {
		return nil, domain.ErrNoticeNotFound
	}
	return notice, nil
}

// GetAcceptedByToken backs the document downloads on the public page,
// which stay closed until the debtor has accepted.
func (s *service) GetAcceptedByToken(ctx context.Context, token string) (*domain.Notice, error) {
	notice, err := s.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if !notice.IsAccepted() {
		return nil, domain.ErrAcceptanceRequired
	}
	return notice, nil
}

func (s *service) FindByAcceptanceHash(ctx context.Context, hash string) (*domain.Notice, error) {
	hash = noticeutil.NormalizeHash(hash)
	if hash == "" {
		return nil, domain.ErrNoticeNotFound
	}
	notice, err := s.noticeRepo.GetByAcceptanceHash(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to load notice: %w", err)
	}
	if notice == nil || !notice.IsAccepted() {
		return nil, domain.ErrNoticeNotFound
	}
	return notice, nil
}

// Verify looks a notice up by token or acceptance hash. The token wins
// when both are given.
func (s *service) Verify(ctx context.Context, token, hash string) (*domain.Notice, error) {
	switch {
	case strings.TrimSpace(token) != "":
		return s.GetByToken(ctx, token)
	case strings.TrimSpace(hash) != "":
		return s.FindByAcceptanceHash(ctx, hash)
	default:
		return nil, domain.ErrSearchTermRequired
	}
}

func (s *service) List(ctx context.Context, filter domain.NoticeListFilter) (domain.PaginatedResponse[domain.Notice], error) {
	status, err := domain.ParseStatusFilter(filter.Status)
	if err != nil {
		return domain.PaginatedResponse[domain.Notice]{}, err
	}

	records, err := s.noticeRepo.List(ctx, repository.ListOptions{})
	if err != nil {
		return domain.PaginatedResponse[domain.Notice]{}, fmt.Errorf("failed to list notices: %w", err)
	}

	matched := make([]domain.Notice, 0, len(records))
	for i := range records {
		if records[i].MatchesQuery(filter.Query) && status.Matches(&records[i]) {
			matched = append(matched, records[i])
		}
	}

	return domain.Paginate(matched, filter.PaginationParams), nil
}

// PublicView hides everything but the acceptance prompt until the notice
// is accepted. This only shapes the page; it does not protect the data.
func (s *service) PublicView(ctx context.Context, token string) (*domain.PublicNotice, error) {
	notice, err := s.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	view := &domain.PublicNotice{
		Locked:       !notice.IsAccepted(),
		Token:        notice.Token,
		Status:       notice.DerivedStatus(),
		CreditorName: notice.CreditorName,
		DebtorName:   notice.DebtorName,
		VerifyURL:    noticeutil.VerifyURL(s.cfg.PublicBaseURL, notice.Token),
	}
	if notice.IsAccepted() {
		view.Notice = notice
	}
	return view, nil
}
