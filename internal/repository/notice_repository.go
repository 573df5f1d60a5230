package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"mr3x-notificacoes/internal/domain"
)

const uniqueViolation = "23505"

const noticeColumns = `
	id, token, status,
	COALESCE(accepted, false) AS accepted, accepted_at, acceptance_ip, acceptance_hash,
	creator_ip, creator_hash,
	creditor_name, creditor_document, creditor_address, creditor_city, creditor_state, creditor_zip,
	creditor_complement, creditor_email, creditor_phone,
	debtor_name, debtor_document, debtor_address, debtor_city, debtor_state, debtor_zip,
	debtor_complement, debtor_email, debtor_phone,
	debt_amount, debt_description, due_date, property_address, payment_deadline_days,
	terms_and_clauses, pdf_url, created_at, updated_at`

// ListOptions bounds created_at inclusively on both ends when set.
type ListOptions struct {
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

type NoticeRepository interface {
	Create(ctx context.Context, notice *domain.Notice) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Notice, error)
	GetByToken(ctx context.Context, token string) (*domain.Notice, error)
	GetByAcceptanceHash(ctx context.Context, hash string) (*domain.Notice, error)
	List(ctx context.Context, opts ListOptions) ([]domain.Notice, error)
	MarkAccepted(ctx context.Context, id uuid.UUID, acceptance domain.Acceptance) (bool, error)
	UpdatePDFURL(ctx context.Context, id uuid.UUID, url string) error
	Ping(ctx context.Context) error
}

type noticeRepository struct {
	db *sqlx.DB
}

func NewNoticeRepository(db *sqlx.DB) NoticeRepository {
	return &noticeRepository{db: db}
}

func (r *noticeRepository) Create(ctx context.Context, n *domain.Notice) error {
	query := `
		INSERT INTO extrajudicial_notifications (id, token, status, accepted,
			creator_ip, creator_hash,
			creditor_name, creditor_document, creditor_address, creditor_city, creditor_state, creditor_zip,
			creditor_complement, creditor_email, creditor_phone,
			debtor_name, debtor_document, debtor_address, debtor_city, debtor_state, debtor_zip,
			debtor_complement, debtor_email, debtor_phone,
			debt_amount, debt_description, due_date, property_address, payment_deadline_days,
			terms_and_clauses)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		n.ID, n.Token, n.Status, n.Accepted,
		n.CreatorIP, n.CreatorHash,
		n.CreditorName, n.CreditorDocument, n.CreditorAddress, n.CreditorCity, n.CreditorState, n.CreditorZip,
		n.CreditorComplement, n.CreditorEmail, n.CreditorPhone,
		n.DebtorName, n.DebtorDocument, n.DebtorAddress, n.DebtorCity, n.DebtorState, n.DebtorZip,
		n.DebtorComplement, n.DebtorEmail, n.DebtorPhone,
		n.DebtAmount, n.DebtDescription, n.DueDate, n.PropertyAddress, n.PaymentDeadlineDays,
		n.TermsAndClauses,
	).Scan(&n.CreatedAt, &n.UpdatedAt)
	if isUniqueViolation(err) {
		return domain.ErrTokenConflict
	}
	return err
}

func (r *noticeRepository) getOne(ctx context.Context, where string, arg any) (*domain.Notice, error) {
	var notice domain.Notice
	query := `SELECT ` + noticeColumns + ` FROM extrajudicial_notifications WHERE ` + where + ` LIMIT 1`

	err := r.db.GetContext(ctx, &notice, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &notice, nil
}

func (r *noticeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notice, error) {
	return r.getOne(ctx, `id = $1`, id)
}

func (r *noticeRepository) GetByToken(ctx context.Context, token string) (*domain.Notice, error) {
	return r.getOne(ctx, `token = $1`, token)
}

func (r *noticeRepository) GetByAcceptanceHash(ctx context.Context, hash string) (*domain.Notice, error) {
	return r.getOne(ctx, `acceptance_hash = $1`, hash)
}

func (r *noticeRepository) List(ctx context.Context, opts ListOptions) ([]domain.Notice, error) {
	var (
		conditions []string
		args       []any
	)
	if opts.CreatedFrom != nil {
		args = append(args, *opts.CreatedFrom)
		conditions = append(conditions, `created_at >= $`+strconv.Itoa(len(args)))
	}
	if opts.CreatedTo != nil {
		args = append(args, *opts.CreatedTo)
		conditions = append(conditions, `created_at <= $`+strconv.Itoa(len(args)))
	}

	query := `SELECT ` + noticeColumns + ` FROM extrajudicial_notifications`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, ` AND `)
	}
	query += ` ORDER BY created_at DESC`

	notices := []domain.Notice{}
	err := r.db.SelectContext(ctx, &notices, query, args...)
	return notices, err
}

// MarkAccepted writes all acceptance fields in one statement, only while the
// notice is still unaccepted and not ignored. It reports false when the
// row was not eligible.
func (r *noticeRepository) MarkAccepted(ctx context.Context, id uuid.UUID, a domain.Acceptance) (bool, error) {
	query := `
		UPDATE extrajudicial_notifications
		SET accepted = true, accepted_at = $2, acceptance_ip = $3, acceptance_hash = $4, updated_at = NOW()
		WHERE id = $1 AND COALESCE(accepted, false) = false AND status <> 'ignored'`

	result, err := r.db.ExecContext(ctx, query, id, a.At, a.IP, a.Hash)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

func (r *noticeRepository) UpdatePDFURL(ctx context.Context, id uuid.UUID, url string) error {
	query := `UPDATE extrajudicial_notifications SET pdf_url = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, url)
	return err
}

func (r *noticeRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolation
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	return false
}
