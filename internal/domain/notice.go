package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const DefaultPaymentDeadlineDays = 10

type NoticeStatus string

const (
	NoticeStatusPending NoticeStatus = "pending"
	NoticeStatusIgnored NoticeStatus = "ignored"
)

// DerivedStatus is the display status of a notice. Acceptance is tracked
// by the accepted flag, so it never appears in the status column.
type DerivedStatus string

const (
	DerivedAccepted DerivedStatus = "accepted"
	DerivedPending  DerivedStatus = "pending"
	DerivedIgnored  DerivedStatus = "ignored"
)

type Notice struct {
	ID     uuid.UUID    `json:"id" db:"id"`
	Token  string       `json:"token" db:"token"`
	Status NoticeStatus `json:"status" db:"status"`

	Accepted       bool       `json:"accepted" db:"accepted"`
	AcceptedAt     *time.Time `json:"accepted_at" db:"accepted_at"`
	AcceptanceIP   *string    `json:"acceptance_ip" db:"acceptance_ip"`
	AcceptanceHash *string    `json:"acceptance_hash" db:"acceptance_hash"`

	CreatorIP   *string `json:"creator_ip" db:"creator_ip"`
	CreatorHash *string `json:"creator_hash" db:"creator_hash"`

	CreditorName       string  `json:"creditor_name" db:"creditor_name"`
	CreditorDocument   string  `json:"creditor_document" db:"creditor_document"`
	CreditorAddress    string  `json:"creditor_address" db:"creditor_address"`
	CreditorCity       string  `json:"creditor_city" db:"creditor_city"`
	CreditorState      string  `json:"creditor_state" db:"creditor_state"`
	CreditorZip        string  `json:"creditor_zip" db:"creditor_zip"`
	CreditorComplement *string `json:"creditor_complement" db:"creditor_complement"`
	CreditorEmail      *string `json:"creditor_email" db:"creditor_email"`
	CreditorPhone      *string `json:"creditor_phone" db:"creditor_phone"`

	DebtorName       string  `json:"debtor_name" db:"debtor_name"`
	DebtorDocument   string  `json:"debtor_document" db:"debtor_document"`
	DebtorAddress    string  `json:"debtor_address" db:"debtor_address"`
	DebtorCity       string  `json:"debtor_city" db:"debtor_city"`
	DebtorState      string  `json:"debtor_state" db:"debtor_state"`
	DebtorZip        string  `json:"debtor_zip" db:"debtor_zip"`
	DebtorComplement *string `json:"debtor_complement" db:"debtor_complement"`
	DebtorEmail      *string `json:"debtor_email" db:"debtor_email"`
	DebtorPhone      *string `json:"debtor_phone" db:"debtor_phone"`

	DebtAmount          decimal.Decimal `json:"debt_amount" db:"debt_amount"`
	DebtDescription     string          `json:"debt_description" db:"debt_description"`
	DueDate             time.Time       `json:"due_date" db:"due_date"`
	PropertyAddress     string          `json:"property_address" db:"property_address"`
	PaymentDeadlineDays int             `json:"payment_deadline_days" db:"payment_deadline_days"`
	TermsAndClauses     string          `json:"terms_and_clauses" db:"terms_and_clauses"`
	PDFURL              *string         `json:"pdf_url" db:"pdf_url"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func (n *Notice) IsAccepted() bool {
	return n.Accepted
}

func (n *Notice) IsIgnored() bool {
	return !n.Accepted && n.Status == NoticeStatusIgnored
}

func (n *Notice) IsPending() bool {
	return !n.Accepted && n.Status != NoticeStatusIgnored
}

// DerivedStatus resolves accepted first, then ignored, then pending, so a
// notice always belongs to exactly one bucket.
func (n *Notice) DerivedStatus() DerivedStatus {
	switch {
	case n.IsAccepted():
		return DerivedAccepted
	case n.IsIgnored():
		return DerivedIgnored
	default:
		return DerivedPending
	}
}

// Acceptance holds the audit fields written together when a notice is accepted.
type Acceptance struct {
	At   time.Time
	IP   string
	Hash string
}

type CreateNoticeInput struct {
	CreditorName       string  `json:"creditor_name"`
	CreditorDocument   string  `json:"creditor_document"`
	CreditorAddress    string  `json:"creditor_address"`
	CreditorCity       string  `json:"creditor_city"`
	CreditorState      string  `json:"creditor_state"`
	CreditorZip        string  `json:"creditor_zip"`
	CreditorComplement *string `json:"creditor_complement,omitempty"`
	CreditorEmail      *string `json:"creditor_email,omitempty"`
	CreditorPhone      *string `json:"creditor_phone,omitempty"`

	DebtorName       string  `json:"debtor_name"`
	DebtorDocument   string  `json:"debtor_document"`
	DebtorAddress    string  `json:"debtor_address"`
	DebtorCity       string  `json:"debtor_city"`
	DebtorState      string  `json:"debtor_state"`
	DebtorZip        string  `json:"debtor_zip"`
	DebtorComplement *string `json:"debtor_complement,omitempty"`
	DebtorEmail      *string `json:"debtor_email,omitempty"`
	DebtorPhone      *string `json:"debtor_phone,omitempty"`

	DebtAmount          decimal.Decimal `json:"debt_amount"`
	DebtDescription     string          `json:"debt_description"`
	DueDate             string          `json:"due_date"`
	PropertyAddress     string          `json:"property_address"`
	PaymentDeadlineDays *int            `json:"payment_deadline_days,omitempty"`
	TermsAndClauses     string          `json:"terms_and_clauses,omitempty"`

	Consent *ConsentInput `json:"consent,omitempty"`
}

// ConsentInput is sent when the creditor confirmed the liability disclaimer.
type ConsentInput struct {
	Accepted bool `json:"accepted"`
}

const DateLayout = "2006-01-02"

var stateCodes = map[string]struct{}{
	"AC": {}, "AL": {}, "AP": {}, "AM": {}, "BA": {}, "CE": {}, "DF": {}, "ES": {}, "GO": {},
	"MA": {}, "MT": {}, "MS": {}, "MG": {}, "PA": {}, "PB": {}, "PR": {}, "PE": {}, "PI": {},
	"RJ": {}, "RN": {}, "RS": {}, "RO": {}, "RR": {}, "SC": {}, "SP": {}, "SE": {}, "TO": {},
}

// IsStateCode reports whether s is a federative unit abbreviation, ignoring
// case and surrounding space.
func IsStateCode(s string) bool {
	_, ok := stateCodes[strings.ToUpper(strings.TrimSpace(s))]
	return ok
}

// Validate reports every missing or malformed field at once and returns the
// parsed due date when the input is valid.
func (in *CreateNoticeInput) Validate(loc *time.Location) (time.Time, error) {
	verr := &ValidationError{}

	required := []struct {
		field string
		value string
	}{
		{"creditor_name", in.CreditorName},
		{"creditor_document", in.CreditorDocument},
		{"creditor_address", in.CreditorAddress},
		{"creditor_city", in.CreditorCity},
		{"creditor_state", in.CreditorState},
		{"creditor_zip", in.CreditorZip},
		{"debtor_name", in.DebtorName},
		{"debtor_document", in.DebtorDocument},
		{"debtor_address", in.DebtorAddress},
		{"debtor_city", in.DebtorCity},
		{"debtor_state", in.DebtorState},
		{"debtor_zip", in.DebtorZip},
		{"debt_description", in.DebtDescription},
		{"property_address", in.PropertyAddress},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			verr.Add(r.field, "is required")
		}
	}

	for _, st := range []struct {
		field string
		value string
	}{
		{"creditor_state", in.CreditorState},
		{"debtor_state", in.DebtorState},
	} {
		if strings.TrimSpace(st.value) != "" && !IsStateCode(st.value) {
			verr.Add(st.field, "must be a two-letter Brazilian state code")
		}
	}

	if !in.DebtAmount.IsPositive() {
		verr.Add("debt_amount", "must be greater than zero")
	}

	if in.PaymentDeadlineDays != nil && *in.PaymentDeadlineDays <= 0 {
		verr.Add("payment_deadline_days", "must be greater than zero")
	}

	if loc == nil {
		loc = time.UTC
	}
	var due time.Time
	if strings.TrimSpace(in.DueDate) == "" {
		verr.Add("due_date", "is required")
	} else {
		parsed, err := time.ParseInLocation(DateLayout, strings.TrimSpace(in.DueDate), loc)
		if err != nil {
			verr.Add("due_date", "must be a date in YYYY-MM-DD format")
		}
		due = parsed
	}

	if verr.HasErrors() {
		return time.Time{}, verr
	}
	return due, nil
}

type NoticeListFilter struct {
	Query  string
	Status string
	PaginationParams
}

// MatchesQuery is a case-insensitive substring match over the debtor and
// creditor names and documents and the token.
func (n *Notice) MatchesQuery(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, field := range []string{n.DebtorName, n.DebtorDocument, n.CreditorName, n.CreditorDocument, n.Token} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// PublicNotice is what the verification page may show. While the notice is
// not accepted only the summary needed for the acceptance prompt is filled.
type PublicNotice struct {
	Locked       bool          `json:"locked"`
	Token        string        `json:"token"`
	Status       DerivedStatus `json:"status"`
	CreditorName string        `json:"creditor_name"`
	DebtorName   string        `json:"debtor_name"`
	Notice       *Notice       `json:"notice,omitempty"`
	VerifyURL    string        `json:"verify_url"`
}

// StatusFilter selects one bucket of the derived status partition.
type StatusFilter string

const (
	StatusFilterAll      StatusFilter = "all"
	StatusFilterAccepted StatusFilter = "accepted"
	StatusFilterPending  StatusFilter = "pending"
	StatusFilterIgnored  StatusFilter = "ignored"
)

// ParseStatusFilter treats an empty value as all.
func ParseStatusFilter(value string) (StatusFilter, error) {
	switch f := StatusFilter(strings.ToLower(strings.TrimSpace(value))); f {
	case "":
		return StatusFilterAll, nil
	case StatusFilterAll, StatusFilterAccepted, StatusFilterPending, StatusFilterIgnored:
		return f, nil
	default:
		return "", ErrInvalidStatusFilter
	}
}

func (f StatusFilter) Matches(n *Notice) bool {
	if f == "" || f == StatusFilterAll {
		return true
	}
	return string(n.DerivedStatus()) == string(f)
}
