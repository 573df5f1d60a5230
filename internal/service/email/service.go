package email

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/resend/resend-go/v3"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"mr3x-notificacoes/internal/config"
	"mr3x-notificacoes/internal/pkg/format"
)

//go:embed templates/*.html
var templateFS embed.FS

// ErrNotConfigured is returned when no Resend API key is set. Nothing is
// sent in that case.
var ErrNotConfigured = errors.New("email delivery is not configured")

var noticeTemplate = template.Must(template.ParseFS(templateFS, "templates/notice.html"))

// NoticeEmail carries what the debtor needs to open the notice.
type NoticeEmail struct {
	DebtorEmail     string
	DebtorName      string
	CreditorName    string
	Token           string
	DebtAmount      decimal.Decimal
	DueDate         time.Time
	DebtDescription string
	AccessURL       string
}

type Service interface {
	SendNoticeEmail(ctx context.Context, msg NoticeEmail) error
}

type sender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type service struct {
	sender sender
	config *config.Config
	log    *logrus.Entry
}

func NewService(cfg *config.Config, log *logrus.Logger) Service {
	var s sender
	if cfg.ResendAPIKey != "" {
		s = resend.NewClient(cfg.ResendAPIKey).Emails
	}
	return newService(s, cfg, log)
}

func newService(s sender, cfg *config.Config, log *logrus.Logger) *service {
	return &service{
		sender: s,
		config: cfg,
		log:    log.WithField("component", "email"),
	}
}

func Subject(token string) string {
	return "Notificação Extrajudicial - " + token
}

// Render builds the HTML body of the notice email.
func Render(msg NoticeEmail) (string, error) {
	data := struct {
		DebtorName      string
		CreditorName    string
		Token           string
		Amount          string
		DueDate         string
		DebtDescription string
		AccessURL       string
	}{
		DebtorName:      msg.DebtorName,
		CreditorName:    msg.CreditorName,
		Token:           msg.Token,
		Amount:          format.Currency(msg.DebtAmount),
		DueDate:         format.Date(msg.DueDate),
		DebtDescription: msg.DebtDescription,
		AccessURL:       msg.AccessURL,
	}

	var body bytes.Buffer
	if err := noticeTemplate.Execute(&body, data); err != nil {
		return "", fmt.Errorf("failed to execute email template: %w", err)
	}
	return body.String(), nil
}

func (s *service) SendNoticeEmail(ctx context.Context, msg NoticeEmail) error {
	html, err := Render(msg)
	if err != nil {
		return err
	}

	log := s.log.WithFields(logrus.Fields{"token": msg.Token, "to": msg.DebtorEmail})

	if s.sender == nil {
		log.Info("RESEND_API_KEY not set, skipping notice email")
		return ErrNotConfigured
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("MR3X Notificações <%s>", s.config.FromEmail),
		To:      []string{msg.DebtorEmail},
		Html:    html,
		Subject: Subject(msg.Token),
	}

	resp, err := s.sender.SendWithContext(ctx, params)
	if err != nil {
		log.WithError(err).Error("failed to send notice email")
		return fmt.Errorf("failed to send notice email: %w", err)
	}

	log.WithField("email_id", resp.Id).Info("notice email sent")
	return nil
}
