package document

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/minio/minio-go/v7"
	"github.com/sirupsen/logrus"

	"mr3x-notificacoes/internal/config"
	"mr3x-notificacoes/internal/domain"
	"mr3x-notificacoes/internal/pkg/noticeutil"
	"mr3x-notificacoes/internal/repository"
	"mr3x-notificacoes/internal/service/audit"
)

const (
	ContentTypePDF = "application/pdf"
	ContentTypePNG = "image/png"

	DefaultQRSize = 264
	maxQRSize     = 1024
)

type Service interface {
	Render(n *domain.Notice) ([]byte, error)
	Store(ctx context.Context, n *domain.Notice) (string, error)
	QRCodePNG(n *domain.Notice, size int) ([]byte, error)
	FileName(n *domain.Notice) string
}

type objectStore interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

type service struct {
	renderer   *Renderer
	store      objectStore
	noticeRepo repository.NoticeRepository
	audit      audit.Service
	cfg        *config.Config
	log        *logrus.Entry
}

// NewService accepts a nil MinIO client; documents can then be rendered
// but not stored.
func NewService(noticeRepo repository.NoticeRepository, minioClient *minio.Client, auditService audit.Service, cfg *config.Config, log *logrus.Logger) Service {
	var store objectStore
	if minioClient != nil {
		store = minioClient
	}
	return &service{
		renderer:   &Renderer{BaseURL: cfg.PublicBaseURL, Location: cfg.Location()},
		store:      store,
		noticeRepo: noticeRepo,
		audit:      auditService,
		cfg:        cfg,
		log:        log.WithField("component", "document"),
	}
}

func (s *service) Render(n *domain.Notice) ([]byte, error) {
	return s.renderer.Render(n)
}

func (s *service) FileName(n *domain.Notice) string {
	return fmt.Sprintf("Notificacao_%s.pdf", n.Token)
}

func ObjectName(token string) string {
	return fmt.Sprintf("notices/%s.pdf", token)
}

// Store renders the notice, uploads it and records the object URL on the
// notice. Re-storing overwrites the previous object.
func (s *service) Store(ctx context.Context, n *domain.Notice) (string, error) {
	if s.store == nil {
		return "", domain.ErrStorageUnavailable
	}

	pdf, err := s.Render(n)
	if err != nil {
		return "", err
	}

	objectName := ObjectName(n.Token)
	_, err = s.store.PutObject(ctx, s.cfg.MinIOBucket, objectName, bytes.NewReader(pdf), int64(len(pdf)), minio.PutObjectOptions{
		ContentType: ContentTypePDF,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to MinIO: %w", err)
	}

	objectURL := s.objectURL(objectName)
	if err := s.noticeRepo.UpdatePDFURL(ctx, n.ID, objectURL); err != nil {
		return "", fmt.Errorf("failed to save document url: %w", err)
	}
	n.PDFURL = &objectURL

	s.log.WithFields(logrus.Fields{"token": n.Token, "object": objectName}).Info("document stored")
	s.audit.Record(ctx, domain.CreateAuditEventInput{
		NoticeID: n.ID,
		Token:    n.Token,
		Type:     domain.EventDocumentStored,
		Detail:   objectURL,
	})

	return objectURL, nil
}

func (s *service) objectURL(objectName string) string {
	scheme := "http"
	if s.cfg.MinIOPublicUseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.cfg.MinIOPublicEndpoint, s.cfg.MinIOBucket, url.PathEscape(objectName))
}

// QRCodePNG encodes the public verification URL. Sizes outside
// (0, 1024] fall back to the default.
func (s *service) QRCodePNG(n *domain.Notice, size int) ([]byte, error) {
	if size <= 0 || size > maxQRSize {
		size = DefaultQRSize
	}
	return QRPNG(noticeutil.VerifyURL(s.cfg.PublicBaseURL, n.Token), size)
}
