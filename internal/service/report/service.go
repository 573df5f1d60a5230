package report

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"mr3x-notificacoes/internal/domain"
	"mr3x-notificacoes/internal/repository"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

var contentTypes = map[Format]string{
	FormatCSV:  "text/csv; charset=utf-8",
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FormatPDF:  "application/pdf",
}

func ParseFormat(value string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(value)))
	if f == "" {
		return FormatCSV, nil
	}
	if _, ok := contentTypes[f]; !ok {
		return "", domain.ErrInvalidExportFormat
	}
	return f, nil
}

// Artifact is a rendered export ready to be sent as a download.
type Artifact struct {
	Data        []byte
	ContentType string
	FileName    string
	Summary     Summary
}

type Service interface {
	Export(ctx context.Context, format Format, filter ExportFilter) (*Artifact, error)
}

type service struct {
	noticeRepo repository.NoticeRepository
	loc        *time.Location
	now        func() time.Time
	log        *logrus.Entry
}

func NewService(noticeRepo repository.NoticeRepository, loc *time.Location, log *logrus.Logger) Service {
	if loc == nil {
		loc = time.UTC
	}
	return &service{
		noticeRepo: noticeRepo,
		loc:        loc,
		now:        time.Now,
		log:        log.WithField("component", "report"),
	}
}

func FileName(format Format, at time.Time) string {
	return fmt.Sprintf("Relatorio_Notificacoes_%s.%s", at.Format(domain.DateLayout), format)
}

func (s *service) Export(ctx context.Context, format Format, filter ExportFilter) (*Artifact, error) {
	contentType, ok := contentTypes[format]
	if !ok {
		return nil, domain.ErrInvalidExportFormat
	}

	records, err := s.noticeRepo.List(ctx, repository.ListOptions{
		CreatedFrom: filter.From(),
		CreatedTo:   filter.To(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load notices: %w", err)
	}

	records = filter.Apply(records)
	summary := Summarize(records)
	now := s.now().In(s.loc)

	var buf bytes.Buffer
	switch format {
	case FormatCSV:
		err = WriteCSV(&buf, records)
	case FormatXLSX:
		err = WriteXLSX(&buf, records, summary)
	case FormatPDF:
		err = WritePDF(&buf, records, filter, summary, now, s.loc)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to write %s report: %w", format, err)
	}

	s.log.WithFields(logrus.Fields{
		"format": format,
		"count":  summary.Count,
		"status": filter.Status,
	}).Info("report exported")

	return &Artifact{
		Data:        buf.Bytes(),
		ContentType: contentType,
		FileName:    FileName(format, now),
		Summary:     summary,
	}, nil
}
