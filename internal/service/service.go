package service

import (
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"mr3x-notificacoes/internal/config"
	"mr3x-notificacoes/internal/repository"
	"mr3x-notificacoes/internal/service/audit"
	"mr3x-notificacoes/internal/service/auth"
	"mr3x-notificacoes/internal/service/dashboard"
	"mr3x-notificacoes/internal/service/document"
	"mr3x-notificacoes/internal/service/email"
	"mr3x-notificacoes/internal/service/ipaddr"
	"mr3x-notificacoes/internal/service/notice"
	"mr3x-notificacoes/internal/service/postal"
	"mr3x-notificacoes/internal/service/report"
)

type Services struct {
	Auth      auth.Service
	Notice    notice.Service
	Dashboard dashboard.Service
	Report    report.Service
	Document  document.Service
	Email     email.Service
	Postal    postal.Service
	Audit     audit.Service
}

func NewServices(repos *repository.Repositories, redis *redis.Client, minioClient *minio.Client, cfg *config.Config, log *logrus.Logger) *Services {
	loc := cfg.Location()

	emailService := email.NewService(cfg, log)
	auditService := audit.NewService(repos.AuditEvent, log)
	dashboardService := dashboard.NewService(repos.Notice, redis, loc, log)
	noticeService := notice.NewService(
		repos.Notice,
		emailService,
		auditService,
		dashboardService,
		ipaddr.NewResolver(cfg),
		cfg,
		log,
	)

	return &Services{
		Auth:      auth.NewService(cfg),
		Notice:    noticeService,
		Dashboard: dashboardService,
		Report:    report.NewService(repos.Notice, loc, log),
		Document:  document.NewService(repos.Notice, minioClient, auditService, cfg, log),
		Email:     emailService,
		Postal:    postal.NewService(cfg, redis, log),
		Audit:     auditService,
	}
}
