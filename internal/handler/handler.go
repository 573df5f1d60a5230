package handler

import (
	"time"

	"mr3x-notificacoes/internal/service"
)

type Handlers struct {
	Auth      *AuthHandler
	Notice    *NoticeHandler
	Public    *PublicHandler
	Dashboard *DashboardHandler
	Report    *ReportHandler
	Postal    *PostalHandler
	Health    *HealthHandler
}

func NewHandlers(services *service.Services, loc *time.Location, checks map[string]HealthCheck) *Handlers {
	return &Handlers{
		Auth:      NewAuthHandler(services.Auth),
		Notice:    NewNoticeHandler(services.Notice, services.Document, services.Audit),
		Public:    NewPublicHandler(services.Notice, services.Document),
		Dashboard: NewDashboardHandler(services.Dashboard),
		Report:    NewReportHandler(services.Report, loc),
		Postal:    NewPostalHandler(services.Postal),
		Health:    NewHealthHandler(checks),
	}
}
