package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"mr3x-notificacoes/internal/service/report"
)

type ReportHandler struct {
	reportService report.Service
	loc           *time.Location
}

func NewReportHandler(reportService report.Service, loc *time.Location) *ReportHandler {
	return &ReportHandler{reportService: reportService, loc: loc}
}

// Export streams the filtered notices as a download in the requested
// format (csv by default).
func (h *ReportHandler) Export(c *fiber.Ctx) error {
	format, err := report.ParseFormat(c.Query("format"))
	if err != nil {
		return err
	}

	filter, err := report.ParseExportFilter(c.Query("start"), c.Query("end"), c.Query("status"), h.loc)
	if err != nil {
		return err
	}

	artifact, err := h.reportService.Export(c.UserContext(), format, filter)
	if err != nil {
		return err
	}

	c.Attachment(artifact.FileName)
	c.Set(fiber.HeaderContentType, artifact.ContentType)
	return c.Status(fiber.StatusOK).Send(artifact.Data)
}
