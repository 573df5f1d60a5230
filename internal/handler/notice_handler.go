package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"mr3x-notificacoes/internal/domain"
	"mr3x-notificacoes/internal/middleware"
	"mr3x-notificacoes/internal/service/audit"
	"mr3x-notificacoes/internal/service/document"
	"mr3x-notificacoes/internal/service/notice"
)

type NoticeHandler struct {
	noticeService   notice.Service
	documentService document.Service
	auditService    audit.Service
}

func NewNoticeHandler(noticeService notice.Service, documentService document.Service, auditService audit.Service) *NoticeHandler {
	return &NoticeHandler{
		noticeService:   noticeService,
		documentService: documentService,
		auditService:    auditService,
	}
}

func (h *NoticeHandler) Create(c *fiber.Ctx) error {
	var input domain.CreateNoticeInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	result, err := h.noticeService.Create(c.UserContext(), input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *NoticeHandler) List(c *fiber.Ctx) error {
	filter := domain.NoticeListFilter{
		Query:            c.Query("q"),
		Status:           c.Query("status"),
		PaginationParams: getPaginationParams(c),
	}

	result, err := h.noticeService.List(c.UserContext(), filter)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *NoticeHandler) Get(c *fiber.Ctx) error {
	id, err := noticeID(c)
	if err != nil {
		return err
	}

	n, err := h.noticeService.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(n)
}

func (h *NoticeHandler) Accept(c *fiber.Ctx) error {
	id, err := noticeID(c)
	if err != nil {
		return err
	}

	n, err := h.noticeService.Accept(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(n)
}

func (h *NoticeHandler) GetDocument(c *fiber.Ctx) error {
	id, err := noticeID(c)
	if err != nil {
		return err
	}

	n, err := h.noticeService.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}

	return sendDocument(c, h.documentService, n)
}

func (h *NoticeHandler) StoreDocument(c *fiber.Ctx) error {
	id, err := noticeID(c)
	if err != nil {
		return err
	}

	n, err := h.noticeService.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}

	url, err := h.documentService.Store(c.UserContext(), n)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token":   n.Token,
		"pdf_url": url,
	})
}

func (h *NoticeHandler) ListEvents(c *fiber.Ctx) error {
	id, err := noticeID(c)
	if err != nil {
		return err
	}

	if _, err := h.noticeService.GetByID(c.UserContext(), id); err != nil {
		return err
	}

	events, err := h.auditService.ListByNotice(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(events)
}

func noticeID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, middleware.BadRequest("Invalid notice ID")
	}
	return id, nil
}

func sendDocument(c *fiber.Ctx, documentService document.Service, n *domain.Notice) error {
	pdf, err := documentService.Render(n)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, document.ContentTypePDF)
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+documentService.FileName(n)+`"`)
	return c.Status(fiber.StatusOK).Send(pdf)
}

func getPaginationParams(c *fiber.Ctx) domain.PaginationParams {
	params := domain.DefaultPagination()

	if page := c.QueryInt("page", 1); page > 0 {
		params.Page = page
	}
	if pageSize := c.QueryInt("page_size", 20); pageSize > 0 {
		params.PageSize = pageSize
	}

	params.Validate()
	return params
}
