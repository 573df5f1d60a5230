package handler

import (
	"github.com/gofiber/fiber/v2"

	"mr3x-notificacoes/internal/service/document"
	"mr3x-notificacoes/internal/service/notice"
)

// PublicHandler serves the debtor-facing verification page. Nothing here
// requires a login.
type PublicHandler struct {
	noticeService   notice.Service
	documentService document.Service
}

func NewPublicHandler(noticeService notice.Service, documentService document.Service) *PublicHandler {
	return &PublicHandler{
		noticeService:   noticeService,
		documentService: documentService,
	}
}

func (h *PublicHandler) Search(c *fiber.Ctx) error {
	n, err := h.noticeService.Verify(c.UserContext(), c.Query("token"), c.Query("hash"))
	if err != nil {
		return err
	}

	view, err := h.noticeService.PublicView(c.UserContext(), n.Token)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(view)
}

func (h *PublicHandler) View(c *fiber.Ctx) error {
	view, err := h.noticeService.PublicView(c.UserContext(), c.Params("token"))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(view)
}

func (h *PublicHandler) Accept(c *fiber.Ctx) error {
	if _, err := h.noticeService.AcceptByToken(c.UserContext(), c.Params("token")); err != nil {
		return err
	}

	view, err := h.noticeService.PublicView(c.UserContext(), c.Params("token"))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(view)
}

func (h *PublicHandler) Document(c *fiber.Ctx) error {
	n, err := h.noticeService.GetAcceptedByToken(c.UserContext(), c.Params("token"))
	if err != nil {
		return err
	}

	return sendDocument(c, h.documentService, n)
}

func (h *PublicHandler) QRCode(c *fiber.Ctx) error {
	n, err := h.noticeService.GetAcceptedByToken(c.UserContext(), c.Params("token"))
	if err != nil {
		return err
	}

	png, err := h.documentService.QRCodePNG(n, c.QueryInt("size", document.DefaultQRSize))
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, document.ContentTypePNG)
	return c.Status(fiber.StatusOK).Send(png)
}
