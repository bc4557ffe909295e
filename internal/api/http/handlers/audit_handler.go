package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/medisure/portal/internal/api/dto"
	"github.com/medisure/portal/internal/service"
	apperrors "github.com/medisure/portal/pkg/util/errorutil"
)

// AuditHandler lists recorded auth events.
type AuditHandler struct {
	audit *service.AuditService
}

// NewAuditHandler constructs handler.
func NewAuditHandler(audit *service.AuditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// List handles GET /audit.
func (h *AuditHandler) List(c *fiber.Ctx) error {
	var q dto.AuditQuery
	if err := c.QueryParser(&q); err != nil {
		return apperrors.NewValidationError("invalid query", map[string]any{"reason": err.Error()})
	}
	entries, err := h.audit.List(c.UserContext(), q.Filter())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": entries})
}
