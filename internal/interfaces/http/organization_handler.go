package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/opencms-api/internal/application/dto"
	"github.com/jhoicas/opencms-api/internal/application/usecase"
)

// OrganizationHandler maneja las peticiones HTTP para el recurso Organization.
type OrganizationHandler struct {
	uc *usecase.OrganizationUseCase
}

// NewOrganizationHandler construye el handler inyectando el caso de uso.
func NewOrganizationHandler(uc *usecase.OrganizationUseCase) *OrganizationHandler {
	return &OrganizationHandler{uc: uc}
}

// List godoc
// @Summary      Listar organizaciones visibles
// @Tags         organizations
// @Security     BearerAuth
// @Produce      json
// @Param        search  query  string  false  "Búsqueda por nombre"
// @Param        status  query  string  false  "all | active | inactive"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200  {object}  dto.OrganizationListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/organizations [get]
func (h *OrganizationHandler) List(c *fiber.Ctx) error {
	claims, ok := GetClaims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "sesión requerida"})
	}
	var in dto.OrganizationListRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	out, err := h.uc.List(c.UserContext(), claims.Scope(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
