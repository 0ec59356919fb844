package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/gestion-comercial/internal/application/dto"
	"github.com/tu-usuario/gestion-comercial/internal/application/inventory"
	"github.com/tu-usuario/gestion-comercial/pkg/logger"
)

// InventoryHandler expone el libro de stock: ajustes manuales, siembra de
// apertura y consultas de historial (protegido).
type InventoryHandler struct {
	uc  *inventory.LedgerUseCase
	log *logger.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.LedgerUseCase, log *logger.Logger) *InventoryHandler {
	return &InventoryHandler{uc: uc, log: log}
}

// RegisterAdjustment godoc
// @Summary      Registrar ajuste manual de stock
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterAdjustmentRequest  true  "Delta firmado"
// @Success      201
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) RegisterAdjustment(c *fiber.Ctx) error {
	var in dto.RegisterAdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ProductID == "" || in.Quantity == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id y quantity distinto de cero son requeridos"})
	}
	if err := h.uc.RegisterAdjustment(c.Context(), GetCompanyID(c), GetUserID(c), in); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

// SeedOpeningStock godoc
// @Summary      Sembrar stock de apertura en bloque
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Param        body  body  dto.OpeningStockSeedRequest  true  "Items a sembrar"
// @Success      201
// @Router       /api/inventory/opening-stock [post]
func (h *InventoryHandler) SeedOpeningStock(c *fiber.Ctx) error {
	var in dto.OpeningStockSeedRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in.Items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "items es requerido"})
	}
	if err := h.uc.SeedOpeningStock(c.Context(), GetCompanyID(c), GetUserID(c), in); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

// ListByProduct godoc
// @Summary      Historial de movimientos de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del producto"
// @Param        from    query  string  false  "Desde (RFC3339 o aaaa-mm-dd)"
// @Param        to      query  string  false  "Hasta (RFC3339 o aaaa-mm-dd)"
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/inventory/products/{id}/movements [get]
func (h *InventoryHandler) ListByProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	from, to := dateRange(c)
	limit, offset := pagination(c)
	out, err := h.uc.ListByProduct(c.Context(), GetCompanyID(c), id, from, to, limit, offset)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// ListByBranch godoc
// @Summary      Historial de movimientos de una sucursal
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path   string  true  "ID de la sucursal"
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/inventory/branches/{id}/movements [get]
func (h *InventoryHandler) ListByBranch(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	from, to := dateRange(c)
	limit, offset := pagination(c)
	out, err := h.uc.ListByBranch(c.Context(), GetCompanyID(c), id, from, to, limit, offset)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// ListByCompany godoc
// @Summary      Historial de movimientos de toda la empresa
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListByCompany(c *fiber.Ctx) error {
	from, to := dateRange(c)
	limit, offset := pagination(c)
	out, err := h.uc.ListByCompany(c.Context(), GetCompanyID(c), from, to, limit, offset)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
