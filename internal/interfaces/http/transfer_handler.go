package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-inventario/internal/application/dto"
	"github.com/jhoicas/erp-inventario/internal/application/inventory"
	"github.com/jhoicas/erp-inventario/internal/domain/entity"
	"github.com/jhoicas/erp-inventario/internal/domain/repository"
)

// TransferHandler maneja traslados entre bodegas (protegido).
type TransferHandler struct {
	coordinator *inventory.TransferCoordinator
	repo        repository.TransferRepository
}

// NewTransferHandler construye el handler.
func NewTransferHandler(coordinator *inventory.TransferCoordinator, repo repository.TransferRepository) *TransferHandler {
	return &TransferHandler{coordinator: coordinator, repo: repo}
}

func toTransferResponse(t *entity.Transfer) dto.TransferResponse {
	resp := dto.TransferResponse{
		ID:              t.ID,
		ProductID:       t.ProductID,
		FromWarehouseID: t.FromWarehouseID,
		ToWarehouseID:   t.ToWarehouseID,
		Quantity:        t.Quantity,
		Serials:         t.Serials,
		Status:          t.Status,
		Motive:          t.Motive,
		CreatedAt:       t.CreatedAt,
		CreatedBy:       t.CreatedBy,
	}
	for _, d := range t.Detail {
		resp.Detail = append(resp.Detail, dto.TransferLotDTO{
			Number:   d.Number,
			Quantity: d.Quantity,
			UnitCost: d.UnitCost,
			Expiry:   d.Expiry,
		})
	}
	return resp
}

// Create godoc
// @Summary      Trasladar stock entre bodegas
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "product_id, from/to warehouse, quantity o serials"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers [post]
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Error: "cuerpo inválido"})
	}
	transfer, err := h.coordinator.Transferir(c.Context(), inventory.TransferInput{
		ProductID:       in.ProductID,
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		Quantity:        in.Quantity,
		Serials:         in.Serials,
		Motive:          in.Motive,
		UserID:          GetUserID(c),
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toTransferResponse(transfer))
}

// Revert godoc
// @Summary      Revertir un traslado completado
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del traslado"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/revert [post]
func (h *TransferHandler) Revert(c *fiber.Ctx) error {
	if err := h.coordinator.Revertir(c.Context(), c.Params("id"), GetUserID(c)); err != nil {
		return domainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "traslado revertido"})
}

// GetByID godoc
// @Summary      Obtener traslado
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id} [get]
func (h *TransferHandler) GetByID(c *fiber.Ctx) error {
	transfer, err := h.repo.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	if transfer == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Error: "traslado no encontrado"})
	}
	return c.JSON(toTransferResponse(transfer))
}

// List godoc
// @Summary      Listar traslados recientes
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite de resultados"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {array}  dto.TransferResponse
// @Router       /api/transfers [get]
func (h *TransferHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Error: "paginación inválida"})
	}
	page.Normalize()
	list, err := h.repo.List(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return domainError(c, err)
	}
	items := make([]dto.TransferResponse, 0, len(list))
	for _, t := range list {
		items = append(items, toTransferResponse(t))
	}
	return c.JSON(items)
}
