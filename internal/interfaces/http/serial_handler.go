package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-inventario/internal/application/dto"
	"github.com/jhoicas/erp-inventario/internal/application/inventory"
	"github.com/jhoicas/erp-inventario/internal/domain/entity"
)

// SerialHandler maneja unidades serializadas (protegido).
type SerialHandler struct {
	registry *inventory.SerialRegistry
}

// NewSerialHandler construye el handler.
func NewSerialHandler(registry *inventory.SerialRegistry) *SerialHandler {
	return &SerialHandler{registry: registry}
}

// Registrar godoc
// @Summary      Registrar unidad serializada
// @Tags         serials
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegistrarSerialRequest  true  "product_id, warehouse_id, serial, cost"
// @Success      201   {object}  dto.SerialUnitResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/serials [post]
func (h *SerialHandler) Registrar(c *fiber.Ctx) error {
	var in dto.RegistrarSerialRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Error: "cuerpo inválido"})
	}
	unit, err := h.registry.Registrar(c.Context(), inventory.RegistrarInput{
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Serial:      in.Serial,
		Cost:        in.Cost,
		Motive:      in.Motive,
		Reference:   toDocRef(in.Reference),
		UserID:      GetUserID(c),
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toSerialUnitResponse(unit))
}

// Vender godoc
// @Summary      Marcar seriales como vendidos
// @Tags         serials
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SerialesRequest  true  "serials, warehouse_id, reference"
// @Success      200   {array}   dto.MovementResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/serials/vender [post]
func (h *SerialHandler) Vender(c *fiber.Ctx) error {
	var in dto.SerialesRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Error: "cuerpo inválido"})
	}
	movs, err := h.registry.Vender(c.Context(), in.Serials, in.WarehouseID, in.Motive, toDocRef(in.Reference), GetUserID(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toMovementResponses(movs))
}

// Devolver godoc
// @Summary      Marcar seriales vendidos como devueltos
// @Tags         serials
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SerialesRequest  true  "serials, warehouse_id, reference"
// @Success      200   {array}   dto.MovementResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/serials/devolver [post]
func (h *SerialHandler) Devolver(c *fiber.Ctx) error {
	var in dto.SerialesRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Error: "cuerpo inválido"})
	}
	movs, err := h.registry.Devolver(c.Context(), in.Serials, in.WarehouseID, in.Motive, toDocRef(in.Reference), GetUserID(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toMovementResponses(movs))
}

func toSerialUnitResponse(u *entity.SerialUnit) dto.SerialUnitResponse {
	return dto.SerialUnitResponse{
		ID:          u.ID,
		ProductID:   u.ProductID,
		WarehouseID: u.WarehouseID,
		Serial:      u.Serial,
		State:       u.State,
		Cost:        u.Cost,
		CreatedAt:   u.CreatedAt,
	}
}

func toMovementResponses(movs []*entity.Movement) []dto.MovementResponse {
	items := make([]dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		items = append(items, toMovementResponse(m))
	}
	return items
}
