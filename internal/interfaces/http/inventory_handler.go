package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-inventario/internal/application/dto"
	"github.com/jhoicas/erp-inventario/internal/application/inventory"
	"github.com/jhoicas/erp-inventario/internal/domain/entity"
)

// InventoryHandler maneja entradas, salidas, costos, kits, kárdex y consultas
// de stock (protegido).
type InventoryHandler struct {
	engine *inventory.MovementEngine
	costs  *inventory.CostEngine
	kits   *inventory.KitResolver
	kardex *inventory.KardexUseCase
	stock  *inventory.StockQuery
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	engine *inventory.MovementEngine,
	costs *inventory.CostEngine,
	kits *inventory.KitResolver,
	kardex *inventory.KardexUseCase,
	stock *inventory.StockQuery,
) *InventoryHandler {
	return &InventoryHandler{engine: engine, costs: costs, kits: kits, kardex: kardex, stock: stock}
}

func toDocRef(in *dto.DocumentRefDTO) *entity.DocumentRef {
	if in == nil {
		return nil
	}
	return &entity.DocumentRef{Kind: in.Kind, ID: in.ID}
}

func fromDocRef(in *entity.DocumentRef) *dto.DocumentRefDTO {
	if in == nil {
		return nil
	}
	return &dto.DocumentRefDTO{Kind: in.Kind, ID: in.ID}
}

func toMovementResponse(m *entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:            m.ID,
		TransactionID: m.TransactionID,
		ProductID:     m.ProductID,
		WarehouseID:   m.WarehouseID,
		Type:          m.Type,
		Quantity:      m.Quantity,
		UnitCost:      m.UnitCost,
		TotalCost:     m.TotalCost,
		Motive:        m.Motive,
		Reference:     fromDocRef(m.Reference),
		Date:          m.Date,
		CreatedBy:     m.CreatedBy,
	}
}

// Entrada godoc
// @Summary      Registrar entrada de stock
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.EntradaRequest  true  "product_id, warehouse_id, quantity, lot_number y unit_cost opcionales"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/entradas [post]
func (h *InventoryHandler) Entrada(c *fiber.Ctx) error {
	var in dto.EntradaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Error: "cuerpo inválido"})
	}
	mov, err := h.engine.Entrada(c.Context(), inventory.EntradaInput{
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Quantity:    in.Quantity,
		Motive:      in.Motive,
		Reference:   toDocRef(in.Reference),
		LotNumber:   in.LotNumber,
		Expiry:      in.Expiry,
		UnitCost:    in.UnitCost,
		UserID:      GetUserID(c),
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(mov))
}

// Salida godoc
// @Summary      Registrar salida de stock (consumo FIFO)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SalidaRequest  true  "product_id, warehouse_id, quantity"
// @Success      201   {object}  dto.SalidaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/salidas [post]
func (h *InventoryHandler) Salida(c *fiber.Ctx) error {
	var in dto.SalidaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Error: "cuerpo inválido"})
	}
	mov, consumos, err := h.engine.Salida(c.Context(), inventory.SalidaInput{
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Quantity:    in.Quantity,
		Motive:      in.Motive,
		Reference:   toDocRef(in.Reference),
		UserID:      GetUserID(c),
	})
	if err != nil {
		return domainError(c, err)
	}
	resp := dto.SalidaResponse{Movement: toMovementResponse(mov)}
	for _, con := range consumos {
		resp.Consumos = append(resp.Consumos, dto.ConsumoResponse{
			LotNumber: con.Lote.Number,
			Quantity:  con.Cantidad,
			UnitCost:  con.Lote.UnitCost,
		})
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Costo godoc
// @Summary      Costo histórico de una cantidad hipotética
// @Description  Calcula el costo unitario que tendría una salida de la cantidad
//               indicada sin mutar ningún estado.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  true   "ID del producto"
// @Param        warehouse_id  query  string  true   "ID de la bodega"
// @Param        quantity      query  number  true   "Cantidad hipotética"
// @Success      200  {object}  dto.CostoResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/costo [get]
func (h *InventoryHandler) Costo(c *fiber.Ctx) error {
	var in dto.CostoRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Error: "parámetros inválidos"})
	}
	unitCost, err := h.costs.CalcularCostoHistorico(c.Context(), in.ProductID, in.Quantity, in.WarehouseID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.CostoResponse{
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Quantity:    in.Quantity,
		UnitCost:    unitCost,
		TotalCost:   unitCost.Mul(in.Quantity),
	})
}

// KitDisponibilidad godoc
// @Summary      Validar disponibilidad de un kit
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del kit"
// @Param        body  body  dto.KitDisponibilidadRequest  true  "quantity, warehouse_id, serials opcional"
// @Success      200   {object}  dto.KitDisponibilidadResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/kits/{id}/disponibilidad [post]
func (h *InventoryHandler) KitDisponibilidad(c *fiber.Ctx) error {
	var in dto.KitDisponibilidadRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Error: "cuerpo inválido"})
	}
	faltantes, err := h.kits.ValidarDisponibilidadKitPorID(c.Context(), c.Params("id"), in.Quantity, in.WarehouseID, in.Serials)
	if err != nil {
		return domainError(c, err)
	}
	resp := dto.KitDisponibilidadResponse{Disponible: len(faltantes) == 0, Faltantes: []dto.FaltanteDTO{}}
	for _, f := range faltantes {
		resp.Faltantes = append(resp.Faltantes, dto.FaltanteDTO{
			ComponentID: f.ComponentID,
			Nombre:      f.Nombre,
			Requerido:   f.Requerido,
			Disponible:  f.Disponible,
			Faltante:    f.Faltante,
		})
	}
	return c.JSON(resp)
}

// KitCosto godoc
// @Summary      Costo derivado de un kit
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id            path   string  true  "ID del kit"
// @Param        warehouse_id  query  string  true  "ID de la bodega"
// @Param        quantity      query  number  true  "Cantidad de kits"
// @Success      200  {object}  dto.CostoResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/kits/{id}/costo [get]
func (h *InventoryHandler) KitCosto(c *fiber.Ctx) error {
	var in dto.CostoRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Error: "parámetros inválidos"})
	}
	total, err := h.kits.CalcularCostoKitPorID(c.Context(), c.Params("id"), in.Quantity, in.WarehouseID)
	if err != nil {
		return domainError(c, err)
	}
	unitCost := total
	if in.Quantity.IsPositive() {
		unitCost = total.Div(in.Quantity)
	}
	return c.JSON(dto.CostoResponse{
		ProductID:   c.Params("id"),
		WarehouseID: in.WarehouseID,
		Quantity:    in.Quantity,
		UnitCost:    unitCost,
		TotalCost:   total,
	})
}

// Kardex godoc
// @Summary      Kárdex de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id            path   string  true   "ID del producto"
// @Param        warehouse_id  query  string  false  "Filtrar por bodega; vacío = todas"
// @Param        limit         query  int     false  "Límite de resultados"
// @Param        offset        query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/kardex/{id} [get]
func (h *InventoryHandler) Kardex(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Error: "paginación inválida"})
	}
	page.Normalize()
	movs, err := h.kardex.Movimientos(c.Context(), c.Params("id"), c.Query("warehouse_id"), page.Limit, page.Offset)
	if err != nil {
		return domainError(c, err)
	}
	items := make([]dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		items = append(items, toMovementResponse(m))
	}
	return c.JSON(items)
}

// KardexPDF godoc
// @Summary      Kárdex de un producto en PDF
// @Tags         inventory
// @Security     Bearer
// @Produce      application/pdf
// @Param        id            path   string  true   "ID del producto"
// @Param        warehouse_id  query  string  false  "Filtrar por bodega; vacío = todas"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/kardex/{id}/pdf [get]
func (h *InventoryHandler) KardexPDF(c *fiber.Ctx) error {
	pdfBytes, err := h.kardex.PDF(c.Context(), c.Params("id"), c.Query("warehouse_id"))
	if err != nil {
		return domainError(c, err)
	}
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `attachment; filename="kardex.pdf"`)
	return c.Send(pdfBytes)
}

// StockDisponibilidad godoc
// @Summary      Saldo de un producto en una bodega
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id            path   string  true  "ID del producto"
// @Param        warehouse_id  query  string  true  "ID de la bodega"
// @Success      200  {object}  dto.StockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock/{id} [get]
func (h *InventoryHandler) StockDisponibilidad(c *fiber.Ctx) error {
	productID := c.Params("id")
	warehouseID := c.Query("warehouse_id")
	if warehouseID == "" {
		total, err := h.stock.TotalProducto(c.Context(), productID)
		if err != nil {
			return domainError(c, err)
		}
		return c.JSON(dto.StockResponse{ProductID: productID, Quantity: total})
	}
	qty, err := h.stock.Disponibilidad(c.Context(), productID, warehouseID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.StockResponse{ProductID: productID, WarehouseID: warehouseID, Quantity: qty})
}

// StockPorBodega godoc
// @Summary      Saldos no-cero de una bodega
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la bodega"
// @Success      200  {array}  dto.StockResponse
// @Router       /api/inventory/bodegas/{id}/stock [get]
func (h *InventoryHandler) StockPorBodega(c *fiber.Ctx) error {
	list, err := h.stock.PorBodega(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	items := make([]dto.StockResponse, 0, len(list))
	for _, s := range list {
		items = append(items, dto.StockResponse{
			ProductID:   s.ProductID,
			WarehouseID: s.WarehouseID,
			Quantity:    s.Quantity,
			UpdatedAt:   s.UpdatedAt,
		})
	}
	return c.JSON(items)
}
