package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrSerialUnavailable  = errors.New("serial no disponible")
	ErrInvalidKit         = errors.New("composición de kit inválida")
	ErrCannotReverse      = errors.New("el traslado no puede revertirse")
	ErrLockTimeout        = errors.New("bloqueo de fila no disponible")
)

// InsufficientStockError detalla un faltante de stock: qué producto, cuánto se
// pidió y cuánto había al momento de la verificación bajo bloqueo.
// errors.Is(err, ErrInsufficientStock) responde true.
type InsufficientStockError struct {
	ProductID  string
	Nombre     string
	Solicitado decimal.Decimal
	Disponible decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para: %s. Solicitado: %s, Disponible: %s",
		e.Nombre, e.Solicitado.String(), e.Disponible.String())
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// SerialUnavailableError nombra los seriales que no están en_stock en la bodega
// esperada. errors.Is(err, ErrSerialUnavailable) responde true.
type SerialUnavailableError struct {
	WarehouseID string
	Seriales    []string
}

func (e *SerialUnavailableError) Error() string {
	return fmt.Sprintf("seriales no disponibles en bodega %s: %s",
		e.WarehouseID, strings.Join(e.Seriales, ", "))
}

func (e *SerialUnavailableError) Is(target error) bool {
	return target == ErrSerialUnavailable
}
