package services

import "errors"

// Common service errors
var (
	ErrNotFound        = errors.New("registro no encontrado")
	ErrInvalidPassword = errors.New("contraseña inválida")
	ErrUnauthorized    = errors.New("no autorizado")
	ErrInvalidState    = errors.New("transición de estado inválida")
	ErrInvalidAmount   = errors.New("monto pagado inválido")
	ErrRateUnresolved  = errors.New("no se puede determinar la tasa: se requiere tasa anual o saldo conocido con pagos realizados")
)
