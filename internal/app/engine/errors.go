package engine

import "errors"

// Ошибки движка. Хэндлеры переводят их в HTTP-коды через errors.Is.
var (
	ErrNotFound             = errors.New("no encontrado")
	ErrForbidden            = errors.New("prohibido")
	ErrTelescopeUnavailable = errors.New("telescopio no disponible")
	ErrBusy                 = errors.New("sesion ocupada")
	ErrInvalidInput         = errors.New("datos invalidos")
	ErrHardwareUnreachable  = errors.New("hardware inalcanzable")
	ErrAlreadyQueued        = errors.New("ya en la cola")
)
