package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrValidation         = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrConflict           = errors.New("conflicto con el estado actual")

	// Autenticación y credenciales.
	ErrInvalidCredential = errors.New("la contraseña actual es incorrecta")
	ErrInvalidToken      = errors.New("token de restablecimiento inválido o usado")
	ErrInvalidState      = errors.New("el usuario no tiene credencial")

	// ErrUnavailable marca fallos transitorios de infraestructura (conexión, timeout).
	// El transporte puede reintentar; nunca se traga en los casos de uso.
	ErrUnavailable = errors.New("almacenamiento no disponible")
)
