package domain

import "errors"

// Errores de dominio (sin dependencias externas). Todos son terminales
// para la ejecución en curso: ningún componente los recupera localmente.
var (
	ErrConfigNotFound    = errors.New("perfil de configuración no encontrado")
	ErrTemplateNotFound  = errors.New("plantilla de factura no encontrada")
	ErrMalformedLineItem = errors.New("artículo mal formado")
	ErrMalformedDiscount = errors.New("descuento mal formado")
	ErrInvalidAmount     = errors.New("importe inválido")
	ErrMissingVatRate    = errors.New("tasa de IVA ausente o no numérica en el perfil")
	ErrRendererFailure   = errors.New("fallo del motor de renderizado")
)
