package dto

// Límites de los listados recientes (libro y ventas).
const (
	DefaultRecentLimit = 50
	MaxRecentLimit     = 200
)

// ClampLimit aplica el valor por defecto si limit <= 0 y recorta a max.
func ClampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
