package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrRecipeNotFound     = errors.New("receta no encontrada")
	ErrIngredientNotFound = errors.New("ingrediente no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrInvalidEvent       = errors.New("evento inválido: no se puede derivar el conjunto de recetas")
)

// IsDomainError indica si el error es uno de los centinelas de dominio
// (no reintentable). Todo lo demás se trata como fallo de infraestructura.
func IsDomainError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrRecipeNotFound) ||
		errors.Is(err, ErrIngredientNotFound) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidEvent)
}
