package inventory

import "strings"

// Categorías que identifican servicios no almacenables. El sistema legado
// decidía esto por substring sobre la categoría en cada movimiento; aquí la
// clasificación se resuelve UNA vez al crear/editar el producto y queda en
// Product.TracksStock. Un movimiento sobre un servicio es un no-op documentado.
var serviceCategories = []string{
	"consultation",
	"lab test",
	"opd",
}

// IsServiceCategory indica si una categoría corresponde a un servicio
// (no almacenable): match exacto contra la lista o prefijo "service".
func IsServiceCategory(category string) bool {
	c := strings.ToLower(strings.TrimSpace(category))
	if c == "" {
		return false
	}
	if strings.HasPrefix(c, "service") {
		return true
	}
	for _, s := range serviceCategories {
		if c == s {
			return true
		}
	}
	return false
}

// TracksStock devuelve el flag a persistir en el producto según su categoría.
func TracksStock(category string) bool {
	return !IsServiceCategory(category)
}
