package model

// Expense category keys as stored on Transaccion.Categoria.
// The label table below is the single source of truth for their display
// names — consumers must never keep their own translation maps.
var etiquetasCategoria = map[string]string{
	"mantenimiento": "Mantenimiento",
	"limpieza":      "Limpieza",
	"papeleria":     "Papelería y oficina",
	"jardineria":    "Jardinería",
	"vigilancia":    "Vigilancia",
	"transporte":    "Transporte y mensajería",
	"servicios":     "Servicios (agua, luz, gas)",
	"otros":         "Otros",
}

// EtiquetaCategoria returns the display label for a category key.
// Unknown keys fall back to the key itself so legacy data still renders.
func EtiquetaCategoria(clave string) string {
	if etiqueta, ok := etiquetasCategoria[clave]; ok {
		return etiqueta
	}
	return clave
}

// CategoriaValida reports whether clave is a known expense category.
func CategoriaValida(clave string) bool {
	_, ok := etiquetasCategoria[clave]
	return ok
}
