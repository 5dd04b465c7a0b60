package service

const (
	// Ventana de análisis de finanzas
	DefaultLookAheadDays = 30

	// Plan de pagos diferidos estándar: 4 pagos cada 2 semanas, sin comisión
	DefaultInstallments  = 4
	DefaultIntervalWeeks = 2

	// Límites de montos financiables
	DefaultMinDeferredAmount = "35"   // compras menores se pagan de una vez
	DefaultMaxDeferredAmount = "2000" // compras mayores siempre se pagan de una vez

	// Porcentajes del snapshot financiero
	DefaultBufferPercent          = "0.10" // colchón sobre el balance actual
	DefaultSafeInstallmentPercent = "0.25" // techo por cuota sobre lo disponible

	DefaultLowBalanceThreshold = "100" // umbral de advertencia de balance bajo

	MaxCartItems = 100 // máximo de items por request
)

// Categories that are always paid immediately.
var defaultEssentialCategories = []string{
	"Groceries",
	"Baby & Kids",
	"Health & Beauty",
	"Medicine",
}
