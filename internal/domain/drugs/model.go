package drugs

// Product es un producto comercial del catálogo HIRA. Name incluye la
// presentación ("한글상품명(약품규격)"), que es la clave con la que el
// frontend y las órdenes refieren al producto.
type Product struct {
	// ItemCode es el código estándar del producto (품목기준코드).
	// Coincide con el drug_id de la tabla de reglas de dosificación.
	ItemCode int64

	Name         string
	Ingredient   string
	Manufacturer string
	Coverage     string

	// Form es la forma farmacéutica (제형구분); puede venir vacía.
	Form string

	// SpecAmount es la concentración numérica del envase
	// (약품규격_숫자). nil cuando la fila no la trae.
	SpecAmount *float64
}

// IngredientEntry es una fila del dataset regulatorio de ingredientes,
// enlazada al catálogo por número de serie del producto. El número de
// serie y el código estándar comparten valor.
type IngredientEntry struct {
	ItemSerial  int64
	EnglishName string
}

// Details es la vista completa de un producto: la fila de catálogo más
// los datos resueltos por los cruces (ingrediente en inglés y forma).
type Details struct {
	Product
	EnglishIngredient string
	ResolvedForm      string
}
