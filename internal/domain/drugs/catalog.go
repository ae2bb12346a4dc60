package drugs

import "strings"

// defaultSearchLimit acota el autocompletado de nombres.
const defaultSearchLimit = 20

// notFound es el valor que devuelven los cruces que no resuelven.
// Lo espera así el frontend, no lo cambies por string vacío.
const notFound = "-"

// Catalog es el catálogo de productos en memoria, inmutable después de
// construirse. Igual que el índice de reglas, se arma una vez al
// arrancar y se comparte entre requests sin locks.
type Catalog struct {
	products []Product
	byName   map[string]int // primer producto con ese nombre

	englishBySerial map[int64]string
	ingredientCount int
}

// NewCatalog indexa productos e ingredientes. Filas sin nombre o sin
// número de serie se descartan en silencio: los datasets de origen
// traen basura y el catálogo degrada, no explota.
func NewCatalog(products []Product, ingredients []IngredientEntry) *Catalog {
	c := &Catalog{
		byName:          make(map[string]int),
		englishBySerial: make(map[int64]string),
	}

	for _, p := range products {
		if strings.TrimSpace(p.Name) == "" {
			continue
		}
		c.products = append(c.products, p)
		if _, ok := c.byName[p.Name]; !ok {
			c.byName[p.Name] = len(c.products) - 1
		}
	}

	for _, in := range ingredients {
		if in.ItemSerial == 0 {
			continue
		}
		c.ingredientCount++
		if strings.TrimSpace(in.EnglishName) == "" {
			continue
		}
		if _, ok := c.englishBySerial[in.ItemSerial]; !ok {
			c.englishBySerial[in.ItemSerial] = in.EnglishName
		}
	}

	return c
}

// SearchNames devuelve nombres de producto que contienen el texto
// buscado, sin duplicados, en orden de catálogo y acotado a 20.
// Query vacía devuelve vacío (el autocompletado no lista todo).
func (c *Catalog) SearchNames(query string) []string {
	query = strings.TrimSpace(query)
	if query == "" {
		return []string{}
	}

	out := make([]string, 0, defaultSearchLimit)
	seen := make(map[string]struct{})

	for _, p := range c.products {
		if !strings.Contains(p.Name, query) {
			continue
		}
		if _, dup := seen[p.Name]; dup {
			continue
		}
		seen[p.Name] = struct{}{}
		out = append(out, p.Name)
		if len(out) == defaultSearchLimit {
			break
		}
	}
	return out
}

// FindByName busca el producto por nombre exacto (con presentación).
func (c *Catalog) FindByName(name string) (Product, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Product{}, false
	}
	return c.products[i], true
}

// EnglishIngredient cruza el producto con el dataset regulatorio por
// código estándar y devuelve el ingrediente en inglés, o "-" si el
// producto no existe o el cruce no resuelve.
func (c *Catalog) EnglishIngredient(name string) string {
	p, ok := c.FindByName(name)
	if !ok {
		return notFound
	}
	if en, ok := c.englishBySerial[p.ItemCode]; ok {
		return en
	}
	return notFound
}

// Form devuelve la forma farmacéutica del producto. Varias filas pueden
// compartir nombre; gana la primera con forma no vacía, o "-".
func (c *Catalog) Form(name string) string {
	for _, p := range c.products {
		if p.Name != name {
			continue
		}
		if f := strings.TrimSpace(p.Form); f != "" {
			return f
		}
	}
	return notFound
}

// DetailsByName arma la vista completa del producto.
func (c *Catalog) DetailsByName(name string) (Details, bool) {
	p, ok := c.FindByName(name)
	if !ok {
		return Details{}, false
	}
	return Details{
		Product:           p,
		EnglishIngredient: c.EnglishIngredient(name),
		ResolvedForm:      c.Form(name),
	}, true
}

// RealAmount calcula la cantidad real de una toma: concentración del
// envase por cantidad prescrita. false cuando el producto no trae
// concentración y el cálculo no es posible.
func (c *Catalog) RealAmount(name string, dose float64) (float64, bool) {
	p, ok := c.FindByName(name)
	if !ok || p.SpecAmount == nil {
		return 0, false
	}
	return *p.SpecAmount * dose, true
}

// Products es la cantidad de filas de catálogo indexadas.
func (c *Catalog) Products() int { return len(c.products) }

// Ingredients es la cantidad de filas del dataset regulatorio.
func (c *Catalog) Ingredients() int { return c.ingredientCount }

// Empty indica un catálogo sin productos (datasets ausentes).
func (c *Catalog) Empty() bool { return len(c.products) == 0 }
