package drugdata

import (
	"bytes"
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"renal-prescription-audit/internal/domain/drugs"
	"renal-prescription-audit/internal/platform/logger"
)

// Los datasets de origen son volcados JSON con claves en coreano
// (catálogo HIRA y dataset regulatorio de ingredientes). Los tipos
// crudos viven acá; el dominio solo ve drugs.Product / IngredientEntry.

type hiraRow struct {
	Name         string    `json:"한글상품명(약품규격)"`
	ItemCode     flexInt   `json:"품목기준코드"`
	Ingredient   string    `json:"성분명"`
	Manufacturer string    `json:"업체명"`
	Coverage     string    `json:"급여구분"`
	Form         string    `json:"제형구분"`
	SpecAmount   flexFloat `json:"약품규격_숫자"`
}

type ingredientRow struct {
	ItemSerial  flexInt `json:"품목일련번호"`
	EnglishName string  `json:"영문성분명"`
}

// flexInt acepta el valor como número o como texto; los volcados
// mezclan ambos. Valor no parseable queda en cero (fail-soft).
type flexInt int64

func (v *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(bytes.Trim(bytes.TrimSpace(b), `"`)))
	if s == "" || s == "null" {
		*v = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		*v = 0
		return nil
	}
	*v = flexInt(n)
	return nil
}

// flexFloat es el análogo para la concentración del envase; distingue
// "ausente" de cero con el flag ok.
type flexFloat struct {
	value float64
	ok    bool
}

func (v *flexFloat) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(bytes.Trim(bytes.TrimSpace(b), `"`)))
	if s == "" || s == "null" {
		*v = flexFloat{}
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*v = flexFloat{}
		return nil
	}
	*v = flexFloat{value: f, ok: true}
	return nil
}

// LoadCatalog lee el volcado HIRA. Archivo ausente o corrupto degrada
// a catálogo vacío, nunca corta el arranque.
func LoadCatalog(path string, log logger.Logger) []drugs.Product {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Warn("drug catalog unavailable", map[string]any{"path": path, "error": err.Error()})
		return nil
	}

	var rows []hiraRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		log.Warn("drug catalog malformed", map[string]any{"path": path, "error": err.Error()})
		return nil
	}

	out := make([]drugs.Product, 0, len(rows))
	for _, r := range rows {
		p := drugs.Product{
			ItemCode:     int64(r.ItemCode),
			Name:         r.Name,
			Ingredient:   r.Ingredient,
			Manufacturer: r.Manufacturer,
			Coverage:     r.Coverage,
			Form:         r.Form,
		}
		if r.SpecAmount.ok {
			v := r.SpecAmount.value
			p.SpecAmount = &v
		}
		out = append(out, p)
	}

	log.Info("drug catalog loaded", map[string]any{"path": path, "products": len(out)})
	return out
}

// LoadIngredients lee el dataset regulatorio de ingredientes.
func LoadIngredients(path string, log logger.Logger) []drugs.IngredientEntry {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Warn("ingredient dataset unavailable", map[string]any{"path": path, "error": err.Error()})
		return nil
	}

	var rows []ingredientRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		log.Warn("ingredient dataset malformed", map[string]any{"path": path, "error": err.Error()})
		return nil
	}

	out := make([]drugs.IngredientEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, drugs.IngredientEntry{
			ItemSerial:  int64(r.ItemSerial),
			EnglishName: r.EnglishName,
		})
	}

	log.Info("ingredient dataset loaded", map[string]any{"path": path, "entries": len(out)})
	return out
}
