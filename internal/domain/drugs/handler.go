package drugs

import (
	"encoding/json"
	"net/http"
	"strings"

	"renal-prescription-audit/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, cat *Catalog) {
	r.Route("/drugs", func(dr chi.Router) {
		dr.Get("/", searchNamesHandler(cat))
		dr.Get("/search", searchWithDetailsHandler(cat))
		dr.Get("/info", drugInfoHandler(cat))
		dr.Get("/english-ingredient", englishIngredientHandler(cat))
		dr.Get("/unit", drugUnitHandler(cat))
		dr.Get("/details", drugDetailsHandler(cat))
		dr.Get("/count", drugCountHandler(cat))
		dr.Post("/batch-search", batchSearchHandler(cat))
	})
}

type productResponse struct {
	ItemCode     int64    `json:"item_code"`
	Name         string   `json:"name"`
	Ingredient   string   `json:"ingredient"`
	Manufacturer string   `json:"manufacturer"`
	Coverage     string   `json:"coverage"`
	Form         string   `json:"form"`
	SpecAmount   *float64 `json:"spec_amount"`
}

type detailsResponse struct {
	productResponse
	EnglishIngredient string `json:"english_ingredient"`
	Unit              string `json:"unit"`
}

type batchSearchRequest struct {
	DrugNames []string `json:"drug_names"`
}

type batchSearchResult struct {
	DrugName string           `json:"drug_name"`
	Found    bool             `json:"found"`
	DrugData *productResponse `json:"drug_data"`
}

func toProductResponse(p Product) productResponse {
	return productResponse{
		ItemCode:     p.ItemCode,
		Name:         p.Name,
		Ingredient:   p.Ingredient,
		Manufacturer: p.Manufacturer,
		Coverage:     p.Coverage,
		Form:         p.Form,
		SpecAmount:   p.SpecAmount,
	}
}

// requireUser repite el chequeo de claims de los demás módulos; el
// catálogo es data de referencia pero igual pide sesión.
func requireUser(w http.ResponseWriter, r *http.Request) bool {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return false
	}
	return true
}

// searchNamesHandler godoc
// @Summary Autocompletar nombres de producto
// @Description Busca por substring sobre el nombre comercial (con presentación). Devuelve hasta 20 nombres sin duplicados. Query vacía devuelve lista vacía.
// @Tags drugs
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param query query string false "Texto a buscar"
// @Success 200 {array} string
// @Failure 401 {string} string "unauthorized"
// @Failure 503 {string} string "catálogo no disponible"
// @Router /drugs [get]
func searchNamesHandler(cat *Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireUser(w, r) {
			return
		}
		if cat.Empty() {
			http.Error(w, "drug catalog unavailable", http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusOK, cat.SearchNames(r.URL.Query().Get("query")))
	}
}

// searchWithDetailsHandler godoc
// @Summary Buscar producto con resumen para el frontend
// @Tags drugs
// @Produce json
// @Param name query string true "Nombre exacto del producto"
// @Success 200 {array} drugs.detailsResponse
// @Router /drugs/search [get]
func searchWithDetailsHandler(cat *Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireUser(w, r) {
			return
		}

		name := r.URL.Query().Get("name")
		d, ok := cat.DetailsByName(name)
		if !ok {
			// lista vacía, no 404: el frontend itera el resultado
			writeJSON(w, http.StatusOK, []detailsResponse{})
			return
		}
		writeJSON(w, http.StatusOK, []detailsResponse{{
			productResponse:   toProductResponse(d.Product),
			EnglishIngredient: d.EnglishIngredient,
			Unit:              d.ResolvedForm,
		}})
	}
}

// drugInfoHandler godoc
// @Summary Ficha de un producto por nombre exacto
// @Tags drugs
// @Produce json
// @Param drug_name query string true "Nombre exacto del producto"
// @Success 200 {object} drugs.productResponse
// @Failure 404 {string} string "drug not found"
// @Router /drugs/info [get]
func drugInfoHandler(cat *Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireUser(w, r) {
			return
		}

		p, ok := cat.FindByName(r.URL.Query().Get("drug_name"))
		if !ok {
			http.Error(w, "drug not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toProductResponse(p))
	}
}

// englishIngredientHandler godoc
// @Summary Ingrediente en inglés de un producto
// @Description Cruza el catálogo con el dataset regulatorio por código estándar. Devuelve "-" cuando el cruce no resuelve.
// @Tags drugs
// @Produce json
// @Param drug_name query string true "Nombre exacto del producto"
// @Success 200 {object} map[string]string
// @Router /drugs/english-ingredient [get]
func englishIngredientHandler(cat *Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireUser(w, r) {
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"english_ingredient": cat.EnglishIngredient(r.URL.Query().Get("drug_name")),
		})
	}
}

// drugUnitHandler godoc
// @Summary Forma farmacéutica de un producto
// @Tags drugs
// @Produce json
// @Param drug_name query string true "Nombre exacto del producto"
// @Success 200 {object} map[string]string
// @Router /drugs/unit [get]
func drugUnitHandler(cat *Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireUser(w, r) {
			return
		}
		name := r.URL.Query().Get("drug_name")
		writeJSON(w, http.StatusOK, map[string]string{
			"unit":      cat.Form(name),
			"drug_name": name,
		})
	}
}

// drugDetailsHandler godoc
// @Summary Ficha completa: producto + ingrediente en inglés + forma
// @Tags drugs
// @Produce json
// @Param drug_name query string true "Nombre exacto del producto"
// @Success 200 {object} drugs.detailsResponse
// @Failure 404 {string} string "drug not found"
// @Router /drugs/details [get]
func drugDetailsHandler(cat *Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireUser(w, r) {
			return
		}

		d, ok := cat.DetailsByName(r.URL.Query().Get("drug_name"))
		if !ok {
			http.Error(w, "drug not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, detailsResponse{
			productResponse:   toProductResponse(d.Product),
			EnglishIngredient: d.EnglishIngredient,
			Unit:              d.ResolvedForm,
		})
	}
}

// drugCountHandler godoc
// @Summary Tamaño de los datasets cargados
// @Tags drugs
// @Produce json
// @Success 200 {object} map[string]int
// @Router /drugs/count [get]
func drugCountHandler(cat *Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireUser(w, r) {
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{
			"catalog_count":    cat.Products(),
			"ingredient_count": cat.Ingredients(),
		})
	}
}

// batchSearchHandler godoc
// @Summary Resolver varios productos en una sola llamada
// @Description Cada nombre del lote se resuelve por separado; los no encontrados vuelven con found=false en vez de cortar el lote.
// @Tags drugs
// @Accept json
// @Produce json
// @Param payload body drugs.batchSearchRequest true "Nombres a resolver"
// @Success 200 {array} drugs.batchSearchResult
// @Failure 400 {string} string "invalid json"
// @Router /drugs/batch-search [post]
func batchSearchHandler(cat *Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireUser(w, r) {
			return
		}

		var req batchSearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		out := make([]batchSearchResult, 0, len(req.DrugNames))
		for _, name := range req.DrugNames {
			p, ok := cat.FindByName(name)
			if !ok {
				out = append(out, batchSearchResult{DrugName: name})
				continue
			}
			resp := toProductResponse(p)
			out = append(out, batchSearchResult{DrugName: name, Found: true, DrugData: &resp})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos
// módulos; es trivial y evita un paquete "httputil" compartido.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
