package ruletable

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"strconv"
	"strings"

	"renal-prescription-audit/internal/domain/audit"
	"renal-prescription-audit/internal/platform/logger"
)

// rawRecord es la fila cruda de la tabla. Es el espejo de audit.Record
// salvo los límites de rango, que acá son lenientes: la tabla viene de
// un volcado hecho con herramientas que escriben NaN en los límites
// ausentes, y una fila con un límite ilegible no puede tirar la tabla
// entera.
type rawRecord struct {
	DrugID           int64     `json:"drug_id"`
	RenalIndicator   string    `json:"rf_indicator"`
	RangeMin         flexBound `json:"crcl_min"`
	RangeMax         flexBound `json:"crcl_max"`
	DialysisRequired bool      `json:"dialysis_required"`
	DoseAmount       float64   `json:"dose_amount"`
	DoseUnit         string    `json:"dose_unit"`
	DosesPerInterval float64   `json:"doses_per_interval"`
	IntervalDays     float64   `json:"interval_length_days"`
	DividedDosing    bool      `json:"divided_dosing"`
	Guidance         string    `json:"guidance_text"`
}

// flexBound acepta el límite como número o como texto; null, NaN,
// infinito o basura quedan como "sin límite" por ese lado (fail-soft,
// mismo patrón que los loaders de drugdata).
type flexBound struct {
	value float64
	ok    bool
}

func (v *flexBound) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(bytes.Trim(bytes.TrimSpace(b), `"`)))
	if s == "" || s == "null" {
		*v = flexBound{}
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	// ParseFloat acepta "NaN" e "Inf": también son "sin límite"
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		*v = flexBound{}
		return nil
	}
	*v = flexBound{value: f, ok: true}
	return nil
}

func (v flexBound) ptr() *float64 {
	if !v.ok {
		return nil
	}
	f := v.value
	return &f
}

// sanitize reemplaza los tokens NaN, Infinity y -Infinity por null.
// No son JSON válido, pero el serializador de la fuente los emite tal
// cual y el scanner de encoding/json rechaza el documento completo
// antes de llegar a cualquier UnmarshalJSON. El reemplazo respeta los
// literales de string.
func sanitize(raw []byte) []byte {
	out := make([]byte, 0, len(raw))
	inString, escaped := false, false

	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if inString {
			out = append(out, c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch {
		case c == '"':
			inString = true
			out = append(out, c)
		case c == '-' && bytes.HasPrefix(raw[i:], []byte("-Infinity")):
			out = append(out, "null"...)
			i += len("-Infinity") - 1
		case c == 'I' && bytes.HasPrefix(raw[i:], []byte("Infinity")):
			out = append(out, "null"...)
			i += len("Infinity") - 1
		case c == 'N' && bytes.HasPrefix(raw[i:], []byte("NaN")):
			out = append(out, "null"...)
			i += len("NaN") - 1
		default:
			out = append(out, c)
		}
	}
	return out
}

// Load lee la tabla de reglas de dosificación desde un archivo JSON
// (un array de filas crudas). La tabla es un recurso externo que se lee
// una sola vez al arrancar; el archivo se cierra apenas se parsea.
//
// Un archivo ausente o ilegible NO es fatal: se loguea y se devuelve
// un slice vacío, con lo que el motor queda en modo degradado y toda
// auditoría responde NO_APPLICABLE_RULE. Un límite de rango malformado
// degrada solo esa fila a "sin límite", nunca la tabla entera.
func Load(path string, log logger.Logger) []audit.Record {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Warn("dosage rule table unavailable, auditing degraded", map[string]any{
			"path":  path,
			"error": err.Error(),
		})
		return nil
	}

	if bytes.Contains(raw, []byte("NaN")) || bytes.Contains(raw, []byte("Infinity")) {
		raw = sanitize(raw)
	}

	var rows []rawRecord
	if err := json.Unmarshal(raw, &rows); err != nil {
		log.Warn("dosage rule table malformed, auditing degraded", map[string]any{
			"path":  path,
			"error": err.Error(),
		})
		return nil
	}

	records := make([]audit.Record, 0, len(rows))
	for _, r := range rows {
		records = append(records, audit.Record{
			DrugID:           r.DrugID,
			RenalIndicator:   r.RenalIndicator,
			RangeMin:         r.RangeMin.ptr(),
			RangeMax:         r.RangeMax.ptr(),
			DialysisRequired: r.DialysisRequired,
			DoseAmount:       r.DoseAmount,
			DoseUnit:         r.DoseUnit,
			DosesPerInterval: r.DosesPerInterval,
			IntervalDays:     r.IntervalDays,
			DividedDosing:    r.DividedDosing,
			Guidance:         r.Guidance,
		})
	}

	log.Info("dosage rule table loaded", map[string]any{
		"path":  path,
		"rules": len(records),
	})
	return records
}
