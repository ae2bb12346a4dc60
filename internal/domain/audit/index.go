package audit

// RuleIndex agrupa las reglas de dosificación por fármaco. Se construye
// una sola vez al arrancar el proceso y después es de solo lectura, así
// que es seguro compartirlo entre requests sin locks.
type RuleIndex struct {
	byDrug map[int64][]Rule
	total  int
}

// legacy sentinels que la tabla usaba para "sin límite".
const (
	sentinelMin = -9999
	sentinelMax = 9999
)

// BuildIndex valida y agrupa las filas crudas por drug_id, preservando
// el orden de entrada dentro de cada grupo. Filas sin drug_id se
// descartan. Nunca falla: una fuente vacía produce un índice vacío y
// toda consulta posterior se resuelve como "sin reglas".
func BuildIndex(records []Record) *RuleIndex {
	idx := &RuleIndex{byDrug: make(map[int64][]Rule)}

	for _, rec := range records {
		if rec.DrugID == 0 {
			continue
		}
		r := ruleFromRecord(rec)
		idx.byDrug[r.DrugID] = append(idx.byDrug[r.DrugID], r)
		idx.total++
	}

	return idx
}

// ruleFromRecord normaliza una fila cruda: enums cerrados, defaults de
// frecuencia y límites de rango explícitos en vez de sentinelas mágicos.
func ruleFromRecord(rec Record) Rule {
	r := Rule{
		DrugID:           rec.DrugID,
		Indicator:        ParseRenalIndicator(rec.RenalIndicator),
		DialysisRequired: rec.DialysisRequired,
		DoseAmount:       rec.DoseAmount,
		Unit:             ParseDoseUnit(rec.DoseUnit),
		DosesPerInterval: rec.DosesPerInterval,
		IntervalDays:     rec.IntervalDays,
		DividedDosing:    rec.DividedDosing,
		Guidance:         rec.Guidance,
	}

	if r.DosesPerInterval <= 0 {
		r.DosesPerInterval = 1
	}
	if r.IntervalDays <= 0 {
		r.IntervalDays = 1
	}

	// Límite ausente o sentinela legacy => sin límite por ese lado.
	if rec.RangeMin != nil && *rec.RangeMin > sentinelMin {
		v := *rec.RangeMin
		r.RangeMin = &v
	}
	if rec.RangeMax != nil && *rec.RangeMax < sentinelMax {
		v := *rec.RangeMax
		r.RangeMax = &v
	}

	return r
}

// Lookup devuelve el grupo de reglas del fármaco, en orden de entrada.
// O(1); un fármaco desconocido devuelve el slice vacío.
func (idx *RuleIndex) Lookup(drugID int64) []Rule {
	if idx == nil {
		return nil
	}
	return idx.byDrug[drugID]
}

// Len es la cantidad total de reglas indexadas.
func (idx *RuleIndex) Len() int {
	if idx == nil {
		return 0
	}
	return idx.total
}

// Drugs es la cantidad de fármacos con al menos una regla.
func (idx *RuleIndex) Drugs() int {
	if idx == nil {
		return 0
	}
	return len(idx.byDrug)
}
