package audit

import (
	"fmt"

	"renal-prescription-audit/internal/platform/logger"
)

// defaultIntervalSlack es el margen sobre la frecuencia de referencia
// antes de marcar ajuste de intervalo. Queda como constante configurable
// a propósito: el umbral es una política clínica, no una verdad.
const defaultIntervalSlack = 1.5

// Engine audita prescripciones contra el índice de reglas. Es un valor
// construido explícitamente (nada de singletons de paquete); el índice
// es inmutable, así que un mismo Engine sirve a requests concurrentes.
type Engine struct {
	index *RuleIndex
	log   logger.Logger

	// IntervalSlack multiplica la frecuencia de referencia en el chequeo
	// de intervalo. Default 1.5.
	IntervalSlack float64
}

func NewEngine(index *RuleIndex, log logger.Logger) *Engine {
	return &Engine{
		index:         index,
		log:           log,
		IntervalSlack: defaultIntervalSlack,
	}
}

// BatchItem es una prescripción del lote con su fármaco ya resuelto.
type BatchItem struct {
	DrugID int64
	Rx     Candidate
}

// AuditOne audita una prescripción contra la foto renal del paciente.
// Siempre devuelve un Result determinado; los fallos de cómputo degradan
// a NORMAL con un mensaje de diagnóstico (fail-open, ver classify).
func (e *Engine) AuditOne(snap Snapshot, rx Candidate, drugID int64) Result {
	return e.audit(snap.withDefaults(), rx, drugID)
}

// AuditMany audita un lote de prescripciones que comparten la misma
// foto del paciente. Los escalares derivados del paciente se computan
// una sola vez; el resultado queda alineado posicionalmente con la
// entrada y el fallo de un ítem nunca aborta el lote.
func (e *Engine) AuditMany(snap Snapshot, items []BatchItem) []Result {
	snap = snap.withDefaults()

	out := make([]Result, len(items))
	for i, it := range items {
		out[i] = e.audit(snap, it.Rx, it.DrugID)
	}
	return out
}

// audit asume snap ya normalizado con withDefaults.
func (e *Engine) audit(snap Snapshot, rx Candidate, drugID int64) Result {
	rules := e.index.Lookup(drugID)
	if len(rules) == 0 {
		// sin datos de referencia no hay auditoría posible
		return Result{Outcome: OutcomeNoRule}
	}

	rule, ok := selectRule(rules, snap, e.requestedAmount(rx))
	if !ok {
		return Result{Outcome: OutcomeNoRule}
	}

	res, err := classify(rule, referenceDose(rule, snap), referenceFrequency(rule), rx, e.slack())
	if err != nil {
		// Política fail-open: disponibilidad sobre rigor. Flaggeado como
		// decisión abierta; una alternativa fail-closed devolvería un
		// estado "auditoría no disponible" en vez de NORMAL.
		if e.log != nil {
			e.log.Warn("audit classification fault", map[string]any{
				"drug_id": drugID,
				"error":   err.Error(),
			})
		}
		return Result{
			Outcome:  OutcomeNormal,
			Guidance: fmt.Sprintf("audit could not be completed: %v", err),
		}
	}
	return res
}

// requestedAmount es la cantidad pedida que guía la selección de regla.
// Acá un texto no parseable cae a cero sin error: la selección debe ser
// tolerante, el error recién importa al clasificar.
func (e *Engine) requestedAmount(rx Candidate) float64 {
	if rx.RealAmount != nil && *rx.RealAmount != 0 {
		return *rx.RealAmount
	}
	v, err := parseAmount(rx.DoseAmount)
	if err != nil {
		return 0
	}
	return v
}

func (e *Engine) slack() float64 {
	if e.IntervalSlack > 0 {
		return e.IntervalSlack
	}
	return defaultIntervalSlack
}
