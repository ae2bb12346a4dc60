package audit

import "math"

// selectRule elige la única regla aplicable del grupo de un fármaco.
//
// Orden del algoritmo:
//  1. Paciente en diálisis: la primera regla dialysis_required gana y
//     saltea todo filtro posterior (override clínico duro).
//  2. Sin diálisis: las reglas dialysis_required se descartan.
//  3. El valor renal del paciente se resuelve una sola vez (las reglas
//     de un mismo fármaco comparten indicador) y filtra por rango.
//  4. Entre las sobrevivientes se prefiere la de dosis nominal más
//     chica que aún cubre lo pedido (el techo más ajustado). Si
//     ninguna cubre lo pedido, la primera sobreviviente en orden de
//     entrada queda como fallback conservador.
//
// Devuelve false si ninguna regla pasa el filtro de rango.
func selectRule(rules []Rule, snap Snapshot, requested float64) (Rule, bool) {
	if len(rules) == 0 {
		return Rule{}, false
	}

	if snap.OnDialysis {
		for _, r := range rules {
			if r.DialysisRequired {
				return r, true
			}
		}
	}

	var (
		resolved bool
		rfValue  float64

		best     Rule
		found    bool
		bestDiff = math.Inf(1)
	)

	for _, r := range rules {
		if r.DialysisRequired && !snap.OnDialysis {
			continue
		}

		// Resolución perezosa: el primer candidato fija el indicador.
		if !resolved {
			rfValue = snap.indicatorValue(r.Indicator)
			resolved = true
		}

		if !r.contains(rfValue) {
			continue
		}

		if r.DoseAmount >= requested {
			diff := r.DoseAmount - requested
			if diff < bestDiff {
				bestDiff = diff
				best = r
				found = true
			}
		} else if !found {
			// fallback: primera elegible en orden de entrada
			best = r
			found = true
		}
	}

	return best, found
}
