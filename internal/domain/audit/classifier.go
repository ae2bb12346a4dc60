package audit

import (
	"fmt"
	"strconv"
	"strings"
)

// Mensajes por defecto cuando la regla no trae texto de orientación.
const (
	msgContraindicated = "this drug is contraindicated for this patient"
	msgDoseAdjust      = "dose adjustment needed"
	msgIntervalAdjust  = "dosing interval adjustment needed"
	msgAdequateDose    = "adequate dose"
)

// classify aplica el procedimiento de decisión ordenado sobre la regla
// ya seleccionada y escalada. Gana la primera condición que matchea:
//
//  1. CONTRAINDICATED si la dosis de referencia es cero (la regla
//     declara dosis nominal cero), sin mirar nada más.
//  2. Se resuelve la cantidad comparable del paciente: unidades de
//     conteo usan la cantidad cruda; el resto prefiere el real amount.
//  3. DOSE_ADJUSTMENT_NEEDED comparando totales diarios (divided
//     dosing) o cantidad por toma.
//  4. INTERVAL_ADJUSTMENT_NEEDED si la frecuencia pedida excede la de
//     referencia por más del margen configurado.
//  5. NORMAL.
//
// Un error de parseo numérico se devuelve al motor, que decide la
// política de degradación; classify no la fija.
func classify(r Rule, refDose, refFreq float64, rx Candidate, slack float64) (Result, error) {
	if refDose == 0 {
		return Result{
			Outcome:  OutcomeContraindicated,
			Guidance: guidanceOr(r, msgContraindicated),
		}, nil
	}

	amount, err := comparableAmount(r, rx)
	if err != nil {
		return Result{}, err
	}

	dosesPerDay := rx.DosesPerDay
	if dosesPerDay <= 0 {
		dosesPerDay = 1
	}

	over := false
	if r.DividedDosing {
		// total diario contra total diario
		over = amount*float64(dosesPerDay) > refDose*refFreq
	} else {
		// cantidad por toma contra dosis de referencia
		over = amount > refDose
	}
	if over {
		return Result{
			Outcome:  OutcomeDoseAdjust,
			Guidance: guidanceOr(r, msgDoseAdjust),
		}, nil
	}

	if float64(dosesPerDay) > refFreq*slack {
		return Result{
			Outcome:  OutcomeIntervalAdjust,
			Guidance: guidanceOr(r, msgIntervalAdjust),
		}, nil
	}

	return Result{
		Outcome:  OutcomeNormal,
		Guidance: guidanceOr(r, msgAdequateDose),
	}, nil
}

// comparableAmount resuelve la cantidad del paciente a comparar.
// Comprimidos se comparan por cantidad prescrita; para el resto el
// real amount (dosis × concentración del envase) es más fiel si existe.
func comparableAmount(r Rule, rx Candidate) (float64, error) {
	if r.Unit.IsDiscrete() {
		return parseAmount(rx.DoseAmount)
	}
	if rx.RealAmount != nil && *rx.RealAmount != 0 {
		return *rx.RealAmount, nil
	}
	return parseAmount(rx.DoseAmount)
}

// parseAmount convierte la cantidad textual de la prescripción.
// Vacío cuenta como cero; texto no numérico es un fallo de clasificación.
func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("dose amount %q is not numeric", s)
	}
	return v, nil
}

func guidanceOr(r Rule, fallback string) string {
	if strings.TrimSpace(r.Guidance) != "" {
		return r.Guidance
	}
	return fallback
}
