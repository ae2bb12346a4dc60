package audit

// RenalIndicator define qué valor del paciente se usa para evaluar
// la elegibilidad de una regla.
// @Enum crcl, ecrcl, egfr, scr
type RenalIndicator string

const (
	IndicatorCrCl           RenalIndicator = "crcl"  // aclaramiento de creatinina
	IndicatorCrClNormalized RenalIndicator = "ecrcl" // CrCl normalizado por BSA
	IndicatorEGFR           RenalIndicator = "egfr"
	IndicatorSerumCr        RenalIndicator = "scr" // creatinina sérica
)

// ParseRenalIndicator normaliza el indicador renal de una fila cruda.
// Valor vacío o desconocido cae en CrCl (el default de la tabla).
func ParseRenalIndicator(s string) RenalIndicator {
	switch RenalIndicator(s) {
	case IndicatorCrCl, IndicatorCrClNormalized, IndicatorEGFR, IndicatorSerumCr:
		return RenalIndicator(s)
	default:
		return IndicatorCrCl
	}
}

// DoseUnit es la unidad de la dosis nominal de una regla.
// Las unidades por superficie corporal y por peso escalan la dosis al
// paciente; el resto son cantidades planas.
type DoseUnit string

const (
	UnitMgPerM2       DoseUnit = "mg/m2"
	UnitMgPerKg       DoseUnit = "mg/kg"
	UnitMgPerKgPerDay DoseUnit = "mg/kg/day"
	UnitMlPerKg       DoseUnit = "ml/kg"
	UnitMcg           DoseUnit = "mcg"
	UnitMg            DoseUnit = "mg"
	UnitTablet        DoseUnit = "tablet"
	UnitMl            DoseUnit = "ml"
)

// doseUnitAliases mapea las unidades tal como vienen en la tabla de
// referencia (en coreano, formato HIRA) a su forma canónica.
var doseUnitAliases = map[string]DoseUnit{
	"밀리그램/제곱미터":  UnitMgPerM2,
	"밀리그램/킬로그램":  UnitMgPerKg,
	"밀리그램/킬로그램/일": UnitMgPerKgPerDay,
	"밀리리터/킬로그램":  UnitMlPerKg,
	"마이크로그램":     UnitMcg,
	"밀리그램":       UnitMg,
	"정":          UnitTablet,
	"밀리리터":       UnitMl,
}

// ParseDoseUnit normaliza una unidad cruda. Una unidad no reconocida
// se conserva tal cual y se trata como cantidad plana: una tabla
// malformada degrada el servicio, no lo rompe.
func ParseDoseUnit(s string) DoseUnit {
	if u, ok := doseUnitAliases[s]; ok {
		return u
	}
	switch DoseUnit(s) {
	case UnitMgPerM2, UnitMgPerKg, UnitMgPerKgPerDay, UnitMlPerKg,
		UnitMcg, UnitMg, UnitTablet, UnitMl:
		return DoseUnit(s)
	}
	return DoseUnit(s)
}

// ScalesByBSA indica si la dosis nominal se multiplica por la
// superficie corporal del paciente.
func (u DoseUnit) ScalesByBSA() bool { return u == UnitMgPerM2 }

// ScalesByWeight indica si la dosis nominal se multiplica por el peso.
func (u DoseUnit) ScalesByWeight() bool {
	return u == UnitMgPerKg || u == UnitMgPerKgPerDay || u == UnitMlPerKg
}

// IsDiscrete indica unidades de conteo (comprimidos). Para estas, la
// comparación usa la cantidad cruda prescrita, nunca el real amount.
func (u DoseUnit) IsDiscrete() bool { return u == UnitTablet }

// Record es una fila cruda de la tabla de reglas, tal como llega de la
// fuente externa. Los nombres de campo siguen el formato de la tabla.
type Record struct {
	DrugID           int64    `json:"drug_id"`
	RenalIndicator   string   `json:"rf_indicator"`
	RangeMin         *float64 `json:"crcl_min"`
	RangeMax         *float64 `json:"crcl_max"`
	DialysisRequired bool     `json:"dialysis_required"`
	DoseAmount       float64  `json:"dose_amount"`
	DoseUnit         string   `json:"dose_unit"`
	DosesPerInterval float64  `json:"doses_per_interval"`
	IntervalDays     float64  `json:"interval_length_days"`
	DividedDosing    bool     `json:"divided_dosing"`
	Guidance         string   `json:"guidance_text"`
}

// Rule es una fila ya validada de la guía de dosificación de un fármaco.
// Los límites de rango ausentes significan "sin límite" por ese lado.
type Rule struct {
	DrugID int64

	Indicator RenalIndicator
	RangeMin  *float64
	RangeMax  *float64

	DialysisRequired bool

	DoseAmount float64
	Unit       DoseUnit

	DosesPerInterval float64
	IntervalDays     float64

	DividedDosing bool

	Guidance string
}

// contains evalúa si el valor renal del paciente cae dentro del rango
// de la regla (límites inclusivos).
func (r Rule) contains(v float64) bool {
	if r.RangeMin != nil && v < *r.RangeMin {
		return false
	}
	if r.RangeMax != nil && v > *r.RangeMax {
		return false
	}
	return true
}

// Snapshot es la foto puntual de función renal y tamaño corporal del
// paciente con la que se audita. La arma el caller (la medición más
// reciente a la fecha de la orden); el motor no persiste nada.
type Snapshot struct {
	WeightKg       float64
	BSA            float64
	CrCl           float64
	CrClNormalized float64
	EGFR           float64
	SerumCr        float64
	OnDialysis     bool
}

const (
	defaultWeightKg = 70
	defaultBSA      = 1.73
)

// withDefaults completa peso y BSA ausentes con valores de referencia
// de adulto. Se aplica una sola vez por auditoría (o por lote).
func (s Snapshot) withDefaults() Snapshot {
	if s.WeightKg <= 0 {
		s.WeightKg = defaultWeightKg
	}
	if s.BSA <= 0 {
		s.BSA = defaultBSA
	}
	return s
}

// indicatorValue resuelve el valor del paciente para el indicador de la regla.
func (s Snapshot) indicatorValue(ind RenalIndicator) float64 {
	switch ind {
	case IndicatorCrClNormalized:
		return s.CrClNormalized
	case IndicatorEGFR:
		return s.EGFR
	case IndicatorSerumCr:
		return s.SerumCr
	default:
		return s.CrCl
	}
}

// Candidate es la dosis propuesta que se quiere auditar.
type Candidate struct {
	// DoseAmount es la cantidad tal como se prescribió (texto).
	DoseAmount string
	// RealAmount es la cantidad ya multiplicada por la concentración
	// del envase, cuando el catálogo pudo calcularla.
	RealAmount *float64
	// DosesPerDay es la frecuencia diaria solicitada. <= 0 cuenta como 1.
	DosesPerDay int
}

// Outcome es el resultado de auditar una prescripción.
// @Enum CONTRAINDICATED, DOSE_ADJUSTMENT_NEEDED, INTERVAL_ADJUSTMENT_NEEDED, NORMAL, NO_APPLICABLE_RULE
type Outcome string

const (
	OutcomeContraindicated Outcome = "CONTRAINDICATED"
	OutcomeDoseAdjust      Outcome = "DOSE_ADJUSTMENT_NEEDED"
	OutcomeIntervalAdjust  Outcome = "INTERVAL_ADJUSTMENT_NEEDED"
	OutcomeNormal          Outcome = "NORMAL"
	OutcomeNoRule          Outcome = "NO_APPLICABLE_RULE"
)

// RequiresAction indica si el resultado exige intervención del médico.
// NORMAL y NO_APPLICABLE_RULE no la exigen.
func (o Outcome) RequiresAction() bool {
	switch o {
	case OutcomeContraindicated, OutcomeDoseAdjust, OutcomeIntervalAdjust:
		return true
	default:
		return false
	}
}

// Result es el par (resultado, texto de orientación) que el motor
// devuelve siempre; nunca propaga errores al caller.
type Result struct {
	Outcome  Outcome
	Guidance string
}
