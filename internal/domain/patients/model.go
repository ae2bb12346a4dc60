package patients

import "time"

// Sex define el sexo registral del paciente.
// @Enum M, F
type Sex string

const (
	SexMale   Sex = "M"
	SexFemale Sex = "F"
)

// Patient es la identidad demográfica mínima del paciente. La identidad
// clínica (nombre + fecha de nacimiento + sexo) es la clave de
// deduplicación; no se guarda el número de registro civil, solo lo que
// se deriva de él.
type Patient struct {
	ID string

	Name      string
	Sex       Sex
	BirthDate string // YYYY-MM-DD

	CreatedAt time.Time
}

// Measurement es una medición puntual de laboratorio y antropometría.
// Los valores renales llegan ya calculados desde el frontend; el
// backend los guarda y los usa tal cual para auditar.
type Measurement struct {
	ID        string
	PatientID string

	WeightKg float64
	HeightCm float64

	SerumCr        float64 // mg/dL
	EGFR           float64
	CrCl           float64
	CrClNormalized float64
	BSA            float64

	OnDialysis bool

	MeasuredAt time.Time
	CreatedAt  time.Time
}
