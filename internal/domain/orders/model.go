package orders

import (
	"time"

	"renal-prescription-audit/internal/domain/audit"
)

// Notas de orden posibles tras la auditoría.
const (
	NoteNormal   = "normal"
	NoteAbnormal = "abnormal"
)

// Order es una orden de prescripción recibida: el lote de medicamentos
// que un médico mandó a auditar en un mismo envío.
type Order struct {
	ID          string
	PatientID   string
	SubmittedAt time.Time

	// Note resume la auditoría del lote: "normal" solo si ningún ítem
	// exige intervención.
	Note string
}

// Prescription es un medicamento de la orden con su resultado de
// auditoría ya resuelto. Se persiste junto con la orden, nunca en un
// estado intermedio "pendiente".
type Prescription struct {
	ID      string
	OrderID string

	// DrugID es el código estándar del producto; nil cuando el catálogo
	// no pudo resolver el nombre.
	DrugID *int64

	DrugName   string
	Ingredient string

	DoseAmount string // cantidad por toma, tal como se prescribió
	DoseUnit   string
	// RealAmount es concentración del envase por cantidad prescrita,
	// o la cantidad parseada cuando el catálogo no tiene concentración.
	RealAmount *float64

	DosesPerDay  int
	DurationDays int

	AuditResult audit.Outcome
	Guidance    string

	CreatedAt time.Time
}
