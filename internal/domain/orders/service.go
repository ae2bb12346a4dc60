package orders

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"renal-prescription-audit/internal/domain/audit"
	"renal-prescription-audit/internal/domain/drugs"
	"renal-prescription-audit/internal/domain/patients"
	"renal-prescription-audit/internal/platform/logger"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("order not found")
)

// SCr que se fuerza cuando el paciente está en diálisis: la creatinina
// medida no es interpretable bajo diálisis y las reglas por scr esperan
// este valor alto.
const dialysisSerumCr = 10.0

// Guidance para ítems que el motor no pudo evaluar.
const (
	msgDrugUnresolved = "drug not found in catalog, audit not performed"
	msgNoRule         = "no dosing guidance available for this drug"
)

type Service struct {
	repo     Repository
	patients *patients.Service
	catalog  *drugs.Catalog
	engine   *audit.Engine
	log      logger.Logger
	now      func() time.Time
}

func NewService(repo Repository, patientsSvc *patients.Service, catalog *drugs.Catalog, engine *audit.Engine, log logger.Logger) *Service {
	return &Service{
		repo:     repo,
		patients: patientsSvc,
		catalog:  catalog,
		engine:   engine,
		log:      log,
		now:      time.Now,
	}
}

// IntakePatient es el paciente como lo manda el frontend: números como
// texto, género en inglés. La normalización vive acá, no en el handler.
type IntakePatient struct {
	Name      string
	Gender    string // male / female
	BirthDate string // YYYY-MM-DD

	Weight         string
	Height         string
	SerumCr        string
	BSA            string
	EGFR           string
	CrCl           string
	CrClNormalized string

	OnDialysis bool
}

type IntakeMedication struct {
	ProductName string
	Ingredient  string
	Dosage      string // cantidad por toma
	Unit        string
	Frequency   string // tomas por día
	Duration    string // días
}

type IntakeInput struct {
	Patient     IntakePatient
	Medications []IntakeMedication
}

type IntakeResult struct {
	PatientID       string
	OrderID         string
	PrescriptionIDs []string
	Note            string
}

// parseSoft convierte un número en texto; vacío o basura cae a cero.
// Los payloads del frontend mezclan "", "72.5" y campos ausentes.
func parseSoft(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseCountSoft(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 1
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return 1
	}
	return v
}

// ExecuteIntake es la recepción de una orden: resuelve o crea el
// paciente, registra la medición que vino con la orden, resuelve cada
// medicamento contra el catálogo, audita el lote completo y persiste
// todo con el veredicto ya puesto.
func (s *Service) ExecuteIntake(ctx context.Context, in IntakeInput) (IntakeResult, error) {
	if len(in.Medications) == 0 {
		return IntakeResult{}, ErrInvalidInput
	}

	sex := "F"
	if strings.EqualFold(strings.TrimSpace(in.Patient.Gender), "male") {
		sex = "M"
	}

	name := strings.TrimSpace(in.Patient.Name)
	if name == "" {
		name = "Unknown"
	}

	serumCr := parseSoft(in.Patient.SerumCr)
	if in.Patient.OnDialysis {
		serumCr = dialysisSerumCr
	}

	patient, err := s.patients.FindOrCreate(ctx, patients.CreateInput{
		Name:      name,
		Sex:       sex,
		BirthDate: strings.TrimSpace(in.Patient.BirthDate),
	})
	if err != nil {
		return IntakeResult{}, err
	}

	now := s.now()
	measurement, err := s.patients.AddMeasurement(ctx, patient.ID, patients.MeasurementInput{
		WeightKg:       parseSoft(in.Patient.Weight),
		HeightCm:       parseSoft(in.Patient.Height),
		SerumCr:        serumCr,
		EGFR:           parseSoft(in.Patient.EGFR),
		CrCl:           parseSoft(in.Patient.CrCl),
		CrClNormalized: parseSoft(in.Patient.CrClNormalized),
		BSA:            parseSoft(in.Patient.BSA),
		OnDialysis:     in.Patient.OnDialysis,
		MeasuredAt:     now,
	})
	if err != nil {
		return IntakeResult{}, err
	}

	order := Order{
		ID:          uuid.NewString(),
		PatientID:   patient.ID,
		SubmittedAt: now,
	}

	prescriptions := make([]Prescription, 0, len(in.Medications))
	items := make([]audit.BatchItem, 0, len(in.Medications))

	for _, med := range in.Medications {
		p := Prescription{
			ID:           uuid.NewString(),
			OrderID:      order.ID,
			DrugName:     strings.TrimSpace(med.ProductName),
			Ingredient:   strings.TrimSpace(med.Ingredient),
			DoseAmount:   strings.TrimSpace(med.Dosage),
			DoseUnit:     strings.TrimSpace(med.Unit),
			DosesPerDay:  parseCountSoft(med.Frequency),
			DurationDays: parseCountSoft(med.Duration),
			CreatedAt:    now,
		}

		var drugID int64
		if product, ok := s.catalog.FindByName(p.DrugName); ok && product.ItemCode != 0 {
			drugID = product.ItemCode
			p.DrugID = &drugID

			// Cantidad real: concentración del envase por cantidad
			// prescrita; prescripción no numérica cuenta como una unidad.
			doseValue := parseSoft(p.DoseAmount)
			if doseValue == 0 {
				doseValue = 1
			}
			if real, ok := s.catalog.RealAmount(p.DrugName, doseValue); ok {
				p.RealAmount = &real
			}
		}
		if p.RealAmount == nil {
			if v, err := strconv.ParseFloat(p.DoseAmount, 64); err == nil {
				p.RealAmount = &v
			}
		}

		prescriptions = append(prescriptions, p)
		items = append(items, audit.BatchItem{
			DrugID: drugID, // cero cuando no resolvió: el motor responde "sin regla"
			Rx: audit.Candidate{
				DoseAmount:  p.DoseAmount,
				RealAmount:  p.RealAmount,
				DosesPerDay: p.DosesPerDay,
			},
		})
	}

	results := s.engine.AuditMany(snapshotFrom(measurement), items)

	note := NoteNormal
	prescriptionIDs := make([]string, 0, len(prescriptions))
	for i := range prescriptions {
		res := results[i]
		prescriptions[i].AuditResult = res.Outcome
		prescriptions[i].Guidance = res.Guidance

		if res.Outcome == audit.OutcomeNoRule && res.Guidance == "" {
			if prescriptions[i].DrugID == nil {
				prescriptions[i].Guidance = msgDrugUnresolved
			} else {
				prescriptions[i].Guidance = msgNoRule
			}
		}

		if res.Outcome.RequiresAction() {
			note = NoteAbnormal
		}
		prescriptionIDs = append(prescriptionIDs, prescriptions[i].ID)
	}
	order.Note = note

	if err := s.repo.Create(ctx, order, prescriptions); err != nil {
		return IntakeResult{}, err
	}

	s.log.Info("prescription order audited", map[string]any{
		"order_id":   order.ID,
		"patient_id": patient.ID,
		"items":      len(prescriptions),
		"note":       note,
	})

	return IntakeResult{
		PatientID:       patient.ID,
		OrderID:         order.ID,
		PrescriptionIDs: prescriptionIDs,
		Note:            note,
	}, nil
}

// snapshotFrom arma la foto renal del motor desde una medición.
func snapshotFrom(m patients.Measurement) audit.Snapshot {
	return audit.Snapshot{
		WeightKg:       m.WeightKg,
		BSA:            m.BSA,
		CrCl:           m.CrCl,
		CrClNormalized: m.CrClNormalized,
		EGFR:           m.EGFR,
		SerumCr:        m.SerumCr,
		OnDialysis:     m.OnDialysis,
	}
}

// OrderDetail es una orden con sus prescripciones.
type OrderDetail struct {
	Order
	Prescriptions []Prescription
}

func (s *Service) GetOrder(ctx context.Context, orderID string) (OrderDetail, error) {
	o, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return OrderDetail{}, err
	}
	ps, err := s.repo.ListPrescriptions(ctx, orderID)
	if err != nil {
		return OrderDetail{}, err
	}
	return OrderDetail{Order: o, Prescriptions: ps}, nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID string) ([]OrderDetail, error) {
	items, err := s.repo.ListOrdersByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}

	out := make([]OrderDetail, 0, len(items))
	for _, o := range items {
		ps, err := s.repo.ListPrescriptions(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, OrderDetail{Order: o, Prescriptions: ps})
	}
	return out, nil
}

// HistoryEntry reconstruye una orden con el estado del paciente al
// momento del envío: la medición vigente a esa fecha, no la última.
type HistoryEntry struct {
	Order
	Patient       patients.Patient
	Measurement   *patients.Measurement
	Prescriptions []Prescription
}

func (s *Service) History(ctx context.Context, offset, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	ordersList, err := s.repo.ListOrders(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	out := make([]HistoryEntry, 0, len(ordersList))
	for _, o := range ordersList {
		entry := HistoryEntry{Order: o}

		info, err := s.patients.GetInfo(ctx, o.PatientID)
		if err != nil {
			return nil, err
		}
		entry.Patient = info.Patient

		if m, err := s.patients.LatestMeasurementAt(ctx, o.PatientID, o.SubmittedAt); err == nil {
			entry.Measurement = &m
		} else if !errors.Is(err, patients.ErrNotFound) {
			return nil, err
		}

		ps, err := s.repo.ListPrescriptions(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		entry.Prescriptions = ps

		out = append(out, entry)
	}
	return out, nil
}
