package orders

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"renal-prescription-audit/internal/domain/audit"
	"renal-prescription-audit/internal/domain/drugs"
	"renal-prescription-audit/internal/domain/patients"
	"renal-prescription-audit/internal/platform/logger"
)

// -------------------------
// Test repos (in-memory)
// -------------------------

type testPatientRepo struct {
	byID         map[string]patients.Patient
	measurements map[string][]patients.Measurement
}

func newTestPatientRepo() *testPatientRepo {
	return &testPatientRepo{
		byID:         map[string]patients.Patient{},
		measurements: map[string][]patients.Measurement{},
	}
}

func (r *testPatientRepo) Create(ctx context.Context, p patients.Patient) error {
	r.byID[p.ID] = p
	return nil
}

func (r *testPatientRepo) GetByID(ctx context.Context, id string) (patients.Patient, error) {
	p, ok := r.byID[id]
	if !ok {
		return patients.Patient{}, patients.ErrNotFound
	}
	return p, nil
}

func (r *testPatientRepo) FindByIdentity(ctx context.Context, name string, sex patients.Sex, birthDate string) (patients.Patient, error) {
	for _, p := range r.byID {
		if p.Name == name && p.Sex == sex && p.BirthDate == birthDate {
			return p, nil
		}
	}
	return patients.Patient{}, patients.ErrNotFound
}

func (r *testPatientRepo) FindByBirthAndSex(ctx context.Context, birthDate string, sex patients.Sex) (patients.Patient, error) {
	for _, p := range r.byID {
		if p.BirthDate == birthDate && p.Sex == sex {
			return p, nil
		}
	}
	return patients.Patient{}, patients.ErrNotFound
}

func (r *testPatientRepo) List(ctx context.Context, offset, limit int) ([]patients.Patient, error) {
	out := make([]patients.Patient, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}
	return out, nil
}

func (r *testPatientRepo) AddMeasurement(ctx context.Context, m patients.Measurement) error {
	r.measurements[m.PatientID] = append(r.measurements[m.PatientID], m)
	return nil
}

func (r *testPatientRepo) LatestMeasurement(ctx context.Context, patientID string) (patients.Measurement, error) {
	ms := r.measurements[patientID]
	if len(ms) == 0 {
		return patients.Measurement{}, patients.ErrNotFound
	}
	winner := ms[0]
	for _, m := range ms[1:] {
		if m.MeasuredAt.After(winner.MeasuredAt) {
			winner = m
		}
	}
	return winner, nil
}

func (r *testPatientRepo) LatestMeasurementAt(ctx context.Context, patientID string, at time.Time) (patients.Measurement, error) {
	var (
		winner patients.Measurement
		has    bool
	)
	for _, m := range r.measurements[patientID] {
		if m.MeasuredAt.After(at) {
			continue
		}
		if !has || m.MeasuredAt.After(winner.MeasuredAt) {
			winner = m
			has = true
		}
	}
	if !has {
		return patients.Measurement{}, patients.ErrNotFound
	}
	return winner, nil
}

func (r *testPatientRepo) ListMeasurements(ctx context.Context, patientID string) ([]patients.Measurement, error) {
	return r.measurements[patientID], nil
}

type testOrderRepo struct {
	orders        map[string]Order
	prescriptions map[string][]Prescription
}

func newTestOrderRepo() *testOrderRepo {
	return &testOrderRepo{
		orders:        map[string]Order{},
		prescriptions: map[string][]Prescription{},
	}
}

func (r *testOrderRepo) Create(ctx context.Context, o Order, ps []Prescription) error {
	if _, ok := r.orders[o.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.orders[o.ID] = o
	r.prescriptions[o.ID] = append([]Prescription{}, ps...)
	return nil
}

func (r *testOrderRepo) GetOrder(ctx context.Context, id string) (Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	return o, nil
}

func (r *testOrderRepo) ListOrders(ctx context.Context, offset, limit int) ([]Order, error) {
	all := make([]Order, 0, len(r.orders))
	for _, o := range r.orders {
		all = append(all, o)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].SubmittedAt.After(all[j].SubmittedAt) })

	if offset >= len(all) {
		return []Order{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *testOrderRepo) ListOrdersByPatient(ctx context.Context, patientID string) ([]Order, error) {
	out := []Order{}
	for _, o := range r.orders {
		if o.PatientID == patientID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *testOrderRepo) ListPrescriptions(ctx context.Context, orderID string) ([]Prescription, error) {
	return append([]Prescription{}, r.prescriptions[orderID]...), nil
}

// -------------------------
// Fixture
// -------------------------

func fptr(v float64) *float64 { return &v }

func testEngine() *audit.Engine {
	idx := audit.BuildIndex([]audit.Record{
		// 500 mg una vez al día, plano
		{DrugID: 100, RenalIndicator: "crcl", DoseAmount: 500, DoseUnit: "밀리그램", DosesPerInterval: 1, IntervalDays: 1},
		// contraindicado bajo diálisis (reglas por scr)
		{DrugID: 300, RenalIndicator: "scr", DialysisRequired: true, DoseAmount: 0, DoseUnit: "밀리그램", Guidance: "avoid in dialysis"},
		{DrugID: 300, RenalIndicator: "scr", RangeMax: fptr(2), DoseAmount: 100, DoseUnit: "밀리그램", DosesPerInterval: 1, IntervalDays: 1},
	})
	return audit.NewEngine(idx, logger.New(logger.Options{Level: logger.Error}))
}

func testCatalog() *drugs.Catalog {
	return drugs.NewCatalog([]drugs.Product{
		{ItemCode: 100, Name: "아목시실린정 250mg", SpecAmount: fptr(250), Form: "정제"},
		{ItemCode: 300, Name: "반코마이신주 500mg", SpecAmount: fptr(500)},
		{ItemCode: 400, Name: "규격없는시럽"}, // sin concentración
	}, nil)
}

func newTestService() (*Service, *testOrderRepo, *testPatientRepo) {
	patientRepo := newTestPatientRepo()
	orderRepo := newTestOrderRepo()
	svc := NewService(
		orderRepo,
		patients.NewService(patientRepo),
		testCatalog(),
		testEngine(),
		logger.New(logger.Options{Level: logger.Error}),
	)
	return svc, orderRepo, patientRepo
}

func basePatient() IntakePatient {
	return IntakePatient{
		Name:      "김철수",
		Gender:    "male",
		BirthDate: "1980-05-20",
		Weight:    "70",
		Height:    "175",
		SerumCr:   "1.2",
		BSA:       "1.8",
		CrCl:      "45",
	}
}

// -------------------------
// Tests
// -------------------------

func TestExecuteIntake_NormalOrder(t *testing.T) {
	svc, _, _ := newTestService()

	// 2 comprimidos de 250 mg = 500 mg reales, dentro del límite.
	res, err := svc.ExecuteIntake(context.Background(), IntakeInput{
		Patient: basePatient(),
		Medications: []IntakeMedication{
			{ProductName: "아목시실린정 250mg", Dosage: "2", Unit: "정", Frequency: "1", Duration: "7"},
		},
	})
	if err != nil {
		t.Fatalf("intake: %v", err)
	}
	if res.Note != NoteNormal {
		t.Fatalf("expected normal note, got %q", res.Note)
	}

	d, err := svc.GetOrder(context.Background(), res.OrderID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if len(d.Prescriptions) != 1 {
		t.Fatalf("expected 1 prescription, got %d", len(d.Prescriptions))
	}

	p := d.Prescriptions[0]
	if p.DrugID == nil || *p.DrugID != 100 {
		t.Fatalf("expected drug resolved to item code 100, got %v", p.DrugID)
	}
	if p.RealAmount == nil || *p.RealAmount != 500 {
		t.Fatalf("expected real amount 250*2=500, got %v", p.RealAmount)
	}
	if p.AuditResult != audit.OutcomeNormal {
		t.Fatalf("expected NORMAL, got %s", p.AuditResult)
	}
}

func TestExecuteIntake_OverdoseMarksOrderAbnormal(t *testing.T) {
	svc, _, _ := newTestService()

	// 3 x 250 mg = 750 reales sobre un límite de 500.
	res, err := svc.ExecuteIntake(context.Background(), IntakeInput{
		Patient: basePatient(),
		Medications: []IntakeMedication{
			{ProductName: "아목시실린정 250mg", Dosage: "3", Frequency: "1", Duration: "7"},
		},
	})
	if err != nil {
		t.Fatalf("intake: %v", err)
	}
	if res.Note != NoteAbnormal {
		t.Fatalf("expected abnormal note, got %q", res.Note)
	}

	d, _ := svc.GetOrder(context.Background(), res.OrderID)
	if d.Prescriptions[0].AuditResult != audit.OutcomeDoseAdjust {
		t.Fatalf("expected DOSE_ADJUSTMENT_NEEDED, got %s", d.Prescriptions[0].AuditResult)
	}
}

func TestExecuteIntake_DialysisForcesSerumCr(t *testing.T) {
	svc, _, patientRepo := newTestService()

	pat := basePatient()
	pat.SerumCr = "1.2"
	pat.OnDialysis = true

	res, err := svc.ExecuteIntake(context.Background(), IntakeInput{
		Patient: pat,
		Medications: []IntakeMedication{
			{ProductName: "반코마이신주 500mg", Dosage: "1", Frequency: "1", Duration: "3"},
		},
	})
	if err != nil {
		t.Fatalf("intake: %v", err)
	}

	// La medición persistida lleva la creatinina forzada, no la medida.
	m, err := patientRepo.LatestMeasurement(context.Background(), res.PatientID)
	if err != nil {
		t.Fatalf("latest measurement: %v", err)
	}
	if m.SerumCr != 10.0 {
		t.Fatalf("dialysis must force SCr to 10.0, got %v", m.SerumCr)
	}

	// Y la regla de diálisis contraindica el fármaco.
	d, _ := svc.GetOrder(context.Background(), res.OrderID)
	if d.Prescriptions[0].AuditResult != audit.OutcomeContraindicated {
		t.Fatalf("expected CONTRAINDICATED under dialysis, got %s", d.Prescriptions[0].AuditResult)
	}
	if res.Note != NoteAbnormal {
		t.Fatalf("expected abnormal note, got %q", res.Note)
	}
}

func TestExecuteIntake_UnresolvedDrugDoesNotAbortBatch(t *testing.T) {
	svc, _, _ := newTestService()

	res, err := svc.ExecuteIntake(context.Background(), IntakeInput{
		Patient: basePatient(),
		Medications: []IntakeMedication{
			{ProductName: "카탈로그에없는약", Dosage: "1", Frequency: "1", Duration: "1"},
			{ProductName: "아목시실린정 250mg", Dosage: "2", Frequency: "1", Duration: "7"},
		},
	})
	if err != nil {
		t.Fatalf("intake: %v", err)
	}

	d, _ := svc.GetOrder(context.Background(), res.OrderID)
	if len(d.Prescriptions) != 2 {
		t.Fatalf("expected 2 prescriptions, got %d", len(d.Prescriptions))
	}

	first := d.Prescriptions[0]
	if first.DrugID != nil {
		t.Fatalf("unknown product must not resolve a drug id")
	}
	if first.AuditResult != audit.OutcomeNoRule {
		t.Fatalf("expected NO_APPLICABLE_RULE, got %s", first.AuditResult)
	}
	if first.Guidance != msgDrugUnresolved {
		t.Fatalf("expected unresolved-drug guidance, got %q", first.Guidance)
	}

	if d.Prescriptions[1].AuditResult != audit.OutcomeNormal {
		t.Fatalf("second item must still audit, got %s", d.Prescriptions[1].AuditResult)
	}
	// Un ítem sin regla no exige intervención: la orden sigue normal.
	if res.Note != NoteNormal {
		t.Fatalf("expected normal note, got %q", res.Note)
	}
}

func TestExecuteIntake_ReusesExistingPatient(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	meds := []IntakeMedication{{ProductName: "아목시실린정 250mg", Dosage: "1", Frequency: "1", Duration: "1"}}

	first, err := svc.ExecuteIntake(ctx, IntakeInput{Patient: basePatient(), Medications: meds})
	if err != nil {
		t.Fatalf("first intake: %v", err)
	}
	second, err := svc.ExecuteIntake(ctx, IntakeInput{Patient: basePatient(), Medications: meds})
	if err != nil {
		t.Fatalf("second intake: %v", err)
	}

	if first.PatientID != second.PatientID {
		t.Fatalf("same identity must map to the same patient")
	}
	if first.OrderID == second.OrderID {
		t.Fatalf("each intake must produce its own order")
	}
}

func TestExecuteIntake_EmptyBatchRejected(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.ExecuteIntake(context.Background(), IntakeInput{Patient: basePatient()}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestHistory_UsesMeasurementAtSubmission(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	meds := []IntakeMedication{{ProductName: "아목시실린정 250mg", Dosage: "1", Frequency: "1", Duration: "1"}}

	// Primera orden con CrCl 45. El MeasuredAt de la medición sale del
	// reloj del servicio de órdenes, así que basta con moverlo.
	clock := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return clock }

	if _, err := svc.ExecuteIntake(ctx, IntakeInput{Patient: basePatient(), Medications: meds}); err != nil {
		t.Fatalf("first intake: %v", err)
	}

	// Segunda orden un mes después, la función renal empeoró.
	clock = time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	worse := basePatient()
	worse.CrCl = "20"
	if _, err := svc.ExecuteIntake(ctx, IntakeInput{Patient: worse, Medications: meds}); err != nil {
		t.Fatalf("second intake: %v", err)
	}

	entries, err := svc.History(ctx, 0, 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	// Orden más reciente primero; cada una conserva la foto de su fecha.
	if entries[0].Measurement == nil || entries[0].Measurement.CrCl != 20 {
		t.Fatalf("latest order must show CrCl 20, got %+v", entries[0].Measurement)
	}
	if entries[1].Measurement == nil || entries[1].Measurement.CrCl != 45 {
		t.Fatalf("older order must keep its CrCl 45 snapshot, got %+v", entries[1].Measurement)
	}
	if entries[0].Patient.Name != "김철수" {
		t.Fatalf("history must carry patient identity, got %+v", entries[0].Patient)
	}
}
