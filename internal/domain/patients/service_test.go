package patients

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID         map[string]Patient
	measurements map[string][]Measurement
}

func newTestRepo() *testRepo {
	return &testRepo{
		byID:         map[string]Patient{},
		measurements: map[string][]Measurement{},
	}
}

func (r *testRepo) Create(ctx context.Context, p Patient) error {
	if p.ID == "" {
		return errors.New("repo: id required")
	}
	if _, ok := r.byID[p.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Patient, error) {
	p, ok := r.byID[id]
	if !ok {
		return Patient{}, ErrNotFound
	}
	return p, nil
}

func (r *testRepo) FindByIdentity(ctx context.Context, name string, sex Sex, birthDate string) (Patient, error) {
	for _, p := range r.byID {
		if p.Name == name && p.Sex == sex && p.BirthDate == birthDate {
			return p, nil
		}
	}
	return Patient{}, ErrNotFound
}

func (r *testRepo) FindByBirthAndSex(ctx context.Context, birthDate string, sex Sex) (Patient, error) {
	for _, p := range r.byID {
		if p.BirthDate == birthDate && p.Sex == sex {
			return p, nil
		}
	}
	return Patient{}, ErrNotFound
}

func (r *testRepo) List(ctx context.Context, offset, limit int) ([]Patient, error) {
	all := make([]Patient, 0, len(r.byID))
	for _, p := range r.byID {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	if offset >= len(all) {
		return []Patient{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *testRepo) AddMeasurement(ctx context.Context, m Measurement) error {
	r.measurements[m.PatientID] = append(r.measurements[m.PatientID], m)
	return nil
}

func (r *testRepo) LatestMeasurement(ctx context.Context, patientID string) (Measurement, error) {
	return r.LatestMeasurementAt(ctx, patientID, time.Unix(1<<60, 0))
}

func (r *testRepo) LatestMeasurementAt(ctx context.Context, patientID string, at time.Time) (Measurement, error) {
	var (
		winner Measurement
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
		return Measurement{}, ErrNotFound
	}
	return winner, nil
}

func (r *testRepo) ListMeasurements(ctx context.Context, patientID string) ([]Measurement, error) {
	out := append([]Measurement{}, r.measurements[patientID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].MeasuredAt.After(out[j].MeasuredAt) })
	return out, nil
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_Validation(t *testing.T) {
	svc := NewService(newTestRepo())

	cases := []CreateInput{
		{Name: "", Sex: "M", BirthDate: "1990-01-01"},
		{Name: "홍길동", Sex: "X", BirthDate: "1990-01-01"},
		{Name: "홍길동", Sex: "M", BirthDate: "01/01/1990"},
	}
	for i, in := range cases {
		if _, err := svc.Create(context.Background(), in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestService_Create_DuplicateIdentity(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	in := CreateInput{Name: "홍길동", Sex: "M", BirthDate: "1990-01-01"}
	if _, err := svc.Create(ctx, in); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, in); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	// Misma identidad salvo el sexo: no es duplicado.
	other := CreateInput{Name: "홍길동", Sex: "F", BirthDate: "1990-01-01"}
	if _, err := svc.Create(ctx, other); err != nil {
		t.Fatalf("different sex must not collide: %v", err)
	}
}

func TestService_CreateFromResidentNumber(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	p, err := svc.CreateFromResidentNumber(ctx, "김철수", "900101-1234567")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Sex != SexMale || p.BirthDate != "1990-01-01" {
		t.Fatalf("derived identity wrong: %+v", p)
	}

	if _, err := svc.CreateFromResidentNumber(ctx, "김철수", "900101-1234567"); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestService_CreateWithMeasurement(t *testing.T) {
	svc := NewService(newTestRepo())
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	p, m, err := svc.CreateWithMeasurement(context.Background(), "김철수", "900101-1234567", MeasurementInput{
		WeightKg: 64, HeightCm: 171, SerumCr: 1.9, CrCl: 38, BSA: 1.75, OnDialysis: false,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if m.PatientID != p.ID {
		t.Fatalf("measurement not linked to patient")
	}
	if !m.MeasuredAt.Equal(now) {
		t.Fatalf("zero MeasuredAt must default to service clock, got %v", m.MeasuredAt)
	}

	info, err := svc.GetInfo(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("get info: %v", err)
	}
	if info.Latest == nil || info.Latest.CrCl != 38 {
		t.Fatalf("expected latest measurement with CrCl 38, got %+v", info.Latest)
	}
}

func TestService_AddMeasurement_UnknownPatient(t *testing.T) {
	svc := NewService(newTestRepo())
	if _, err := svc.AddMeasurement(context.Background(), "nope", MeasurementInput{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_SearchByResidentNumber(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	if _, err := svc.CreateFromResidentNumber(ctx, "김철수", "900101-1234567"); err != nil {
		t.Fatalf("create: %v", err)
	}

	info, err := svc.SearchByResidentNumber(ctx, "9001011234567")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if info.Name != "김철수" {
		t.Fatalf("unexpected patient: %+v", info.Patient)
	}

	if _, err := svc.SearchByResidentNumber(ctx, "051231-4234567"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.SearchByResidentNumber(ctx, "garbage"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_FindOrCreate(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	in := CreateInput{Name: "이영희", Sex: "F", BirthDate: "1985-06-15"}
	first, err := svc.FindOrCreate(ctx, in)
	if err != nil {
		t.Fatalf("find-or-create: %v", err)
	}
	second, err := svc.FindOrCreate(ctx, in)
	if err != nil {
		t.Fatalf("find-or-create second: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("find-or-create must reuse existing patient")
	}
}

func TestService_LatestMeasurementAt(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	ctx := context.Background()

	p, err := svc.Create(ctx, CreateInput{Name: "이영희", Sex: "F", BirthDate: "1985-06-15"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	t1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	for _, in := range []MeasurementInput{
		{CrCl: 50, MeasuredAt: t1},
		{CrCl: 30, MeasuredAt: t2},
	} {
		if _, err := svc.AddMeasurement(ctx, p.ID, in); err != nil {
			t.Fatalf("add measurement: %v", err)
		}
	}

	m, err := svc.LatestMeasurementAt(ctx, p.ID, t1.AddDate(0, 0, 10))
	if err != nil {
		t.Fatalf("latest at: %v", err)
	}
	if m.CrCl != 50 {
		t.Fatalf("expected the january measurement, got CrCl %v", m.CrCl)
	}

	m, err = svc.LatestMeasurementAt(ctx, p.ID, t2)
	if err != nil {
		t.Fatalf("latest at: %v", err)
	}
	if m.CrCl != 30 {
		t.Fatalf("expected the february measurement, got CrCl %v", m.CrCl)
	}
}
