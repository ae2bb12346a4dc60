package patients

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("patient not found")
	ErrDuplicate    = errors.New("patient already exists")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name      string
	Sex       string
	BirthDate string // YYYY-MM-DD
}

type MeasurementInput struct {
	WeightKg float64
	HeightCm float64

	SerumCr        float64
	EGFR           float64
	CrCl           float64
	CrClNormalized float64
	BSA            float64

	OnDialysis bool

	// MeasuredAt opcional; cero usa el reloj del servicio.
	MeasuredAt time.Time
}

// Info es un paciente con su medición más reciente (si tiene).
type Info struct {
	Patient
	Latest *Measurement
}

func parseSex(s string) (Sex, error) {
	switch Sex(strings.TrimSpace(s)) {
	case SexMale:
		return SexMale, nil
	case SexFemale:
		return SexFemale, nil
	default:
		return "", ErrInvalidInput
	}
}

func validBirthDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// Create da de alta un paciente con datos demográficos explícitos.
// La identidad (nombre, sexo, fecha de nacimiento) debe ser única.
func (s *Service) Create(ctx context.Context, in CreateInput) (Patient, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Patient{}, ErrInvalidInput
	}
	sex, err := parseSex(in.Sex)
	if err != nil {
		return Patient{}, err
	}
	if !validBirthDate(strings.TrimSpace(in.BirthDate)) {
		return Patient{}, ErrInvalidInput
	}

	birthDate := strings.TrimSpace(in.BirthDate)
	if _, err := s.repo.FindByIdentity(ctx, name, sex, birthDate); err == nil {
		return Patient{}, ErrDuplicate
	} else if !errors.Is(err, ErrNotFound) {
		return Patient{}, err
	}

	p := Patient{
		ID:        uuid.NewString(),
		Name:      name,
		Sex:       sex,
		BirthDate: birthDate,
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return Patient{}, err
	}
	return p, nil
}

// CreateFromResidentNumber deriva sexo y fecha de nacimiento del número
// de registro civil y da de alta. El número no se guarda.
func (s *Service) CreateFromResidentNumber(ctx context.Context, name, residentNumber string) (Patient, error) {
	birthDate, sex, err := ParseResidentNumber(residentNumber)
	if err != nil {
		return Patient{}, err
	}
	return s.Create(ctx, CreateInput{Name: name, Sex: string(sex), BirthDate: birthDate})
}

// CreateWithMeasurement da de alta paciente y primera medición en un
// solo paso (flujo de verificación de identidad del frontend).
func (s *Service) CreateWithMeasurement(ctx context.Context, name, residentNumber string, in MeasurementInput) (Patient, Measurement, error) {
	p, err := s.CreateFromResidentNumber(ctx, name, residentNumber)
	if err != nil {
		return Patient{}, Measurement{}, err
	}
	m, err := s.AddMeasurement(ctx, p.ID, in)
	if err != nil {
		return Patient{}, Measurement{}, err
	}
	return p, m, nil
}

// CreateWithMeasurementDirect es la variante sin número de registro
// civil que usa la pantalla de auditoría directa.
func (s *Service) CreateWithMeasurementDirect(ctx context.Context, in CreateInput, min MeasurementInput) (Patient, Measurement, error) {
	p, err := s.Create(ctx, in)
	if err != nil {
		return Patient{}, Measurement{}, err
	}
	m, err := s.AddMeasurement(ctx, p.ID, min)
	if err != nil {
		return Patient{}, Measurement{}, err
	}
	return p, m, nil
}

func (s *Service) AddMeasurement(ctx context.Context, patientID string, in MeasurementInput) (Measurement, error) {
	if _, err := s.repo.GetByID(ctx, patientID); err != nil {
		return Measurement{}, err
	}

	now := s.now()
	measuredAt := in.MeasuredAt
	if measuredAt.IsZero() {
		measuredAt = now
	}

	m := Measurement{
		ID:             uuid.NewString(),
		PatientID:      patientID,
		WeightKg:       in.WeightKg,
		HeightCm:       in.HeightCm,
		SerumCr:        in.SerumCr,
		EGFR:           in.EGFR,
		CrCl:           in.CrCl,
		CrClNormalized: in.CrClNormalized,
		BSA:            in.BSA,
		OnDialysis:     in.OnDialysis,
		MeasuredAt:     measuredAt,
		CreatedAt:      now,
	}
	if err := s.repo.AddMeasurement(ctx, m); err != nil {
		return Measurement{}, err
	}
	return m, nil
}

// GetInfo devuelve el paciente con su última medición; Latest queda en
// nil si todavía no tiene mediciones.
func (s *Service) GetInfo(ctx context.Context, id string) (Info, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Info{}, err
	}
	return s.infoFor(ctx, p)
}

// SearchByResidentNumber busca por fecha de nacimiento y sexo derivados.
func (s *Service) SearchByResidentNumber(ctx context.Context, residentNumber string) (Info, error) {
	birthDate, sex, err := ParseResidentNumber(residentNumber)
	if err != nil {
		return Info{}, err
	}
	p, err := s.repo.FindByBirthAndSex(ctx, birthDate, sex)
	if err != nil {
		return Info{}, err
	}
	return s.infoFor(ctx, p)
}

// SearchByIdentity busca por la clave de deduplicación completa.
func (s *Service) SearchByIdentity(ctx context.Context, name, sexRaw, birthDate string) (Info, error) {
	sex, err := parseSex(sexRaw)
	if err != nil {
		return Info{}, err
	}
	p, err := s.repo.FindByIdentity(ctx, strings.TrimSpace(name), sex, strings.TrimSpace(birthDate))
	if err != nil {
		return Info{}, err
	}
	return s.infoFor(ctx, p)
}

// FindOrCreate resuelve el paciente por identidad o lo da de alta si no
// existe. Lo usa la recepción de órdenes.
func (s *Service) FindOrCreate(ctx context.Context, in CreateInput) (Patient, error) {
	sex, err := parseSex(in.Sex)
	if err != nil {
		return Patient{}, err
	}
	p, err := s.repo.FindByIdentity(ctx, strings.TrimSpace(in.Name), sex, strings.TrimSpace(in.BirthDate))
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Patient{}, err
	}
	return s.Create(ctx, in)
}

// List pagina pacientes con su última medición cada uno.
func (s *Service) List(ctx context.Context, offset, limit int) ([]Info, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	items, err := s.repo.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	out := make([]Info, 0, len(items))
	for _, p := range items {
		info, err := s.infoFor(ctx, p)
		if err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, nil
}

func (s *Service) ListMeasurements(ctx context.Context, patientID string) ([]Measurement, error) {
	if _, err := s.repo.GetByID(ctx, patientID); err != nil {
		return nil, err
	}
	return s.repo.ListMeasurements(ctx, patientID)
}

// LatestMeasurementAt reconstruye la medición vigente a una fecha dada.
func (s *Service) LatestMeasurementAt(ctx context.Context, patientID string, at time.Time) (Measurement, error) {
	return s.repo.LatestMeasurementAt(ctx, patientID, at)
}

func (s *Service) infoFor(ctx context.Context, p Patient) (Info, error) {
	info := Info{Patient: p}

	m, err := s.repo.LatestMeasurement(ctx, p.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return info, nil
		}
		return Info{}, err
	}
	info.Latest = &m
	return info, nil
}
