package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"renal-prescription-audit/internal/domain/patients"
)

type patientsRepo struct {
	mu             sync.RWMutex
	byID           map[string]patients.Patient
	measurementsBy map[string][]patients.Measurement
}

func NewPatientsRepo() patients.Repository {
	return &patientsRepo{
		byID:           make(map[string]patients.Patient),
		measurementsBy: make(map[string][]patients.Measurement),
	}
}

func (r *patientsRepo) Create(ctx context.Context, p patients.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("patient id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return errors.New("patient already exists")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *patientsRepo) GetByID(ctx context.Context, id string) (patients.Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return patients.Patient{}, patients.ErrNotFound
	}
	return p, nil
}

func (r *patientsRepo) FindByIdentity(ctx context.Context, name string, sex patients.Sex, birthDate string) (patients.Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.byID {
		if p.Name == name && p.Sex == sex && p.BirthDate == birthDate {
			return p, nil
		}
	}
	return patients.Patient{}, patients.ErrNotFound
}

func (r *patientsRepo) FindByBirthAndSex(ctx context.Context, birthDate string, sex patients.Sex) (patients.Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.byID {
		if p.BirthDate == birthDate && p.Sex == sex {
			return p, nil
		}
	}
	return patients.Patient{}, patients.ErrNotFound
}

func (r *patientsRepo) List(ctx context.Context, offset, limit int) ([]patients.Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]patients.Patient, 0, len(r.byID))
	for _, p := range r.byID {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	if offset >= len(all) {
		return []patients.Patient{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return append([]patients.Patient{}, all[offset:end]...), nil
}

func (r *patientsRepo) AddMeasurement(ctx context.Context, m patients.Measurement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(m.PatientID) == "" {
		return errors.New("patient id required")
	}
	if _, exists := r.byID[m.PatientID]; !exists {
		return patients.ErrNotFound
	}
	r.measurementsBy[m.PatientID] = append(r.measurementsBy[m.PatientID], m)
	return nil
}

func (r *patientsRepo) LatestMeasurement(ctx context.Context, patientID string) (patients.Measurement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return latestBefore(r.measurementsBy[patientID], time.Time{}, false)
}

func (r *patientsRepo) LatestMeasurementAt(ctx context.Context, patientID string, at time.Time) (patients.Measurement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return latestBefore(r.measurementsBy[patientID], at, true)
}

func latestBefore(ms []patients.Measurement, at time.Time, bounded bool) (patients.Measurement, error) {
	var (
		winner patients.Measurement
		has    bool
	)
	for _, m := range ms {
		if bounded && m.MeasuredAt.After(at) {
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

func (r *patientsRepo) ListMeasurements(ctx context.Context, patientID string) ([]patients.Measurement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := append([]patients.Measurement{}, r.measurementsBy[patientID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].MeasuredAt.After(out[j].MeasuredAt) })
	return out, nil
}
