package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"renal-prescription-audit/internal/domain/patients"
)

type PatientsRepo struct {
	db *sql.DB
}

func NewPatientsRepo(db *sql.DB) *PatientsRepo {
	return &PatientsRepo{db: db}
}

func (r *PatientsRepo) Create(ctx context.Context, p patients.Patient) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO patients (id, name, sex, birth_date, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`,
		p.ID,
		p.Name,
		p.Sex,
		p.BirthDate,
		p.CreatedAt,
	)
	return err
}

func (r *PatientsRepo) GetByID(ctx context.Context, id string) (patients.Patient, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return patients.Patient{}, patients.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, sex, birth_date, created_at
		FROM patients
		WHERE id = $1
	`, id)
	return scanPatient(row)
}

func (r *PatientsRepo) FindByIdentity(ctx context.Context, name string, sex patients.Sex, birthDate string) (patients.Patient, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, sex, birth_date, created_at
		FROM patients
		WHERE name = $1 AND sex = $2 AND birth_date = $3
		ORDER BY created_at ASC
		LIMIT 1
	`, name, sex, birthDate)
	return scanPatient(row)
}

func (r *PatientsRepo) FindByBirthAndSex(ctx context.Context, birthDate string, sex patients.Sex) (patients.Patient, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, sex, birth_date, created_at
		FROM patients
		WHERE birth_date = $1 AND sex = $2
		ORDER BY created_at ASC
		LIMIT 1
	`, birthDate, sex)
	return scanPatient(row)
}

func (r *PatientsRepo) List(ctx context.Context, offset, limit int) ([]patients.Patient, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, sex, birth_date, created_at
		FROM patients
		ORDER BY created_at DESC
		OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]patients.Patient, 0)
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PatientsRepo) AddMeasurement(ctx context.Context, m patients.Measurement) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO patient_measurements (
			id, patient_id,
			weight_kg, height_cm,
			scr_mg_dl, egfr, crcl, crcl_normalized, bsa,
			is_hd,
			measured_at, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		m.ID,
		m.PatientID,
		m.WeightKg,
		m.HeightCm,
		m.SerumCr,
		m.EGFR,
		m.CrCl,
		m.CrClNormalized,
		m.BSA,
		m.OnDialysis,
		m.MeasuredAt,
		m.CreatedAt,
	)
	return err
}

func (r *PatientsRepo) LatestMeasurement(ctx context.Context, patientID string) (patients.Measurement, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, patient_id, weight_kg, height_cm,
		       scr_mg_dl, egfr, crcl, crcl_normalized, bsa,
		       is_hd, measured_at, created_at
		FROM patient_measurements
		WHERE patient_id = $1
		ORDER BY measured_at DESC
		LIMIT 1
	`, patientID)
	return scanMeasurement(row)
}

func (r *PatientsRepo) LatestMeasurementAt(ctx context.Context, patientID string, at time.Time) (patients.Measurement, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, patient_id, weight_kg, height_cm,
		       scr_mg_dl, egfr, crcl, crcl_normalized, bsa,
		       is_hd, measured_at, created_at
		FROM patient_measurements
		WHERE patient_id = $1 AND measured_at <= $2
		ORDER BY measured_at DESC
		LIMIT 1
	`, patientID, at)
	return scanMeasurement(row)
}

func (r *PatientsRepo) ListMeasurements(ctx context.Context, patientID string) ([]patients.Measurement, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, patient_id, weight_kg, height_cm,
		       scr_mg_dl, egfr, crcl, crcl_normalized, bsa,
		       is_hd, measured_at, created_at
		FROM patient_measurements
		WHERE patient_id = $1
		ORDER BY measured_at DESC
	`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]patients.Measurement, 0)
	for rows.Next() {
		m, err := scanMeasurement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPatient(row rowScanner) (patients.Patient, error) {
	var p patients.Patient
	err := row.Scan(&p.ID, &p.Name, &p.Sex, &p.BirthDate, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return patients.Patient{}, patients.ErrNotFound
	}
	if err != nil {
		return patients.Patient{}, err
	}
	return p, nil
}

func scanMeasurement(row rowScanner) (patients.Measurement, error) {
	var m patients.Measurement
	err := row.Scan(
		&m.ID,
		&m.PatientID,
		&m.WeightKg,
		&m.HeightCm,
		&m.SerumCr,
		&m.EGFR,
		&m.CrCl,
		&m.CrClNormalized,
		&m.BSA,
		&m.OnDialysis,
		&m.MeasuredAt,
		&m.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return patients.Measurement{}, patients.ErrNotFound
	}
	if err != nil {
		return patients.Measurement{}, err
	}
	return m, nil
}
