package patients

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, p Patient) error
	GetByID(ctx context.Context, id string) (Patient, error)

	// FindByIdentity busca por la clave de deduplicación completa.
	FindByIdentity(ctx context.Context, name string, sex Sex, birthDate string) (Patient, error)
	// FindByBirthAndSex busca por lo que se deriva del número de registro
	// civil (la búsqueda por ese número no conoce el nombre).
	FindByBirthAndSex(ctx context.Context, birthDate string, sex Sex) (Patient, error)

	// List pagina por fecha de alta descendente.
	List(ctx context.Context, offset, limit int) ([]Patient, error)

	AddMeasurement(ctx context.Context, m Measurement) error
	// LatestMeasurement es la medición más reciente por MeasuredAt.
	LatestMeasurement(ctx context.Context, patientID string) (Measurement, error)
	// LatestMeasurementAt es la más reciente con MeasuredAt <= at; la usa
	// el historial de auditorías para reconstruir la foto de la fecha.
	LatestMeasurementAt(ctx context.Context, patientID string, at time.Time) (Measurement, error)
	ListMeasurements(ctx context.Context, patientID string) ([]Measurement, error)
}
