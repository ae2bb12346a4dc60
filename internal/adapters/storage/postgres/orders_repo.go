package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"renal-prescription-audit/internal/domain/orders"
)

type OrdersRepo struct {
	db *sql.DB
}

func NewOrdersRepo(db *sql.DB) *OrdersRepo {
	return &OrdersRepo{db: db}
}

// Create inserta orden y prescripciones en una sola transacción: la
// orden ya viene auditada y nunca debe quedar a medias.
func (r *OrdersRepo) Create(ctx context.Context, o orders.Order, ps []orders.Prescription) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO prescription_orders (id, patient_id, submitted_at, note)
		VALUES ($1,$2,$3,$4)
	`, o.ID, o.PatientID, o.SubmittedAt, o.Note); err != nil {
		return err
	}

	for _, p := range ps {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO prescriptions (
				id, order_id, drug_id,
				drug_name, ingredient,
				dose_amount, dose_unit, real_amount,
				doses_per_day, duration_days,
				audit_result, guidance,
				created_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		`,
			p.ID,
			p.OrderID,
			toNullInt64(p.DrugID),
			p.DrugName,
			p.Ingredient,
			p.DoseAmount,
			p.DoseUnit,
			toNullFloat64(p.RealAmount),
			p.DosesPerDay,
			p.DurationDays,
			p.AuditResult,
			p.Guidance,
			p.CreatedAt,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *OrdersRepo) GetOrder(ctx context.Context, id string) (orders.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return orders.Order{}, orders.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, patient_id, submitted_at, note
		FROM prescription_orders
		WHERE id = $1
	`, id)

	var o orders.Order
	err := row.Scan(&o.ID, &o.PatientID, &o.SubmittedAt, &o.Note)
	if errors.Is(err, sql.ErrNoRows) {
		return orders.Order{}, orders.ErrNotFound
	}
	if err != nil {
		return orders.Order{}, err
	}
	return o, nil
}

func (r *OrdersRepo) ListOrders(ctx context.Context, offset, limit int) ([]orders.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, patient_id, submitted_at, note
		FROM prescription_orders
		ORDER BY submitted_at DESC
		OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func (r *OrdersRepo) ListOrdersByPatient(ctx context.Context, patientID string) ([]orders.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, patient_id, submitted_at, note
		FROM prescription_orders
		WHERE patient_id = $1
		ORDER BY submitted_at DESC
	`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func (r *OrdersRepo) ListPrescriptions(ctx context.Context, orderID string) ([]orders.Prescription, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, drug_id,
		       drug_name, ingredient,
		       dose_amount, dose_unit, real_amount,
		       doses_per_day, duration_days,
		       audit_result, guidance,
		       created_at
		FROM prescriptions
		WHERE order_id = $1
		ORDER BY created_at ASC, id ASC
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]orders.Prescription, 0)
	for rows.Next() {
		var (
			p          orders.Prescription
			drugID     sql.NullInt64
			realAmount sql.NullFloat64
		)
		if err := rows.Scan(
			&p.ID,
			&p.OrderID,
			&drugID,
			&p.DrugName,
			&p.Ingredient,
			&p.DoseAmount,
			&p.DoseUnit,
			&realAmount,
			&p.DosesPerDay,
			&p.DurationDays,
			&p.AuditResult,
			&p.Guidance,
			&p.CreatedAt,
		); err != nil {
			return nil, err
		}
		if drugID.Valid {
			v := drugID.Int64
			p.DrugID = &v
		}
		if realAmount.Valid {
			v := realAmount.Float64
			p.RealAmount = &v
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func collectOrders(rows *sql.Rows) ([]orders.Order, error) {
	out := make([]orders.Order, 0)
	for rows.Next() {
		var o orders.Order
		if err := rows.Scan(&o.ID, &o.PatientID, &o.SubmittedAt, &o.Note); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func toNullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func toNullFloat64(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
