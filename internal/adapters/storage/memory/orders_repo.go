package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"renal-prescription-audit/internal/domain/orders"
)

type ordersRepo struct {
	mu              sync.RWMutex
	byID            map[string]orders.Order
	prescriptionsBy map[string][]orders.Prescription
}

func NewOrdersRepo() orders.Repository {
	return &ordersRepo{
		byID:            make(map[string]orders.Order),
		prescriptionsBy: make(map[string][]orders.Prescription),
	}
}

func (r *ordersRepo) Create(ctx context.Context, o orders.Order, ps []orders.Prescription) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(o.ID) == "" {
		return errors.New("order id required")
	}
	if _, exists := r.byID[o.ID]; exists {
		return errors.New("order already exists")
	}

	r.byID[o.ID] = o
	r.prescriptionsBy[o.ID] = append([]orders.Prescription{}, ps...)
	return nil
}

func (r *ordersRepo) GetOrder(ctx context.Context, id string) (orders.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.byID[id]
	if !ok {
		return orders.Order{}, orders.ErrNotFound
	}
	return o, nil
}

func (r *ordersRepo) ListOrders(ctx context.Context, offset, limit int) ([]orders.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]orders.Order, 0, len(r.byID))
	for _, o := range r.byID {
		all = append(all, o)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].SubmittedAt.After(all[j].SubmittedAt) })

	if offset >= len(all) {
		return []orders.Order{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return append([]orders.Order{}, all[offset:end]...), nil
}

func (r *ordersRepo) ListOrdersByPatient(ctx context.Context, patientID string) ([]orders.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]orders.Order, 0)
	for _, o := range r.byID {
		if o.PatientID == patientID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out, nil
}

func (r *ordersRepo) ListPrescriptions(ctx context.Context, orderID string) ([]orders.Prescription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]orders.Prescription{}, r.prescriptionsBy[orderID]...), nil
}
