package orders

import "context"

type Repository interface {
	// Create persiste la orden con todas sus prescripciones de una vez;
	// la auditoría ya corrió, así que no hay estados a medio camino.
	Create(ctx context.Context, o Order, ps []Prescription) error

	GetOrder(ctx context.Context, id string) (Order, error)
	// ListOrders pagina por fecha de envío descendente.
	ListOrders(ctx context.Context, offset, limit int) ([]Order, error)
	ListOrdersByPatient(ctx context.Context, patientID string) ([]Order, error)

	ListPrescriptions(ctx context.Context, orderID string) ([]Prescription, error)
}
