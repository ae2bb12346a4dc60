package orders

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"renal-prescription-audit/internal/domain/audit"
	"renal-prescription-audit/internal/domain/patients"
	"renal-prescription-audit/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/audit", func(ar chi.Router) {
		ar.Post("/execute", executeAuditHandler(svc))
		ar.Get("/history", auditHistoryHandler(svc))
	})

	r.Get("/orders/{orderID}", getOrderHandler(svc))
	r.Get("/patients/{patientID}/orders", listPatientOrdersHandler(svc))
}

// El payload de intake llega en camelCase y con números como texto,
// tal cual lo arma el frontend de captura.
type intakePatientRequest struct {
	Name           string `json:"name"`
	Gender         string `json:"gender"` // male / female
	BirthDate      string `json:"birthDate"`
	Weight         string `json:"weight"`
	Height         string `json:"height"`
	SerumCr        string `json:"scr"`
	BSA            string `json:"bsa"`
	EGFR           string `json:"egfr"`
	CrCl           string `json:"crcl"`
	CrClNormalized string `json:"crclNormalized"`
	OnDialysis     bool   `json:"isOnDialysis"`
}

type intakeMedicationRequest struct {
	ProductName string `json:"productName"`
	Ingredient  string `json:"ingredientName"`
	Dosage      string `json:"dosage"`
	Unit        string `json:"unit"`
	Frequency   string `json:"frequency"`
	Duration    string `json:"duration"`
}

type executeAuditRequest struct {
	Patient     intakePatientRequest      `json:"patient"`
	Medications []intakeMedicationRequest `json:"medications"`
}

type executeAuditResponse struct {
	Success         bool     `json:"success"`
	Message         string   `json:"message"`
	PatientID       string   `json:"patient_id"`
	OrderID         string   `json:"order_id"`
	PrescriptionIDs []string `json:"prescription_ids"`
	Note            string   `json:"note"`
}

type prescriptionResponse struct {
	ID           string        `json:"id"`
	DrugID       *int64        `json:"drug_id"`
	DrugName     string        `json:"drug_name"`
	Ingredient   string        `json:"ingredient"`
	DoseAmount   string        `json:"dose_amount"`
	DoseUnit     string        `json:"dose_unit"`
	RealAmount   *float64      `json:"real_amount"`
	DosesPerDay  int           `json:"doses_per_day"`
	DurationDays int           `json:"duration_days"`
	AuditResult  audit.Outcome `json:"audit_result"`
	Guidance     string        `json:"guidance"`
}

type orderResponse struct {
	ID            string                 `json:"id"`
	PatientID     string                 `json:"patient_id"`
	SubmittedAt   time.Time              `json:"submitted_at"`
	Note          string                 `json:"note"`
	Prescriptions []prescriptionResponse `json:"prescriptions"`
}

type historyPatient struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Sex       patients.Sex `json:"sex"`
	BirthDate string       `json:"birth_date"`
}

type historyMeasurement struct {
	WeightKg       float64   `json:"weight_kg"`
	HeightCm       float64   `json:"height_cm"`
	SerumCr        float64   `json:"scr_mg_dl"`
	BSA            float64   `json:"bsa"`
	EGFR           float64   `json:"egfr"`
	CrCl           float64   `json:"crcl"`
	CrClNormalized float64   `json:"crcl_normalized"`
	OnDialysis     bool      `json:"is_hd"`
	MeasuredAt     time.Time `json:"measured_at"`
}

type historyEntryResponse struct {
	OrderID           string                 `json:"order_id"`
	PatientID         string                 `json:"patient_id"`
	PatientName       string                 `json:"patient_name"`
	SubmittedAt       time.Time              `json:"submitted_at"`
	Note              string                 `json:"note"`
	PrescriptionCount int                    `json:"prescription_count"`
	Patient           historyPatient         `json:"patient"`
	Measurement       *historyMeasurement    `json:"measurement"`
	Prescriptions     []prescriptionResponse `json:"prescriptions"`
}

func toPrescriptionResponse(p Prescription) prescriptionResponse {
	return prescriptionResponse{
		ID:           p.ID,
		DrugID:       p.DrugID,
		DrugName:     p.DrugName,
		Ingredient:   p.Ingredient,
		DoseAmount:   p.DoseAmount,
		DoseUnit:     p.DoseUnit,
		RealAmount:   p.RealAmount,
		DosesPerDay:  p.DosesPerDay,
		DurationDays: p.DurationDays,
		AuditResult:  p.AuditResult,
		Guidance:     p.Guidance,
	}
}

func toOrderResponse(d OrderDetail) orderResponse {
	out := orderResponse{
		ID:            d.ID,
		PatientID:     d.PatientID,
		SubmittedAt:   d.SubmittedAt,
		Note:          d.Note,
		Prescriptions: make([]prescriptionResponse, 0, len(d.Prescriptions)),
	}
	for _, p := range d.Prescriptions {
		out.Prescriptions = append(out.Prescriptions, toPrescriptionResponse(p))
	}
	return out
}

func requireUser(w http.ResponseWriter, r *http.Request) bool {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return false
	}
	return true
}

// executeAuditHandler godoc
// @Summary Recibir una orden, auditarla y persistirla
// @Description Resuelve o crea el paciente, registra la medición que acompaña la orden (bajo diálisis la creatinina se fuerza a 10.0), resuelve cada producto contra el catálogo, audita el lote y guarda todo con el veredicto. Un medicamento que no resuelve no corta el lote.
// @Tags audit
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body orders.executeAuditRequest true "Paciente y lote de medicamentos"
// @Success 201 {object} orders.executeAuditResponse
// @Failure 400 {string} string "invalid json / datos del paciente inválidos"
// @Failure 401 {string} string "unauthorized"
// @Router /audit/execute [post]
func executeAuditHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireUser(w, r) {
			return
		}

		var req executeAuditRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := IntakeInput{
			Patient:     IntakePatient(req.Patient),
			Medications: make([]IntakeMedication, 0, len(req.Medications)),
		}
		for _, m := range req.Medications {
			in.Medications = append(in.Medications, IntakeMedication(m))
		}

		res, err := svc.ExecuteIntake(r.Context(), in)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput), errors.Is(err, patients.ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, executeAuditResponse{
			Success:         true,
			Message:         "prescription audit completed",
			PatientID:       res.PatientID,
			OrderID:         res.OrderID,
			PrescriptionIDs: res.PrescriptionIDs,
			Note:            res.Note,
		})
	}
}

// auditHistoryHandler godoc
// @Summary Historial de auditorías
// @Description Cada entrada reconstruye el estado del paciente al momento del envío: la medición vigente a esa fecha, no la última.
// @Tags audit
// @Produce json
// @Param skip query int false "Offset de paginación"
// @Param limit query int false "Máximo de filas (default 20)"
// @Success 200 {object} map[string][]orders.historyEntryResponse
// @Failure 401 {string} string "unauthorized"
// @Router /audit/history [get]
func auditHistoryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireUser(w, r) {
			return
		}

		skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		entries, err := svc.History(r.Context(), skip, limit)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]historyEntryResponse, 0, len(entries))
		for _, e := range entries {
			item := historyEntryResponse{
				OrderID:           e.ID,
				PatientID:         e.PatientID,
				PatientName:       e.Patient.Name,
				SubmittedAt:       e.SubmittedAt,
				Note:              e.Note,
				PrescriptionCount: len(e.Prescriptions),
				Patient: historyPatient{
					ID:        e.Patient.ID,
					Name:      e.Patient.Name,
					Sex:       e.Patient.Sex,
					BirthDate: e.Patient.BirthDate,
				},
				Prescriptions: make([]prescriptionResponse, 0, len(e.Prescriptions)),
			}
			if e.Measurement != nil {
				item.Measurement = &historyMeasurement{
					WeightKg:       e.Measurement.WeightKg,
					HeightCm:       e.Measurement.HeightCm,
					SerumCr:        e.Measurement.SerumCr,
					BSA:            e.Measurement.BSA,
					EGFR:           e.Measurement.EGFR,
					CrCl:           e.Measurement.CrCl,
					CrClNormalized: e.Measurement.CrClNormalized,
					OnDialysis:     e.Measurement.OnDialysis,
					MeasuredAt:     e.Measurement.MeasuredAt,
				}
			}
			for _, p := range e.Prescriptions {
				item.Prescriptions = append(item.Prescriptions, toPrescriptionResponse(p))
			}
			out = append(out, item)
		}

		writeJSON(w, http.StatusOK, map[string][]historyEntryResponse{"history": out})
	}
}

// getOrderHandler godoc
// @Summary Orden por ID con sus prescripciones auditadas
// @Tags orders
// @Produce json
// @Param orderID path string true "ID de la orden"
// @Success 200 {object} orders.orderResponse
// @Failure 404 {string} string "order not found"
// @Router /orders/{orderID} [get]
func getOrderHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireUser(w, r) {
			return
		}

		d, err := svc.GetOrder(r.Context(), chi.URLParam(r, "orderID"))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "order not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toOrderResponse(d))
	}
}

// listPatientOrdersHandler godoc
// @Summary Órdenes de un paciente
// @Tags orders
// @Produce json
// @Param patientID path string true "ID del paciente"
// @Success 200 {array} orders.orderResponse
// @Failure 401 {string} string "unauthorized"
// @Router /patients/{patientID}/orders [get]
func listPatientOrdersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireUser(w, r) {
			return
		}

		items, err := svc.ListByPatient(r.Context(), chi.URLParam(r, "patientID"))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]orderResponse, 0, len(items))
		for _, d := range items {
			out = append(out, toOrderResponse(d))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos
// módulos; es trivial y evita un paquete "httputil" compartido.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
