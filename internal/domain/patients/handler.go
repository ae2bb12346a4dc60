package patients

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"renal-prescription-audit/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/patients", func(pr chi.Router) {
		pr.Get("/", listPatientsHandler(svc))
		pr.Post("/", createPatientHandler(svc))

		pr.Post("/with-resident", createWithResidentHandler(svc))
		pr.Post("/with-measurement", createWithMeasurementHandler(svc))
		pr.Post("/with-measurement-direct", createWithMeasurementDirectHandler(svc))

		// Rutas concretas antes que /{patientID}
		pr.Get("/search/resident/{residentNumber}", searchByResidentHandler(svc))
		pr.Get("/search/info", searchByInfoHandler(svc))
		pr.Get("/check-duplicate", checkDuplicateHandler(svc))

		pr.Get("/{patientID}", getPatientHandler(svc))
		pr.Post("/{patientID}/measurements", addMeasurementHandler(svc))
		pr.Get("/{patientID}/measurements", listMeasurementsHandler(svc))
	})
}

type createPatientRequest struct {
	Name      string `json:"name"`
	Sex       string `json:"sex"`        // M / F
	BirthDate string `json:"birth_date"` // YYYY-MM-DD
}

type createWithResidentRequest struct {
	Name           string `json:"name"`
	ResidentNumber string `json:"resident_number"`
}

type measurementRequest struct {
	WeightKg       float64 `json:"weight_kg"`
	HeightCm       float64 `json:"height_cm"`
	SerumCr        float64 `json:"scr_mg_dl"`
	EGFR           float64 `json:"egfr"`
	CrCl           float64 `json:"crcl"`
	CrClNormalized float64 `json:"crcl_normalized"`
	BSA            float64 `json:"bsa"`
	OnDialysis     bool    `json:"is_hd"`
}

type createWithMeasurementRequest struct {
	Name           string             `json:"name"`
	ResidentNumber string             `json:"resident_number"`
	Measurement    measurementRequest `json:"measurement"`
}

type createWithMeasurementDirectRequest struct {
	createPatientRequest
	measurementRequest
}

type patientResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Sex       Sex       `json:"sex"`
	BirthDate string    `json:"birth_date"`
	CreatedAt time.Time `json:"created_at"`
}

type measurementResponse struct {
	ID             string    `json:"id"`
	WeightKg       float64   `json:"weight_kg"`
	HeightCm       float64   `json:"height_cm"`
	SerumCr        float64   `json:"scr_mg_dl"`
	EGFR           float64   `json:"egfr"`
	CrCl           float64   `json:"crcl"`
	CrClNormalized float64   `json:"crcl_normalized"`
	BSA            float64   `json:"bsa"`
	OnDialysis     bool      `json:"is_hd"`
	MeasuredAt     time.Time `json:"measured_at"`
	CreatedAt      time.Time `json:"created_at"`
}

type patientInfoResponse struct {
	patientResponse
	LatestMeasurement *measurementResponse `json:"latest_measurement"`
}

type searchResponse struct {
	Found   bool                 `json:"found"`
	Patient *patientInfoResponse `json:"patient"`
	Message string               `json:"message"`
}

type createWithMeasurementResponse struct {
	Patient     patientResponse     `json:"patient"`
	Measurement measurementResponse `json:"measurement"`
	Message     string              `json:"message"`
}

func toPatientResponse(p Patient) patientResponse {
	return patientResponse{
		ID:        p.ID,
		Name:      p.Name,
		Sex:       p.Sex,
		BirthDate: p.BirthDate,
		CreatedAt: p.CreatedAt,
	}
}

func toMeasurementResponse(m Measurement) measurementResponse {
	return measurementResponse{
		ID:             m.ID,
		WeightKg:       m.WeightKg,
		HeightCm:       m.HeightCm,
		SerumCr:        m.SerumCr,
		EGFR:           m.EGFR,
		CrCl:           m.CrCl,
		CrClNormalized: m.CrClNormalized,
		BSA:            m.BSA,
		OnDialysis:     m.OnDialysis,
		MeasuredAt:     m.MeasuredAt,
		CreatedAt:      m.CreatedAt,
	}
}

func toInfoResponse(info Info) patientInfoResponse {
	out := patientInfoResponse{patientResponse: toPatientResponse(info.Patient)}
	if info.Latest != nil {
		m := toMeasurementResponse(*info.Latest)
		out.LatestMeasurement = &m
	}
	return out
}

func (in measurementRequest) toInput() MeasurementInput {
	return MeasurementInput{
		WeightKg:       in.WeightKg,
		HeightCm:       in.HeightCm,
		SerumCr:        in.SerumCr,
		EGFR:           in.EGFR,
		CrCl:           in.CrCl,
		CrClNormalized: in.CrClNormalized,
		BSA:            in.BSA,
		OnDialysis:     in.OnDialysis,
	}
}

func requireUser(w http.ResponseWriter, r *http.Request) bool {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return false
	}
	return true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, "patient not found", http.StatusNotFound)
	case errors.Is(err, ErrDuplicate):
		http.Error(w, "patient already exists", http.StatusBadRequest)
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// listPatientsHandler godoc
// @Summary Listar pacientes con su última medición
// @Tags patients
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param skip query int false "Offset de paginación"
// @Param limit query int false "Máximo de filas (default 20)"
// @Success 200 {array} patients.patientInfoResponse
// @Failure 401 {string} string "unauthorized"
// @Router /patients [get]
func listPatientsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireUser(w, r) {
			return
		}

		skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		items, err := svc.List(r.Context(), skip, limit)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]patientInfoResponse, 0, len(items))
		for _, info := range items {
			out = append(out, toInfoResponse(info))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// createPatientHandler godoc
// @Summary Alta de paciente con datos demográficos explícitos
// @Tags patients
// @Accept json
// @Produce json
// @Param payload body patients.createPatientRequest true "Nombre, sexo (M/F) y fecha de nacimiento YYYY-MM-DD"
// @Success 201 {object} patients.patientResponse
// @Failure 400 {string} string "invalid json / identidad duplicada"
// @Router /patients [post]
func createPatientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireUser(w, r) {
			return
		}

		var req createPatientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.Create(r.Context(), CreateInput(req))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toPatientResponse(p))
	}
}

// createWithResidentHandler godoc
// @Summary Alta de paciente desde número de registro civil
// @Description Deriva sexo y fecha de nacimiento del número; el número en sí no se persiste.
// @Tags patients
// @Accept json
// @Produce json
// @Param payload body patients.createWithResidentRequest true "Nombre y número de registro civil"
// @Success 201 {object} patients.patientResponse
// @Failure 400 {string} string "número inválido / identidad duplicada"
// @Router /patients/with-resident [post]
func createWithResidentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireUser(w, r) {
			return
		}

		var req createWithResidentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.CreateFromResidentNumber(r.Context(), req.Name, req.ResidentNumber)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toPatientResponse(p))
	}
}

// createWithMeasurementHandler godoc
// @Summary Alta de paciente y primera medición en un paso
// @Tags patients
// @Accept json
// @Produce json
// @Param payload body patients.createWithMeasurementRequest true "Identidad verificada + medición inicial"
// @Success 201 {object} patients.createWithMeasurementResponse
// @Failure 400 {string} string "número inválido / identidad duplicada"
// @Router /patients/with-measurement [post]
func createWithMeasurementHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireUser(w, r) {
			return
		}

		var req createWithMeasurementRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, m, err := svc.CreateWithMeasurement(r.Context(), req.Name, req.ResidentNumber, req.Measurement.toInput())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, createWithMeasurementResponse{
			Patient:     toPatientResponse(p),
			Measurement: toMeasurementResponse(m),
			Message:     "patient and measurement registered",
		})
	}
}

// createWithMeasurementDirectHandler godoc
// @Summary Alta directa (sin número de registro civil) con medición
// @Tags patients
// @Accept json
// @Produce json
// @Param payload body patients.createWithMeasurementDirectRequest true "Datos demográficos + medición"
// @Success 201 {object} patients.createWithMeasurementResponse
// @Failure 400 {string} string "datos inválidos / identidad duplicada"
// @Router /patients/with-measurement-direct [post]
func createWithMeasurementDirectHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireUser(w, r) {
			return
		}

		var req createWithMeasurementDirectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, m, err := svc.CreateWithMeasurementDirect(r.Context(),
			CreateInput(req.createPatientRequest), req.measurementRequest.toInput())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, createWithMeasurementResponse{
			Patient:     toPatientResponse(p),
			Measurement: toMeasurementResponse(m),
			Message:     "patient and measurement registered",
		})
	}
}

// searchByResidentHandler godoc
// @Summary Buscar paciente por número de registro civil
// @Description Nunca responde 404: found=false con mensaje. Un número con formato inválido también vuelve como found=false.
// @Tags patients
// @Produce json
// @Param residentNumber path string true "Número de registro civil"
// @Success 200 {object} patients.searchResponse
// @Router /patients/search/resident/{residentNumber} [get]
func searchByResidentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireUser(w, r) {
			return
		}

		info, err := svc.SearchByResidentNumber(r.Context(), chi.URLParam(r, "residentNumber"))
		if err != nil {
			msg := "patient not found"
			if errors.Is(err, ErrInvalidInput) {
				msg = err.Error()
			}
			writeJSON(w, http.StatusOK, searchResponse{Found: false, Message: msg})
			return
		}

		resp := toInfoResponse(info)
		writeJSON(w, http.StatusOK, searchResponse{Found: true, Patient: &resp, Message: "patient found"})
	}
}

// searchByInfoHandler godoc
// @Summary Buscar paciente por nombre, fecha de nacimiento y sexo
// @Tags patients
// @Produce json
// @Param name query string true "Nombre"
// @Param birth_date query string true "YYYY-MM-DD"
// @Param sex query string true "M o F"
// @Success 200 {object} patients.searchResponse
// @Router /patients/search/info [get]
func searchByInfoHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireUser(w, r) {
			return
		}

		q := r.URL.Query()
		info, err := svc.SearchByIdentity(r.Context(), q.Get("name"), q.Get("sex"), q.Get("birth_date"))
		if err != nil {
			writeJSON(w, http.StatusOK, searchResponse{Found: false, Message: "patient not found"})
			return
		}

		resp := toInfoResponse(info)
		writeJSON(w, http.StatusOK, searchResponse{Found: true, Patient: &resp, Message: "patient found"})
	}
}

// checkDuplicateHandler godoc
// @Summary Chequear si una identidad ya está registrada
// @Tags patients
// @Produce json
// @Param name query string true "Nombre"
// @Param birth_date query string true "YYYY-MM-DD"
// @Param sex query string true "M o F"
// @Success 200 {object} map[string]any
// @Router /patients/check-duplicate [get]
func checkDuplicateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireUser(w, r) {
			return
		}

		q := r.URL.Query()
		info, err := svc.SearchByIdentity(r.Context(), q.Get("name"), q.Get("sex"), q.Get("birth_date"))
		if err != nil {
			writeJSON(w, http.StatusOK, map[string]any{
				"is_duplicate": false,
				"message":      "identity available",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"is_duplicate": true,
			"message":      "patient already registered",
			"patient_id":   info.ID,
			"patient_name": info.Name,
		})
	}
}

// getPatientHandler godoc
// @Summary Paciente por ID con su última medición
// @Tags patients
// @Produce json
// @Param patientID path string true "ID del paciente"
// @Success 200 {object} patients.patientInfoResponse
// @Failure 404 {string} string "patient not found"
// @Router /patients/{patientID} [get]
func getPatientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireUser(w, r) {
			return
		}

		info, err := svc.GetInfo(r.Context(), chi.URLParam(r, "patientID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toInfoResponse(info))
	}
}

// addMeasurementHandler godoc
// @Summary Registrar una medición de un paciente
// @Tags patients
// @Accept json
// @Produce json
// @Param patientID path string true "ID del paciente"
// @Param payload body patients.measurementRequest true "Medición"
// @Success 201 {object} patients.measurementResponse
// @Failure 404 {string} string "patient not found"
// @Router /patients/{patientID}/measurements [post]
func addMeasurementHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireUser(w, r) {
			return
		}

		var req measurementRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		m, err := svc.AddMeasurement(r.Context(), chi.URLParam(r, "patientID"), req.toInput())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toMeasurementResponse(m))
	}
}

// listMeasurementsHandler godoc
// @Summary Historial de mediciones de un paciente
// @Tags patients
// @Produce json
// @Param patientID path string true "ID del paciente"
// @Success 200 {array} patients.measurementResponse
// @Failure 404 {string} string "patient not found"
// @Router /patients/{patientID}/measurements [get]
func listMeasurementsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireUser(w, r) {
			return
		}

		items, err := svc.ListMeasurements(r.Context(), chi.URLParam(r, "patientID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}

		out := make([]measurementResponse, 0, len(items))
		for _, m := range items {
			out = append(out, toMeasurementResponse(m))
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
