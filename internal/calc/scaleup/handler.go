package scaleup

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"RMGScale/internal/input"
)

// MaxBody bounds the JSON body of a single calculation request.
const MaxBody = 64 << 10

// Recorder observes calculations. A nil Recorder is ignored.
type Recorder interface {
	ObserveCalculation(operation, method string, err error)
}

type DurationInput struct {
	Method    Method  `json:"method"`
	DSmallMM  float64 `json:"d_small_mm"`
	NSmallRPM float64 `json:"n_small_rpm"`
	TSmallS   float64 `json:"t_small_s"`
	DLargeMM  float64 `json:"d_large_mm"`
	NLargeRPM float64 `json:"n_large_rpm"`
}

type DurationResult struct {
	Method      Method  `json:"method"`
	DurationMin float64 `json:"duration_min"`
	DurationS   float64 `json:"duration_s"`
	Notes       string  `json:"notes"`
}

type SpeedInput struct {
	Method    Method  `json:"method"`
	DSmallMM  float64 `json:"d_small_mm"`
	NSmallRPM float64 `json:"n_small_rpm"`
	TSmallS   float64 `json:"t_small_s"`
	DLargeMM  float64 `json:"d_large_mm"`
	TLargeS   float64 `json:"t_large_s"`
}

type SpeedResult struct {
	Method   Method  `json:"method"`
	SpeedRPM float64 `json:"speed_rpm"`
	Notes    string  `json:"notes"`
}

func (in DurationInput) values() map[string]float64 {
	return map[string]float64{
		input.NameDSmall: in.DSmallMM,
		input.NameNSmall: in.NSmallRPM,
		input.NameTSmall: in.TSmallS,
		input.NameDLarge: in.DLargeMM,
		input.NameNLarge: in.NLargeRPM,
	}
}

func (in SpeedInput) values() map[string]float64 {
	return map[string]float64{
		input.NameDSmall: in.DSmallMM,
		input.NameNSmall: in.NSmallRPM,
		input.NameTSmall: in.TSmallS,
		input.NameDLarge: in.DLargeMM,
		input.NameTLarge: in.TLargeS,
	}
}

// Handler serves the calculator over JSON. When Mode is set, request values
// are checked against the input field bounds before the calculation runs.
type Handler struct {
	Recorder Recorder
	Mode     input.Mode
}

func (h *Handler) Duration(w http.ResponseWriter, r *http.Request) {
	var in DurationInput
	if !DecodeJSON(w, r, MaxBody, &in) {
		return
	}
	if err := h.validate(input.DurationFields(), in.values()); err != nil {
		WriteError(w, r, err)
		return
	}
	minutes, err := TargetDuration(in.Method,
		MixerState{DiameterMM: in.DSmallMM, SpeedRPM: in.NSmallRPM, DurationSec: in.TSmallS},
		ImpellerGeometry{DiameterMM: in.DLargeMM}, in.NLargeRPM)
	h.observe(string(QuantityDuration), in.Method, err)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DurationResult{
		Method:      in.Method,
		DurationMin: minutes,
		DurationS:   MinutesToSeconds(minutes),
		Notes:       "Large scale granulation time; duration_min is canonical.",
	})
}

func (h *Handler) Speed(w http.ResponseWriter, r *http.Request) {
	var in SpeedInput
	if !DecodeJSON(w, r, MaxBody, &in) {
		return
	}
	if err := h.validate(input.SpeedFields(), in.values()); err != nil {
		WriteError(w, r, err)
		return
	}
	rpm, err := TargetSpeed(in.Method,
		MixerState{DiameterMM: in.DSmallMM, SpeedRPM: in.NSmallRPM, DurationSec: in.TSmallS},
		ImpellerGeometry{DiameterMM: in.DLargeMM}, in.TLargeS)
	h.observe(string(QuantitySpeed), in.Method, err)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SpeedResult{
		Method:   in.Method,
		SpeedRPM: rpm,
		Notes:    "Required large scale impeller speed.",
	})
}

func (h *Handler) Solve(w http.ResponseWriter, r *http.Request) {
	var req Request
	if !DecodeJSON(w, r, MaxBody, &req) {
		return
	}
	if err := ValidateRequest(h.Mode, req); err != nil {
		WriteError(w, r, err)
		return
	}
	res, err := Solve(req)
	h.observe(string(req.Solve), req.Method, err)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) Methods(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Methods())
}

func (h *Handler) Fields(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]input.Field{
		string(QuantityDuration): input.DurationFields(),
		string(QuantitySpeed):    input.SpeedFields(),
	})
}

func (h *Handler) validate(fields []input.Field, values map[string]float64) error {
	if h.Mode == "" {
		return nil
	}
	return input.Validate(h.Mode, fields, values)
}

func (h *Handler) observe(op string, m Method, err error) {
	if h.Recorder != nil {
		h.Recorder.ObserveCalculation(op, string(m), err)
	}
}

// StatusFor maps calculator and input errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrInvalidMethod), errors.Is(err, ErrUnknownQuantity):
		return http.StatusBadRequest
	case errors.Is(err, ErrDomain), errors.Is(err, input.ErrOutOfRange):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// WriteError writes err with the status from StatusFor and logs it on the
// request's logger.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	zerolog.Ctx(r.Context()).Debug().Err(err).Int("status", status).Msg("calculation rejected")
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "Calculation error"
	}
	http.Error(w, msg, status)
}

// DecodeJSON decodes at most limit bytes of the request body into v. On
// failure it writes 413 or 400 and returns false.
func DecodeJSON(w http.ResponseWriter, r *http.Request, limit int64, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return false
		}
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
