package scaleup

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RMGScale/internal/input"
)

type fakeRecorder struct {
	ops  []string
	errs []error
}

func (f *fakeRecorder) ObserveCalculation(op, method string, err error) {
	f.ops = append(f.ops, op+"/"+method)
	f.errs = append(f.errs, err)
}

func post(t *testing.T, fn http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	fn(rec, req)
	return rec
}

func TestHandler_Duration(t *testing.T) {
	fr := &fakeRecorder{}
	h := &Handler{Recorder: fr}
	rec := post(t, h.Duration, `{"method":"Tip Speed (Shear Matching)","d_small_mm":200,"n_small_rpm":100,"t_small_s":180,"d_large_mm":600,"n_large_rpm":50}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var res DurationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 2.0, res.DurationMin)
	assert.Equal(t, 120.0, res.DurationS)
	assert.Equal(t, TipSpeed, res.Method)
	assert.Equal(t, []string{"duration/" + string(TipSpeed)}, fr.ops)
	assert.NoError(t, fr.errs[0])
}

func TestHandler_Speed(t *testing.T) {
	h := &Handler{}
	rec := post(t, h.Speed, `{"method":"Tip Distance (Total Exposure Matching)","d_small_mm":200,"n_small_rpm":100,"t_small_s":180,"d_large_mm":600,"t_large_s":120}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res SpeedResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 50.0, res.SpeedRPM)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name   string
		h      *Handler
		fn     func(h *Handler) http.HandlerFunc
		body   string
		status int
	}{
		{"bad json", &Handler{}, func(h *Handler) http.HandlerFunc { return h.Duration }, `{`, http.StatusBadRequest},
		{"invalid method", &Handler{}, func(h *Handler) http.HandlerFunc { return h.Duration },
			`{"method":"Froude","d_small_mm":200,"n_small_rpm":100,"t_small_s":180,"d_large_mm":600,"n_large_rpm":50}`, http.StatusBadRequest},
		{"zero target speed", &Handler{}, func(h *Handler) http.HandlerFunc { return h.Duration },
			`{"method":"Tip Speed (Shear Matching)","d_small_mm":200,"n_small_rpm":100,"t_small_s":180,"d_large_mm":600,"n_large_rpm":0}`, http.StatusUnprocessableEntity},
		{"zero target duration", &Handler{}, func(h *Handler) http.HandlerFunc { return h.Speed },
			`{"method":"Tip Speed (Shear Matching)","d_small_mm":200,"n_small_rpm":100,"t_small_s":180,"d_large_mm":600,"t_large_s":0}`, http.StatusUnprocessableEntity},
		{"range mode rejects oversize mixer", &Handler{Mode: input.ModeRange}, func(h *Handler) http.HandlerFunc { return h.Speed },
			`{"method":"Tip Speed (Shear Matching)","d_small_mm":200,"n_small_rpm":100,"t_small_s":180,"d_large_mm":5000,"t_large_s":120}`, http.StatusUnprocessableEntity},
		{"unknown quantity", &Handler{}, func(h *Handler) http.HandlerFunc { return h.Solve },
			`{"method":"Tip Speed (Shear Matching)","solve":"torque"}`, http.StatusBadRequest},
		{"unknown quantity in range mode", &Handler{Mode: input.ModeRange}, func(h *Handler) http.HandlerFunc { return h.Solve },
			`{"method":"Tip Speed (Shear Matching)","solve":"torque"}`, http.StatusBadRequest},
		{"range mode solve rejects oversize mixer", &Handler{Mode: input.ModeRange}, func(h *Handler) http.HandlerFunc { return h.Solve },
			`{"method":"Tip Speed (Shear Matching)","solve":"duration","source":{"diameter_mm":200,"speed_rpm":100,"duration_s":180},"target":{"diameter_mm":5000},"target_speed_rpm":50}`, http.StatusUnprocessableEntity},
		{"range mode solve rejects slow target", &Handler{Mode: input.ModeRange}, func(h *Handler) http.HandlerFunc { return h.Solve },
			`{"method":"Tip Speed (Shear Matching)","solve":"speed","source":{"diameter_mm":200,"speed_rpm":100,"duration_s":180},"target":{"diameter_mm":600},"target_duration_s":0.5}`, http.StatusUnprocessableEntity},
		{"oversized body", &Handler{}, func(h *Handler) http.HandlerFunc { return h.Solve },
			`{"method":"` + strings.Repeat("x", MaxBody) + `"}`, http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, tt.fn(tt.h), tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestHandler_DirectModeAllowsOversizeMixer(t *testing.T) {
	h := &Handler{Mode: input.ModeDirect}
	rec := post(t, h.Speed, `{"method":"Tip Speed (Shear Matching)","d_small_mm":200,"n_small_rpm":100,"t_small_s":180,"d_large_mm":5000,"t_large_s":120}`)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestHandler_Solve(t *testing.T) {
	h := &Handler{}
	rec := post(t, h.Solve, `{"method":"Tip Speed (Shear Matching)","solve":"duration","source":{"diameter_mm":200,"speed_rpm":100,"duration_s":180},"target":{"diameter_mm":600},"target_speed_rpm":50}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, Result{Method: TipSpeed, Solve: QuantityDuration, Value: 2, Unit: UnitMinutes}, res)
}

func TestHandler_SolveBoundsByMode(t *testing.T) {
	body := `{"method":"Tip Speed (Shear Matching)","solve":"duration","source":{"diameter_mm":200,"speed_rpm":100,"duration_s":180},"target":{"diameter_mm":5000},"target_speed_rpm":50}`

	fr := &fakeRecorder{}
	rec := post(t, (&Handler{Recorder: fr, Mode: input.ModeRange}).Solve, body)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), input.NameDLarge)
	assert.Empty(t, fr.ops)

	rec = post(t, (&Handler{Mode: input.ModeDirect}).Solve, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 0.24, res.Value)
}

func TestHandler_MethodsAndFields(t *testing.T) {
	h := &Handler{}
	rec := httptest.NewRecorder()
	h.Methods(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	var methods []Method
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &methods))
	assert.Equal(t, Methods(), methods)

	rec = httptest.NewRecorder()
	h.Fields(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	var fields map[string][]input.Field
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fields))
	assert.Len(t, fields["duration"], 5)
	assert.Equal(t, input.TLarge, fields["speed"][4])
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusFor(ErrInvalidMethod))
	assert.Equal(t, http.StatusUnprocessableEntity, StatusFor(&DomainError{Field: "x"}))
	assert.Equal(t, http.StatusUnprocessableEntity, StatusFor(&input.RangeError{Field: "x"}))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(assert.AnError))
}
