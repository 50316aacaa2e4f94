package report

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	scaleup "RMGScale/internal/calc/scaleup"
	"RMGScale/internal/input"
)

func durationRequest() scaleup.Request {
	return scaleup.Request{
		Method:         scaleup.TipSpeed,
		Solve:          scaleup.QuantityDuration,
		Source:         scaleup.MixerState{DiameterMM: 200, SpeedRPM: 100, DurationSec: 180},
		Target:         scaleup.ImpellerGeometry{DiameterMM: 600},
		TargetSpeedRPM: 50,
	}
}

func TestSummarize(t *testing.T) {
	sum, err := Summarize(durationRequest())
	require.NoError(t, err)
	assert.Equal(t, 2.0, sum.Result.Value)
	assert.Equal(t, scaleup.MixerState{DiameterMM: 600, SpeedRPM: 50, DurationSec: 120}, sum.Large.State)
	assert.InDelta(t, sum.Small.TipDistanceM, sum.Large.TipDistanceM, 1e-9)
	assert.Greater(t, sum.Large.TipSpeedMPS, sum.Small.TipSpeedMPS)

	req := durationRequest()
	req.Solve = scaleup.QuantitySpeed
	req.TargetSpeedRPM = 0
	req.TargetDurationSec = 120
	sum, err = Summarize(req)
	require.NoError(t, err)
	assert.Equal(t, 50.0, sum.Large.State.SpeedRPM)
	assert.Equal(t, 120.0, sum.Large.State.DurationSec)
}

func TestSummarize_LargeStateUnrounded(t *testing.T) {
	tests := []struct {
		name      string
		req       scaleup.Request
		wantValue float64
	}{
		{"duration", scaleup.Request{
			Method: scaleup.TipSpeed, Solve: scaleup.QuantityDuration,
			Source: scaleup.MixerState{DiameterMM: 250, SpeedRPM: 300, DurationSec: 240},
			Target: scaleup.ImpellerGeometry{DiameterMM: 800}, TargetSpeedRPM: 90,
		}, 4.17},
		{"speed", scaleup.Request{
			Method: scaleup.TipDistance, Solve: scaleup.QuantitySpeed,
			Source: scaleup.MixerState{DiameterMM: 37, SpeedRPM: 100, DurationSec: 180},
			Target: scaleup.ImpellerGeometry{DiameterMM: 600}, TargetDurationSec: 400,
		}, 2.77},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sum, err := Summarize(tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantValue, sum.Result.Value)
			assert.InEpsilon(t, sum.Small.TipDistanceM, sum.Large.TipDistanceM, 1e-12)
		})
	}

	sum, err := Summarize(tests[0].req)
	require.NoError(t, err)
	assert.InDelta(t, 250.0, sum.Large.State.DurationSec, 1e-9)
}

func TestHeadline(t *testing.T) {
	assert.Equal(t, "Scaled granulation time (large scale): 2 min (120 s)",
		Headline(scaleup.Result{Solve: scaleup.QuantityDuration, Value: 2, Unit: scaleup.UnitMinutes}))
	assert.Equal(t, "Required large scale impeller speed: 52.5 rpm",
		Headline(scaleup.Result{Solve: scaleup.QuantitySpeed, Value: 52.5, Unit: scaleup.UnitRPM}))
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, Input{
		Project: "Line 3",
		Author:  "QA",
		Notes:   "Granulation endpoint confirmed on pilot scale.",
		Date:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Request: durationRequest(),
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestRender_SolveErrorWritesNothing(t *testing.T) {
	req := durationRequest()
	req.Method = "Froude"
	var buf bytes.Buffer
	err := Render(&buf, Input{Request: req})
	assert.ErrorIs(t, err, scaleup.ErrInvalidMethod)
	assert.Zero(t, buf.Len())
}

func TestHandler_Generate(t *testing.T) {
	h := &Handler{}
	body := `{"project":"Line 3","request":{"method":"Tip Distance (Total Exposure Matching)","solve":"speed",` +
		`"source":{"diameter_mm":200,"speed_rpm":100,"duration_s":180},"target":{"diameter_mm":600},"target_duration_s":120}}`
	rec := httptest.NewRecorder()
	h.Generate(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))
}

func TestHandler_Generate_RangeMode(t *testing.T) {
	body := `{"request":{"method":"Tip Speed (Shear Matching)","solve":"duration",` +
		`"source":{"diameter_mm":200,"speed_rpm":100,"duration_s":180},"target":{"diameter_mm":5000},"target_speed_rpm":50}}`

	rec := httptest.NewRecorder()
	(&Handler{Mode: input.ModeRange}).Generate(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), input.NameDLarge)

	rec = httptest.NewRecorder()
	(&Handler{Mode: input.ModeDirect}).Generate(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestHandler_Generate_OversizedBody(t *testing.T) {
	body := `{"project":"` + strings.Repeat("x", scaleup.MaxBody) + `"}`
	rec := httptest.NewRecorder()
	(&Handler{}).Generate(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestHandler_Generate_Errors(t *testing.T) {
	h := &Handler{}
	rec := httptest.NewRecorder()
	h.Generate(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.Generate(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(
		`{"request":{"method":"Tip Speed (Shear Matching)","solve":"duration","source":{"diameter_mm":200,"speed_rpm":100,"duration_s":180},"target":{"diameter_mm":0},"target_speed_rpm":50}}`)))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.NotEqual(t, "application/pdf", rec.Header().Get("Content-Type"))
}
