package importer

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	batch "RMGScale/internal/calc/batch"
	scaleup "RMGScale/internal/calc/scaleup"
	"RMGScale/internal/input"
)

// maxUpload bounds the multipart body of an import request.
const maxUpload = 10 << 20

// Handler serves workbook imports. Mode applies the input field bounds to
// every case, as for batch requests.
type Handler struct {
	Recorder scaleup.Recorder
	Mode     input.Mode
}

type ImportResult struct {
	Count   int          `json:"count"`
	Skipped []SkippedRow `json:"skipped,omitempty"`
	Output  batch.Output `json:"output"`
}

type SkippedRow struct {
	Row   int    `json:"row" yaml:"row"`
	Error string `json:"error" yaml:"error"`
}

// Upload solves every case of the uploaded workbook (form field "file").
// With ?format=xlsx the response is a result workbook instead of JSON.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	wb, err := Read(file)
	if err != nil {
		if errors.Is(err, ErrEmptySheet) {
			http.Error(w, "Empty sheet", http.StatusBadRequest)
			return
		}
		http.Error(w, "Invalid file", http.StatusBadRequest)
		return
	}
	if len(wb.Cases) == 0 {
		http.Error(w, "No valid rows", http.StatusBadRequest)
		return
	}

	out, err := batch.CalculateWith(batch.Input{Items: wb.Requests()}, h.Mode, h.Recorder)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	zerolog.Ctx(r.Context()).Info().
		Int("cases", len(wb.Cases)).
		Int("skipped", len(wb.Skipped)).
		Int("failed", out.Failed).
		Msg("workbook imported")

	if r.URL.Query().Get("format") == "xlsx" {
		w.Header().Set("Content-Type", ContentType)
		w.Header().Set("Content-Disposition", "attachment; filename=\"scaleup-results.xlsx\"")
		if err := WriteResults(w, wb, out); err != nil {
			http.Error(w, "Workbook generation error", http.StatusInternalServerError)
		}
		return
	}

	res := ImportResult{Count: len(wb.Cases), Output: out}
	for _, s := range wb.Skipped {
		res.Skipped = append(res.Skipped, SkippedRow{Row: s.Row, Error: s.Err.Error()})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

// Template serves an example input workbook.
func (h *Handler) Template(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename=\"scaleup-template.xlsx\"")
	if err := WriteTemplate(w); err != nil {
		http.Error(w, "Workbook generation error", http.StatusInternalServerError)
	}
}
