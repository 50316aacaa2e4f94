package batch

import (
	"encoding/json"
	"net/http"

	scaleup "RMGScale/internal/calc/scaleup"
	"RMGScale/internal/input"
)

// MaxItems bounds a single JSON batch request.
const MaxItems = 10000

// maxBody bounds the JSON body of a batch request.
const maxBody = 8 << 20

// Handler serves batch calculations. When Mode is set, every item is checked
// against the input field bounds and fails on its own row when out of range.
type Handler struct {
	Recorder scaleup.Recorder
	Mode     input.Mode
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var in Input
	if !scaleup.DecodeJSON(w, r, maxBody, &in) {
		return
	}
	if len(in.Items) > MaxItems {
		http.Error(w, "Too many items", http.StatusRequestEntityTooLarge)
		return
	}
	res, err := CalculateWith(in, h.Mode, h.Recorder)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}
