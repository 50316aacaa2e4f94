package batch

import (
	"errors"

	scaleup "RMGScale/internal/calc/scaleup"
	"RMGScale/internal/input"
)

var ErrNoItems = errors.New("batch: no items")

type Input struct {
	Items []scaleup.Request `json:"items"`
}

// Row is the outcome of one item. Exactly one of Result and Error is set.
type Row struct {
	Index  int             `json:"index" yaml:"index"`
	Result *scaleup.Result `json:"result,omitempty" yaml:"result,omitempty"`
	Error  string          `json:"error,omitempty" yaml:"error,omitempty"`
	err    error
}

// Err returns the item's error, if any.
func (r Row) Err() error { return r.err }

type Output struct {
	Results   []Row `json:"results" yaml:"results"`
	Succeeded int   `json:"succeeded" yaml:"succeeded"`
	Failed    int   `json:"failed" yaml:"failed"`
}

// Calculate solves every item independently. A failing item is recorded in
// its row and does not stop the batch.
func Calculate(in Input) (Output, error) {
	return CalculateWith(in, "", nil)
}

// CalculateWith is Calculate with each item first checked against the input
// bounds for mode, and rec, when set, notified once per item.
func CalculateWith(in Input, mode input.Mode, rec scaleup.Recorder) (Output, error) {
	if len(in.Items) == 0 {
		return Output{}, ErrNoItems
	}
	out := Output{Results: make([]Row, 0, len(in.Items))}
	for i, item := range in.Items {
		row := Row{Index: i}
		var res scaleup.Result
		err := scaleup.ValidateRequest(mode, item)
		if err == nil {
			res, err = scaleup.Solve(item)
		}
		if rec != nil {
			rec.ObserveCalculation(string(item.Solve), string(item.Method), err)
		}
		if err != nil {
			row.Error = err.Error()
			row.err = err
			out.Failed++
		} else {
			row.Result = &res
			out.Succeeded++
		}
		out.Results = append(out.Results, row)
	}
	return out, nil
}
