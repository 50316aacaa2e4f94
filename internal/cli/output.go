package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	report "RMGScale/internal/calc/report"
	scaleup "RMGScale/internal/calc/scaleup"
	"RMGScale/internal/config"
)

const (
	unitMinutes = "min"
	unitSeconds = "s"
)

// texter is implemented by outputs with a human-readable form.
type texter interface {
	text(w io.Writer) error
}

type calcOutput struct {
	Method scaleup.Method   `json:"method" yaml:"method"`
	Solve  scaleup.Quantity `json:"solve" yaml:"solve"`
	Value  float64          `json:"value" yaml:"value"`
	Unit   string           `json:"unit" yaml:"unit"`
	Small  report.Scale     `json:"small" yaml:"small"`
	Large  report.Scale     `json:"large" yaml:"large"`
}

func newCalcOutput(sum report.Summary, unit string) calcOutput {
	out := calcOutput{
		Method: sum.Result.Method,
		Solve:  sum.Result.Solve,
		Value:  sum.Result.Value,
		Unit:   string(sum.Result.Unit),
		Small:  sum.Small,
		Large:  sum.Large,
	}
	if secs, ok := sum.Result.Seconds(); ok && unit == unitSeconds {
		out.Value = secs
		out.Unit = unitSeconds
	}
	return out
}

func (o calcOutput) text(w io.Writer) error {
	label := "Large Scale Impeller Speed"
	if o.Solve == scaleup.QuantityDuration {
		label = "Large Scale Granulation Time"
	}
	_, err := fmt.Fprintf(w, "Method       : %s\n"+
		"Small scale  : %s\n"+
		"Large scale  : %s\n"+
		"%s: %s %s\n",
		o.Method, scaleLine(o.Small), scaleLine(o.Large), label, num(o.Value), o.Unit)
	return err
}

func scaleLine(s report.Scale) string {
	return fmt.Sprintf("D=%s mm  N=%s rpm  t=%s s  tip speed=%s m/s  tip distance=%s m",
		num(s.State.DiameterMM), num(s.State.SpeedRPM), num(s.State.DurationSec),
		num(s.TipSpeedMPS), num(s.TipDistanceM))
}

func num(v float64) string {
	return humanize.FtoaWithDigits(v, 2)
}

func (a *app) print(w io.Writer, v any) error {
	switch a.cfg.Output {
	case config.OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case config.OutputYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}
	if t, ok := v.(texter); ok {
		return t.text(w)
	}
	_, err := fmt.Fprintf(w, "%v\n", v)
	return err
}
