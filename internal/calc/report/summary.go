package report

import (
	scaleup "RMGScale/internal/calc/scaleup"
)

// Scale is one side of a solved scale-up.
type Scale struct {
	State        scaleup.MixerState `json:"state" yaml:"state"`
	TipSpeedMPS  float64            `json:"tip_speed_mps" yaml:"tip_speed_mps"`
	TipDistanceM float64            `json:"tip_distance_m" yaml:"tip_distance_m"`
}

// Summary is a solved request with both operating points filled in.
type Summary struct {
	Request scaleup.Request `json:"request" yaml:"request"`
	Result  scaleup.Result  `json:"result" yaml:"result"`
	Small   Scale           `json:"small" yaml:"small"`
	Large   Scale           `json:"large" yaml:"large"`
}

// Summarize solves req and derives the large-scale operating point. Result
// carries the rounded value; Large is built from the unrounded one.
func Summarize(req scaleup.Request) (Summary, error) {
	res, err := scaleup.Solve(req)
	if err != nil {
		return Summary{}, err
	}
	large, err := scaleup.TargetState(req)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Request: req,
		Result:  res,
		Small:   newScale(req.Source),
		Large:   newScale(large),
	}, nil
}

func newScale(s scaleup.MixerState) Scale {
	return Scale{
		State:        s,
		TipSpeedMPS:  scaleup.TipSpeedMPS(s.DiameterMM, s.SpeedRPM),
		TipDistanceM: scaleup.TipDistanceM(s),
	}
}
