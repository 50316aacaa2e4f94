package scaleup

import (
	"fmt"

	"RMGScale/internal/input"
)

// Quantity names the unknown target quantity of a Request.
type Quantity string

const (
	QuantityDuration Quantity = "duration"
	QuantitySpeed    Quantity = "speed"
)

// Unit is the unit of a Result value.
type Unit string

const (
	UnitMinutes Unit = "min"
	UnitRPM     Unit = "rpm"
)

// Request is a complete scale-up problem: a known source mixer, the target
// impeller, a method and exactly one unknown. The target quantity that is
// not being solved for must be supplied.
type Request struct {
	Method            Method           `json:"method" yaml:"method"`
	Solve             Quantity         `json:"solve" yaml:"solve"`
	Source            MixerState       `json:"source" yaml:"source"`
	Target            ImpellerGeometry `json:"target" yaml:"target"`
	TargetSpeedRPM    float64          `json:"target_speed_rpm,omitempty" yaml:"target_speed_rpm,omitempty"`
	TargetDurationSec float64          `json:"target_duration_s,omitempty" yaml:"target_duration_s,omitempty"`
}

// Result is the solved target quantity.
type Result struct {
	Method Method   `json:"method" yaml:"method"`
	Solve  Quantity `json:"solve" yaml:"solve"`
	Value  float64  `json:"value" yaml:"value"`
	Unit   Unit     `json:"unit" yaml:"unit"`
}

// Solve dispatches req to TargetDuration or TargetSpeed.
func Solve(req Request) (Result, error) {
	res := Result{Method: req.Method, Solve: req.Solve}
	var err error
	switch req.Solve {
	case QuantityDuration:
		res.Unit = UnitMinutes
		res.Value, err = TargetDuration(req.Method, req.Source, req.Target, req.TargetSpeedRPM)
	case QuantitySpeed:
		res.Unit = UnitRPM
		res.Value, err = TargetSpeed(req.Method, req.Source, req.Target, req.TargetDurationSec)
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownQuantity, string(req.Solve))
	}
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

// TargetState returns the target mixer's full operating point for req. The
// solved quantity is left unrounded so the similarity criterion holds exactly
// between the two states.
func TargetState(req Request) (MixerState, error) {
	if _, err := Solve(req); err != nil {
		return MixerState{}, err
	}
	state := MixerState{DiameterMM: req.Target.DiameterMM}
	switch req.Solve {
	case QuantityDuration:
		state.SpeedRPM = req.TargetSpeedRPM
		state.DurationSec = MinutesToSeconds(durationMinutes(req.Method, req.Source, req.Target, req.TargetSpeedRPM))
	case QuantitySpeed:
		state.SpeedRPM = speedRPM(req.Method, req.Source, req.Target, req.TargetDurationSec)
		state.DurationSec = req.TargetDurationSec
	}
	return state, nil
}

// ValidateRequest checks the request's operating point against the input
// field bounds for mode. An empty mode or an unknown quantity passes; Solve
// reports the latter.
func ValidateRequest(mode input.Mode, req Request) error {
	if mode == "" {
		return nil
	}
	values := map[string]float64{
		input.NameDSmall: req.Source.DiameterMM,
		input.NameNSmall: req.Source.SpeedRPM,
		input.NameTSmall: req.Source.DurationSec,
		input.NameDLarge: req.Target.DiameterMM,
	}
	switch req.Solve {
	case QuantityDuration:
		values[input.NameNLarge] = req.TargetSpeedRPM
		return input.Validate(mode, input.DurationFields(), values)
	case QuantitySpeed:
		values[input.NameTLarge] = req.TargetDurationSec
		return input.Validate(mode, input.SpeedFields(), values)
	}
	return nil
}

// ParseQuantity accepts "duration" or "speed".
func ParseQuantity(s string) (Quantity, error) {
	switch q := Quantity(s); q {
	case QuantityDuration, QuantitySpeed:
		return q, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownQuantity, s)
}

// Seconds returns the result converted to seconds when it is a duration.
func (r Result) Seconds() (float64, bool) {
	if r.Unit != UnitMinutes {
		return 0, false
	}
	return MinutesToSeconds(r.Value), true
}
