// Package scaleup computes rotary mixer granulator scale-up parameters.
//
// Given the operating point of a small mixer (impeller diameter, impeller
// speed, granulation time) it predicts either the granulation time of a larger
// mixer at a given speed, or the speed the larger mixer needs for a given
// time, holding one similarity criterion constant between the two scales.
//
// Inputs are millimetres, RPM and seconds. TargetDuration returns minutes and
// TargetSpeed returns RPM, both rounded to two decimal places. Use
// MinutesToSeconds to present a duration in seconds.
//
// The functions in this package are pure and safe for concurrent use.
package scaleup

import (
	"math"
	"strconv"
)

// Method selects the physical quantity held equal across scales.
type Method string

const (
	// TipSpeed matches impeller tip velocity (shear), V = π·D·N.
	TipSpeed Method = "Tip Speed (Shear Matching)"
	// TipDistance matches the total distance travelled by the impeller tip.
	TipDistance Method = "Tip Distance (Total Exposure Matching)"
)

// Methods returns the recognised methods in display order.
func Methods() []Method {
	return []Method{TipSpeed, TipDistance}
}

// Valid reports whether m is TipSpeed or TipDistance.
func (m Method) Valid() bool {
	return m == TipSpeed || m == TipDistance
}

// ParseMethod accepts exactly the two method literals.
func ParseMethod(s string) (Method, error) {
	m := Method(s)
	if !m.Valid() {
		return "", invalidMethod(m)
	}
	return m, nil
}

var shorthands = map[string]Method{
	"tip-speed":    TipSpeed,
	"tip-distance": TipDistance,
}

// LookupMethod accepts a method literal or one of the command-line
// shorthands "tip-speed" and "tip-distance".
func LookupMethod(s string) (Method, error) {
	if m, ok := shorthands[s]; ok {
		return m, nil
	}
	return ParseMethod(s)
}

// ImpellerGeometry describes the target mixer's impeller.
type ImpellerGeometry struct {
	DiameterMM float64 `json:"diameter_mm" yaml:"diameter_mm"`
}

// MixerState is one mixer's fully known operating point.
type MixerState struct {
	DiameterMM  float64 `json:"diameter_mm" yaml:"diameter_mm"`
	SpeedRPM    float64 `json:"speed_rpm" yaml:"speed_rpm"`
	DurationSec float64 `json:"duration_s" yaml:"duration_s"`
}

// resultDecimals is the precision of every returned value.
const resultDecimals = 2

// TargetDuration returns the granulation time, in minutes, the target mixer
// needs at targetSpeedRPM to preserve method's similarity criterion.
func TargetDuration(method Method, source MixerState, target ImpellerGeometry, targetSpeedRPM float64) (float64, error) {
	if !method.Valid() {
		return 0, invalidMethod(method)
	}
	if err := source.validate("source"); err != nil {
		return 0, err
	}
	if err := positive("target.diameter_mm", target.DiameterMM); err != nil {
		return 0, err
	}
	if err := positive("target.speed_rpm", targetSpeedRPM); err != nil {
		return 0, err
	}
	return finish(durationMinutes(method, source, target, targetSpeedRPM))
}

// TargetSpeed returns the impeller speed, in RPM, the target mixer needs to
// preserve method's similarity criterion within targetDurationSec.
func TargetSpeed(method Method, source MixerState, target ImpellerGeometry, targetDurationSec float64) (float64, error) {
	if !method.Valid() {
		return 0, invalidMethod(method)
	}
	if err := source.validate("source"); err != nil {
		return 0, err
	}
	if err := positive("target.diameter_mm", target.DiameterMM); err != nil {
		return 0, err
	}
	if err := positive("target.duration_s", targetDurationSec); err != nil {
		return 0, err
	}
	return finish(speedRPM(method, source, target, targetDurationSec))
}

// durationMinutes solves the similarity law for the large-scale time.
// The Tip Speed branch keeps π on both sides so results stay bit-identical
// with the historical formula.
func durationMinutes(method Method, source MixerState, target ImpellerGeometry, nLarge float64) float64 {
	dSmall := MillimetersToMeters(source.DiameterMM)
	dLarge := MillimetersToMeters(target.DiameterMM)
	tSmall := SecondsToMinutes(source.DurationSec)

	if method == TipSpeed {
		vSmall := math.Pi * dSmall * source.SpeedRPM
		return (vSmall * tSmall) / (math.Pi * dLarge * nLarge)
	}
	return (dSmall * source.SpeedRPM * tSmall) / (dLarge * nLarge)
}

// speedRPM solves the similarity law for the large-scale speed.
func speedRPM(method Method, source MixerState, target ImpellerGeometry, tLargeSec float64) float64 {
	dSmall := MillimetersToMeters(source.DiameterMM)
	dLarge := MillimetersToMeters(target.DiameterMM)
	tSmall := SecondsToMinutes(source.DurationSec)
	tLarge := SecondsToMinutes(tLargeSec)

	if method == TipSpeed {
		numerator := math.Pi * dSmall * source.SpeedRPM * tSmall
		denominator := math.Pi * dLarge * tLarge
		return numerator / denominator
	}
	numerator := dSmall * source.SpeedRPM * tSmall
	denominator := dLarge * tLarge
	return numerator / denominator
}

func (s MixerState) validate(prefix string) error {
	if err := positive(prefix+".diameter_mm", s.DiameterMM); err != nil {
		return err
	}
	if err := positive(prefix+".speed_rpm", s.SpeedRPM); err != nil {
		return err
	}
	return positive(prefix+".duration_s", s.DurationSec)
}

func positive(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &DomainError{Field: field, Value: v, Reason: "must be finite"}
	}
	if v <= 0 {
		return &DomainError{Field: field, Value: v, Reason: "must be positive"}
	}
	return nil
}

// finish rejects non-finite results and rounds the rest.
func finish(v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &DomainError{Field: "result", Value: v, Reason: "is not a finite number"}
	}
	return round(v), nil
}

// round rounds the exact binary value of v to resultDecimals. Scaling by a
// power of ten first would move values like 2.7749999999999999 onto a tie.
func round(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', resultDecimals, 64), 64)
	if err != nil {
		return v
	}
	return r
}
