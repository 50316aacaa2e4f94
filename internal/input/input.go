// Package input describes the numeric inputs collected by the calculator's
// front ends.
//
// Every value can be entered either through a bounded range control or by
// direct entry. Both produce the same number; the mode only decides whether
// the upper bound applies.
package input

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Mode is how a value was entered.
type Mode string

const (
	// ModeRange values come from a bounded control and must lie in [Min, Max].
	ModeRange Mode = "range"
	// ModeDirect values are typed in and only need to reach Min.
	ModeDirect Mode = "direct"
)

// ParseMode parses "range" or "direct" (case-insensitive).
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeRange, ModeDirect:
		return m, nil
	}
	return "", fmt.Errorf("input: unknown mode %q (want range or direct)", s)
}

// ErrOutOfRange is matched by every *RangeError.
var ErrOutOfRange = errors.New("input: value out of range")

// RangeError reports a value outside its field's bounds.
type RangeError struct {
	Field string
	Value float64
	Min   float64
	Max   float64
	Mode  Mode
}

func (e *RangeError) Error() string {
	if e.Mode == ModeRange {
		return fmt.Sprintf("input: %s = %v outside [%v, %v]", e.Field, e.Value, e.Min, e.Max)
	}
	return fmt.Sprintf("input: %s = %v below minimum %v", e.Field, e.Value, e.Min)
}

func (e *RangeError) Is(target error) bool { return target == ErrOutOfRange }

// Field is one numeric input.
type Field struct {
	Name    string  `json:"name" yaml:"name"`
	Label   string  `json:"label" yaml:"label"`
	Unit    string  `json:"unit" yaml:"unit"`
	Min     float64 `json:"min" yaml:"min"`
	Max     float64 `json:"max" yaml:"max"`
	Default float64 `json:"default" yaml:"default"`
	Step    float64 `json:"step" yaml:"step"`
}

// Validate checks v against the field bounds for the given mode.
func (f Field) Validate(mode Mode, v float64) error {
	bad := math.IsNaN(v) || math.IsInf(v, 0) || v < f.Min
	if mode == ModeRange && v > f.Max {
		bad = true
	}
	if bad {
		return &RangeError{Field: f.Name, Value: v, Min: f.Min, Max: f.Max, Mode: mode}
	}
	return nil
}

// Field names double as JSON keys of the calculator's request bodies.
const (
	NameDSmall = "d_small_mm"
	NameNSmall = "n_small_rpm"
	NameTSmall = "t_small_s"
	NameDLarge = "d_large_mm"
	NameNLarge = "n_large_rpm"
	NameTLarge = "t_large_s"
)

var (
	DSmall = Field{Name: NameDSmall, Label: "Small Scale Impeller Diameter", Unit: "mm", Min: 10, Max: 2000, Default: 200, Step: 1}
	NSmall = Field{Name: NameNSmall, Label: "Small Scale RPM", Unit: "rpm", Min: 10, Max: 1500, Default: 100, Step: 1}
	TSmall = Field{Name: NameTSmall, Label: "Small Scale Granulation Time", Unit: "s", Min: 1, Max: 3600, Default: 180, Step: 1}
	DLarge = Field{Name: NameDLarge, Label: "Large Scale Impeller Diameter", Unit: "mm", Min: 10, Max: 2000, Default: 600, Step: 1}
	NLarge = Field{Name: NameNLarge, Label: "Large Scale RPM", Unit: "rpm", Min: 10, Max: 1500, Default: 50, Step: 1}
	TLarge = Field{Name: NameTLarge, Label: "Large Scale Granulation Time", Unit: "s", Min: 1, Max: 3600, Default: 120, Step: 1}
)

// DurationFields are the inputs of a granulation time scale-up.
func DurationFields() []Field {
	return []Field{DSmall, NSmall, TSmall, DLarge, NLarge}
}

// SpeedFields are the inputs of an impeller speed scale-up.
func SpeedFields() []Field {
	return []Field{DSmall, NSmall, TSmall, DLarge, TLarge}
}

// Validate checks every field present in values and joins the failures.
// Fields missing from values are skipped.
func Validate(mode Mode, fields []Field, values map[string]float64) error {
	var errs []error
	for _, f := range fields {
		v, ok := values[f.Name]
		if !ok {
			continue
		}
		if err := f.Validate(mode, v); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
