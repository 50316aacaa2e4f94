package input

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	m, err := ParseMode(" Range ")
	require.NoError(t, err)
	assert.Equal(t, ModeRange, m)

	m, err = ParseMode("direct")
	require.NoError(t, err)
	assert.Equal(t, ModeDirect, m)

	_, err = ParseMode("slider")
	assert.Error(t, err)
}

func TestField_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mode    Mode
		value   float64
		wantErr bool
	}{
		{"default in range", ModeRange, DSmall.Default, false},
		{"min boundary", ModeRange, DSmall.Min, false},
		{"max boundary", ModeRange, DSmall.Max, false},
		{"below min range", ModeRange, 9.99, true},
		{"below min direct", ModeDirect, 9.99, true},
		{"above max range", ModeRange, DSmall.Max + 1, true},
		{"above max direct", ModeDirect, DSmall.Max + 1, false},
		{"NaN", ModeDirect, math.NaN(), true},
		{"Inf", ModeDirect, math.Inf(1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := DSmall.Validate(tt.mode, tt.value)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrOutOfRange))
				var re *RangeError
				require.True(t, errors.As(err, &re))
				assert.Equal(t, NameDSmall, re.Field)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDefaultsMatchBenchValues(t *testing.T) {
	assert.Equal(t, []float64{200, 100, 180, 600, 50}, defaults(DurationFields()))
	assert.Equal(t, []float64{200, 100, 180, 600, 120}, defaults(SpeedFields()))
}

func TestValidate_JoinsFailures(t *testing.T) {
	err := Validate(ModeRange, DurationFields(), map[string]float64{
		NameDSmall: 5,
		NameNSmall: 100,
		NameNLarge: 5000,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Contains(t, err.Error(), NameDSmall)
	assert.Contains(t, err.Error(), NameNLarge)
	assert.NotContains(t, err.Error(), NameNSmall)

	assert.NoError(t, Validate(ModeDirect, DurationFields(), map[string]float64{NameNLarge: 5000}))
}

func defaults(fs []Field) []float64 {
	out := make([]float64, 0, len(fs))
	for _, f := range fs {
		out = append(out, f.Default)
	}
	return out
}
